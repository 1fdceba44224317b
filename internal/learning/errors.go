package learning

import "fmt"

// PersistenceError reports a failure to load or save statuses.
// It is logged only and never blocks the in-memory state.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("learning status %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
