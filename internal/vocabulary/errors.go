package vocabulary

import "fmt"

// EmptyPrefixError is returned when a blank prefix is submitted.
// No analysis request is issued for it.
type EmptyPrefixError struct{}

func (EmptyPrefixError) Error() string {
	return "prefix must not be empty"
}

// NoMatchError is returned when no known word starts with the prefix.
type NoMatchError struct {
	Prefix string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no words found starting with %q", e.Prefix)
}
