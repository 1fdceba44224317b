package analysis

import "fmt"

// AIResponseError reports a failed analysis request: the call itself failed
// or the reply did not satisfy the response schema.
type AIResponseError struct {
	Prefix string
	Err    error
}

func (e *AIResponseError) Error() string {
	return fmt.Sprintf("AI analysis for prefix %q failed: %v", e.Prefix, e.Err)
}

func (e *AIResponseError) Unwrap() error {
	return e.Err
}

// SchemaError points at the first place a response deviates from the schema.
type SchemaError struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}
