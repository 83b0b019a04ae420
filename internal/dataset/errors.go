package dataset

import "fmt"

// SourceReadError indicates the raw input could not be parsed as tabular data at all.
// It is the only failure the engine surfaces to the user; no partial table is returned.
type SourceReadError struct {
	Source string
	Err    error
}

func (e *SourceReadError) Error() string {
	if e == nil {
		return "source read error"
	}
	if e.Source != "" {
		return fmt.Sprintf("read source %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("read source: %v", e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }
