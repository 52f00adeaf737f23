package models

import "fmt"

// ValidationError reports a malformed request. It maps to HTTP 400.
type ValidationError struct {
	Row     int // 1-based row number, 0 when not tied to a row
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
	return e.Message
}

// ErrEmptyBatch is returned for a request without observations.
var ErrEmptyBatch = &ValidationError{Message: "Missing mandatory fields: at least one observation with 'date' and 'measure' is required"}
