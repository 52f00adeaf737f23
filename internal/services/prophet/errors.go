package prophet

import (
	"errors"
	"fmt"
)

// ModelError reports a failure of the model itself, such as unusable history or a singular fit.
type ModelError struct {
	Op  string
	Msg string
	Err error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("prophet %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("prophet %s: %s", e.Op, e.Msg)
}

func (e *ModelError) Unwrap() error { return e.Err }

func newError(op, msg string) *ModelError {
	return &ModelError{Op: op, Msg: msg}
}

var (
	ErrNotFitted     = errors.New("model has not been fitted")
	ErrAlreadyFitted = errors.New("model can only be fitted once")
)
