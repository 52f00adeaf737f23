package http

import (
	"fmt"
	"net/http"
)

// Error codes carried in the response envelope.
const (
	CodeValidation = "ERR_VALIDATION"
	CodeNotFound   = "ERR_NOT_FOUND"
	CodeTooLarge   = "ERR_TOO_LARGE"
	CodeInternal   = "ERR_INTERNAL"
)

// AppError represents application-level error with HTTP status.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
		Status:  status,
	}
}

// WithParam sets a single error param.
func (e *AppError) WithParam(key string, value interface{}) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]interface{})
	}
	e.Params[key] = value
	return e
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// ValidationErr creates a 400 error for a malformed request field.
func ValidationErr(field, message string) *AppError {
	return NewAppError(CodeValidation, field, message, http.StatusBadRequest)
}

// UnprocessableError creates a 422 error for a well-formed request that cannot be served.
func UnprocessableError(code, message string) *AppError {
	return NewAppError(code, "", message, http.StatusUnprocessableEntity)
}

// NotFoundError creates a 404 error.
func NotFoundError(message string) *AppError {
	return NewAppError(CodeNotFound, "", message, http.StatusNotFound)
}

// InternalError creates a 500 error.
func InternalError(message string) *AppError {
	return NewAppError(CodeInternal, "", message, http.StatusInternalServerError)
}

// FromStatus builds an error for a bare status code raised by the router or middleware.
func FromStatus(status int, message string) *AppError {
	code := CodeInternal
	switch {
	case status == http.StatusNotFound || status == http.StatusMethodNotAllowed:
		code = CodeNotFound
	case status == http.StatusRequestEntityTooLarge:
		code = CodeTooLarge
	case status >= 400 && status < 500:
		code = CodeValidation
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return NewAppError(code, "", message, status)
}
