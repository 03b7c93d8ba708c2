package models

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups for evaluations or catalog entities that do not exist.
// Handlers map it to 404.
var ErrNotFound = errors.New("not found")

// ValidationError marks rejected caller input (missing evidence location,
// unknown status value, missing identifiers). Handlers map it to 400.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
