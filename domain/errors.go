package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a referenced board, task or subtask does not
// exist in the store.
var ErrNotFound = errors.New("not found")

// ValidationError rejects a request before any store write happens.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) ValidationError {
	return ValidationError{Msg: fmt.Sprintf(format, args...)}
}
