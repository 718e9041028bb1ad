package book

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvalidArgumentError reports caller-supplied data that violates a precondition.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

// NewInvalidArgumentError creates an InvalidArgumentError with the provided message.
func NewInvalidArgumentError(message string) *InvalidArgumentError {
	return &InvalidArgumentError{Message: message}
}

// IsInvalidArgument reports whether err is an InvalidArgumentError (even when wrapped).
func IsInvalidArgument(err error) bool {
	var target *InvalidArgumentError
	return errors.As(err, &target)
}

// NotFoundError reports that a well-formed request referenced a missing book.
type NotFoundError struct {
	Title string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("book with title '%s' not found", e.Title)
}

// NewNotFoundError creates a NotFoundError for the requested title.
func NewNotFoundError(title string) *NotFoundError {
	return &NotFoundError{Title: title}
}

// IsNotFound reports whether err is a NotFoundError (even when wrapped).
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
