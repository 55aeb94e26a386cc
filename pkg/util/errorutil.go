package util

import (
	"errors"
	"fmt"
	"os"
)

// Error codes used across the booking tool.
const (
	CodeValidation   = "VALIDATION_FAILED"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code     string
	Message  string
	ExitCode int
	Details  map[string]any
	Err      error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, exitCode int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, ExitCode: exitCode, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, 2, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("%s not found", resource),
		ExitCode: 1,
		Details:  details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, 1, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, 1, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, 1, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:     CodeInternal,
		Message:  "internal error",
		ExitCode: 1,
		Err:      err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, os.ErrNotExist) {
		if de, ok := NewNotFound("file", nil).(*DomainError); ok {
			de.Err = err
			return de
		}
	}
	return &DomainError{
		Code:     CodeInternal,
		Message:  "internal error",
		ExitCode: 1,
		Err:      err,
	}
}

// IsCode reports whether err carries the given DomainError code.
func IsCode(err error, code string) bool {
	de := ToDomainError(err)
	return de != nil && de.Code == code
}
