package domain

import (
	"errors"
	"fmt"
)

// Error types for pipeline errors
type ErrorType string

const (
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeExport     ErrorType = "export"
)

// Run-level outcomes. Neither is fatal: callers report them as warnings.
var (
	ErrNoDocuments = errors.New("no documents found")
	ErrNoRecords   = errors.New("no records extracted")
)

// DomainError represents a pipeline error with the document it belongs to, if any.
type DomainError struct {
	Type     ErrorType
	Document string
	Message  string
	Err      error
}

func (e *DomainError) Error() string {
	prefix := fmt.Sprintf("[%s]", e.Type)
	if e.Document != "" {
		prefix = fmt.Sprintf("[%s] %s", e.Type, e.Document)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// DocumentParseFailure reports that loading or extracting a single document failed.
// The batch continues with the next document.
func DocumentParseFailure(document, message string, err error) *DomainError {
	return &DomainError{
		Type:     ErrorTypeParse,
		Document: document,
		Message:  message,
		Err:      err,
	}
}

// Common error constructors
func ValidationError(message string, err error) *DomainError {
	return NewError(ErrorTypeValidation, message, err)
}

func ConfigError(message string, err error) *DomainError {
	return NewError(ErrorTypeConfig, message, err)
}

func IOError(message string, err error) *DomainError {
	return NewError(ErrorTypeIO, message, err)
}

func ExportError(message string, err error) *DomainError {
	return NewError(ErrorTypeExport, message, err)
}

// IsParseFailure reports whether err is a per-document parse failure.
func IsParseFailure(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Type == ErrorTypeParse
}
