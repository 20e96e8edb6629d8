package apperror

import (
	"errors"
	"fmt"
)

// Common application errors shared by repositories, services and handlers.
var (
	ErrNoDatabaseConnection = errors.New("database connection required, configure the connection string in Settings")
	ErrDuplicateKey         = errors.New("duplicate key")
	ErrNotFound             = errors.New("record not found")
)

// Kind classifies an error into the categories the presentation layer understands.
type Kind int

const (
	KindNone Kind = iota
	KindNoConnection
	KindDuplicate
	KindValidation
	KindNotFound
	KindIO
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindNoConnection:
		return "no_connection"
	case KindDuplicate:
		return "duplicate"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// ValidationError rejects a single malformed input field before any store access.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation builds a ValidationError for field.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StoreError wraps a config file or document store failure so that the raw
// driver error never crosses into the presentation layer.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s failed", e.Op)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Store wraps err as a StoreError. A nil err stays nil.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// KindOf reports the category of err.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var validationErr *ValidationError
	var storeErr *StoreError

	switch {
	case errors.Is(err, ErrNoDatabaseConnection):
		return KindNoConnection
	case errors.Is(err, ErrDuplicateKey):
		return KindDuplicate
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &storeErr):
		return KindIO
	default:
		return KindUnknown
	}
}
