package domain

import (
	"errors"
	"fmt"
)

// ErrorKind clasifica los errores que llegan hasta la capa HTTP
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
)

// String devuelve el nombre del tipo de error
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error es un error de negocio con un tipo y un código legible por máquina
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

// Error implementa la interfaz error
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap permite usar errors.Is / errors.As sobre la causa
func (e *Error) Unwrap() error {
	return e.Err
}

// Is compara por tipo y código, así los sentinels funcionan con errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Errores conocidos
var (
	ErrBookingConflict    = &Error{Kind: KindConflict, Code: "booking_conflict", Message: "the listing is not available for the selected dates"}
	ErrListingNotFound    = &Error{Kind: KindNotFound, Code: "listing_not_found", Message: "listing not found"}
	ErrBookingNotFound    = &Error{Kind: KindNotFound, Code: "booking_not_found", Message: "booking not found"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Code: "user_not_found", Message: "user not found"}
	ErrInvalidScore       = &Error{Kind: KindValidation, Code: "invalid_score", Message: "rating must be an integer between 1 and 5"}
	ErrInvalidThreshold   = &Error{Kind: KindValidation, Code: "invalid_threshold", Message: "threshold must be a number between 0 and 5"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Code: "invalid_credentials", Message: "invalid username or password"}
)

// NewValidationError crea un error de validación
func NewValidationError(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// NewInternalError envuelve un error inesperado (BD, red, etc)
func NewInternalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: "internal_error", Message: message, Err: err}
}

// KindOf devuelve el tipo de un error; cualquier error desconocido es interno
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}
