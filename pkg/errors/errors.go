package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code is the stable, client-visible error identifier.
type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeIdempotency   Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"

	// Checkout failures.
	CodeInsufficientStock   Code = "INSUFFICIENT_STOCK"
	CodeOrderCreationFailed Code = "ORDER_CREATION_FAILED"
)

// Metadata drives how responses render a code.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

func meta(status int, retryable, details bool, msg string) Metadata {
	return Metadata{HTTPStatus: status, Retryable: retryable, PublicMessage: msg, DetailsAllowed: details}
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:          meta(http.StatusBadRequest, false, true, "validation failed"),
	CodeUnauthorized:        meta(http.StatusUnauthorized, false, false, "authentication required"),
	CodeForbidden:           meta(http.StatusForbidden, false, false, "access denied"),
	CodeNotFound:            meta(http.StatusNotFound, false, false, "resource not found"),
	CodeConflict:            meta(http.StatusConflict, false, false, "conflict detected"),
	CodeStateConflict:       meta(http.StatusUnprocessableEntity, false, true, "state transition disallowed"),
	CodeInsufficientStock:   meta(http.StatusConflict, false, true, "insufficient stock"),
	CodeOrderCreationFailed: meta(http.StatusUnprocessableEntity, false, true, "order could not be created"),
	CodeIdempotency:         meta(http.StatusConflict, false, true, "idempotency key reused"),
	CodeRateLimit:           meta(http.StatusTooManyRequests, false, false, "rate limit exceeded"),
	CodeInternal:            meta(http.StatusInternalServerError, true, false, "internal server error"),
	CodeDependency:          meta(http.StatusServiceUnavailable, true, true, "dependency unavailable"),
}

// MetadataFor falls back to CodeInternal for unknown codes.
func MetadataFor(code Code) Metadata {
	if m, ok := metadataByCode[code]; ok {
		return m
	}
	return metadataByCode[CodeInternal]
}

// Error pairs a Code with a message that may be shown to clients.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf is New with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap keeps err reachable through errors.Unwrap. A nil err behaves like New.
func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails attaches a client-visible payload. It is dropped for codes
// whose metadata disallows details.
func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	default:
		return fmt.Sprintf("%s: %s", e.code, e.message)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches another *Error by code, so errors.Is(err, New(CodeNotFound, ""))
// works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t != nil && e.code == t.code
}

// As returns the outermost *Error in err's chain.
func As(err error) *Error {
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries code anywhere in its chain.
func IsCode(err error, code Code) bool {
	for err != nil {
		typed := As(err)
		if typed == nil {
			return false
		}
		if typed.code == code {
			return true
		}
		err = typed.cause
	}
	return false
}
