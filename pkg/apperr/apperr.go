package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the HTTP layer can pick a status code
// without string-matching messages.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindIllegalTransition Kind = "illegal_transition"
	KindInsufficientStock Kind = "insufficient_stock"
	KindValidation        Kind = "validation_error"
	KindPaymentRequired   Kind = "payment_required"
	KindStorage           Kind = "storage_failure"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(what string) *Error {
	return Newf(KindNotFound, "%s not found", what)
}

func IllegalTransition(message string) *Error {
	return New(KindIllegalTransition, message)
}

func InsufficientStock(message string) *Error {
	return New(KindInsufficientStock, message)
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func PaymentRequired(message string) *Error {
	return New(KindPaymentRequired, message)
}

func Storage(err error) *Error {
	return Wrap(KindStorage, "storage failure", err)
}

// KindOf extracts the Kind from err, or KindStorage when err is not an
// *Error (unexpected failures are treated as storage-level).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// HTTPStatus maps an error kind to the response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return 400
	case KindPaymentRequired:
		return 402
	case KindNotFound:
		return 404
	case KindIllegalTransition, KindInsufficientStock:
		return 409
	default:
		return 500
	}
}
