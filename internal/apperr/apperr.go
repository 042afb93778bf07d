// Package apperr classifies application errors so that the HTTP layer can
// translate them into status codes in exactly one place.
//
// Lower layers (storage, service, request decoding) return ordinary Go
// errors. When an error has a meaning the client should see — "that id
// does not exist", "your body is malformed" — it is created with E (or
// wrapped with Wrap) and carries a Kind. Everything without a Kind is
// Internal.
//
//	err := apperr.E(apperr.NotFound, "student not found")
//	apperr.KindOf(fmt.Errorf("GetStudentByID: %w", err)) // NotFound
package apperr

import "errors"

// Kind is the category of an error.
type Kind int

const (
	// Internal is any unexpected failure (I/O, database, bugs).
	Internal Kind = iota
	// NotFound means the requested record does not exist.
	NotFound
	// BadInput means the request could not be parsed or failed validation.
	BadInput
	// MethodNotAllowed means the method is not routed for the path.
	MethodNotAllowed
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case BadInput:
		return "bad input"
	case MethodNotAllowed:
		return "method not allowed"
	default:
		return "internal"
	}
}

// Error is a classified error. Msg is the client-facing message; Err is
// the optional underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// E returns a new classified error with the given message.
func E(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap classifies err. The message of err is used as the client-facing
// message unless msg is non-empty.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message returns the client-facing message for err. For classified
// errors this is the message given at construction; for anything else
// it is err.Error().
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}
