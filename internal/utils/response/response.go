// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every API handler sends JSON back to the client. Rather than repeating
// the same three lines (set header, set status, encode JSON) in every
// handler, we centralise them here — together with the single place where
// an error is turned into a status code.
//
// Error responses always look like:
//
//	{ "error": "student not found" }
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aanand-mishra/student-records/internal/apperr"
	"github.com/go-playground/validator/v10"
)

// ContentType is set on every API response.
const ContentType = "application/json; charset=UTF-8"

// Response is the body of every error response.
type Response struct {
	Error string `json:"error"`
}

// Message is the body of responses that only confirm an action.
type Message struct {
	Message string `json:"message"`
}

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(status)

	// encoding/json escapes quotes and control characters in strings, so
	// any name or email a client sends comes back as valid JSON.
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into our standard Response shape using
// its client-facing message.
func GeneralError(err error) Response {
	return Response{Error: apperr.Message(err)}
}

// StatusFor maps an error's apperr.Kind to an HTTP status code.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.BadInput:
		return http.StatusBadRequest
	case apperr.MethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err with the status code matching its kind. Unclassified
// errors become 500 with the error text in the body.
func Error(w http.ResponseWriter, err error) error {
	return WriteJSON(w, StatusFor(err), GeneralError(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts a slice of validator.FieldError values into
// a single human-readable BadInput error.
//
// Example message:
//
//	field name is required, field course is required
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) error {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return apperr.Wrap(apperr.BadInput, strings.Join(errMessages, ", "), errs)
}
