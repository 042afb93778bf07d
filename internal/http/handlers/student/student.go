// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like the service.
// Each exported function below is a factory: it accepts the dependency
// and returns a function with the exact signature the router needs.
// The factory runs once at startup; the returned closure runs on every
// request.
//
// Every handler reports failures by returning a classified error to
// response.Error, which picks the status code (see package apperr).
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-records/internal/apperr"
	"github.com/aanand-mishra/student-records/internal/http/router"
	"github.com/aanand-mishra/student-records/internal/service"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// Messages sent to clients.
const (
	msgRemoved   = "student removed successfully"
	msgInvalidID = "invalid id: must be an integer"
	msgEmptyBody = "request body is empty"
	msgBadAge    = "field age must be an integer"
)

// Routes returns the student API route table.
func Routes(svc *service.Students) []router.Route {
	return []router.Route{
		{Method: http.MethodGet, Pattern: "/students", Handler: GetList(svc)},
		{Method: http.MethodPost, Pattern: "/students", Handler: New(svc)},
		{Method: http.MethodGet, Pattern: "/students/{id}", Handler: GetByID(svc)},
		{Method: http.MethodDelete, Pattern: "/students/{id}", Handler: Delete(svc)},
	}
}

// createRequest is the body accepted by POST /students.
//
// Age is a json.Number so that both 20 and "20" decode; the web client
// posts every form field as a string. Pointers make "required" mean
// "present" for age, where 0 is a legal value.
type createRequest struct {
	Name   string       `json:"name"   validate:"required"`
	Age    *json.Number `json:"age"    validate:"required"`
	Email  string       `json:"email"  validate:"required"`
	Course string       `json:"course" validate:"required"`
}

// validate is shared by all requests; a *validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON name ("course") rather than the Go
	// field name ("Course").
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /students
// Creates a new student from the JSON request body.
//
// Request body (JSON):
//
//	{ "name": "Ana", "age": 20, "email": "a@x.com", "course": "CS" }
//
// Success response (201 Created) — the stored record with its new id:
//
//	{ "id": 1, "name": "Ana", "age": 20, "email": "a@x.com", "course": "CS" }
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, missing field, bad age
//	500 Internal     — storage error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(svc *service.Students) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		student, err := decodeStudent(r.Body)
		if err != nil {
			response.Error(w, err)
			return
		}

		created, err := svc.Save(student)
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("student created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /students/{id}
//
// Error responses:
//
//	400 Bad Request  — id is not a valid integer
//	404 Not Found    — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(svc *service.Students) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a student", slog.String("id", id))

		intID, err := parseID(id)
		if err != nil {
			response.Error(w, err)
			return
		}

		student, err := svc.GetByID(intID)
		if err != nil {
			slog.Info("student lookup failed",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /students
// Returns a JSON array of all students in insertion order, [] when empty.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(svc *service.Students) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := svc.List()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /students/{id}
//
// Success response (200 OK):
//
//	{ "message": "student removed successfully" }
//
// Error responses:
//
//	400 Bad Request  — invalid id
//	404 Not Found    — no student with that id (also on a repeated delete)
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(svc *service.Students) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		intID, err := parseID(id)
		if err != nil {
			response.Error(w, err)
			return
		}

		removed, err := svc.Remove(intID)
		if err != nil {
			slog.Error("error deleting student",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}
		if !removed {
			response.Error(w, storage.ErrNotFound)
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.Message{Message: msgRemoved})
	}
}

// parseID converts the {id} path segment to int64.
func parseID(id string) (int64, error) {
	intID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, apperr.Wrap(apperr.BadInput, msgInvalidID, err)
	}
	return intID, nil
}

// decodeStudent reads a createRequest from body, validates it and
// converts it to a new (ID 0) Student. All failures are BadInput.
func decodeStudent(body io.Reader) (types.Student, error) {
	var req createRequest

	err := json.NewDecoder(body).Decode(&req)
	if errors.Is(err, io.EOF) {
		return types.Student{}, apperr.E(apperr.BadInput, msgEmptyBody)
	}
	if err != nil {
		return types.Student{}, apperr.Wrap(apperr.BadInput, "", err)
	}

	if err := validate.Struct(req); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			return types.Student{}, response.ValidationError(validateErrs)
		}
		return types.Student{}, apperr.Wrap(apperr.BadInput, "", err)
	}

	age, err := strconv.Atoi(req.Age.String())
	if err != nil {
		return types.Student{}, apperr.Wrap(apperr.BadInput, msgBadAge, err)
	}

	return types.Student{
		Name:   req.Name,
		Age:    age,
		Email:  req.Email,
		Course: req.Course,
	}, nil
}
