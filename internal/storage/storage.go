// Package storage defines the Storage interface — the contract every
// student store must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// The service, the HTTP handlers and the console should not know which
// backend holds the records. Two implementations exist:
//
//   - memory: a mutex-guarded slice (the default)
//   - sqlite: the same contract on an in-memory SQLite database
//
// Both follow the identity rules below, so callers can swap them with a
// single config value.
package storage

import (
	"github.com/aanand-mishra/student-records/internal/apperr"
	"github.com/aanand-mishra/student-records/internal/types"
)

// ErrNotFound is returned (possibly wrapped) when no student has the
// requested id. It is classified as apperr.NotFound, so the HTTP layer
// answers 404 without inspecting the message.
var ErrNotFound = apperr.E(apperr.NotFound, "student not found")

// Storage is the student store contract.
//
// Identity rules shared by all implementations:
//   - ids are assigned by the store, starting at 1, strictly increasing
//   - an id is never reused, not even after the student is removed
//   - at most one stored student has a given id
type Storage interface {
	// ListStudents returns a snapshot of every student in insertion
	// order. The returned slice is owned by the caller; mutating it never
	// affects the store. Returns an empty slice (not nil) when empty.
	ListStudents() ([]types.Student, error)

	// GetStudentByID returns the student with the given id, or an error
	// wrapping ErrNotFound.
	GetStudentByID(id int64) (types.Student, error)

	// SaveStudent stores student and returns the stored copy.
	//
	// If student.ID is 0 the student is new: the next id is allocated
	// atomically and the record is appended. Otherwise the record with
	// the same id is replaced in place; if there is none, an error
	// wrapping ErrNotFound is returned and nothing changes.
	SaveStudent(student types.Student) (types.Student, error)

	// RemoveStudentByID deletes the student with the given id and
	// reports whether a record was removed. Removing an unknown id is not
	// an error.
	RemoveStudentByID(id int64) (bool, error)
}
