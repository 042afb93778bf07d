// Package service is the layer between the interfaces (HTTP, console)
// and storage. Today it only delegates; business rules that are not
// about how records are stored belong here rather than in a backend.
package service

import (
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

// Students exposes the student operations used by the HTTP handlers and
// the console. One instance is shared by both.
type Students struct {
	storage storage.Storage
}

// New returns a Students service backed by s.
func New(s storage.Storage) *Students {
	return &Students{storage: s}
}

// List returns a snapshot of all students in insertion order.
func (svc *Students) List() ([]types.Student, error) {
	return svc.storage.ListStudents()
}

// GetByID returns the student with the given id.
func (svc *Students) GetByID(id int64) (types.Student, error) {
	return svc.storage.GetStudentByID(id)
}

// Save creates the student when its ID is 0 and replaces it otherwise.
func (svc *Students) Save(student types.Student) (types.Student, error) {
	return svc.storage.SaveStudent(student)
}

// Remove deletes the student with the given id and reports whether it
// existed.
func (svc *Students) Remove(id int64) (bool, error) {
	return svc.storage.RemoveStudentByID(id)
}
