// Package memory provides the default, in-process implementation of the
// storage.Storage interface: an ordered slice of students guarded by a
// read/write mutex.
//
// Nothing survives a restart. Lookups are linear scans, which is fine at
// the scale this application is meant for.
package memory

import (
	"fmt"
	"sync"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

// Store is the in-memory student store.
//
// The zero value is not usable; create one with New.
type Store struct {
	mu       sync.RWMutex
	students []types.Student // insertion order
	lastID   int64           // highest id ever handed out; only grows
}

// compile-time check that *Store satisfies storage.Storage
var _ storage.Storage = (*Store)(nil)

// New returns an empty store whose first assigned id will be 1.
func New() *Store {
	return &Store{students: make([]types.Student, 0)}
}

// ListStudents returns a copy of the collection taken under the read
// lock, so a concurrent save or remove is either fully visible or not at
// all.
func (s *Store) ListStudents() ([]types.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Student, len(s.students))
	copy(out, s.students)
	return out, nil
}

func (s *Store) GetStudentByID(id int64) (types.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.students[i], nil
	}
	return types.Student{}, fmt.Errorf("GetStudentByID %d: %w", id, storage.ErrNotFound)
}

// SaveStudent creates (ID == 0) or replaces (ID != 0) a student.
//
// Id allocation happens under the write lock together with the append,
// so two concurrent creates can never observe the same counter value.
func (s *Store) SaveStudent(student types.Student) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if student.ID == 0 {
		s.lastID++
		student.ID = s.lastID
		s.students = append(s.students, student)
		return student, nil
	}

	i := s.indexOf(student.ID)
	if i < 0 {
		return types.Student{}, fmt.Errorf("SaveStudent %d: %w", student.ID, storage.ErrNotFound)
	}
	s.students[i] = student
	return student, nil
}

func (s *Store) RemoveStudentByID(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.students = append(s.students[:i], s.students[i+1:]...)
	return true, nil
}

// indexOf returns the position of id in s.students or -1.
// Callers must hold s.mu.
func (s *Store) indexOf(id int64) int {
	for i := range s.students {
		if s.students[i].ID == id {
			return i
		}
	}
	return -1
}
