// Package types holds the shared data structures (models) used across
// the application. Handlers, storage, the service layer and the console
// all import types without depending on each other.
package types

import "fmt"

// Student represents a student record.
//
// ID is assigned by the store. A zero ID is the sentinel for "not yet
// saved": storage treats Save of a zero-ID student as a create and Save
// of a non-zero ID as a replace.
//
// The field order below is the order the fields appear in JSON output.
type Student struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Email  string `json:"email"`
	Course string `json:"course"`
}

// String formats the student as the single-line record printed by the
// console, e.g.
//
//	ID: 1 | Name: Ana | Age: 20 | Email: a@x.com | Course: CS
func (s Student) String() string {
	return fmt.Sprintf("ID: %d | Name: %s | Age: %d | Email: %s | Course: %s",
		s.ID, s.Name, s.Age, s.Email, s.Course)
}
