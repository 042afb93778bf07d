// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// By default the database lives in memory (DSN ":memory:"), so records
// still disappear when the process exits — the backend exists to run the
// same contract through a real SQL engine, not to add persistence.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded — we never call anything from it directly.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the SQL implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at cfg.Storage.Path, creates the
// students table if it does not already exist, and returns a
// ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Every connection to ":memory:" gets its own private database.
	// Pinning the pool to one connection keeps a single shared database
	// and serialises writes, which is also what makes id allocation
	// atomic across concurrent callers.
	db.SetMaxOpenConns(1)

	// AUTOINCREMENT (not just INTEGER PRIMARY KEY) guarantees that ids
	// of deleted rows are never handed out again.
	//
	// Schema:
	//   id     — integer primary key, strictly increasing
	//   name   — student's full name
	//   age    — age in years
	//   email  — contact address
	//   course — enrolled course
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			name   TEXT    NOT NULL,
			age    INTEGER NOT NULL,
			email  TEXT    NOT NULL,
			course TEXT    NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the underlying database. For ":memory:" this discards
// all records.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// ListStudents returns all rows ordered by id, which for AUTOINCREMENT keys
// is the insertion order.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) ListStudents() ([]types.Student, error) {
	rows, err := s.Db.Query(
		"SELECT id, name, age, email, course FROM students ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("ListStudents: query: %w", err)
	}
	defer rows.Close()

	// Non-nil so that an empty table encodes as [] rather than null.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student
		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Age,
			&student.Email,
			&student.Course,
		); err != nil {
			return nil, fmt.Errorf("ListStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListStudents: rows iteration: %w", err)
	}

	return students, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetStudentByID fetches exactly one student row matched by primary key.
// sql.ErrNoRows is translated to storage.ErrNotFound.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetStudentByID(id int64) (types.Student, error) {
	var student types.Student

	err := s.Db.QueryRow(
		"SELECT id, name, age, email, course FROM students WHERE id = ? LIMIT 1",
		id,
	).Scan(
		&student.ID,
		&student.Name,
		&student.Age,
		&student.Email,
		&student.Course,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Student{}, fmt.Errorf("GetStudentByID %d: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// SaveStudent inserts a new row (ID == 0) or updates an existing one.
//
// Prepared statements keep user input out of the SQL text: the ? values
// are sent separately and never interpreted as syntax.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) SaveStudent(student types.Student) (types.Student, error) {
	if student.ID == 0 {
		result, err := s.Db.Exec(
			"INSERT INTO students (name, age, email, course) VALUES (?, ?, ?, ?)",
			student.Name, student.Age, student.Email, student.Course,
		)
		if err != nil {
			return types.Student{}, fmt.Errorf("SaveStudent: insert: %w", err)
		}

		lastID, err := result.LastInsertId()
		if err != nil {
			return types.Student{}, fmt.Errorf("SaveStudent: last insert id: %w", err)
		}

		student.ID = lastID
		return student, nil
	}

	result, err := s.Db.Exec(
		"UPDATE students SET name = ?, age = ?, email = ?, course = ? WHERE id = ?",
		student.Name, student.Age, student.Email, student.Course, student.ID,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("SaveStudent: update: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return types.Student{}, fmt.Errorf("SaveStudent: rows affected: %w", err)
	}
	if n == 0 {
		return types.Student{}, fmt.Errorf("SaveStudent %d: %w", student.ID, storage.ErrNotFound)
	}

	return student, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// RemoveStudentByID deletes a student row by primary key.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) RemoveStudentByID(id int64) (bool, error) {
	result, err := s.Db.Exec("DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("RemoveStudentByID: exec: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("RemoveStudentByID: rows affected: %w", err)
	}

	return n > 0, nil
}
