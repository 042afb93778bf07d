// Package console implements the interactive text menu. It is a second
// front-end over the same service the HTTP API uses, reading one line per
// answer from an io.Reader and printing to an io.Writer.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-records/internal/apperr"
	"github.com/aanand-mishra/student-records/internal/service"
	"github.com/aanand-mishra/student-records/internal/types"
)

// Menu options.
const (
	optExit   = 0
	optAdd    = 1
	optList   = 2
	optGet    = 3
	optRemove = 4
)

const menu = `
=== STUDENT RECORDS ===
1. Add student
2. List students
3. Find student by ID
4. Remove student
0. Exit
Choose an option: `

// errEOF is returned by readLine when the input is exhausted.
var errEOF = errors.New("console: end of input")

// Console is the menu loop. Create one with New and call Run.
type Console struct {
	svc *service.Students
	in  *bufio.Scanner
	out io.Writer
}

// New returns a Console reading answers from in and writing to out.
func New(svc *service.Students, in io.Reader, out io.Writer) *Console {
	return &Console{svc: svc, in: bufio.NewScanner(in), out: out}
}

// Run shows the menu until the user picks 0 or the input ends. It
// returns nil in both cases, and the scanner's error if reading fails.
func (c *Console) Run() error {
	for {
		fmt.Fprint(c.out, menu)

		line, err := c.readLine()
		if err != nil {
			return c.done(err)
		}

		opt, err := strconv.Atoi(line)
		if err != nil {
			c.println("Error: enter a valid number!")
			continue
		}

		switch opt {
		case optAdd:
			err = c.add()
		case optList:
			c.list()
		case optGet:
			err = c.get()
		case optRemove:
			err = c.remove()
		case optExit:
			c.println("Shutting down...")
			return nil
		default:
			c.println("Invalid option! Try again.")
		}
		if err != nil {
			return c.done(err)
		}
	}
}

func (c *Console) add() error {
	c.println("\n--- NEW STUDENT ---")

	name, err := c.prompt("Name: ")
	if err != nil {
		return err
	}
	ageText, err := c.prompt("Age: ")
	if err != nil {
		return err
	}
	age, convErr := strconv.Atoi(ageText)
	if convErr != nil {
		c.println("Error adding student: age must be a valid number")
		return nil
	}
	email, err := c.prompt("Email: ")
	if err != nil {
		return err
	}
	course, err := c.prompt("Course: ")
	if err != nil {
		return err
	}

	saved, saveErr := c.svc.Save(types.Student{Name: name, Age: age, Email: email, Course: course})
	if saveErr != nil {
		c.println("Error adding student: " + apperr.Message(saveErr))
		return nil
	}
	c.println(fmt.Sprintf("\nStudent added successfully! ID: %d", saved.ID))
	return nil
}

func (c *Console) list() {
	c.println("\n--- STUDENT LIST ---")

	students, err := c.svc.List()
	if err != nil {
		c.println("Error listing students: " + apperr.Message(err))
		return
	}
	if len(students) == 0 {
		c.println("No students registered.")
		return
	}
	for _, s := range students {
		c.println(s.String())
	}
}

func (c *Console) get() error {
	c.println("\n--- FIND STUDENT ---")

	id, ok, err := c.promptID()
	if err != nil || !ok {
		return err
	}

	student, getErr := c.svc.GetByID(id)
	switch {
	case apperr.KindOf(getErr) == apperr.NotFound:
		c.println(fmt.Sprintf("Student not found with ID: %d", id))
	case getErr != nil:
		c.println("Error finding student: " + apperr.Message(getErr))
	default:
		c.println("\nStudent found:")
		c.println(student.String())
	}
	return nil
}

func (c *Console) remove() error {
	c.println("\n--- REMOVE STUDENT ---")

	id, ok, err := c.promptID()
	if err != nil || !ok {
		return err
	}

	removed, rmErr := c.svc.Remove(id)
	switch {
	case rmErr != nil:
		c.println("Error removing student: " + apperr.Message(rmErr))
	case removed:
		c.println("Student removed successfully!")
	default:
		c.println(fmt.Sprintf("Student not found with ID: %d", id))
	}
	return nil
}

// promptID asks for an id. ok is false (with a message already printed)
// when the answer is not an integer.
func (c *Console) promptID() (id int64, ok bool, err error) {
	text, err := c.prompt("Enter the student ID: ")
	if err != nil {
		return 0, false, err
	}
	id, convErr := strconv.ParseInt(text, 10, 64)
	if convErr != nil {
		c.println("Error: ID must be a valid number!")
		return 0, false, nil
	}
	return id, true, nil
}

func (c *Console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	return c.readLine()
}

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("console: read input: %w", err)
		}
		return "", errEOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

// done maps end of input to a clean exit.
func (c *Console) done(err error) error {
	if errors.Is(err, errEOF) {
		c.println("")
		return nil
	}
	return err
}
