// Package task defines board task records and pure collection operations.
package task

import (
	"errors"
	"fmt"
	"time"
)

// Status represents a task status. It determines the task's column.
type Status string

const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

// Statuses returns the valid statuses in column order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusDoing, StatusDone}
}

// Valid reports whether s is one of the three board statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	}
	return false
}

// Priority represents a task priority.
type Priority string

const (
	PriorityLow  Priority = "low"
	PriorityMed  Priority = "med"
	PriorityHigh Priority = "high"
)

// DefaultPriority is used when a form leaves the priority blank.
const DefaultPriority = PriorityMed

// Priorities returns the valid priorities from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMed, PriorityHigh}
}

// Valid reports whether p is one of the three priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMed, PriorityHigh:
		return true
	}
	return false
}

// Subtask is a single checklist entry on a task.
type Subtask struct {
	Text string `json:"text" yaml:"text"`
	Done bool   `json:"done" yaml:"done"`
}

// Task represents a single card on the board.
type Task struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Priority  Priority  `json:"priority" yaml:"priority"`
	Status    Status    `json:"status" yaml:"status"`
	Tags      []string  `json:"tags" yaml:"tags"`
	Subtasks  []Subtask `json:"subtasks" yaml:"subtasks"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// DoneSubtasks returns how many subtasks are checked.
func (t *Task) DoneSubtasks() int {
	n := 0
	for _, s := range t.Subtasks {
		if s.Done {
			n++
		}
	}
	return n
}

// Input carries the raw form fields for Create and Edit.
// Tags and Subtasks are parsed with ParseTags and ParseSubtasks.
type Input struct {
	Title    string
	Priority Priority
	Tags     string
	Subtasks string
}

// Precondition sentinels.
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrSubtaskIndex    = errors.New("subtask index out of range")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrDuplicateID     = errors.New("duplicate task id")
)

// PreconditionError reports caller misuse of an operation: an unknown id,
// an out-of-range index or an invalid enum value. There is no recovery at
// this layer; the collection is left untouched.
type PreconditionError struct {
	Op  string // operation name, e.g. "move"
	ID  string // task id, if any
	Err error  // one of the precondition sentinels
}

func (e *PreconditionError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %q: %s", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// IsPrecondition reports whether err is a precondition violation.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

func precondition(op, id string, err error) error {
	return &PreconditionError{Op: op, ID: id, Err: err}
}
