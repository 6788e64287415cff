// Package board routes user intents to task mutations through the store.
package board

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/orbit/internal/render"
	"github.com/nibzard/orbit/internal/store"
	"github.com/nibzard/orbit/internal/task"
)

// DeletePrompt is shown before a task is deleted.
const DeletePrompt = "Vaporize this task?"

// Intent is a user action on the board.
type Intent int

const (
	Create Intent = iota
	Edit
	Delete
	Move
	ToggleSubtask
	DragStart
	DragEnd
	Drop
)

var intentNames = [...]string{
	Create:        "create",
	Edit:          "edit",
	Delete:        "delete",
	Move:          "move",
	ToggleSubtask: "toggle",
	DragStart:     "drag-start",
	DragEnd:       "drag-end",
	Drop:          "drop",
}

func (i Intent) String() string {
	if i >= 0 && int(i) < len(intentNames) {
		return intentNames[i]
	}
	return fmt.Sprintf("intent(%d)", int(i))
}

// Command is one intent with its arguments. Which fields matter depends on
// the intent.
type Command struct {
	Intent    Intent
	ID        string      // Edit, Delete, Move, ToggleSubtask, DragStart
	Status    task.Status // Move, Drop
	Index     int         // ToggleSubtask
	Form      render.Form // Create, Edit
	Confirmed bool        // Delete: skip the prompt
}

// Result reports what a command did.
type Result struct {
	Changed    bool
	TaskID     string
	Celebrated bool
}

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(prompt string) bool

// CelebrateFunc is told about a task that just moved into done.
type CelebrateFunc func(t task.Task)

// Dispatcher applies commands to a store.
type Dispatcher struct {
	Store     *store.Store
	Confirm   ConfirmFunc
	Celebrate CelebrateFunc
	NewID     func() string
	Now       func() time.Time
	Logger    *log.Logger
}

// New returns a dispatcher with uuid ids and the wall clock.
func New(s *store.Store, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		Store:  s,
		NewID:  func() string { return uuid.New().String() },
		Now:    time.Now,
		Logger: logger,
	}
}

// Dispatch runs cmd to completion.
func (d *Dispatcher) Dispatch(cmd Command) (Result, error) {
	switch cmd.Intent {
	case Create:
		return d.create(cmd.Form)
	case Edit:
		return d.edit(cmd.ID, cmd.Form)
	case Delete:
		return d.delete(cmd.ID, cmd.Confirmed)
	case Move:
		return d.move(cmd.ID, cmd.Status)
	case ToggleSubtask:
		return d.toggle(cmd.ID, cmd.Index)
	case DragStart:
		if _, ok := task.Get(d.Store.Tasks(), cmd.ID); !ok {
			return Result{}, &task.PreconditionError{Op: "drag", ID: cmd.ID, Err: task.ErrTaskNotFound}
		}
		d.Store.SetDraggedID(cmd.ID)
		d.logger().Debug("drag start", "id", cmd.ID)
		return Result{TaskID: cmd.ID}, nil
	case DragEnd:
		d.Store.ClearDragged()
		return Result{}, nil
	case Drop:
		id, ok := d.Store.DraggedID()
		if !ok {
			return Result{}, nil
		}
		return d.move(id, cmd.Status)
	default:
		return Result{}, fmt.Errorf("unknown intent %v", cmd.Intent)
	}
}

// Submit creates or edits depending on whether the form carries an id.
func (d *Dispatcher) Submit(form render.Form) (Result, error) {
	if form.Editing() {
		return d.Dispatch(Command{Intent: Edit, ID: form.ID, Form: form})
	}
	return d.Dispatch(Command{Intent: Create, Form: form})
}

func (d *Dispatcher) create(form render.Form) (Result, error) {
	id := d.newID()
	next, err := task.Create(d.Store.Tasks(), form.Input(), id, d.now())
	if err != nil {
		return Result{}, err
	}
	d.logger().Info("task created", "id", id, "title", form.Title)
	return Result{Changed: true, TaskID: id}, d.Store.SetTasks(next)
}

func (d *Dispatcher) edit(id string, form render.Form) (Result, error) {
	next, err := task.Edit(d.Store.Tasks(), id, form.Input())
	if err != nil {
		return Result{}, err
	}
	d.logger().Info("task edited", "id", id)
	return Result{Changed: true, TaskID: id}, d.Store.SetTasks(next)
}

func (d *Dispatcher) delete(id string, confirmed bool) (Result, error) {
	tasks := d.Store.Tasks()
	if task.Find(tasks, id) < 0 {
		return Result{TaskID: id}, nil
	}
	if !confirmed && !d.confirm(DeletePrompt) {
		d.logger().Debug("delete declined", "id", id)
		return Result{TaskID: id}, nil
	}
	next, removed := task.Delete(tasks, id)
	if !removed {
		return Result{TaskID: id}, nil
	}
	d.logger().Info("task deleted", "id", id)
	return Result{Changed: true, TaskID: id}, d.Store.SetTasks(next)
}

func (d *Dispatcher) move(id string, status task.Status) (Result, error) {
	tasks := d.Store.Tasks()
	next, changed, err := task.Move(tasks, id, status)
	if err != nil {
		return Result{}, err
	}
	res := Result{TaskID: id}
	if !changed {
		return res, nil
	}
	res.Changed = true
	d.logger().Info("task moved", "id", id, "status", status)
	persistErr := d.Store.SetTasks(next)

	if status == task.StatusDone {
		moved, _ := task.Get(next, id)
		res.Celebrated = true
		if d.Celebrate != nil {
			d.Celebrate(moved)
		}
	}
	return res, persistErr
}

func (d *Dispatcher) toggle(id string, index int) (Result, error) {
	next, err := task.ToggleSubtask(d.Store.Tasks(), id, index)
	if err != nil {
		return Result{}, err
	}
	return Result{Changed: true, TaskID: id}, d.Store.SetTasks(next)
}

func (d *Dispatcher) confirm(prompt string) bool {
	if d.Confirm == nil {
		return false
	}
	return d.Confirm(prompt)
}

func (d *Dispatcher) newID() string {
	if d.NewID != nil {
		return d.NewID()
	}
	return uuid.New().String()
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Dispatcher) logger() *log.Logger {
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	return d.Logger
}
