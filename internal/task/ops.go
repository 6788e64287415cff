package task

import (
	"time"
)

// Find returns the index of the task with id, or -1.
func Find(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns a copy of the task with id.
func Get(tasks []Task, id string) (Task, bool) {
	idx := Find(tasks, id)
	if idx < 0 {
		return Task{}, false
	}
	return cloneTask(tasks[idx]), true
}

// Create appends a new todo task built from in. The caller supplies the id
// and creation time. A blank title is accepted.
func Create(tasks []Task, in Input, id string, now time.Time) ([]Task, error) {
	if !in.Priority.Valid() {
		return tasks, precondition("create", "", ErrInvalidPriority)
	}
	if Find(tasks, id) >= 0 {
		return tasks, precondition("create", id, ErrDuplicateID)
	}

	created := Task{
		ID:        id,
		Title:     in.Title,
		Priority:  in.Priority,
		Status:    StatusTodo,
		Tags:      ParseTags(in.Tags),
		Subtasks:  ParseSubtasks(in.Subtasks),
		CreatedAt: now.UTC(),
	}

	next := make([]Task, 0, len(tasks)+1)
	next = append(next, tasks...)
	next = append(next, created)
	return next, nil
}

// Edit merges in over the task with id. Title, priority and tags are replaced.
// Subtasks are replaced only when in.Subtasks yields at least one line;
// otherwise the existing subtasks are kept as they are.
func Edit(tasks []Task, id string, in Input) ([]Task, error) {
	idx := Find(tasks, id)
	if idx < 0 {
		return tasks, precondition("edit", id, ErrTaskNotFound)
	}
	if !in.Priority.Valid() {
		return tasks, precondition("edit", id, ErrInvalidPriority)
	}

	updated := cloneTask(tasks[idx])
	updated.Title = in.Title
	updated.Priority = in.Priority
	updated.Tags = ParseTags(in.Tags)
	if subtasks := ParseSubtasks(in.Subtasks); len(subtasks) > 0 {
		updated.Subtasks = subtasks
	}

	next := make([]Task, len(tasks))
	copy(next, tasks)
	next[idx] = updated
	return next, nil
}

// Delete removes the task with id. An unknown id is not an error: the input
// is returned unchanged and removed is false.
func Delete(tasks []Task, id string) (next []Task, removed bool) {
	idx := Find(tasks, id)
	if idx < 0 {
		return tasks, false
	}
	next = make([]Task, 0, len(tasks)-1)
	next = append(next, tasks[:idx]...)
	next = append(next, tasks[idx+1:]...)
	return next, true
}

// Move sets the status of the task with id. When the task already has that
// status the input is returned unchanged and changed is false.
func Move(tasks []Task, id string, status Status) (next []Task, changed bool, err error) {
	if !status.Valid() {
		return tasks, false, precondition("move", id, ErrInvalidStatus)
	}
	idx := Find(tasks, id)
	if idx < 0 {
		return tasks, false, precondition("move", id, ErrTaskNotFound)
	}
	if tasks[idx].Status == status {
		return tasks, false, nil
	}

	next = make([]Task, len(tasks))
	copy(next, tasks)
	moved := cloneTask(tasks[idx])
	moved.Status = status
	next[idx] = moved
	return next, true, nil
}

// ToggleSubtask flips the done flag of subtask index on the task with id.
// No other subtask or field changes.
func ToggleSubtask(tasks []Task, id string, index int) ([]Task, error) {
	idx := Find(tasks, id)
	if idx < 0 {
		return tasks, precondition("toggle", id, ErrTaskNotFound)
	}
	if index < 0 || index >= len(tasks[idx].Subtasks) {
		return tasks, precondition("toggle", id, ErrSubtaskIndex)
	}

	toggled := cloneTask(tasks[idx])
	toggled.Subtasks[index].Done = !toggled.Subtasks[index].Done

	next := make([]Task, len(tasks))
	copy(next, tasks)
	next[idx] = toggled
	return next, nil
}

// Clone returns a deep copy of tasks.
func Clone(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i := range tasks {
		out[i] = cloneTask(tasks[i])
	}
	return out
}

// Normalize replaces nil tag and subtask slices with empty ones so the
// persisted form always carries arrays.
func Normalize(tasks []Task) []Task {
	if tasks == nil {
		return []Task{}
	}
	for i := range tasks {
		if tasks[i].Tags == nil {
			tasks[i].Tags = []string{}
		}
		if tasks[i].Subtasks == nil {
			tasks[i].Subtasks = []Subtask{}
		}
	}
	return tasks
}

func cloneTask(t Task) Task {
	c := t
	if t.Tags != nil {
		c.Tags = make([]string, len(t.Tags))
		copy(c.Tags, t.Tags)
	}
	if t.Subtasks != nil {
		c.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(c.Subtasks, t.Subtasks)
	}
	return c
}
