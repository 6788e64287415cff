package task

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func sampleTasks() []Task {
	return []Task{
		{
			ID:       "1",
			Title:    "First",
			Priority: PriorityLow,
			Status:   StatusTodo,
			Tags:     []string{"home"},
			Subtasks: []Subtask{
				{Text: "a", Done: false},
				{Text: "b", Done: true},
				{Text: "c", Done: false},
			},
			CreatedAt: testNow,
		},
		{
			ID:        "2",
			Title:     "Second",
			Priority:  PriorityHigh,
			Status:    StatusDoing,
			Tags:      []string{},
			Subtasks:  []Subtask{},
			CreatedAt: testNow,
		},
	}
}

func TestCreate(t *testing.T) {
	tasks := sampleTasks()
	next, err := Create(tasks, Input{
		Title:    "Third",
		Priority: PriorityMed,
		Tags:     "work",
		Subtasks: "a\n\nb\n ",
	}, "3", testNow)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(next) != 3 {
		t.Fatalf("len = %d, want 3", len(next))
	}
	if len(tasks) != 2 {
		t.Errorf("input collection modified: len = %d", len(tasks))
	}

	got := next[2]
	if got.ID != "3" || got.Title != "Third" || got.Priority != PriorityMed {
		t.Errorf("unexpected task: %+v", got)
	}
	if got.Status != StatusTodo {
		t.Errorf("Status = %q, want todo", got.Status)
	}
	if !got.CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, testNow)
	}
	want := []Subtask{{Text: "a", Done: false}, {Text: "b", Done: false}}
	if !reflect.DeepEqual(got.Subtasks, want) {
		t.Errorf("Subtasks = %+v, want %+v", got.Subtasks, want)
	}
	if !reflect.DeepEqual(got.Tags, []string{"work"}) {
		t.Errorf("Tags = %q, want [work]", got.Tags)
	}
}

func TestCreateBlankFields(t *testing.T) {
	next, err := Create(nil, Input{Priority: PriorityLow}, "x", testNow)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got := next[0]
	if got.Title != "" {
		t.Errorf("Title = %q, want blank title accepted", got.Title)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty non-nil list", got.Tags)
	}
	if got.Subtasks == nil || len(got.Subtasks) != 0 {
		t.Errorf("Subtasks = %#v, want empty non-nil list", got.Subtasks)
	}
}

func TestCreatePreconditions(t *testing.T) {
	tasks := sampleTasks()

	_, err := Create(tasks, Input{Title: "x", Priority: "urgent"}, "9", testNow)
	if !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("invalid priority: err = %v, want ErrInvalidPriority", err)
	}

	_, err = Create(tasks, Input{Title: "x", Priority: PriorityLow}, "1", testNow)
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate id: err = %v, want ErrDuplicateID", err)
	}
	if !IsPrecondition(err) {
		t.Errorf("duplicate id: expected a precondition error, got %T", err)
	}
}

func TestEdit(t *testing.T) {
	tasks := sampleTasks()
	next, err := Edit(tasks, "1", Input{
		Title:    "First (edited)",
		Priority: PriorityHigh,
		Tags:     "garden",
		Subtasks: "x\ny",
	})
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}

	got := next[0]
	if got.Title != "First (edited)" || got.Priority != PriorityHigh {
		t.Errorf("scalar fields not merged: %+v", got)
	}
	if !reflect.DeepEqual(got.Tags, []string{"garden"}) {
		t.Errorf("Tags = %q", got.Tags)
	}
	want := []Subtask{{Text: "x"}, {Text: "y"}}
	if !reflect.DeepEqual(got.Subtasks, want) {
		t.Errorf("Subtasks = %+v, want %+v", got.Subtasks, want)
	}
	if got.ID != "1" || got.Status != StatusTodo || !got.CreatedAt.Equal(testNow) {
		t.Errorf("id, status or createdAt changed: %+v", got)
	}

	if tasks[0].Title != "First" || len(tasks[0].Subtasks) != 3 {
		t.Errorf("input collection modified: %+v", tasks[0])
	}
	if !reflect.DeepEqual(next[1], tasks[1]) {
		t.Errorf("untouched task changed: %+v", next[1])
	}
}

func TestEditBlankSubtasksPreservesExisting(t *testing.T) {
	tasks, err := Create(nil, Input{Title: "t", Priority: PriorityMed, Subtasks: "one\ntwo\nthree"}, "1", testNow)
	if err != nil {
		t.Fatal(err)
	}
	tasks, err = ToggleSubtask(tasks, "1", 1)
	if err != nil {
		t.Fatal(err)
	}
	before := append([]Subtask(nil), tasks[0].Subtasks...)

	for _, blank := range []string{"", "   ", "\n\n \t\n"} {
		next, err := Edit(tasks, "1", Input{Title: "renamed", Priority: PriorityLow, Subtasks: blank})
		if err != nil {
			t.Fatalf("Edit(%q) error = %v", blank, err)
		}
		if !reflect.DeepEqual(next[0].Subtasks, before) {
			t.Errorf("Edit(%q) subtasks = %+v, want %+v", blank, next[0].Subtasks, before)
		}
	}
}

func TestEditCommaTagsStayOneTag(t *testing.T) {
	next, err := Edit(sampleTasks(), "1", Input{Title: "t", Priority: PriorityLow, Tags: "a, b"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(next[0].Tags, []string{"a, b"}) {
		t.Errorf("Tags = %q, want single tag %q", next[0].Tags, "a, b")
	}
}

func TestEditBlankTagsClears(t *testing.T) {
	next, err := Edit(sampleTasks(), "1", Input{Title: "t", Priority: PriorityLow, Tags: ""})
	if err != nil {
		t.Fatal(err)
	}
	if len(next[0].Tags) != 0 {
		t.Errorf("Tags = %q, want empty", next[0].Tags)
	}
}

func TestEditUnknownID(t *testing.T) {
	tasks := sampleTasks()
	next, err := Edit(tasks, "nope", Input{Title: "x", Priority: PriorityLow})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
	var pe *PreconditionError
	if !errors.As(err, &pe) || pe.Op != "edit" || pe.ID != "nope" {
		t.Errorf("unexpected precondition error: %#v", err)
	}
	if !reflect.DeepEqual(next, tasks) {
		t.Error("collection changed on failed edit")
	}
}

func TestDelete(t *testing.T) {
	tasks := sampleTasks()
	next, removed := Delete(tasks, "1")
	if !removed {
		t.Fatal("expected removal")
	}
	if len(next) != 1 || next[0].ID != "2" {
		t.Errorf("unexpected result: %+v", next)
	}
	if len(tasks) != 2 || tasks[0].ID != "1" {
		t.Error("input collection modified")
	}
}

func TestDeleteUnknownID(t *testing.T) {
	tasks := sampleTasks()
	next, removed := Delete(tasks, "missing")
	if removed {
		t.Error("removed = true for unknown id")
	}
	if len(next) != len(tasks) || !reflect.DeepEqual(next, tasks) {
		t.Errorf("collection changed: %+v", next)
	}
}

func TestMove(t *testing.T) {
	tasks := []Task{{ID: "1", Title: "t", Priority: PriorityMed, Status: StatusTodo}}
	next, changed, err := Move(tasks, "1", StatusDone)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if !changed {
		t.Fatal("changed = false")
	}
	if len(next) != 1 || next[0].Status != StatusDone {
		t.Errorf("unexpected result: %+v", next)
	}
	if tasks[0].Status != StatusTodo {
		t.Error("input collection modified")
	}
}

func TestMoveSameStatusIsNoop(t *testing.T) {
	tasks := sampleTasks()
	next, changed, err := Move(tasks, "2", StatusDoing)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if changed {
		t.Error("changed = true for same status")
	}
	if &next[0] != &tasks[0] {
		t.Error("expected the same collection back")
	}
}

func TestMovePreconditions(t *testing.T) {
	tasks := sampleTasks()
	if _, _, err := Move(tasks, "missing", StatusDone); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("unknown id: err = %v", err)
	}
	if _, _, err := Move(tasks, "1", "blocked"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("invalid status: err = %v", err)
	}
}

func TestToggleSubtaskTwiceRestores(t *testing.T) {
	tasks := sampleTasks()
	original := Clone(tasks)

	once, err := ToggleSubtask(tasks, "1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if once[0].Subtasks[1].Done {
		t.Error("subtask 1 not toggled")
	}
	if once[0].Subtasks[0] != original[0].Subtasks[0] || once[0].Subtasks[2] != original[0].Subtasks[2] {
		t.Error("other subtasks changed")
	}
	if !reflect.DeepEqual(tasks, original) {
		t.Error("input collection modified")
	}

	twice, err := ToggleSubtask(once, "1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(twice, original) {
		t.Errorf("double toggle = %+v, want %+v", twice, original)
	}
}

func TestToggleSubtaskOutOfRange(t *testing.T) {
	tasks := sampleTasks()
	for _, idx := range []int{-1, 3, 100} {
		next, err := ToggleSubtask(tasks, "1", idx)
		if !errors.Is(err, ErrSubtaskIndex) {
			t.Errorf("index %d: err = %v, want ErrSubtaskIndex", idx, err)
		}
		if len(next[0].Subtasks) != 3 {
			t.Errorf("index %d: subtasks were created", idx)
		}
	}
	if _, err := ToggleSubtask(tasks, "2", 0); !errors.Is(err, ErrSubtaskIndex) {
		t.Errorf("task without subtasks: err = %v", err)
	}
	if _, err := ToggleSubtask(tasks, "x", 0); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("unknown id: err = %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	tasks := sampleTasks()
	c := Clone(tasks)
	c[0].Tags[0] = "changed"
	c[0].Subtasks[0].Done = true
	if tasks[0].Tags[0] != "home" || tasks[0].Subtasks[0].Done {
		t.Error("Clone shares slices with the original")
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}

func TestGet(t *testing.T) {
	tasks := sampleTasks()
	got, ok := Get(tasks, "2")
	if !ok || got.Title != "Second" {
		t.Errorf("Get(2) = %+v, %v", got, ok)
	}
	if _, ok := Get(tasks, "9"); ok {
		t.Error("Get(9) found a task")
	}
}
