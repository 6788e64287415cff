package store

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/orbit/internal/storage"
	"github.com/nibzard/orbit/internal/task"
)

var created = time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

func seed(t *testing.T) []byte {
	t.Helper()
	data, err := task.Encode([]task.Task{
		{ID: "a", Title: "Alpha", Priority: task.PriorityLow, Status: task.StatusTodo, Subtasks: []task.Subtask{{Text: "x"}}, CreatedAt: created},
		{ID: "b", Title: "Beta", Priority: task.PriorityHigh, Status: task.StatusDone, CreatedAt: created},
	})
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestOpenLoadsStoredBoard(t *testing.T) {
	s := Open(storage.NewMemory(seed(t)), nil)
	tasks := s.Tasks()
	if len(tasks) != 2 || tasks[0].ID != "a" || tasks[1].ID != "b" {
		t.Fatalf("Tasks() = %+v", tasks)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d", s.Len())
	}
}

func TestOpenFailsOpen(t *testing.T) {
	tests := []struct {
		name     string
		backend  storage.Backend
		wantWarn bool
	}{
		{"nothing stored", storage.NewMemory(nil), false},
		{"empty blob", storage.NewMemory([]byte("")), false},
		{"corrupt json", storage.NewMemory([]byte("{not json")), true},
		{"wrong shape", storage.NewMemory([]byte(`{"tasks":[]}`)), true},
		{"invalid status", storage.NewMemory([]byte(`[{"id":"1","title":"t","priority":"low","status":"later","tags":[],"subtasks":[],"createdAt":"2026-01-01T00:00:00Z"}]`)), true},
		{"unreadable", failingBackend{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

			s := Open(tt.backend, logger)
			tasks := s.Tasks()
			if tasks == nil || len(tasks) != 0 {
				t.Errorf("Tasks() = %#v, want empty board", tasks)
			}
			gotWarn := strings.Contains(buf.String(), "WARN")
			if gotWarn != tt.wantWarn {
				t.Errorf("warned = %v, want %v; log:\n%s", gotWarn, tt.wantWarn, buf.String())
			}
		})
	}
}

func TestOpenKeepsTasksWithUnknownFields(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"task field", `[{"id":"k","title":"keep me","priority":"low","status":"todo","tags":[],"subtasks":[],"notes":"x","createdAt":"2026-01-01T00:00:00Z"}]`},
		{"subtask field", `[{"id":"k","title":"keep me","priority":"low","status":"todo","tags":[],"subtasks":[{"text":"s","done":false,"due":"soon"}],"createdAt":"2026-01-01T00:00:00Z"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
			mem := storage.NewMemory([]byte(tt.payload))

			s := Open(mem, logger)
			tasks := s.Tasks()
			if len(tasks) != 1 || tasks[0].Title != "keep me" {
				t.Fatalf("Tasks() = %+v, want the stored task", tasks)
			}
			if !strings.Contains(buf.String(), "unknown field") {
				t.Errorf("no unknown field warning; log:\n%s", buf.String())
			}

			tasks = append(tasks, task.Task{ID: "c", Title: "c", Priority: task.PriorityMed, Status: task.StatusTodo, CreatedAt: created})
			if err := s.SetTasks(tasks); err != nil {
				t.Fatalf("SetTasks() error = %v", err)
			}
			data, err := mem.Load()
			if err != nil {
				t.Fatal(err)
			}
			saved, err := task.Decode(data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			titles := make([]string, 0, len(saved))
			for _, tk := range saved {
				titles = append(titles, tk.Title)
			}
			if strings.Join(titles, ",") != "keep me,c" {
				t.Errorf("saved titles = %v, want [keep me c]", titles)
			}
		})
	}
}

func TestTasksReturnsCopy(t *testing.T) {
	s := Open(storage.NewMemory(seed(t)), nil)
	tasks := s.Tasks()
	tasks[0].Title = "mutated"
	tasks[0].Subtasks[0].Done = true

	again := s.Tasks()
	if again[0].Title != "Alpha" || again[0].Subtasks[0].Done {
		t.Errorf("store state changed through a read: %+v", again[0])
	}
}

func TestSetTasksPersistsAndNotifies(t *testing.T) {
	mem := storage.NewMemory(nil)
	s := Open(mem, nil)

	var order []string
	var seen []task.Task
	s.Subscribe(func(tasks []task.Task) {
		order = append(order, "first")
		seen = tasks
	})
	s.Subscribe(func([]task.Task) { order = append(order, "second") })

	next := []task.Task{{ID: "n", Title: "New", Priority: task.PriorityMed, Status: task.StatusTodo, CreatedAt: created}}
	if err := s.SetTasks(next); err != nil {
		t.Fatalf("SetTasks() error = %v", err)
	}
	if strings.Join(order, ",") != "first,second" {
		t.Errorf("observer order = %v", order)
	}
	if len(seen) != 1 || seen[0].ID != "n" {
		t.Errorf("observer saw %+v", seen)
	}
	if mem.Saves() != 1 {
		t.Errorf("Saves() = %d, want 1", mem.Saves())
	}

	// A fresh store over the same backend sees the write.
	reopened := Open(mem, nil)
	got := reopened.Tasks()
	if len(got) != 1 || got[0].Title != "New" || got[0].Tags == nil {
		t.Errorf("reopened Tasks() = %+v", got)
	}

	next[0].Title = "changed after write"
	if s.Tasks()[0].Title != "New" {
		t.Error("store aliases the slice passed to SetTasks")
	}
}

func TestSetTasksWriteFailure(t *testing.T) {
	mem := storage.NewMemory(nil)
	mem.SaveErr = errors.New("quota exceeded")
	s := Open(mem, nil)

	notified := 0
	s.Subscribe(func([]task.Task) { notified++ })

	err := s.SetTasks([]task.Task{{ID: "1", Priority: task.PriorityLow, Status: task.StatusTodo}})
	if !errors.Is(err, mem.SaveErr) {
		t.Fatalf("SetTasks() err = %v, want wrapped save error", err)
	}
	if s.Len() != 1 {
		t.Error("in-memory state not replaced after a failed write")
	}
	if notified != 1 {
		t.Errorf("notified = %d, want 1", notified)
	}
}

func TestUnsubscribe(t *testing.T) {
	s := Open(storage.NewMemory(nil), nil)
	calls := 0
	unsubscribe := s.Subscribe(func([]task.Task) { calls++ })
	_ = s.SetTasks(nil)
	unsubscribe()
	_ = s.SetTasks(nil)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestObserverCanReadStore(t *testing.T) {
	s := Open(storage.NewMemory(nil), nil)
	var n int
	s.Subscribe(func([]task.Task) { n = s.Len() })
	if err := s.SetTasks([]task.Task{{ID: "1", Priority: task.PriorityLow, Status: task.StatusTodo}}); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("observer read Len() = %d", n)
	}
}

func TestDraggedID(t *testing.T) {
	mem := storage.NewMemory(nil)
	s := Open(mem, nil)

	if _, ok := s.DraggedID(); ok {
		t.Fatal("drag in progress on a fresh store")
	}
	s.SetDraggedID("a")
	if id, ok := s.DraggedID(); !ok || id != "a" {
		t.Errorf("DraggedID() = %q, %v", id, ok)
	}
	s.ClearDragged()
	s.ClearDragged()
	if _, ok := s.DraggedID(); ok {
		t.Error("drag still in progress after ClearDragged")
	}
	if mem.Saves() != 0 {
		t.Error("dragged id was persisted")
	}
}

type failingBackend struct{}

func (failingBackend) Load() ([]byte, error) { return nil, errors.New("permission denied") }
func (failingBackend) Save([]byte) error     { return nil }
func (failingBackend) Close() error          { return nil }
