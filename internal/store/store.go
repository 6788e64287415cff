// Package store owns the board's task collection and the transient dragged
// task id. It is the only component that touches persisted data.
//
// Reads return deep copies. The single write, SetTasks, replaces the whole
// collection, persists it and then notifies every observer.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nibzard/orbit/internal/storage"
	"github.com/nibzard/orbit/internal/task"
)

// Observer is called with the new collection after every SetTasks.
type Observer func(tasks []task.Task)

// Store holds board state in memory, backed by a storage.Backend.
type Store struct {
	mu        sync.Mutex
	backend   storage.Backend
	logger    *log.Logger
	tasks     []task.Task
	dragged   string
	dragging  bool
	observers map[int]Observer
	nextObs   int
}

// Open loads the collection from backend. Loading fails open: a missing,
// unreadable, unparseable or invalid payload yields an empty board and a
// warning in the log. Open never returns an error.
func Open(backend storage.Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Store{
		backend:   backend,
		logger:    logger,
		observers: make(map[int]Observer),
	}
	s.tasks = s.load()
	return s
}

func (s *Store) load() []task.Task {
	data, err := s.backend.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug("no stored board, starting empty")
		} else {
			s.logger.Warn("board unreadable, starting empty", "err", err)
		}
		return []task.Task{}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []task.Task{}
	}

	result := task.Validate(data)
	if !result.Valid {
		s.logger.Warn("stored board is invalid, starting empty", "err", result.Errors[0], "errors", len(result.Errors))
		return []task.Task{}
	}
	for _, w := range result.Warnings {
		s.logger.Warn(w)
	}

	tasks, err := task.Decode(data)
	if err != nil {
		s.logger.Warn("stored board is corrupt, starting empty", "err", err)
		return []task.Task{}
	}
	s.logger.Debug("board loaded", "tasks", len(tasks))
	return tasks
}

// Tasks returns a deep copy of the current collection in order.
func (s *Store) Tasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return task.Clone(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// SetTasks replaces the collection, persists it and notifies observers.
// The in-memory state and the notifications do not depend on the write
// succeeding; the write error, if any, is returned.
func (s *Store) SetTasks(next []task.Task) error {
	s.mu.Lock()
	s.tasks = task.Normalize(task.Clone(next))
	persistErr := s.persistLocked()
	observers := s.observersLocked()
	snapshot := s.tasks
	s.mu.Unlock()

	for _, fn := range observers {
		fn(task.Clone(snapshot))
	}
	return persistErr
}

func (s *Store) persistLocked() error {
	data, err := task.Encode(s.tasks)
	if err != nil {
		s.logger.Error("encode board", "err", err)
		return err
	}
	if err := s.backend.Save(data); err != nil {
		s.logger.Error("persist board", "err", err)
		return fmt.Errorf("persist board: %w", err)
	}
	s.logger.Debug("board saved", "tasks", len(s.tasks))
	return nil
}

func (s *Store) observersLocked() []Observer {
	keys := make([]int, 0, len(s.observers))
	for k := range s.observers {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]Observer, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.observers[k])
	}
	return out
}

// Subscribe registers fn to run after every SetTasks, in subscription order.
// The returned func removes it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// SetDraggedID records the task currently being dragged. Never persisted.
func (s *Store) SetDraggedID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragged = id
	s.dragging = true
}

// DraggedID returns the dragged task id, if a drag is in progress.
func (s *Store) DraggedID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragged, s.dragging
}

// ClearDragged ends any drag in progress.
func (s *Store) ClearDragged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragged = ""
	s.dragging = false
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
