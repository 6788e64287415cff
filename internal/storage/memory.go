package storage

import "sync"

// Memory keeps the blob in memory. Used by tests and dry runs.
type Memory struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	SaveErr error // returned by Save when set
}

// NewMemory returns a memory backend seeded with data. A nil seed means
// nothing is stored yet.
func NewMemory(data []byte) *Memory {
	m := &Memory{}
	if data != nil {
		m.data = append([]byte(nil), data...)
	}
	return m
}

func (m *Memory) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *Memory) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = append([]byte(nil), data...)
	m.saves++
	return nil
}

func (m *Memory) Close() error { return nil }

// Saves reports how many successful writes have happened.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
