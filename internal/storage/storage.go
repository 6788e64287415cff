// Package storage persists the serialized board as a single keyed blob.
//
// A Backend knows nothing about tasks. The store hands it the encoded
// collection on every write and asks for it once at open time.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultKey is the key the board blob is stored under.
const DefaultKey = "orbit-tasks-2026"

// ErrNotFound is returned by Load when nothing has been stored yet.
var ErrNotFound = errors.New("no stored board")

// Backend reads and writes the board blob.
type Backend interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Close() error
}

// Kind names a backend implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindBolt   Kind = "bolt"
	KindMemory Kind = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Kind     Kind
	FilePath string // board file for KindFile
	BoltPath string // database file for KindBolt
	Key      string // blob key for KindBolt; DefaultKey when empty
}

// Open returns the backend described by opts.
func Open(opts Options) (Backend, error) {
	key := opts.Key
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}

	switch Kind(strings.ToLower(string(opts.Kind))) {
	case "", KindFile:
		if opts.FilePath == "" {
			return nil, fmt.Errorf("file storage: board file path is empty")
		}
		return NewFile(opts.FilePath), nil
	case KindBolt:
		if opts.BoltPath == "" {
			return nil, fmt.Errorf("bolt storage: database path is empty")
		}
		b, err := OpenBolt(opts.BoltPath, key)
		if err != nil {
			return nil, err
		}
		return b, nil
	case KindMemory:
		return NewMemory(nil), nil
	default:
		return nil, fmt.Errorf("unknown storage %q (must be file, bolt or memory)", opts.Kind)
	}
}
