package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("orbit")

// Bolt stores the blob under a key in a bbolt database.
type Bolt struct {
	db  *bolt.DB
	key []byte
}

// OpenBolt opens (or creates) the database at path.
func OpenBolt(path, key string) (*Bolt, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create bolt dir: %w", err)
		}
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}
	if key == "" {
		key = DefaultKey
	}
	return &Bolt{db: db, key: []byte(key)}, nil
}

// Load returns the stored blob, or ErrNotFound.
func (b *Bolt) Load() ([]byte, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return ErrNotFound
		}
		v := bucket.Get(b.key)
		if v == nil {
			return ErrNotFound
		}
		// v is only valid for the life of the transaction.
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save replaces the stored blob.
func (b *Bolt) Save(data []byte) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return bucket.Put(b.key, data)
	})
	if err != nil {
		return fmt.Errorf("write bolt db: %w", err)
	}
	return nil
}

// Close releases the database file lock.
func (b *Bolt) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}
