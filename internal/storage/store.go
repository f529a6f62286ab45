package storage

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// Entry is a single key/value pair returned by a prefix scan.
type Entry struct {
	Key   string
	Value []byte
}

// Store is a key-ordered persistent map. It is the engine's only source of
// truth; nothing is cached across calls. ScanPrefix returns entries in key
// order and pages past any backend page limit transparently. No multi-key
// atomicity is provided.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	ScanPrefix(ctx context.Context, prefix string) ([]Entry, error)
}
