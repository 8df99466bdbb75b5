// Package store provides key-value persistence for the ledger.
package store

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// KV is a flat, process-local key-value store.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Keys() ([]string, error)
	Close() error
}

// Open opens the named backend inside dir.
func Open(backend, dir string) (KV, error) {
	switch backend {
	case BackendSQLite, "":
		return OpenSQLite(filepath.Join(dir, "mcro.db"))
	case BackendJSON:
		return OpenJSON(filepath.Join(dir, "mcro.json"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// Path returns the file a backend stores its data in.
func Path(backend, dir string) string {
	if backend == BackendJSON {
		return filepath.Join(dir, "mcro.json")
	}
	return filepath.Join(dir, "mcro.db")
}
