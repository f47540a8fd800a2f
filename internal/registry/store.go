// Package registry tracks trained operator models: where their .gkn
// checkpoint lives, what architecture produced it, and free-form metadata.
// Two stores are provided, an in-memory one for tests and tooling and a
// SQLite-backed one for anything that should survive a process.
package registry

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a named model is absent from the store.
var ErrNotFound = errors.New("registry: model not found")

// Entry is one registered model.
type Entry struct {
	// Name identifies the model; Put replaces an existing entry with the
	// same name.
	Name string
	// ModelType is the architecture, e.g. "FourierNeuralOperator".
	ModelType string
	// Path locates the .gkn checkpoint.
	Path string
	// NumParams is the total parameter element count.
	NumParams int
	// Metadata carries free-form key/value pairs.
	Metadata map[string]string
	// CreatedAt is set on first Put, UpdatedAt on every Put.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists model entries.
type Store interface {
	// Init prepares the store for use; it must be called before any other
	// method.
	Init(ctx context.Context) error
	// Put inserts or replaces the entry named entry.Name.
	Put(ctx context.Context, entry Entry) error
	// Get returns the named entry and whether it exists.
	Get(ctx context.Context, name string) (Entry, bool, error)
	// List returns all entries ordered by name.
	List(ctx context.Context) ([]Entry, error)
	// Delete removes the named entry, returning ErrNotFound if absent.
	Delete(ctx context.Context, name string) error
	Close() error
}
