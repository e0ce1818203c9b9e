// Package storage persists editor-uploaded assets to a named backend and
// hands back durable references.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// ErrUnknownBackend is returned when a request names a backend that is
// not registered. This is a validation error, never a silent fallback to
// the default.
var ErrUnknownBackend = errors.New("unknown storage backend")

// DefaultBackend is used when a request does not name one.
const DefaultBackend = "public"

// StoredAsset is the durable result of a successful ingest.
type StoredAsset struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mimeType"`
	Backend   string    `json:"backend"`
	URI       string    `json:"uri"`
	PublicURL string    `json:"publicUrl,omitempty"`
	Size      int64     `json:"size"`
}

// Backend writes asset bytes under a declared name and returns the stored
// reference. Remove undoes a write whose surrounding request failed, so a
// failed response never leaves an orphaned file as the only state change.
type Backend interface {
	Name() string
	Write(ctx context.Context, name string, r io.Reader) (*StoredAsset, error)
	Remove(ctx context.Context, uri string) error
}

// Backends holds the registered storage backends by name.
type Backends struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

func NewBackends(backends ...Backend) *Backends {
	b := &Backends{backends: make(map[string]Backend)}
	for _, be := range backends {
		b.Register(be)
	}
	return b
}

// Register adds or replaces a backend under its own name.
func (b *Backends) Register(be Backend) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.backends[be.Name()] = be
}

// Select returns the backend for name, or the default backend when name
// is empty. An unrecognized name is an error.
func (b *Backends) Select(name string) (Backend, error) {
	if name == "" {
		name = DefaultBackend
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	be, ok := b.backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return be, nil
}
