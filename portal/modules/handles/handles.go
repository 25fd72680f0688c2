// Package handles keeps short-lived references to binary content (rendered
// consent documents, template assets). A handle is the server-side analog
// of a browser object URL: it must be explicitly released when the view
// that owns it closes or when a newer blob supersedes it, otherwise the
// blob stays resident for the process lifetime.
package handles

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrReleased = errors.New("handle has been released")

type Registry struct {
	mu      sync.Mutex
	entries map[string]*Handle
}

type Handle struct {
	id          string
	contentType string

	mu       sync.Mutex
	data     []byte
	released bool

	reg *Registry
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Handle),
	}
}

// Acquire stores the blob and returns a new independent handle for it.
// Handles never share state: releasing one does not affect any other.
func (r *Registry) Acquire(data []byte, contentType string) *Handle {
	h := &Handle{
		id:          uuid.New().String(),
		contentType: contentType,
		data:        data,
		reg:         r,
	}

	r.mu.Lock()
	r.entries[h.id] = h
	r.mu.Unlock()

	return h
}

// Get looks a live handle up by id.
func (r *Registry) Get(id string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.entries[id]
	return h, ok
}

// Len reports the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

func (h *Handle) ID() string {
	return h.id
}

func (h *Handle) ContentType() string {
	return h.contentType
}

// Bytes returns the blob, or ErrReleased once the handle was released.
func (h *Handle) Bytes() ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return nil, ErrReleased
	}
	return h.data, nil
}

// Release drops the blob and unregisters the handle. Idempotent.
func (h *Handle) Release() {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return
	}
	h.released = true
	h.data = nil
	h.mu.Unlock()

	h.reg.mu.Lock()
	delete(h.reg.entries, h.id)
	h.reg.mu.Unlock()
}

// Released reports whether the handle was released.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.released
}
