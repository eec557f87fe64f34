package attr

import (
	"context"
	"maps"
	"sync"
)

// Source is an external string-keyed attribute store.
type Source interface {
	// Get returns the attribute value and whether it is present.
	Get(name string) (string, bool)
	// Set writes the attribute.
	Set(name, value string) error
	// Remove deletes the attribute. Removing an absent attribute is not an error.
	Remove(name string) error
}

// Watcher is a Source that reports edits made by other writers.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Change, error)
}

// Change describes an attribute edited outside the host.
type Change struct {
	Name    string
	Value   string
	Present bool
}

// MapSource is an in-memory Source. The zero value is ready to use.
type MapSource struct {
	mu    sync.RWMutex
	attrs map[string]string
}

// NewMapSource creates a MapSource seeded with initial attributes.
func NewMapSource(initial map[string]string) *MapSource {
	return &MapSource{attrs: maps.Clone(initial)}
}

// Get returns the attribute value and whether it is present.
func (s *MapSource) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.attrs[name]
	return v, ok
}

// Set writes the attribute.
func (s *MapSource) Set(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attrs == nil {
		s.attrs = make(map[string]string)
	}
	s.attrs[name] = value
	return nil
}

// Remove deletes the attribute.
func (s *MapSource) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attrs, name)
	return nil
}

// Snapshot returns a copy of all attributes.
func (s *MapSource) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := maps.Clone(s.attrs)
	if out == nil {
		out = map[string]string{}
	}
	return out
}
