// Package registry holds the module records of a loading context.
package registry

import (
	"errors"
	"sort"
	"sync"
)

// ErrNotRegistered is returned when a module has no record in the registry.
var ErrNotRegistered = errors.New("module is not registered")

// Record is the bookkeeping entry of one module.
// Name is the name relative requires inside the module resolve against.
type Record struct {
	Name string
	URL  string
}

// Registry maps module names to records.
//
// A record may be indexed under several names after a redirection: the name
// it was requested by and the name it was rewritten to. For every record,
// Lookup(record.Name) returns that record.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{records: make(map[string]*Record)}
}

// Register creates the record for name unless one exists, and returns it.
func (r *Registry) Register(name, url string) *Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[name]; ok {
		return rec
	}
	rec := &Record{Name: name, URL: url}
	r.records[name] = rec
	return rec
}

// Lookup finds the record indexed under name.
func (r *Registry) Lookup(name string) (*Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[name]
	return rec, ok
}

// Snapshot returns a copy of the record indexed under name.
// The copy is taken under the registry lock.
func (r *Registry) Snapshot(name string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[name]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Names returns every indexed name in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.records))
	for name := range r.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of indexed names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
