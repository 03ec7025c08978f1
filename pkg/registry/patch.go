package registry

import (
	"fmt"
	"strings"

	"github.com/mpyw/modresolve/pkg/urlutil"
)

// DefaultNamespace is the module name prefix of packages whose records are
// renamed after a redirection.
const DefaultNamespace = "packages/"

// Patcher computes the record of a redirected module.
//
// A package such as "packages/widget" may live at ".../widget/lib/index.js".
// The loader resolves relative requires against the record name, so "./sub"
// inside the package would point next to the logical alias instead of next
// to the real entry file. Renaming the record to the real location fixes it.
type Patcher struct {
	// Namespace is the module name prefix whose records are renamed.
	// Empty means DefaultNamespace.
	Namespace string
}

func (p Patcher) namespace() string {
	if p.Namespace == "" {
		return DefaultNamespace
	}
	return p.Namespace
}

// Renames reports whether records of moduleName are renamed on redirection.
func (p Patcher) Renames(moduleName string) bool {
	return strings.HasPrefix(moduleName, p.namespace())
}

// Patch returns rec pointing at resolvedURL. It does not touch any registry.
func (p Patcher) Patch(rec Record, moduleName, resolvedURL string) Record {
	rec.URL = resolvedURL
	if p.Renames(moduleName) {
		rec.Name = nameFromURL(resolvedURL)
	}
	return rec
}

func nameFromURL(url string) string {
	parts := urlutil.Split(url)
	if parts.Domain == "" {
		return parts.Path
	}
	path := parts.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return parts.Domain + path
}

// Patch describes a registry update made by Apply.
type Patch struct {
	// Record is the record after the update.
	Record *Record
	// PreviousName and PreviousURL are the values before the update.
	PreviousName string
	PreviousURL  string
	// Applied is false when the record already pointed at the resolved URL.
	Applied bool
}

// Renamed reports whether the record name changed.
func (p Patch) Renamed() bool {
	return p.Applied && p.Record.Name != p.PreviousName
}

// Apply points the record of moduleName at resolvedURL and indexes it under
// its possibly new name.
//
// The record is updated in place so every holder of the pointer sees the new
// name, and it stays indexed under moduleName. Apply must return before the
// resolved URL is fetched: children of the module resolve against the name it
// sets.
func (r *Registry) Apply(moduleName, resolvedURL string, p Patcher) (Patch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[moduleName]
	if !ok {
		return Patch{}, fmt.Errorf("%w: %s", ErrNotRegistered, moduleName)
	}

	result := Patch{Record: rec, PreviousName: rec.Name, PreviousURL: rec.URL}
	if rec.URL == resolvedURL {
		return result, nil
	}

	*rec = p.Patch(*rec, moduleName, resolvedURL)
	r.records[rec.Name] = rec
	result.Applied = true
	return result, nil
}
