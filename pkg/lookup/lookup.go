// Package lookup holds precomputed module URLs for known deployments.
//
// A table maps logical module names to final URLs. Modules found in the table
// are fetched directly without probing the server.
package lookup

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const ext = ".js"

// Table is a lookup table of module name to URL.
// Set replaces the whole table; entries are never merged.
type Table struct {
	mu      sync.RWMutex
	entries map[string]string
}

// New creates a table holding a copy of entries.
func New(entries map[string]string) *Table {
	t := &Table{}
	t.Set(entries)
	return t
}

// Set replaces the table with a copy of entries.
func (t *Table) Set(entries map[string]string) {
	cp := make(map[string]string, len(entries))
	maps.Copy(cp, entries)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = cp
}

// Get returns the URL for key. A trailing ".js" is ignored, and both the bare
// key and the key with ".js" are tried, in that order.
func (t *Table) Get(key string) (string, bool) {
	key = strings.TrimSuffix(key, ext)

	t.mu.RLock()
	defer t.mu.RUnlock()
	if url, ok := t.entries[key]; ok {
		return url, true
	}
	url, ok := t.entries[key+ext]
	return url, ok
}

// All returns a copy of the current table.
func (t *Table) All() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.entries)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

var defaultTable = New(nil)

// Default returns the process-wide table.
func Default() *Table {
	return defaultTable
}

// Set replaces the process-wide table.
func Set(entries map[string]string) {
	defaultTable.Set(entries)
}

// Get looks key up in the process-wide table.
func Get(key string) (string, bool) {
	return defaultTable.Get(key)
}

// All returns a copy of the process-wide table.
func All() map[string]string {
	return defaultTable.All()
}

// Load reads a table from a YAML or JSON file.
func Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup table: %w", err)
	}
	entries := make(map[string]string)
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse lookup table: %w", err)
	}
	return entries, nil
}

// Marshal encodes entries as indented JSON when format is "json" and as YAML
// otherwise. Keys are sorted in both formats.
func Marshal(entries map[string]string, format string) ([]byte, error) {
	if format == "json" {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode lookup table: %w", err)
		}
		return append(data, '\n'), nil
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode lookup table: %w", err)
	}
	return data, nil
}

// FormatFor returns the Marshal format of a table file: "json" for a ".json"
// file and "yaml" otherwise.
func FormatFor(path string) string {
	if filepath.Ext(path) == ".json" {
		return "json"
	}
	return "yaml"
}

// Write stores entries at path in the format FormatFor picks.
func Write(path string, entries map[string]string) error {
	data, err := Marshal(entries, FormatFor(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write lookup table: %w", err)
	}
	return nil
}
