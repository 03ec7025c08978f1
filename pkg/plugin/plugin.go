// Package plugin rewrites plugin-prefixed module names such as "block!Menu"
// into plain module paths before they are resolved.
package plugin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mpyw/modresolve/pkg/errors"
)

// Separator splits a plugin name from the module name it receives.
const Separator = "!"

// Plugin turns a logical name into a module path ending in ".js".
type Plugin interface {
	Name() string
	Rewrite(name string) string
}

// Registry holds plugins keyed by name.
type Registry struct {
	plugins map[string]Plugin
}

// NewRegistry creates a registry with the given plugins.
func NewRegistry(plugins ...Plugin) *Registry {
	r := &Registry{plugins: make(map[string]Plugin, len(plugins))}
	for _, p := range plugins {
		r.Register(p)
	}
	return r
}

// Register adds a plugin, replacing any plugin with the same name.
func (r *Registry) Register(p Plugin) {
	r.plugins[p.Name()] = p
}

// Lookup finds a plugin by name.
func (r *Registry) Lookup(name string) (Plugin, bool) {
	p, ok := r.plugins[name]
	return p, ok
}

// Names returns the registered plugin names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Split splits "plugin!name" into its parts. Names without a plugin prefix
// return an empty plugin name.
func Split(id string) (plugin, name string) {
	plugin, name, found := strings.Cut(id, Separator)
	if !found {
		return "", id
	}
	return plugin, name
}

// Rewrite rewrites a plugin-prefixed id into a module path and carries the
// per-module configuration in cfg over to the new path. Ids without a plugin
// prefix are returned unchanged.
func (r *Registry) Rewrite(id string, cfg map[string]any) (string, error) {
	pluginName, name := Split(id)
	if pluginName == "" {
		return id, nil
	}
	p, ok := r.Lookup(pluginName)
	if !ok {
		return "", errors.NewWithContext(errors.ErrCodeNotFound,
			fmt.Sprintf("unknown plugin %q", pluginName), map[string]any{"id": id})
	}
	computed := p.Rewrite(name)
	CopyConfig(cfg, pluginName, name, computed)
	return computed, nil
}

// CopyConfig copies the configuration stored under the original name, or
// under "plugin!original", onto the computed name. When both exist the
// plugin-prefixed entry wins.
func CopyConfig(cfg map[string]any, plugin, original, computed string) {
	if cfg == nil {
		return
	}
	for _, key := range []string{original, plugin + Separator + original} {
		if v, ok := cfg[key]; ok && v != nil {
			cfg[computed] = v
		}
	}
}

func segments(name string) []string {
	parts := strings.Split(name, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
