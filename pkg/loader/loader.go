// Package loader connects URL resolution to a host module loader.
//
// The host loader asks the Hook for every module it is about to fetch. The
// hook either short-circuits to a known URL without probing, or resolves the
// URL by probing, patches the module's registry record when the module was
// redirected, and then hands the final URL to the host's Fetcher.
package loader

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mpyw/modresolve/internal/output"
	"github.com/mpyw/modresolve/pkg/errors"
	"github.com/mpyw/modresolve/pkg/lookup"
	"github.com/mpyw/modresolve/pkg/probe"
	"github.com/mpyw/modresolve/pkg/registry"
	"github.com/mpyw/modresolve/pkg/resolver"
	"github.com/mpyw/modresolve/pkg/urlutil"
)

// ErrModuleNotFound is returned by HTTPFetcher when the final URL does not exist.
var ErrModuleNotFound = errors.New(errors.ErrCodeNotFound, "module not found")

// Source tells how the final URL of a module was chosen.
type Source string

const (
	// SourceLookup means the URL came from the lookup table.
	SourceLookup Source = "lookup"
	// SourcePaths means the module name is configured in the context's paths.
	SourcePaths Source = "paths"
	// SourceDomain means the URL already names a host.
	SourceDomain Source = "domain"
	// SourceProbe means the URL was resolved by probing.
	SourceProbe Source = "probe"
)

// Context is one loading context of the host loader.
type Context struct {
	Name string
	// Paths maps module names to configured locations. Modules listed here
	// are fetched as-is.
	Paths map[string]string
	// Config holds per-module configuration keyed by module name.
	Config map[string]any
	// Registry holds the records of modules requested in this context.
	Registry *registry.Registry
}

// NewContext creates a loading context with an empty registry.
func NewContext(name string) *Context {
	return &Context{
		Name:     name,
		Paths:    make(map[string]string),
		Config:   make(map[string]any),
		Registry: registry.New(),
	}
}

// Fetcher fetches the final URL of a module. It models the host loader's
// transport and is called exactly once per Load.
type Fetcher interface {
	Fetch(ctx context.Context, lc *Context, moduleName, url string) error
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, lc *Context, moduleName, url string) error

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, lc *Context, moduleName, url string) error {
	return f(ctx, lc, moduleName, url)
}

// HTTPFetcher fetches module scripts over HTTP through a Prober.
type HTTPFetcher struct {
	prober probe.Prober
	// OnFetch, if set, receives every fetched script.
	OnFetch func(moduleName, url string, body []byte)
}

// NewHTTPFetcher creates a fetcher backed by prober.
func NewHTTPFetcher(prober probe.Prober) *HTTPFetcher {
	return &HTTPFetcher{prober: prober}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, _ *Context, moduleName, url string) error {
	res := f.prober.Probe(ctx, url)
	if res.Exists {
		if f.OnFetch != nil {
			f.OnFetch(moduleName, url, res.Body)
		}
		return nil
	}
	if res.Err != nil {
		return errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to fetch module", res.Err,
			map[string]any{"module": moduleName, "url": url})
	}
	return fmt.Errorf("%w: %s (%s, status %d)", ErrModuleNotFound, moduleName, url, res.Status)
}

// Outcome describes how a module was loaded.
type Outcome struct {
	Module string
	// Original is the URL the host loader asked for.
	Original string
	// URL is the URL handed to the Fetcher.
	URL    string
	Source Source
	// Resolution is set for SourceProbe.
	Resolution *resolver.Resolution
	// Patch is set when the module's registry record was updated.
	Patch *registry.Patch
}

// Hook decides the URL of every module fetched by the host loader.
type Hook struct {
	next     Fetcher
	resolver *resolver.Resolver
	table    *lookup.Table
	patcher  registry.Patcher
	logger   *log.Logger
}

// Option configures a Hook.
type Option func(*Hook)

// WithTable sets the lookup table consulted before probing.
// The process-wide lookup.Default() table is used by default.
func WithTable(table *lookup.Table) Option {
	return func(h *Hook) {
		h.table = table
	}
}

// WithPatcher sets how registry records are patched after a redirection.
func WithPatcher(p registry.Patcher) Option {
	return func(h *Hook) {
		h.patcher = p
	}
}

// WithLogger sets the logger for hook diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(h *Hook) {
		h.logger = logger
	}
}

// NewHook creates a hook that fetches through next after resolving with r.
func NewHook(next Fetcher, r *resolver.Resolver, opts ...Option) *Hook {
	h := &Hook{
		next:     next,
		resolver: r,
		table:    lookup.Default(),
		logger:   output.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Load resolves url for moduleName and fetches the result.
//
// Modules found in the lookup table or the context's paths, and URLs that
// already name a host, are fetched without probing. Everything else must
// have a record in the context's registry: the URL is resolved by probing
// and, on redirection, the record is patched before the fetch starts.
func (h *Hook) Load(ctx context.Context, lc *Context, moduleName, url string) (Outcome, error) {
	if target, source, ok := h.shortCircuit(lc, moduleName, url); ok {
		out := Outcome{
			Module:   moduleName,
			Original: url,
			URL:      urlutil.EnsureExt(target, h.resolver.Extension()),
			Source:   source,
		}
		h.logger.Debug("skipping probes", "module", moduleName, "source", source, "url", out.URL)
		return out, h.fetch(ctx, lc, out)
	}

	if _, ok := lc.Registry.Lookup(moduleName); !ok {
		return Outcome{}, fmt.Errorf("%w: %s", registry.ErrNotRegistered, moduleName)
	}

	res := h.resolver.Resolve(ctx, url)
	out := Outcome{Module: moduleName, Original: url, URL: res.URL, Source: SourceProbe, Resolution: &res}
	if res.Err != nil {
		return out, fmt.Errorf("resolving %s: %w", moduleName, res.Err)
	}

	if res.Redirected() {
		patch, err := lc.Registry.Apply(moduleName, res.URL, h.patcher)
		if err != nil {
			return out, err
		}
		out.Patch = &patch
		if patch.Renamed() {
			h.logger.Info("module redirected", "module", moduleName, "name", patch.Record.Name, "url", res.URL)
		}
	}
	return out, h.fetch(ctx, lc, out)
}

func (h *Hook) shortCircuit(lc *Context, moduleName, url string) (string, Source, bool) {
	if hit, ok := h.table.Get(moduleName); ok {
		return hit, SourceLookup, true
	}
	if hit, ok := h.table.Get(url); ok {
		return hit, SourceLookup, true
	}
	if _, ok := lc.Paths[moduleName]; ok {
		return url, SourcePaths, true
	}
	if urlutil.HasDomain(url) {
		return url, SourceDomain, true
	}
	return "", "", false
}

func (h *Hook) fetch(ctx context.Context, lc *Context, out Outcome) error {
	if err := h.next.Fetch(ctx, lc, out.Module, out.URL); err != nil {
		return fmt.Errorf("loading %s: %w", out.Module, err)
	}
	return nil
}
