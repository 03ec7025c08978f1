// Package processor resolves batches of modules through a loader hook.
package processor

import (
	"github.com/charmbracelet/log"

	"github.com/mpyw/modresolve/internal/output"
	"github.com/mpyw/modresolve/pkg/loader"
	"github.com/mpyw/modresolve/pkg/plugin"
	"github.com/mpyw/modresolve/pkg/resolver"
)

// Processor resolves modules the way a host loader requests them.
type Processor struct {
	hook        *loader.Hook
	lc          *loader.Context
	plugins     *plugin.Registry
	ext         string
	concurrency int
	out         string
	dryRun      bool
	verbose     bool
	logger      *log.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithContext sets the loading context modules are registered in.
// A fresh context is used by default.
func WithContext(lc *loader.Context) Option {
	return func(p *Processor) {
		p.lc = lc
	}
}

// WithPlugins sets the plugins used for "plugin!name" ids.
func WithPlugins(plugins *plugin.Registry) Option {
	return func(p *Processor) {
		p.plugins = plugins
	}
}

// WithExtension sets the module file extension (default ".js").
func WithExtension(ext string) Option {
	return func(p *Processor) {
		p.ext = ext
	}
}

// WithConcurrency sets the number of modules resolved at once.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		p.concurrency = max(n, 1)
	}
}

// WithOutput sets the file the resulting lookup table is written to.
func WithOutput(path string) Option {
	return func(p *Processor) {
		p.out = path
	}
}

// WithDryRun enables dry run mode (no file writes).
func WithDryRun(dryRun bool) Option {
	return func(p *Processor) {
		p.dryRun = dryRun
	}
}

// WithVerbose enables verbose output.
func WithVerbose(verbose bool) Option {
	return func(p *Processor) {
		p.verbose = verbose
	}
}

// WithLogger sets the logger for processing diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// New creates a new Processor.
func New(hook *loader.Hook, opts ...Option) *Processor {
	p := &Processor{
		hook:        hook,
		lc:          loader.NewContext("_"),
		plugins:     plugin.NewRegistry(),
		ext:         resolver.DefaultExtension,
		concurrency: 1,
		logger:      output.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Context returns the loading context modules are registered in.
func (p *Processor) Context() *loader.Context {
	return p.lc
}

// ModuleResult is the result of loading one requested id.
type ModuleResult struct {
	// ID is the id as requested, including any plugin prefix.
	ID      string
	Outcome loader.Outcome
	Err     error
}

// ProcessResult holds the result of processing.
type ProcessResult struct {
	ModulesProcessed  int
	ModulesRedirected int
	// Modules holds one result per distinct id, in request order.
	Modules []ModuleResult
	Errors  []error
	// Written is the lookup table file written, empty when none was.
	Written string
}

// Table returns the lookup table of every module that loaded successfully.
func (r *ProcessResult) Table() map[string]string {
	table := make(map[string]string, len(r.Modules))
	for _, m := range r.Modules {
		if m.Err == nil {
			table[m.Outcome.Module] = m.Outcome.URL
		}
	}
	return table
}
