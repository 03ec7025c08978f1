package processor

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mpyw/modresolve/pkg/loader"
	"github.com/mpyw/modresolve/pkg/lookup"
	"github.com/mpyw/modresolve/pkg/urlutil"
)

// job is one module loaded on behalf of every id that names it.
type job struct {
	module string
	url    string
	slots  []int
	out    loader.Outcome
	err    error
}

// Process loads the given ids.
//
// Plugin ids are rewritten and every module is registered before any
// loading starts. Ids naming the same module share one load, so a module is
// never resolved twice at the same time. Per-module failures are collected
// in the result; only cancellation of ctx fails the whole run.
func (p *Processor) Process(ctx context.Context, ids []string) (*ProcessResult, error) {
	result := &ProcessResult{}
	jobs := p.plan(ids, result)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, j := range jobs {
		g.Go(func() error {
			j.out, j.err = p.hook.Load(gctx, p.lc, j.module, j.url)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}

	for _, j := range jobs {
		for _, slot := range j.slots {
			result.Modules[slot].Outcome = j.out
			result.Modules[slot].Err = j.err
		}
	}

	for _, m := range result.Modules {
		result.ModulesProcessed++
		if m.Err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", m.ID, m.Err))
			continue
		}
		if m.Outcome.URL != m.Outcome.Original {
			result.ModulesRedirected++
			if p.verbose {
				p.logger.Info("redirected", "id", m.ID, "url", m.Outcome.URL, "source", m.Outcome.Source)
			}
		}
	}

	if p.out != "" && !p.dryRun {
		if err := lookup.Write(p.out, result.Table()); err != nil {
			return nil, err
		}
		result.Written = p.out
	}

	return result, nil
}

// plan rewrites ids into modules, registers them, and records a result slot
// per distinct id.
func (p *Processor) plan(ids []string, result *ProcessResult) []*job {
	var jobs []*job
	byModule := make(map[string]*job)
	seen := make(map[string]bool, len(ids))

	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		name, err := p.plugins.Rewrite(id, p.lc.Config)
		if err != nil {
			result.Modules = append(result.Modules, ModuleResult{ID: id, Err: err})
			continue
		}
		module := strings.TrimSuffix(name, p.ext)

		j, ok := byModule[module]
		if !ok {
			j = &job{module: module, url: p.moduleURL(module)}
			p.lc.Registry.Register(j.module, j.url)
			byModule[module] = j
			jobs = append(jobs, j)
		}
		result.Modules = append(result.Modules, ModuleResult{ID: id})
		j.slots = append(j.slots, len(result.Modules)-1)
	}
	return jobs
}

// moduleURL computes the naive URL of module, applying the longest
// configured path prefix made of whole segments.
func (p *Processor) moduleURL(module string) string {
	url := module
	parts := strings.Split(module, "/")
	for i := len(parts); i > 0; i-- {
		prefix := strings.Join(parts[:i], "/")
		if loc, ok := p.lc.Paths[prefix]; ok {
			url = loc + module[len(prefix):]
			break
		}
	}
	return urlutil.EnsureExt(url, p.ext)
}
