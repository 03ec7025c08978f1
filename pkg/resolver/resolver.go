// Package resolver decides which URL to fetch for a logical module.
//
// A module URL is resolved by probing an ordered queue of candidates: the
// script itself, then each package manifest. Candidates are probed one at a
// time so that nothing is requested after the first hit. When the queue is
// exhausted the original URL is returned unchanged and the host loader
// reports the missing module through its own error path.
package resolver

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/mpyw/modresolve/internal/output"
	"github.com/mpyw/modresolve/pkg/manifest"
	"github.com/mpyw/modresolve/pkg/probe"
	"github.com/mpyw/modresolve/pkg/urlutil"
)

// DefaultExtension is the module file extension.
const DefaultExtension = ".js"

// State is the state of a resolution.
type State int

const (
	// StateProbing means candidates are still being probed.
	StateProbing State = iota
	// StateResolved means a candidate produced the final URL.
	StateResolved
	// StateExhausted means no candidate matched and the original URL is used.
	StateExhausted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateProbing:
		return "probing"
	case StateResolved:
		return "resolved"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Kind tells how a candidate is interpreted on success.
type Kind int

const (
	// KindScript is the module file itself.
	KindScript Kind = iota
	// KindManifest is a package manifest declaring the entry file.
	KindManifest
)

// Candidate is one URL in the probe queue.
type Candidate struct {
	URL  string
	Kind Kind
}

// Attempt records the outcome of probing one candidate.
type Attempt struct {
	Candidate Candidate
	Exists    bool
	Status    int
	// EntryFile is the entry declared by a manifest, empty when none is usable.
	EntryFile string
}

// Resolution is the single result of resolving one module URL.
type Resolution struct {
	// Original is the URL the resolution started from.
	Original string
	// URL is the final URL: the hit, or Original when exhausted.
	URL string
	// State is StateResolved or StateExhausted.
	State State
	// Hit is the candidate that produced URL, nil when exhausted.
	Hit *Candidate
	// Attempts lists every probed candidate in order.
	Attempts []Attempt
	// Err is set when the context ended before the queue was exhausted.
	Err error
}

// Redirected reports whether the final URL differs from the original one.
func (r Resolution) Redirected() bool {
	return r.URL != r.Original
}

// Resolver resolves module URLs by probing.
type Resolver struct {
	prober    probe.Prober
	ext       string
	manifests []string
	logger    *log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithExtension sets the module file extension (default ".js").
func WithExtension(ext string) Option {
	return func(r *Resolver) {
		r.ext = ext
	}
}

// WithManifests sets the manifest file names probed after the script,
// in order (default bower.json then package.json).
func WithManifests(files ...string) Option {
	return func(r *Resolver) {
		r.manifests = append([]string(nil), files...)
	}
}

// WithLogger sets the logger for resolution diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a new Resolver.
func New(prober probe.Prober, opts ...Option) *Resolver {
	r := &Resolver{
		prober:    prober,
		ext:       DefaultExtension,
		manifests: manifest.DefaultFiles(),
		logger:    output.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Extension returns the module file extension.
func (r *Resolver) Extension() string {
	return r.ext
}

// Candidates returns the probe queue for url.
func (r *Resolver) Candidates(url string) []Candidate {
	base := urlutil.TrimExt(url)
	queue := make([]Candidate, 0, 1+len(r.manifests))
	queue = append(queue, Candidate{URL: base + r.ext, Kind: KindScript})
	for _, name := range r.manifests {
		queue = append(queue, Candidate{URL: base + "/" + name, Kind: KindManifest})
	}
	return queue
}

// Resolve probes the candidates of url in order and returns the final URL.
//
// It always returns exactly one Resolution. A cancelled context stops the
// queue and yields the original URL with Err set.
func (r *Resolver) Resolve(ctx context.Context, url string) Resolution {
	base := urlutil.TrimExt(url)
	res := Resolution{Original: url, State: StateProbing}

	for _, c := range r.Candidates(url) {
		if err := ctx.Err(); err != nil {
			res.Err = err
			break
		}

		result := r.prober.Probe(ctx, c.URL)
		attempt := Attempt{Candidate: c, Exists: result.Exists, Status: result.Status}

		if result.Exists {
			switch c.Kind {
			case KindScript:
				res.Attempts = append(res.Attempts, attempt)
				return r.resolved(res, c, c.URL)
			case KindManifest:
				if entry, ok := r.entryFile(c, result.Body); ok {
					attempt.EntryFile = entry
					res.Attempts = append(res.Attempts, attempt)
					return r.resolved(res, c, base+entry)
				}
			}
		}
		res.Attempts = append(res.Attempts, attempt)
	}

	res.State = StateExhausted
	res.URL = url
	r.logger.Debug("no candidate matched, keeping original url", "url", url, "attempts", len(res.Attempts))
	return res
}

func (r *Resolver) resolved(res Resolution, c Candidate, final string) Resolution {
	res.State = StateResolved
	res.Hit = &c
	res.URL = final
	r.logger.Debug("resolved module url", "url", res.Original, "final", final, "via", c.URL)
	return res
}

// entryFile reads the entry file of a manifest body. An unreadable manifest
// counts as absent so that the next candidate is tried.
func (r *Resolver) entryFile(c Candidate, body []byte) (string, bool) {
	data, err := manifest.Parse(body)
	if err != nil {
		r.logger.Debug("ignoring manifest", "url", c.URL, "error", err)
		return "", false
	}
	entry, ok := manifest.EntryFile(data, r.ext)
	if !ok {
		r.logger.Debug("manifest declares no usable entry", "url", c.URL)
	}
	return entry, ok
}
