package config

import (
	"fmt"
	"net/url"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/mpyw/modresolve/pkg/lookup"
)

// Hooks defines shell commands to run before and after processing.
type Hooks struct {
	// Pre are shell commands to run before processing
	Pre []string `yaml:"pre" json:"pre,omitempty"`
	// Post are shell commands to run after processing
	Post []string `yaml:"post" json:"post,omitempty"`
}

// Lookup can be an inline table or a path to a table file.
type Lookup struct {
	Inline map[string]string
	File   string
}

// UnmarshalYAML implements custom unmarshaling for Lookup.
// Accepts either a string (file path) or a mapping (inline table).
func (l *Lookup) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		l.Inline = nil
		l.File = value.Value
		return nil
	case yaml.MappingNode:
		var entries map[string]string
		if err := value.Decode(&entries); err != nil {
			return err // unreachable via LoadConfig: schema validation catches malformed tables first
		}
		l.Inline = entries
		l.File = ""
		return nil
	default:
		return fmt.Errorf("lookup must be a file path or a mapping of module names to URLs")
	}
}

// MarshalYAML implements custom marshaling for Lookup.
func (l Lookup) MarshalYAML() (any, error) {
	if l.File != "" {
		return l.File, nil
	}
	return l.Inline, nil
}

// IsZero reports whether no table is configured.
func (l Lookup) IsZero() bool {
	return l.File == "" && len(l.Inline) == 0
}

// Entries returns the table, loading it from file if necessary.
func (l Lookup) Entries() (map[string]string, error) {
	if l.File != "" {
		entries, err := lookup.Load(l.File)
		if err != nil {
			return nil, fmt.Errorf("failed to load lookup table: %w", err)
		}
		return entries, nil
	}
	return l.Inline, nil
}

// Probe configures existence checks.
type Probe struct {
	// Method is the request method (GET or HEAD)
	Method string `yaml:"method" json:"method,omitempty"`
	// Timeout bounds every probe. Zero means no bound.
	Timeout time.Duration `yaml:"timeout" json:"timeout,omitempty"`
	// RateLimit is the maximum number of probes per second. Zero means unlimited.
	RateLimit float64 `yaml:"rate_limit" json:"rate_limit,omitempty"`
	// Burst is the number of probes allowed at once under RateLimit
	Burst int `yaml:"burst" json:"burst,omitempty"`
}

// Limit returns RateLimit as a rate.Limit.
func (p Probe) Limit() rate.Limit {
	return rate.Limit(p.RateLimit)
}

// Block configures the block plugin.
type Block struct {
	Prefix string `yaml:"prefix" json:"prefix,omitempty"`
}

// Plugins configures the name-rewriting plugins.
type Plugins struct {
	Block Block `yaml:"block" json:"block,omitempty"`
	// I18n maps first name segments to locale directories; "default" is
	// prepended to names without an alias.
	I18n map[string]string `yaml:"i18n" json:"i18n,omitempty"`
	// Lang replaces %lang% in localized names
	Lang string `yaml:"lang" json:"lang,omitempty"`
}

// Config represents the user configuration file.
type Config struct {
	// BaseURL is the URL host-relative module URLs are probed against
	BaseURL string `yaml:"base_url" json:"base_url,omitempty"`
	// Extension is the module file extension
	Extension string `yaml:"extension" json:"extension,omitempty"`
	// Manifests are the manifest file names probed after the script, in order
	Manifests []string `yaml:"manifests" json:"manifests,omitempty"`
	// PackageNamespace is the module name prefix whose records are renamed on redirection
	PackageNamespace string `yaml:"package_namespace" json:"package_namespace,omitempty"`
	// Paths maps module names to configured locations that are never probed
	Paths map[string]string `yaml:"paths" json:"paths,omitempty"`
	// Lookup is the precomputed table of module names to URLs
	Lookup Lookup `yaml:"lookup" json:"lookup,omitempty"`
	// Probe configures existence checks
	Probe Probe `yaml:"probe" json:"probe,omitempty"`
	// Plugins configures name-rewriting plugins
	Plugins Plugins `yaml:"plugins" json:"plugins,omitempty"`
	// Modules are the modules resolved by the generate command
	Modules []string `yaml:"modules" json:"modules,omitempty"`
	// Concurrency is the number of modules resolved at once
	Concurrency int `yaml:"concurrency" json:"concurrency,omitempty"`
	// Format is the Go template for each output line
	Format string `yaml:"format" json:"format,omitempty"`
	// Hooks are shell commands to run before and after processing
	Hooks Hooks `yaml:"hooks" json:"hooks,omitempty"`
}

// SetDefaults sets default values for optional fields left empty.
func (c *Config) SetDefaults() {
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.Probe.Burst < 1 {
		c.Probe.Burst = 1
	}
	if c.Paths == nil {
		c.Paths = make(map[string]string)
	}
}

// ParseBaseURL parses BaseURL. It returns nil when no base URL is configured.
func (c *Config) ParseBaseURL() (*url.URL, error) {
	if c.BaseURL == "" {
		return nil, nil
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base_url: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("invalid base_url: %q is not absolute", c.BaseURL)
	}
	return u, nil
}
