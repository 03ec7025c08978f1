package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mpyw/modresolve/internal/output"
	"github.com/mpyw/modresolve/pkg/config"
	"github.com/mpyw/modresolve/pkg/loader"
	"github.com/mpyw/modresolve/pkg/lookup"
	"github.com/mpyw/modresolve/pkg/probe"
	"github.com/mpyw/modresolve/pkg/processor"
	"github.com/mpyw/modresolve/pkg/registry"
	"github.com/mpyw/modresolve/pkg/resolver"
)

// app holds global flags and the state loaded from them.
type app struct {
	// Global flags
	configFile string
	verbose    bool
	silent     bool

	// Loaded during PersistentPreRunE
	cfg    *config.Config
	logger *log.Logger
}

// NewRootCmd creates the root command for the modresolve CLI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "modresolve",
		Short: "Resolve module URLs against a module server",
		Long: `modresolve decides which URL a module loader should fetch for a logical module.

It probes the module script, then its bower.json and package.json, patches the
module registry when a package redirects to its entry file, and consults a
precomputed lookup table before probing anything.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initialize(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "path to configuration file (default "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&a.silent, "silent", false, "suppress all output except errors")

	rootCmd.AddCommand(newResolveCmd(a))
	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newLookupCmd(a))
	rootCmd.AddCommand(newPathCmd())

	return rootCmd
}

// initialize sets up logging, loads configuration and installs the
// configured lookup table as the process-wide table.
func (a *app) initialize(cmd *cobra.Command) error {
	a.logger = output.SetupLogging(a.verbose, a.silent)

	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	entries, err := cfg.Lookup.Entries()
	if err != nil {
		return err
	}
	lookup.Set(entries)

	a.logger.Debug("configuration loaded", "command", cmd.Name(), "lookup_entries", len(entries), "base_url", cfg.BaseURL)
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.configFile != "" {
		return config.LoadConfig(a.configFile)
	}
	cfg, err := config.LoadConfig(config.DefaultFile)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default()
		cfg.SetDefaults()
		return cfg, nil
	}
	return cfg, err
}

// newProber creates the HTTP prober described by the configuration.
func (a *app) newProber() (*probe.HTTPProber, error) {
	base, err := a.cfg.ParseBaseURL()
	if err != nil {
		return nil, err
	}
	opts := []probe.Option{
		probe.WithMethod(a.cfg.Probe.Method),
		probe.WithTimeout(a.cfg.Probe.Timeout),
		probe.WithRateLimit(a.cfg.Probe.Limit(), a.cfg.Probe.Burst),
		probe.WithLogger(a.logger),
	}
	if base != nil {
		opts = append(opts, probe.WithBaseURL(base))
	}
	return probe.NewHTTPProber(opts...), nil
}

// newProcessor wires prober, resolver, hook and processor together.
// A nil fetcher accepts every final URL without fetching it.
func (a *app) newProcessor(prober probe.Prober, fetcher loader.Fetcher, opts ...processor.Option) *processor.Processor {
	if fetcher == nil {
		fetcher = loader.FetcherFunc(func(ctx context.Context, _ *loader.Context, _, _ string) error {
			return ctx.Err()
		})
	}

	res := resolver.New(prober,
		resolver.WithExtension(a.cfg.Extension),
		resolver.WithManifests(a.cfg.Manifests...),
		resolver.WithLogger(a.logger),
	)
	hook := loader.NewHook(fetcher, res,
		loader.WithPatcher(registry.Patcher{Namespace: a.cfg.PackageNamespace}),
		loader.WithLogger(a.logger),
	)

	lc := loader.NewContext("_")
	for name, loc := range a.cfg.Paths {
		lc.Paths[name] = loc
	}

	return processor.New(hook, append([]processor.Option{
		processor.WithContext(lc),
		processor.WithPlugins(a.cfg.Plugins.Registry()),
		processor.WithExtension(a.cfg.Extension),
		processor.WithConcurrency(a.cfg.Concurrency),
		processor.WithVerbose(a.verbose && !a.silent),
		processor.WithLogger(a.logger),
	}, opts...)...)
}

// modules returns args, or the configured modules when no args are given.
func (a *app) modules(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(a.cfg.Modules) > 0 {
		return a.cfg.Modules, nil
	}
	return nil, fmt.Errorf("no modules given and none configured")
}

// reportErrors prints processing errors and returns a summary error.
func reportErrors(result *processor.ProcessResult) error {
	if len(result.Errors) == 0 {
		return nil
	}
	fmt.Fprintln(os.Stderr, "Errors:")
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "  %v\n", e)
	}
	return fmt.Errorf("%d error(s) occurred", len(result.Errors))
}
