package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpyw/modresolve/internal/output"
	"github.com/mpyw/modresolve/pkg/loader"
	"github.com/mpyw/modresolve/pkg/template"
)

func newResolveCmd(a *app) *cobra.Command {
	var (
		fetch  bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "resolve [module...]",
		Short: "Resolve module URLs",
		Long: `Resolve prints the URL a loader fetches for each module.

Modules may carry a plugin prefix such as "block!Menu" or "i18n!greet".
Without arguments the modules listed in the configuration are resolved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modules, err := a.modules(args)
			if err != nil {
				return err
			}
			if format == "" {
				format = a.cfg.Format
			}
			tmpl, err := template.Parse(format)
			if err != nil {
				return err
			}

			prober, err := a.newProber()
			if err != nil {
				return err
			}
			var fetcher loader.Fetcher
			if fetch {
				fetcher = loader.NewHTTPFetcher(prober)
			}

			if !a.silent {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s▶ modresolve%s %sresolving %s%s\n",
					output.StderrColor(output.ColorCyan), output.StderrColor(output.ColorReset),
					output.StderrColor(output.ColorDim), strings.Join(modules, " "), output.StderrColor(output.ColorReset))
			}

			result, err := a.newProcessor(prober, fetcher).Process(cmd.Context(), modules)
			if err != nil {
				return err
			}

			for _, m := range result.Modules {
				if m.Err != nil {
					continue
				}
				vars := template.BuildVars(m.ID, m.Outcome, nil)
				line, err := tmpl.Render(vars)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), output.Paint(output.SourceColor(vars.Source, vars.Redirected), line))
			}

			return reportErrors(result)
		},
	}

	cmd.Flags().BoolVar(&fetch, "fetch", false, "fetch every final URL and fail on missing modules")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Go template for each output line (default from config)")

	return cmd
}
