package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/mpyw/modresolve/internal/output"
	"github.com/mpyw/modresolve/pkg/lookup"
	"github.com/mpyw/modresolve/pkg/processor"
)

// DefaultOutput is the lookup table file written by generate.
const DefaultOutput = "modresolve.lookup.json"

func newGenerateCmd(a *app) *cobra.Command {
	var (
		out     string
		dryRun  bool
		noHooks bool
	)

	cmd := &cobra.Command{
		Use:   "generate [module...]",
		Short: "Resolve modules and write a lookup table",
		Long: `Generate resolves modules by probing and writes the final URLs as a lookup
table, so that a deployment can skip probing entirely.

The table is written as JSON for a .json file and as YAML otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modules, err := a.modules(args)
			if err != nil {
				return err
			}

			if !noHooks && len(a.cfg.Hooks.Pre) > 0 {
				if err := runHooks("pre", a.cfg.Hooks.Pre, a.silent); err != nil {
					return err
				}
			}

			prober, err := a.newProber()
			if err != nil {
				return err
			}
			// Modules already in a lookup table would be copied, not probed
			lookup.Set(nil)

			proc := a.newProcessor(prober, nil, processor.WithOutput(out), processor.WithDryRun(dryRun))

			if !a.silent {
				fmt.Fprintf(cmd.OutOrStdout(), "%s▶ modresolve%s %sgenerating %s%s\n",
					output.StdoutColor(output.ColorCyan), output.StdoutColor(output.ColorReset),
					output.StdoutColor(output.ColorDim), out, output.StdoutColor(output.ColorReset))
			}

			result, err := proc.Process(cmd.Context(), modules)
			if err != nil {
				return err
			}

			if dryRun {
				data, err := lookup.Marshal(result.Table(), lookup.FormatFor(out))
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), string(data))
			}

			if !a.silent && (a.verbose || dryRun) {
				fmt.Fprintf(cmd.OutOrStdout(), "  Modules processed: %d\n", result.ModulesProcessed)
				fmt.Fprintf(cmd.OutOrStdout(), "  Modules redirected: %d\n", result.ModulesRedirected)
			} else if !a.silent {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s✓%s %d modules processed, %d redirected\n",
					output.StdoutColor(output.ColorGreen), output.StdoutColor(output.ColorReset),
					result.ModulesProcessed, result.ModulesRedirected)
			}

			if err := reportErrors(result); err != nil {
				return err
			}

			if !noHooks && len(a.cfg.Hooks.Post) > 0 {
				if err := runHooks("post", a.cfg.Hooks.Post, a.silent); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", DefaultOutput, "lookup table file to write")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the table without writing it")
	cmd.Flags().BoolVar(&noHooks, "no-hooks", false, "skip pre/post hooks")

	return cmd
}

// runHooks executes a list of shell commands sequentially.
// If any command fails (non-zero exit code), execution stops and an error is returned.
func runHooks(phase string, commands []string, silent bool) error {
	if !silent {
		fmt.Printf("%s▶ %s%s\n", output.StdoutColor(output.ColorYellow), phase, output.StdoutColor(output.ColorReset))
	}

	for _, cmdStr := range commands {
		if !silent {
			fmt.Printf("  %s$ %s%s\n", output.StdoutColor(output.ColorDim), cmdStr, output.StdoutColor(output.ColorReset))
		}

		cmd := exec.Command("sh", "-c", cmdStr)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s hook failed: %s: %w", phase, cmdStr, err)
		}
	}

	return nil
}
