package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpyw/modresolve/pkg/errors"
	"github.com/mpyw/modresolve/pkg/lookup"
)

func newLookupCmd(a *app) *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "lookup <module>",
		Short: "Query a lookup table",
		Long: `Lookup prints the URL stored for a module in a lookup table.

A trailing ".js" on the module is ignored. Without --table the table from the
configuration is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := lookup.Default()
			if table != "" {
				entries, err := lookup.Load(table)
				if err != nil {
					return err
				}
				t = lookup.New(entries)
			}

			url, ok := t.Get(args[0])
			if !ok {
				return errors.NewWithContext(errors.ErrCodeNotFound,
					fmt.Sprintf("%s is not in the lookup table", args[0]), map[string]any{"table": table})
			}
			a.logger.Debug("lookup hit", "module", args[0], "entries", t.Len())
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}

	cmd.Flags().StringVarP(&table, "table", "t", "", "lookup table file (JSON or YAML)")

	return cmd
}
