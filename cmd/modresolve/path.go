package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpyw/modresolve/pkg/pathutil"
)

func newPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Slash-separated path algebra used for module names",
	}

	variadic := func(use, short string, fn func(...string) string) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), fn(args...))
				return nil
			},
		}
	}
	unary := func(use, short string, fn func(string) string) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), fn(args[0]))
				return nil
			},
		}
	}

	cmd.AddCommand(
		variadic("resolve [path...]", "Resolve paths right to left into an absolute path", pathutil.Resolve),
		variadic("join [path...]", "Join and normalize paths", pathutil.Join),
		unary("normalize <path>", "Collapse '.', '..' and repeated slashes", pathutil.Normalize),
		unary("dirname <path>", "Print the directory portion of a path", pathutil.Dirname),
		unary("basename <path>", "Print the last portion of a path", pathutil.Basename),
		unary("extname <path>", "Print the extension of a path", pathutil.Extname),
		&cobra.Command{
			Use:   "relative <from> <to>",
			Short: "Print the relative path from one path to another",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), pathutil.Relative(args[0], args[1]))
				return nil
			},
		},
	)

	return cmd
}
