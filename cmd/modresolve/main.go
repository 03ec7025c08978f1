// Command modresolve resolves module URLs the way the loader hook does.
package main

import (
	"fmt"
	"os"

	"github.com/mpyw/modresolve/internal/output"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%smodresolve: %v%s\n",
			output.StderrColor(output.ColorRed), err, output.StderrColor(output.ColorReset))
		os.Exit(1)
	}
}
