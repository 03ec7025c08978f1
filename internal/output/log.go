// Package output provides terminal output utilities for modresolve.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the global logger instance used by the command line tool.
var Logger = log.NewWithOptions(os.Stderr, log.Options{
	Level:  log.InfoLevel,
	Prefix: "modresolve",
})

// SetupLogging configures the global logger based on verbosity.
// Silent wins over verbose and leaves only errors.
func SetupLogging(verbose, silent bool) *log.Logger {
	level := log.InfoLevel
	switch {
	case silent:
		level = log.ErrorLevel
	case verbose:
		level = log.DebugLevel
	}

	Logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		Prefix:          "modresolve",
		ReportTimestamp: verbose,
	})
	return Logger
}

// Discard returns a logger that drops everything.
// Library packages use it when no logger is configured.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
