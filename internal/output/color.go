package output

import (
	"os"

	"golang.org/x/term"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorRed    = "\033[31m"
	ColorDim    = "\033[2m"
)

var (
	stdoutIsTTY = term.IsTerminal(int(os.Stdout.Fd()))
	stderrIsTTY = term.IsTerminal(int(os.Stderr.Fd()))
)

// StdoutColor returns the color code if stdout is a TTY, otherwise empty string.
func StdoutColor(color string) string {
	if stdoutIsTTY {
		return color
	}
	return ""
}

// StderrColor returns the color code if stderr is a TTY, otherwise empty string.
func StderrColor(color string) string {
	if stderrIsTTY {
		return color
	}
	return ""
}

// Paint wraps s in color and a reset when stdout is a TTY.
func Paint(color, s string) string {
	if !stdoutIsTTY || color == "" {
		return s
	}
	return color + s + ColorReset
}

// SourceColor picks the color used to print how a module URL was decided.
// Short-circuited sources are dim, redirections stand out.
func SourceColor(source string, redirected bool) string {
	switch {
	case redirected:
		return ColorYellow
	case source == "probe":
		return ColorGreen
	default:
		return ColorDim
	}
}
