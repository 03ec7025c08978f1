// Package template provides template rendering for modresolve output lines.
package template

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

// Vars holds the variables available in templates.
type Vars struct {
	// ID is the requested id including any plugin prefix (e.g., "block!Menu")
	ID string
	// Module is the logical module name after plugin rewriting (e.g., "ui/Menu/Menu")
	Module string
	// Original is the naive URL computed from the module name
	Original string
	// URL is the URL the module is fetched from
	URL string
	// Source tells how URL was chosen ("lookup", "paths", "domain" or "probe")
	Source string
	// State is the resolution state ("resolved" or "exhausted"), empty when not probed
	State string
	// Name is the module's registry record name after patching
	Name string
	// Redirected indicates whether URL differs from Original
	Redirected bool
	// Renamed indicates whether the registry record was renamed
	Renamed bool
	// Error is the error message, empty on success
	Error string
}

// Template wraps a parsed template for output lines.
type Template struct {
	tmpl *template.Template
	raw  string
}

// funcs returns the template function map.
func funcs() template.FuncMap {
	return template.FuncMap{
		"quote":    strconv.Quote,
		"backtick": func(s string) string { return "`" + s + "`" },
	}
}

// Parse parses a template string.
func Parse(text string) (*Template, error) {
	tmpl, err := template.New("line").Funcs(funcs()).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &Template{tmpl: tmpl, raw: text}, nil
}

// MustParse parses a template string and panics on error.
func MustParse(text string) *Template {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return t
}

// Render executes the template with the given variables.
func (t *Template) Render(vars Vars) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Raw returns the original template string.
func (t *Template) Raw() string {
	return t.raw
}
