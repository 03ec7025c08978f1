package plugin

import (
	"regexp"
	"strings"
)

// DefaultKey is the Locale config key prepended to names whose first segment
// has no alias.
const DefaultKey = "default"

var tokenRe = regexp.MustCompile(`%([\w\-]+)%`)

// Locale picks localized file paths.
//
// The first segment of a name is replaced by its alias from Config when one
// exists; otherwise Config["default"] is prepended, the same way loader
// "paths" configuration works. Every segment then has %token% placeholders
// replaced from Tokens.
type Locale struct {
	Config map[string]string
	// Tokens holds placeholder values, e.g. "lang" for the document language.
	Tokens map[string]string
}

// NewLocale creates a Locale whose %lang% token is lang.
func NewLocale(config map[string]string, lang string) Locale {
	return Locale{Config: config, Tokens: map[string]string{"lang": lang}}
}

// Name implements Plugin.
func (Locale) Name() string { return "i18n" }

// Rewrite implements Plugin.
func (l Locale) Rewrite(name string) string {
	parts := segments(name)
	if len(parts) > 0 {
		if alias, ok := l.Config[parts[0]]; ok {
			parts[0] = alias
		} else if def := l.Config[DefaultKey]; def != "" {
			parts = append([]string{def}, parts...)
		}
	} else if def := l.Config[DefaultKey]; def != "" {
		parts = []string{def}
	}

	for i, part := range parts {
		parts[i] = l.replaceTokens(part)
	}
	return strings.Join(parts, "/") + ".js"
}

// replaceTokens substitutes %token% placeholders. Unknown tokens become empty.
func (l Locale) replaceTokens(s string) string {
	return tokenRe.ReplaceAllStringFunc(s, func(m string) string {
		return l.Tokens[m[1:len(m)-1]]
	})
}
