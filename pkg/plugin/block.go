package plugin

import "strings"

// Block builds paths of UI block scripts from block names.
//
//	Menu         → {prefix}/Menu/Menu.js
//	Menu/submenu → {prefix}/Menu/submenu.js
type Block struct {
	// Prefix is prepended to every path. A missing trailing slash is added.
	Prefix string
}

// Name implements Plugin.
func (Block) Name() string { return "block" }

// Rewrite implements Plugin.
func (b Block) Rewrite(name string) string {
	parts := segments(name)
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	path := strings.Join(parts, "/") + ".js"

	prefix := strings.TrimSpace(b.Prefix)
	if prefix == "" {
		return path
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + path
}
