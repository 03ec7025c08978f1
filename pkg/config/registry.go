package config

import "github.com/mpyw/modresolve/pkg/plugin"

// Registry builds the plugin registry described by p.
// Both plugins are always available; their configuration only shapes paths.
func (p Plugins) Registry() *plugin.Registry {
	return plugin.NewRegistry(
		plugin.Block{Prefix: p.Block.Prefix},
		plugin.NewLocale(p.I18n, p.Lang),
	)
}
