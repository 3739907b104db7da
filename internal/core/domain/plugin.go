package domain

import (
	"fmt"
	"strings"
)

// Plugin represents a named analysis routine exposed by the Volatility 3
// binary, identified by its dotted category path (e.g. "windows.pslist").
type Plugin struct {
	name string
}

// NewPlugin creates a Plugin value object from its dotted name.
func NewPlugin(name string) (Plugin, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Plugin{}, fmt.Errorf("plugin name cannot be empty")
	}
	return Plugin{name: name}, nil
}

// NewPlugins converts a list of names into Plugin values, rejecting the
// whole list on the first invalid entry so a typo fails fast.
func NewPlugins(names []string) ([]Plugin, error) {
	plugins := make([]Plugin, 0, len(names))
	for _, name := range names {
		p, err := NewPlugin(name)
		if err != nil {
			return nil, fmt.Errorf("invalid plugin %q: %w", name, err)
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

// Name returns the plugin's dotted name as supplied.
func (p Plugin) Name() string {
	return p.name
}

// String implements fmt.Stringer.
func (p Plugin) String() string {
	return p.name
}

// Sanitize returns the plugin name with every rune outside [A-Za-z0-9]
// replaced by an underscore, making it safe to use as a filename on any
// filesystem ("windows.pslist" becomes "windows_pslist").
func (p Plugin) Sanitize() string {
	var b strings.Builder
	b.Grow(len(p.name))
	for _, r := range p.name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// OutputFileName returns the name of the raw capture file for this plugin.
func (p Plugin) OutputFileName() string {
	return p.Sanitize() + ".txt"
}

// DefaultPlugins returns the built-in triage set, in the order the plugins
// are run when no override is given.
func DefaultPlugins() []Plugin {
	names := []string{
		"windows.pslist",
		"windows.pstree",
		"windows.netscan",
		"windows.dlllist",
		"windows.cmdline",
		"windows.malfind",
	}
	plugins, _ := NewPlugins(names)
	return plugins
}
