package render

import (
	"sort"
	"strings"

	"github.com/charmbracelet/glamour/styles"
)

// Commonly used glamour style names
const (
	StyleDark       = styles.DarkStyle
	StyleLight      = styles.LightStyle
	StyleDracula    = styles.DraculaStyle
	StyleTokyoNight = styles.TokyoNightStyle
	StyleNoTTY      = styles.NoTTYStyle
)

// styleAliases maps TUI theme names onto the closest markdown style
var styleAliases = map[string]string{
	"tokyonight": StyleTokyoNight,
	"catppuccin": StyleDark,
	"nord":       StyleDark,
}

// IsStandardStyle reports whether glamour ships a style with this name.
func IsStandardStyle(name string) bool {
	_, ok := styles.DefaultStyles[name]
	return ok
}

// ResolveStyle maps a configured style name to a glamour standard style.
// Theme aliases are translated and unknown names fall back to StyleDark.
func ResolveStyle(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := styleAliases[name]; ok {
		return alias
	}
	if IsStandardStyle(name) {
		return name
	}
	return StyleDark
}

// StandardStyleNames returns the glamour style names in sorted order.
func StandardStyleNames() []string {
	names := make([]string, 0, len(styles.DefaultStyles))
	for name := range styles.DefaultStyles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
