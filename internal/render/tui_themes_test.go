package render

import (
	"strings"
	"testing"
)

func TestAvailableTUIThemes(t *testing.T) {
	for _, theme := range AvailableTUIThemes() {
		for field, color := range map[string]string{
			"background": string(theme.Background),
			"surface":    string(theme.Surface),
			"border":     string(theme.Border),
			"primary":    string(theme.Primary),
			"secondary":  string(theme.Secondary),
			"error":      string(theme.Error),
			"text":       string(theme.Text),
			"text_dim":   string(theme.TextDim),
		} {
			if !strings.HasPrefix(color, "#") {
				t.Errorf("theme %s has invalid %s color %q", theme.Name, field, color)
			}
		}
		if theme.Description == "" {
			t.Errorf("theme %s has empty description", theme.Name)
		}
	}
}

func TestGetTUIThemeByName(t *testing.T) {
	for _, name := range TUIThemeNames() {
		theme, ok := GetTUIThemeByName(strings.ToUpper(name))
		if !ok || theme.Name != name {
			t.Errorf("GetTUIThemeByName(%q) = %v, %v", name, theme.Name, ok)
		}
	}
	if _, ok := GetTUIThemeByName("solarized"); ok {
		t.Error("expected unknown theme to be rejected")
	}
}

func TestSetTUITheme(t *testing.T) {
	defer func() { _ = SetTUITheme(DefaultTUITheme) }()

	if err := SetTUITheme("nord"); err != nil {
		t.Fatalf("SetTUITheme(nord) error: %v", err)
	}
	if GetTUITheme().Name != "nord" {
		t.Errorf("active theme = %s, want nord", GetTUITheme().Name)
	}

	err := SetTUITheme("solarized")
	if err == nil || !strings.Contains(err.Error(), "tokyonight") {
		t.Errorf("expected error listing available themes, got %v", err)
	}
	if GetTUITheme().Name != "nord" {
		t.Error("failed SetTUITheme must keep the active theme")
	}

	if err := SetTUITheme(""); err != nil || GetTUITheme().Name != DefaultTUITheme {
		t.Errorf("empty name should select the default, got %s, %v", GetTUITheme().Name, err)
	}
}
