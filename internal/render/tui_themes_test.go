package render

import (
	"testing"

	"github.com/diogo/deepchat/internal/config"
)

func TestGetTUIThemeByName(t *testing.T) {
	for _, name := range []string{"blue", "green", "purple", "tokyonight"} {
		theme, ok := GetTUIThemeByName(name)
		if !ok {
			t.Errorf("GetTUIThemeByName(%q) not found", name)
			continue
		}
		if theme.Name != name {
			t.Errorf("theme.Name = %q, want %q", theme.Name, name)
		}
		if theme.Primary == "" || theme.Text == "" {
			t.Errorf("theme %q has empty colors", name)
		}
	}

	if _, ok := GetTUIThemeByName("nonexistent"); ok {
		t.Error("GetTUIThemeByName(nonexistent) = true")
	}
}

func TestSetTUITheme(t *testing.T) {
	t.Cleanup(func() { SetTUITheme("blue") })

	if !SetTUITheme("purple") {
		t.Fatal("SetTUITheme(purple) = false")
	}
	if GetTUITheme().Name != "purple" {
		t.Errorf("active theme = %q, want purple", GetTUITheme().Name)
	}

	if SetTUITheme("bogus") {
		t.Error("SetTUITheme(bogus) = true")
	}
	if GetTUITheme().Name != "purple" {
		t.Error("failed SetTUITheme changed the active theme")
	}
}

func TestTUIThemes_CoverConfigThemes(t *testing.T) {
	// Every selectable theme in settings must have a TUI palette.
	for _, name := range config.AvailableThemes() {
		if _, ok := GetTUIThemeByName(name); !ok {
			t.Errorf("no TUI theme for settings theme %q", name)
		}
	}
}

func TestTUIThemeNames(t *testing.T) {
	names := TUIThemeNames()
	if len(names) != len(AvailableTUIThemes()) {
		t.Fatalf("len(names) = %d, want %d", len(names), len(AvailableTUIThemes()))
	}
	if names[0] != "blue" {
		t.Errorf("first theme = %q, want the default first", names[0])
	}
}
