package render

import (
	"testing"

	"github.com/diogo/deepchat/internal/config"
)

func TestLoadOptionsFromSettings_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GLAMOUR_STYLE", "")

	opts := LoadOptionsFromSettings()
	if opts.Style != StyleDark {
		t.Errorf("Style = %q, want %q", opts.Style, StyleDark)
	}
	if !opts.PreserveNewLines {
		t.Error("PreserveNewLines = false, want default true")
	}
}

func TestLoadOptionsFromSettings_EnvOverridesStyle(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GLAMOUR_STYLE", "notty")

	if opts := LoadOptionsFromSettings(); opts.Style != "notty" {
		t.Errorf("Style = %q, want env override", opts.Style)
	}
}

func TestLoadOptionsFromSettings_ReadsSavedStyle(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GLAMOUR_STYLE", "")

	cfg := config.DefaultSettings()
	cfg.Markdown.Style = "light"
	if err := config.SaveSettings(cfg); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	if opts := LoadOptionsFromSettings(); opts.Style != "light" {
		t.Errorf("Style = %q, want saved style", opts.Style)
	}
}

func TestLoadOptionsFromSettingsWithWidth(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if opts := LoadOptionsFromSettingsWithWidth(42); opts.Width != 42 {
		t.Errorf("Width = %d, want 42", opts.Width)
	}
}
