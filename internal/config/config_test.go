package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	cfg := DefaultSettings()

	if cfg.Model != "deepseek-ai/DeepSeek-V2.5" {
		t.Errorf("Expected default model to be 'deepseek-ai/DeepSeek-V2.5', got '%s'", cfg.Model)
	}

	if cfg.Temperature != 0.5 {
		t.Errorf("Expected default temperature 0.5, got %v", cfg.Temperature)
	}

	if cfg.Theme != "blue" {
		t.Errorf("Expected default theme 'blue', got '%s'", cfg.Theme)
	}

	if cfg.APIKey == "" {
		t.Error("Default API key should never be empty")
	}

	if cfg.DuetMode {
		t.Error("DuetMode should default to off")
	}
}

func TestDefaultAPIKey_EnvOverride(t *testing.T) {
	t.Setenv(EnvAPIKey, "sk-from-env")

	if got := DefaultAPIKey(); got != "sk-from-env" {
		t.Errorf("DefaultAPIKey() = %s, want sk-from-env", got)
	}
}

func TestDefaultAPIKey_Fallback(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	if got := DefaultAPIKey(); got != fallbackAPIKey {
		t.Errorf("DefaultAPIKey() = %s, want fallback", got)
	}
}

func TestGetConfigDir(t *testing.T) {
	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() returned error: %v", err)
	}
	if dir == "" {
		t.Error("GetConfigDir() returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("GetConfigDir() returned relative path: %s", dir)
	}
}

func TestSaveAndLoadSettings(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultSettings()
	cfg.APIKey = "sk-test"
	cfg.Model = "deepseek-ai/DeepSeek-V3"
	cfg.Temperature = 0.8
	cfg.Theme = "green"
	cfg.DuetMode = true

	if err := SaveSettings(cfg); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	loaded, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if loaded.APIKey != "sk-test" {
		t.Errorf("APIKey = %s, want sk-test", loaded.APIKey)
	}
	if loaded.Model != "deepseek-ai/DeepSeek-V3" {
		t.Errorf("Model = %s, want deepseek-ai/DeepSeek-V3", loaded.Model)
	}
	if loaded.Temperature != 0.8 {
		t.Errorf("Temperature = %v, want 0.8", loaded.Temperature)
	}
	if loaded.Theme != "green" {
		t.Errorf("Theme = %s, want green", loaded.Theme)
	}
	if !loaded.DuetMode {
		t.Error("DuetMode should round-trip as true")
	}
}

func TestLoadSettings_FileNotExists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if cfg.Model != DefaultSettings().Model {
		t.Errorf("missing file should yield defaults, got model %s", cfg.Model)
	}
}

func TestLoadSettings_EmptyKeyDefaulted(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvAPIKey, "sk-env-key")

	// Write a settings file with an empty key
	dir := filepath.Join(home, ".deepchat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	data, _ := json.Marshal(Settings{Model: "deepseek-ai/DeepSeek-V2.5"})
	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if cfg.APIKey != "sk-env-key" {
		t.Errorf("empty stored key should fall back to env key, got %s", cfg.APIKey)
	}
}

func TestLoadSettings_CorruptFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".deepchat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSettings()
	if err == nil {
		t.Error("expected error for corrupt config")
	}

	// Still returns usable defaults
	if cfg.Model == "" {
		t.Error("corrupt config should still yield default settings")
	}
}

func TestAvailableThemes(t *testing.T) {
	themes := AvailableThemes()
	if len(themes) == 0 {
		t.Fatal("expected at least one theme")
	}

	found := false
	for _, th := range themes {
		if th == DefaultSettings().Theme {
			found = true
		}
	}
	if !found {
		t.Errorf("default theme %q should be in AvailableThemes", DefaultSettings().Theme)
	}
}
