package config

import (
	"testing"
)

func TestDefaultPersonas(t *testing.T) {
	personas := DefaultPersonas()

	if len(personas) < 3 {
		t.Fatalf("expected at least 3 default personas, got %d", len(personas))
	}

	names := make(map[string]bool)
	for _, p := range personas {
		names[p.Name] = true
	}

	for _, want := range []string{"default", PersonaExpert, PersonaProfessor} {
		if !names[want] {
			t.Errorf("missing default persona %q", want)
		}
	}
}

func TestGetPersona(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p, err := GetPersona(PersonaExpert)
	if err != nil {
		t.Fatalf("GetPersona failed: %v", err)
	}

	if p.SystemPrompt == "" {
		t.Error("expert persona should have a system prompt")
	}
}

func TestGetPersona_NotFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := GetPersona("nonexistent")
	if err == nil {
		t.Error("expected error for unknown persona")
	}
}

func TestSaveAndLoadPersonas(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := &PersonaConfig{
		Personas: []Persona{
			{Name: "custom", Description: "test", SystemPrompt: "Be terse."},
		},
	}

	if err := SavePersonas(cfg); err != nil {
		t.Fatalf("SavePersonas failed: %v", err)
	}

	loaded, err := LoadPersonas()
	if err != nil {
		t.Fatalf("LoadPersonas failed: %v", err)
	}

	// Custom persona kept, defaults merged in
	var custom *Persona
	for i := range loaded.Personas {
		if loaded.Personas[i].Name == "custom" {
			custom = &loaded.Personas[i]
		}
	}
	if custom == nil {
		t.Fatal("custom persona missing after reload")
	}
	if custom.SystemPrompt != "Be terse." {
		t.Errorf("SystemPrompt = %q, want 'Be terse.'", custom.SystemPrompt)
	}

	if _, err := GetPersona(PersonaProfessor); err != nil {
		t.Error("default personas should survive a custom save")
	}
}

func TestMergePersonas_CustomOverridesDefault(t *testing.T) {
	defaults := DefaultPersonas()
	custom := []Persona{{Name: PersonaExpert, SystemPrompt: "override"}}

	merged := mergePersonas(defaults, custom)

	if len(merged) != len(defaults) {
		t.Errorf("merged length = %d, want %d", len(merged), len(defaults))
	}

	for _, p := range merged {
		if p.Name == PersonaExpert && p.SystemPrompt != "override" {
			t.Error("custom persona should override the default with the same name")
		}
	}
}
