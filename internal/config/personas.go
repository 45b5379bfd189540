package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Persona represents a system prompt configuration
type Persona struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	SystemPrompt string `json:"system_prompt"`
}

// PersonaConfig stores all personas
type PersonaConfig struct {
	Personas []Persona `json:"personas"`
}

// Well-known persona names used by duet mode
const (
	PersonaExpert    = "expert"
	PersonaProfessor = "professor"
)

// DefaultPersonas returns pre-configured personas. The expert and
// professor pair powers duet mode: the expert answers first, then the
// professor reviews that answer.
func DefaultPersonas() []Persona {
	return []Persona{
		{
			Name:         "default",
			Description:  "No system prompt",
			SystemPrompt: "",
		},
		{
			Name:        PersonaExpert,
			Description: "Senior IT expert",
			SystemPrompt: `You are a senior IT expert specializing in software development and algorithm design.
Answer technical questions directly and practically:
- Lead with the solution, then explain the reasoning
- Include concrete code examples where they help
- Point out pitfalls and edge cases the asker may not have considered
- Keep answers focused; skip filler and restating the question`,
		},
		{
			Name:        PersonaProfessor,
			Description: "Computer science professor reviewing the expert's answer",
			SystemPrompt: `You are a computer science professor reviewing an IT expert's answer to a student's question.
Provide a short commentary on the answer that was just given:
- Assess its correctness and completeness
- Add the academic perspective: underlying theory, complexity, trade-offs
- Suggest what the student should study next to understand the topic deeply
- Be constructive and concise; do not repeat the whole answer`,
		},
	}
}

// GetPersonasPath returns the path to the personas file
func GetPersonasPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "personas.json"), nil
}

// LoadPersonas loads the persona configuration
func LoadPersonas() (*PersonaConfig, error) {
	path, err := GetPersonasPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if file doesn't exist
			return &PersonaConfig{Personas: DefaultPersonas()}, nil
		}
		return nil, fmt.Errorf("failed to read personas: %w", err)
	}

	var config PersonaConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse personas: %w", err)
	}

	// Merge with defaults (keep user customizations)
	config.Personas = mergePersonas(DefaultPersonas(), config.Personas)

	return &config, nil
}

// SavePersonas saves the persona configuration
func SavePersonas(config *PersonaConfig) error {
	path, err := GetPersonasPath()
	if err != nil {
		return err
	}

	if _, err := EnsureConfigDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal personas: %w", err)
	}

	// 0o600: personas may contain custom system prompts
	return os.WriteFile(path, data, 0o600)
}

// GetPersona returns a persona by name
func GetPersona(name string) (*Persona, error) {
	config, err := LoadPersonas()
	if err != nil {
		return nil, err
	}

	for _, p := range config.Personas {
		if p.Name == name {
			return &p, nil
		}
	}

	return nil, fmt.Errorf("persona '%s' not found", name)
}

func mergePersonas(defaults, custom []Persona) []Persona {
	result := make([]Persona, len(defaults))
	copy(result, defaults)

	// Add or replace with custom
	for _, cp := range custom {
		found := false
		for i, dp := range result {
			if dp.Name == cp.Name {
				result[i] = cp
				found = true
				break
			}
		}
		if !found {
			result = append(result, cp)
		}
	}

	return result
}
