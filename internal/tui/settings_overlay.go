package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/deepchat/internal/api"
	"github.com/diogo/deepchat/internal/config"
)

// newProbeClient builds the client used to validate candidate keys.
// Swappable in tests.
var newProbeClient = func(key string, settings config.Settings) ChatClient {
	return api.NewClient(key,
		api.WithModel(settings.Model),
		api.WithTemperature(settings.Temperature),
	)
}

// keyValidatedMsg reports the result of the async API key probe.
type keyValidatedMsg struct {
	key string
	err error
}

// openSettings switches the chat into the API key overlay. The overlay is
// deliberately narrow: just the key, since that is what broke when an
// auth error lands the user here. Everything else lives under
// 'deepchat config'.
func (m *Model) openSettings() {
	m.settingsOpen = true
	m.keyFeedback = ""
	m.keyInput.Reset()
	m.keyInput.Focus()
	m.textarea.Blur()
}

func (m *Model) closeSettings() {
	m.settingsOpen = false
	m.keyInput.Blur()
	m.textarea.Focus()
}

// updateSettingsOverlay handles updates while the key overlay is open
func (m Model) updateSettingsOverlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case keyValidatedMsg:
		if msg.err != nil {
			m.keyFeedback = "Key rejected: " + msg.err.Error()
			return m, nil
		}

		m.settings.APIKey = msg.key
		if err := config.SaveSettings(m.settings); err != nil {
			m.keyFeedback = "Could not save settings: " + err.Error()
			return m, nil
		}
		m.err = nil
		m.closeSettings()
		m.feedback = "API key saved"
		return m, clearFeedbackAfter(2 * time.Second)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			m.closeSettings()
			return m, nil

		case "enter":
			key := strings.TrimSpace(m.keyInput.Value())
			if key == "" {
				m.keyFeedback = "Enter a key first"
				return m, nil
			}
			m.keyFeedback = "Validating..."
			return m, m.validateKey(key)
		}
	}

	m.keyInput, cmd = m.keyInput.Update(msg)
	return m, cmd
}

// validateKey probes the provider with the candidate key before saving.
func (m Model) validateKey(key string) tea.Cmd {
	settings := m.settings
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		probe := newProbeClient(key, settings)
		return keyValidatedMsg{key: key, err: probe.ValidateKey(ctx)}
	}
}

// renderSettingsOverlay renders the API key overlay
func (m Model) renderSettingsOverlay() string {
	width := m.width - 8
	if width < 40 {
		width = 40
	}

	var content strings.Builder

	content.WriteString(settingsTitleStyle.Render("⚙ API Key"))
	content.WriteString("\n\n")

	if m.err != nil {
		content.WriteString(errorStyle.Render("✗ The last request failed"))
		content.WriteString("\n")
		content.WriteString(hintStyle.Render("  Enter a valid SiliconFlow API key to continue."))
		content.WriteString("\n\n")
	}

	content.WriteString(inputLabelStyle.Render("Key"))
	content.WriteString("\n")
	content.WriteString(m.keyInput.View())
	content.WriteString("\n")

	if m.keyFeedback != "" {
		content.WriteString("\n")
		content.WriteString(settingsFeedbackStyle.Render(m.keyFeedback))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	shortcuts := []string{
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Validate & save"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Cancel"),
	}
	content.WriteString(strings.Join(shortcuts, "  │  "))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2).
		Width(width)

	return boxStyle.Render(content.String())
}
