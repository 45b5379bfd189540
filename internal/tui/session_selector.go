package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/deepchat/internal/session"
)

// updateSessionSelection handles updates when the session selector is open
func (m Model) updateSessionSelection(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			m.closeSessionSelector()

		case "up", "ctrl+k":
			if n := len(m.filteredSessions()); n > 0 {
				m.sessionCursor--
				if m.sessionCursor < 0 {
					m.sessionCursor = n - 1
				}
			}

		case "down", "ctrl+j":
			if n := len(m.filteredSessions()); n > 0 {
				m.sessionCursor++
				if m.sessionCursor >= n {
					m.sessionCursor = 0
				}
			}

		case "enter":
			filtered := m.filteredSessions()
			if len(filtered) > 0 && m.sessionCursor < len(filtered) {
				m.sessions.Switch(filtered[m.sessionCursor].ID)
				m.closeSessionSelector()
				m.partial = ""
				m.err = nil
				m.updateViewport()
				m.viewport.GotoBottom()
			}

		case "ctrl+d":
			filtered := m.filteredSessions()
			if len(filtered) > 0 && m.sessionCursor < len(filtered) {
				if err := m.sessions.Delete(filtered[m.sessionCursor].ID); err == nil {
					if m.sessionCursor >= len(m.filteredSessions()) && m.sessionCursor > 0 {
						m.sessionCursor--
					}
					m.updateViewport()
				}
			}

		case "ctrl+n":
			m.sessions.Create()
			m.closeSessionSelector()
			m.partial = ""
			m.updateViewport()

		case "backspace":
			if len(m.sessionFilter) > 0 {
				m.sessionFilter = m.sessionFilter[:len(m.sessionFilter)-1]
				m.sessionCursor = 0
			}

		default:
			// Printable characters narrow the filter
			if len(msg.String()) == 1 {
				r := []rune(msg.String())[0]
				if r >= ' ' && r <= '~' {
					m.sessionFilter += msg.String()
					m.sessionCursor = 0
				}
			}
		}
	}

	return m, nil
}

func (m *Model) closeSessionSelector() {
	m.selectingSession = false
	m.sessionCursor = 0
	m.sessionFilter = ""
}

// filteredSessions returns the session list filtered by title
func (m Model) filteredSessions() []*session.Session {
	all := m.sessions.List()
	if m.sessionFilter == "" {
		return all
	}

	filter := strings.ToLower(m.sessionFilter)
	var filtered []*session.Session
	for _, s := range all {
		if strings.Contains(strings.ToLower(s.Title), filter) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// renderSessionSelector renders the session selection overlay
func (m Model) renderSessionSelector() string {
	width := m.width - 8
	if width < 40 {
		width = 40
	}

	var content strings.Builder

	title := settingsTitleStyle.Render("◷ Sessions")
	title += hintStyle.Render(fmt.Sprintf("  (current: %s)", m.sessions.Active().Title))
	content.WriteString(title)
	content.WriteString("\n\n")

	if m.sessionFilter != "" {
		content.WriteString(inputLabelStyle.Render("⌕ ") + m.sessionFilter + "_")
		content.WriteString("\n\n")
	}

	filtered := m.filteredSessions()
	if len(filtered) == 0 {
		content.WriteString(hintStyle.Render("  No sessions match filter"))
		content.WriteString("\n")
	} else {
		maxItems := 8
		startIdx := 0
		if m.sessionCursor >= maxItems {
			startIdx = m.sessionCursor - maxItems + 1
		}
		endIdx := startIdx + maxItems
		if endIdx > len(filtered) {
			endIdx = len(filtered)
		}

		if startIdx > 0 {
			content.WriteString(hintStyle.Render("  ↑ more above"))
			content.WriteString("\n")
		}

		for i := startIdx; i < endIdx; i++ {
			s := filtered[i]
			cursor := "  "
			nameStyle := settingsMenuItemStyle
			if i == m.sessionCursor {
				cursor = settingsCursorStyle.Render("▸ ")
				nameStyle = settingsMenuSelectedStyle
			}

			marker := ""
			if s.ID == m.sessions.Active().ID {
				marker = settingsStatusOkStyle.Render(" (active)")
			}

			meta := settingsValueStyle.Render(fmt.Sprintf(
				"  %s · %d messages",
				s.CreatedAt.Format("Jan 2 15:04"),
				len(s.Messages),
			))

			content.WriteString(cursor + nameStyle.Render(s.Title) + marker + meta)
			content.WriteString("\n")
		}

		if endIdx < len(filtered) {
			content.WriteString(hintStyle.Render("  ↓ more below"))
			content.WriteString("\n")
		}
	}

	content.WriteString("\n")

	shortcuts := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate"),
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Open"),
		statusKeyStyle.Render("^N") + statusDescStyle.Render(" New"),
		statusKeyStyle.Render("^D") + statusDescStyle.Render(" Delete"),
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
