package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/deepchat/internal/config"
	"github.com/diogo/deepchat/internal/models"
	"github.com/diogo/deepchat/internal/render"
)

// settingsView represents the current view in the settings menu
type settingsView int

const (
	viewMain settingsView = iota
	viewModelSelect
	viewTemperatureSelect
	viewStyleSelect    // Markdown style
	viewTUIThemeSelect // TUI color theme
)

// Menu item indices for main view
const (
	menuModel = iota
	menuTemperature
	menuDuetMode
	menuVerbose
	menuStyle    // Markdown style
	menuTUITheme // TUI color theme
	menuExit
	menuItemCount
)

// temperatureChoices are the presets offered in the selector.
var temperatureChoices = []float64{0.0, 0.2, 0.5, 0.7, 1.0}

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// SettingsModel represents the settings TUI state
type SettingsModel struct {
	settings     config.Settings
	configDir    string
	sessionsPath string
	sessionsSeen bool

	// Navigation
	view        settingsView
	cursor      int
	modelCursor int
	tempCursor  int
	styleCursor int
	themeCursor int

	// Feedback
	feedback        string
	feedbackTimeout time.Duration

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewSettingsModel creates a new settings TUI model
func NewSettingsModel() SettingsModel {
	cfg, err := config.LoadSettings()
	if err != nil {
		cfg = config.DefaultSettings()
	}

	configDir, _ := config.GetConfigDir()
	sessionsPath := filepath.Join(configDir, "sessions.json")

	sessionsSeen := false
	if _, err := os.Stat(sessionsPath); err == nil {
		sessionsSeen = true
	}

	modelCursor := 0
	for i, m := range models.AllModels() {
		if m == cfg.Model {
			modelCursor = i
			break
		}
	}

	tempCursor := 0
	for i, t := range temperatureChoices {
		if t == cfg.Temperature {
			tempCursor = i
			break
		}
	}

	styleCursor := 0
	currentStyle := cfg.Markdown.Style
	if currentStyle == "" {
		currentStyle = render.StyleDark
	}
	for i, s := range render.StyleNames() {
		if s == currentStyle {
			styleCursor = i
			break
		}
	}

	themeCursor := 0
	currentTheme := cfg.Theme
	if currentTheme == "" {
		currentTheme = "blue"
	}
	for i, t := range render.TUIThemeNames() {
		if t == currentTheme {
			themeCursor = i
			break
		}
	}

	render.SetTUITheme(currentTheme)
	UpdateTheme()

	return SettingsModel{
		settings:        cfg,
		configDir:       configDir,
		sessionsPath:    sessionsPath,
		sessionsSeen:    sessionsSeen,
		view:            viewMain,
		modelCursor:     modelCursor,
		tempCursor:      tempCursor,
		styleCursor:     styleCursor,
		themeCursor:     themeCursor,
		feedbackTimeout: 2 * time.Second,
	}
}

// Init initializes the model
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
			} else {
				return m, tea.Quit
			}

		case "up", "k":
			m.moveCursor(-1)

		case "down", "j":
			m.moveCursor(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func (m *SettingsModel) moveCursor(delta int) {
	switch m.view {
	case viewMain:
		m.cursor = wrapCursor(m.cursor+delta, menuItemCount)
	case viewModelSelect:
		m.modelCursor = wrapCursor(m.modelCursor+delta, len(models.AllModels()))
	case viewTemperatureSelect:
		m.tempCursor = wrapCursor(m.tempCursor+delta, len(temperatureChoices))
	case viewStyleSelect:
		m.styleCursor = wrapCursor(m.styleCursor+delta, len(render.StyleNames()))
	case viewTUIThemeSelect:
		m.themeCursor = wrapCursor(m.themeCursor+delta, len(render.TUIThemeNames()))
	}
}

func wrapCursor(cur, n int) int {
	if cur < 0 {
		return n - 1
	}
	if cur >= n {
		return 0
	}
	return cur
}

// handleSelect handles menu item selection
func (m SettingsModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMain:
		switch m.cursor {
		case menuModel:
			m.view = viewModelSelect
			return m, nil

		case menuTemperature:
			m.view = viewTemperatureSelect
			return m, nil

		case menuDuetMode:
			m.settings.DuetMode = !m.settings.DuetMode
			return m.saveWithFeedback(boolFeedback("Duet mode", m.settings.DuetMode))

		case menuVerbose:
			m.settings.Verbose = !m.settings.Verbose
			return m.saveWithFeedback(boolFeedback("Verbose logging", m.settings.Verbose))

		case menuStyle:
			m.view = viewStyleSelect
			return m, nil

		case menuTUITheme:
			m.view = viewTUIThemeSelect
			return m, nil

		case menuExit:
			return m, tea.Quit
		}

	case viewModelSelect:
		m.settings.Model = models.AllModels()[m.modelCursor]
		m.view = viewMain
		return m.saveWithFeedback(fmt.Sprintf("Model set to %s", m.settings.Model))

	case viewTemperatureSelect:
		m.settings.Temperature = temperatureChoices[m.tempCursor]
		m.view = viewMain
		return m.saveWithFeedback(fmt.Sprintf("Temperature set to %.1f", m.settings.Temperature))

	case viewStyleSelect:
		m.settings.Markdown.Style = render.StyleNames()[m.styleCursor]
		m.view = viewMain
		return m.saveWithFeedback(fmt.Sprintf("Markdown style set to %s", m.settings.Markdown.Style))

	case viewTUIThemeSelect:
		selected := render.TUIThemeNames()[m.themeCursor]
		m.settings.Theme = selected

		// Apply the new theme immediately
		render.SetTUITheme(selected)
		UpdateTheme()

		m.view = viewMain
		return m.saveWithFeedback(fmt.Sprintf("Theme set to %s", selected))
	}

	return m, nil
}

func (m SettingsModel) saveWithFeedback(onSuccess string) (tea.Model, tea.Cmd) {
	if err := config.SaveSettings(m.settings); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = onSuccess
	}
	return m, clearFeedback(m.feedbackTimeout)
}

func boolFeedback(name string, value bool) string {
	if value {
		return name + " enabled"
	}
	return name + " disabled"
}

// View renders the TUI
func (m SettingsModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	// Header
	headerContent := settingsTitleStyle.Render("✦ Settings")
	header := settingsHeaderStyle.Width(contentWidth).Render(headerContent)
	sections = append(sections, header)

	// Paths panel
	pathsTitle := settingsSectionTitleStyle.Render("Paths")

	configPath := settingsPathStyle.Render(m.configDir + "/config.json")
	sessionsPath := settingsPathStyle.Render(m.sessionsPath)

	var sessionsStatus string
	if m.sessionsSeen {
		sessionsStatus = settingsStatusOkStyle.Render("✓ exists")
	} else {
		sessionsStatus = settingsStatusErrorStyle.Render("✗ not found")
	}

	pathsContent := lipgloss.JoinVertical(lipgloss.Left,
		pathsTitle,
		fmt.Sprintf("   Config:   %s", configPath),
		fmt.Sprintf("   Sessions: %s  %s", sessionsPath, sessionsStatus),
	)
	sections = append(sections, settingsPanelStyle.Width(contentWidth).Render(pathsContent))

	// Menu panel
	var menuContent string
	switch m.view {
	case viewMain:
		menuContent = m.renderMainMenu()
	case viewModelSelect:
		menuContent = m.renderListSelect("Select Model", models.AllModels(), m.modelCursor, m.settings.Model)
	case viewTemperatureSelect:
		choices := make([]string, len(temperatureChoices))
		for i, t := range temperatureChoices {
			choices[i] = fmt.Sprintf("%.1f", t)
		}
		menuContent = m.renderListSelect("Select Temperature", choices, m.tempCursor, fmt.Sprintf("%.1f", m.settings.Temperature))
	case viewStyleSelect:
		menuContent = m.renderStyleSelect()
	case viewTUIThemeSelect:
		menuContent = m.renderThemeSelect()
	}
	sections = append(sections, settingsPanelStyle.Width(contentWidth).Render(menuContent))

	// Feedback
	if m.feedback != "" {
		sections = append(sections, settingsFeedbackStyle.Render("✓ "+m.feedback))
	}

	// Status bar
	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderMainMenu renders the main settings menu
func (m SettingsModel) renderMainMenu() string {
	title := settingsSectionTitleStyle.Render("⚙ Settings")

	type row struct {
		label string
		value string
	}
	rows := []row{
		{"Model", settingsValueStyle.Render(m.settings.Model)},
		{"Temperature", settingsValueStyle.Render(fmt.Sprintf("%.1f", m.settings.Temperature))},
		{"Duet Mode", m.renderBoolValue(m.settings.DuetMode)},
		{"Verbose Logging", m.renderBoolValue(m.settings.Verbose)},
		{"Markdown Style", settingsValueStyle.Render(orDefault(m.settings.Markdown.Style, render.StyleDark))},
		{"Theme", settingsValueStyle.Render(orDefault(m.settings.Theme, "blue"))},
	}

	const labelWidth = 20
	var items []string
	for i, r := range rows {
		cursor := "  "
		style := settingsMenuItemStyle
		if m.cursor == i {
			cursor = settingsCursorStyle.Render("▸ ")
			style = settingsMenuSelectedStyle
		}
		pad := labelWidth - len(r.label)
		if pad < 1 {
			pad = 1
		}
		items = append(items, cursor+style.Render(r.label)+strings.Repeat(" ", pad)+r.value)
	}

	items = append(items, "")

	cursor := "  "
	style := settingsMenuItemStyle
	if m.cursor == menuExit {
		cursor = settingsCursorStyle.Render("▸ ")
		style = settingsMenuSelectedStyle
	}
	items = append(items, cursor+style.Render("Exit"))

	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title, ""}, items...)...,
	)
}

// renderListSelect renders a plain list selection sub-menu
func (m SettingsModel) renderListSelect(heading string, choices []string, cursor int, current string) string {
	title := settingsSectionTitleStyle.Render(heading)

	var items []string
	for i, choice := range choices {
		prefix := "  "
		style := settingsMenuItemStyle
		if cursor == i {
			prefix = settingsCursorStyle.Render("▸ ")
			style = settingsMenuSelectedStyle
		}

		marker := ""
		if choice == current {
			marker = settingsStatusOkStyle.Render(" (current)")
		}

		items = append(items, prefix+style.Render(choice)+marker)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title, ""}, items...)...,
	)
}

// renderStyleSelect renders the markdown style selection sub-menu
func (m SettingsModel) renderStyleSelect() string {
	title := settingsSectionTitleStyle.Render("Select Markdown Style")

	current := orDefault(m.settings.Markdown.Style, render.StyleDark)

	var items []string
	for i, style := range render.AvailableStyles() {
		prefix := "  "
		itemStyle := settingsMenuItemStyle
		if m.styleCursor == i {
			prefix = settingsCursorStyle.Render("▸ ")
			itemStyle = settingsMenuSelectedStyle
		}

		marker := ""
		if style.Name == current {
			marker = settingsStatusOkStyle.Render(" (current)")
		}

		text := fmt.Sprintf("%s - %s", style.Name, style.Description)
		items = append(items, prefix+itemStyle.Render(text)+marker)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title, ""}, items...)...,
	)
}

// renderThemeSelect renders the TUI theme selection sub-menu
func (m SettingsModel) renderThemeSelect() string {
	title := settingsSectionTitleStyle.Render("Select Theme")

	current := orDefault(m.settings.Theme, "blue")

	var items []string
	for i, theme := range render.AvailableTUIThemes() {
		prefix := "  "
		itemStyle := settingsMenuItemStyle
		if m.themeCursor == i {
			prefix = settingsCursorStyle.Render("▸ ")
			itemStyle = settingsMenuSelectedStyle
		}

		marker := ""
		if theme.Name == current {
			marker = settingsStatusOkStyle.Render(" (current)")
		}

		text := fmt.Sprintf("%s - %s", theme.Name, theme.Description)
		items = append(items, prefix+itemStyle.Render(text)+marker)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title, ""}, items...)...,
	)
}

// renderBoolValue renders a boolean value with appropriate styling
func (m SettingsModel) renderBoolValue(value bool) string {
	if value {
		return settingsEnabledStyle.Render("enabled")
	}
	return settingsDisabledStyle.Render("disabled")
}

// renderStatusBar renders the bottom status bar
func (m SettingsModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
	}

	var items []string
	for _, s := range shortcuts {
		item := lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		)
		items = append(items, item)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(items, "  │  "))
	return settingsStatusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// RunSettings starts the settings TUI
func RunSettings() error {
	m := NewSettingsModel()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
