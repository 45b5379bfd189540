package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/diogo/deepchat/internal/api"
	"github.com/diogo/deepchat/internal/config"
	apierrors "github.com/diogo/deepchat/internal/errors"
	"github.com/diogo/deepchat/internal/models"
	"github.com/diogo/deepchat/internal/render"
	"github.com/diogo/deepchat/internal/session"
	"github.com/diogo/deepchat/internal/stream"
)

// Animation tick message
type animationTickMsg time.Time

// Streaming lifecycle messages. Flushes carry the accumulated text so the
// view always paints a consistent prefix of the answer.
type (
	streamFlushMsg struct {
		text string
	}
	streamDoneMsg struct {
		full string
		role models.Role
	}
	streamErrMsg struct {
		err error
	}
	feedbackTickMsg struct{}
)

// ChatClient is the slice of the API client the chat model needs.
type ChatClient interface {
	Stream(ctx context.Context, req api.Request, cb api.Callbacks) error
	ValidateKey(ctx context.Context) error
	Model() string
}

// Model represents the chat TUI state
type Model struct {
	client   ChatClient
	sessions *session.Manager
	settings config.Settings
	personas *config.PersonaConfig
	logger   zerolog.Logger

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	loading        bool
	ready          bool
	err            error
	animationFrame int
	feedback       string

	// Streaming state. events carries messages out of the stream
	// goroutine; partial holds the flushed-so-far text for the bubble
	// that is still streaming.
	events     chan tea.Msg
	partial    string
	cancel     context.CancelFunc
	duetActive bool

	// Session selector state
	selectingSession bool
	sessionCursor    int
	sessionFilter    string

	// Settings overlay state
	settingsOpen bool
	keyInput     textarea.Model
	keyFeedback  string

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(client ChatClient, sessions *session.Manager, settings config.Settings, logger zerolog.Logger) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	ki := textarea.New()
	ki.Placeholder = "sk-..."
	ki.CharLimit = 200
	ki.ShowLineNumbers = false
	ki.SetHeight(1)

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	personas, err := config.LoadPersonas()
	if err != nil {
		logger.Warn().Err(err).Msg("could not load personas, using defaults")
		personas = &config.PersonaConfig{Personas: config.DefaultPersonas()}
	}

	if settings.Theme != "" {
		render.SetTUITheme(settings.Theme)
		UpdateTheme()
	}

	return Model{
		client:   client,
		sessions: sessions,
		settings: settings,
		personas: personas,
		logger:   logger,
		textarea: ta,
		keyInput: ki,
		spinner:  s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

func clearFeedbackAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return feedbackTickMsg{}
	})
}

// waitForStream returns a command that delivers the next stream event.
func waitForStream(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.selectingSession {
		return m.updateSessionSelection(msg)
	}
	if m.settingsOpen {
		return m.updateSettingsOverlay(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 1
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.textarea.SetWidth(contentWidth - 4)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
			m.textarea.SetWidth(contentWidth - 4)
		}
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.loading {
				m.abortStream()
			} else {
				return m, tea.Quit
			}

		case "ctrl+n":
			if !m.loading {
				m.sessions.Create()
				m.partial = ""
				m.err = nil
				m.updateViewport()
				m.viewport.GotoBottom()
			}

		case "ctrl+s":
			if !m.loading {
				m.selectingSession = true
				m.sessionCursor = 0
				m.sessionFilter = ""
			}

		case "ctrl+o":
			if !m.loading {
				m.openSettings()
			}

		case "ctrl+y":
			if last := m.lastAnswer(); last != "" {
				if err := clipboard.WriteAll(last); err != nil {
					m.feedback = "Clipboard unavailable"
				} else {
					m.feedback = "Response copied to clipboard"
				}
				return m, clearFeedbackAfter(2 * time.Second)
			}

		case "enter":
			if !m.loading && strings.TrimSpace(m.textarea.Value()) != "" {
				input := strings.TrimSpace(m.textarea.Value())
				if input == "exit" || input == "quit" || input == "/exit" || input == "/quit" {
					return m, tea.Quit
				}
				if input == "/new" {
					m.textarea.Reset()
					m.sessions.Create()
					m.partial = ""
					m.updateViewport()
					return m, nil
				}
				if input == "/sessions" {
					m.textarea.Reset()
					m.selectingSession = true
					m.sessionCursor = 0
					m.sessionFilter = ""
					return m, nil
				}

				m.textarea.Reset()
				cmd = m.submit(input)
				return m, tea.Batch(cmd, m.spinner.Tick, animationTick())
			}
		}

	case streamFlushMsg:
		m.partial = msg.text
		m.updateViewport()
		m.viewport.GotoBottom()
		cmds = append(cmds, waitForStream(m.events))

	case streamDoneMsg:
		m.sessions.SetLastContent(msg.full)
		m.partial = ""

		if m.settings.DuetMode && msg.role == models.RoleExpert {
			// Expert done; hand the conversation to the professor.
			cmds = append(cmds, m.startProfessor())
			m.updateViewport()
			m.viewport.GotoBottom()
			return m, tea.Batch(cmds...)
		}

		m.loading = false
		m.duetActive = false
		m.cancel = nil
		m.updateViewport()
		m.viewport.GotoBottom()

	case streamErrMsg:
		m.loading = false
		m.duetActive = false
		m.cancel = nil
		m.partial = ""

		if errors.Is(msg.err, context.Canceled) {
			m.sessions.SetLastContent("(cancelled)")
			m.updateViewport()
			m.viewport.GotoBottom()
			return m, nil
		}

		m.err = msg.err
		friendly, openSettings := apierrors.Friendly(msg.err)
		m.sessions.SetLastContent(friendly)
		m.updateViewport()
		m.viewport.GotoBottom()
		if openSettings {
			m.openSettings()
		}

	case feedbackTickMsg:
		m.feedback = ""

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only pass KeyMsg to the textarea to prevent escape sequence leaks
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit records the user message and kicks off the first stream.
func (m *Model) submit(input string) tea.Cmd {
	m.sessions.Append(models.Message{Role: models.RoleUser, Content: input})

	answerRole := models.RoleAssistant
	personaName := "default"
	if m.settings.DuetMode {
		answerRole = models.RoleExpert
		personaName = config.PersonaExpert
		m.duetActive = true
	}
	m.sessions.Append(models.Message{Role: answerRole})

	m.loading = true
	m.err = nil
	m.animationFrame = 0
	m.partial = ""
	m.updateViewport()
	m.viewport.GotoBottom()

	return m.startStream(answerRole, personaName)
}

// startProfessor appends the professor bubble and streams the commentary.
func (m *Model) startProfessor() tea.Cmd {
	m.sessions.Append(models.Message{Role: models.RoleProfessor})
	m.partial = ""
	return m.startStream(models.RoleProfessor, config.PersonaProfessor)
}

// startStream launches the API stream in a goroutine. Fragments pass
// through an aggregator so the viewport repaints in batches instead of on
// every delta; flushes and completion arrive as messages on m.events.
func (m *Model) startStream(role models.Role, personaName string) tea.Cmd {
	systemPrompt := ""
	if p, err := config.GetPersona(personaName); err == nil {
		systemPrompt = p.SystemPrompt
	}

	// History excludes the placeholder bubble that was just appended.
	active := m.sessions.Active()
	history := make([]models.Message, 0, len(active.Messages))
	for _, msg := range active.Messages {
		if msg.Content != "" {
			history = append(history, msg)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	ch := make(chan tea.Msg, 8)
	m.events = ch

	req := api.Request{
		Messages:     history,
		SystemPrompt: systemPrompt,
		Model:        m.settings.Model,
		Temperature:  m.settings.Temperature,
	}
	client := m.client
	logger := m.logger

	go func() {
		defer cancel()

		agg := stream.New(func(text string) {
			ch <- streamFlushMsg{text: text}
		}, stream.DefaultOptions())

		err := client.Stream(ctx, req, api.Callbacks{
			OnFragment: agg.Push,
			OnComplete: func(full string) {
				final := agg.Complete(full)
				ch <- streamDoneMsg{full: final, role: role}
			},
		})
		if err != nil {
			agg.Discard()
			logger.Warn().Err(err).Msg("stream failed")
			ch <- streamErrMsg{err: err}
		}
	}()

	return waitForStream(ch)
}

// abortStream cancels the in-flight request. The stream goroutine reports
// the cancellation as an error, which closes out the pending bubble.
func (m *Model) abortStream() {
	if m.cancel != nil {
		m.cancel()
	}
}

// lastAnswer returns the newest non-user message content.
func (m Model) lastAnswer() string {
	msgs := m.sessions.Active().Messages
	for i := len(msgs) - 1; i >= 0; i-- {
		if !msgs[i].IsUser() && msgs[i].Content != "" {
			return msgs[i].Content
		}
	}
	return ""
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.selectingSession {
		return m.renderSessionSelector()
	}
	if m.settingsOpen {
		return m.renderSettingsOverlay()
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerParts := []string{
		titleStyle.Render("✦ deepchat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.settings.Model),
	}
	if m.settings.DuetMode {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			settingsValueStyle.Render("duet"),
		)
	}
	headerParts = append(headerParts,
		hintStyle.Render("  •  "),
		settingsValueStyle.Render(m.sessions.Active().Title),
	)
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	header := headerStyle.Width(contentWidth).Render(headerContent)
	sections = append(sections, header)

	// Messages area
	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View())
	sections = append(sections, messagesPanel)

	// Input area
	var inputContent string
	if m.loading {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	inputPanel := inputPanelStyle.Width(contentWidth).Render(inputContent)
	sections = append(sections, inputPanel)

	// Status bar
	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.feedback != "" {
		sections = append(sections, settingsFeedbackStyle.Render("✓ "+m.feedback))
	}

	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderLoadingAnimation renders a colorful animated loading indicator
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spinIdx := frame % len(chars)
	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)

		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	dots := ""
	numDots := (frame / 3) % 4
	for i := 0; i < numDots; i++ {
		dotColor := gradientColors[(frame+i)%len(gradientColors)]
		dots += lipgloss.NewStyle().Foreground(dotColor).Render("●")
	}
	for i := numDots; i < 3; i++ {
		dots += lipgloss.NewStyle().Foreground(colorTextMute).Render("○")
	}

	thinking := " Thinking "
	if m.duetActive && m.sessions.Active().LastMessage().Role == models.RoleProfessor {
		thinking = " Professor is reviewing "
	}
	text := lipgloss.NewStyle().Foreground(colorText).Render(thinking)

	return fmt.Sprintf("%s %s %s %s", spin, bar.String(), text, dots)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"^N", "New"},
		{"^S", "Sessions"},
		{"^O", "Settings"},
		{"^Y", "Copy"},
		{"Esc", "Quit"},
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
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	msgs := m.sessions.Active().Messages
	for i, msg := range msgs {
		if i > 0 {
			content.WriteString("\n")
		}

		text := msg.Content
		if i == len(msgs)-1 && m.partial != "" {
			text = m.partial
		}

		if msg.IsUser() {
			label := userLabelStyle.Render("⬤ " + msg.Role.Label())
			bubble := userBubbleStyle.Width(bubbleWidth).Render(text)
			content.WriteString(label + "\n" + bubble)
		} else {
			labelStyle := assistantLabelStyle
			bubbleStyle := assistantBubbleStyle
			if msg.Role == models.RoleProfessor {
				labelStyle = professorLabelStyle
				bubbleStyle = professorBubbleStyle
			}
			label := labelStyle.Render("✦ " + msg.Role.Label())

			rendered, err := render.MarkdownWithWidth(text, bubbleWidth-4)
			if err != nil {
				rendered = text
			}
			rendered = strings.TrimRight(rendered, "\n")

			bubble := bubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI
func RunChat(client ChatClient, sessions *session.Manager, settings config.Settings, logger zerolog.Logger) error {
	m := NewChatModel(client, sessions, settings, logger)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
