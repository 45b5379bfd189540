package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/diogo/deepchat/internal/api"
	"github.com/diogo/deepchat/internal/config"
	apierrors "github.com/diogo/deepchat/internal/errors"
	"github.com/diogo/deepchat/internal/models"
	"github.com/diogo/deepchat/internal/session"
)

// fakeClient scripts the streaming behavior for tests.
type fakeClient struct {
	fragments []string
	full      string
	err       error
	streams   int
	lastReq   api.Request
}

func (f *fakeClient) Stream(_ context.Context, req api.Request, cb api.Callbacks) error {
	f.streams++
	f.lastReq = req
	if f.err != nil {
		if cb.OnError != nil {
			cb.OnError(f.err)
		}
		return f.err
	}
	for _, fr := range f.fragments {
		if cb.OnFragment != nil {
			cb.OnFragment(fr)
		}
	}
	if cb.OnComplete != nil {
		cb.OnComplete(f.full)
	}
	return nil
}

func (f *fakeClient) ValidateKey(_ context.Context) error { return f.err }
func (f *fakeClient) Model() string                       { return "test-model" }

func newTestChatModel(t *testing.T, client *fakeClient, settings config.Settings) Model {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	store, err := session.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	mgr, err := session.NewManager(store, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	m := NewChatModel(client, mgr, settings, zerolog.Nop())

	// Give the model a size so the viewport exists.
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func sendKey(t *testing.T, m Model, key string) Model {
	t.Helper()
	var msg tea.Msg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+n":
		msg = tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+o":
		msg = tea.KeyMsg{Type: tea.KeyCtrlO}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestSubmit_AppendsUserMessageAndPlaceholder(t *testing.T) {
	client := &fakeClient{full: "answer"}
	m := newTestChatModel(t, client, config.DefaultSettings())
	before := len(m.sessions.Active().Messages)

	m.textarea.SetValue("what is a goroutine?")
	m = sendKey(t, m, "enter")

	msgs := m.sessions.Active().Messages
	if len(msgs) != before+2 {
		t.Fatalf("got %d messages, want user + placeholder added", len(msgs))
	}
	if msgs[len(msgs)-2].Role != models.RoleUser {
		t.Errorf("second-to-last role = %q, want user", msgs[len(msgs)-2].Role)
	}
	if msgs[len(msgs)-1].Role != models.RoleAssistant {
		t.Errorf("last role = %q, want assistant placeholder", msgs[len(msgs)-1].Role)
	}
	if !m.loading {
		t.Error("loading = false after submit")
	}
}

func TestSubmit_DuetUsesExpertRole(t *testing.T) {
	settings := config.DefaultSettings()
	settings.DuetMode = true
	m := newTestChatModel(t, &fakeClient{full: "answer"}, settings)

	m.textarea.SetValue("hi")
	m = sendKey(t, m, "enter")

	last := m.sessions.Active().LastMessage()
	if last.Role != models.RoleExpert {
		t.Errorf("placeholder role = %q, want expert in duet mode", last.Role)
	}
}

func TestStreamFlush_ShowsPartialText(t *testing.T) {
	m := newTestChatModel(t, &fakeClient{}, config.DefaultSettings())
	m.events = make(chan tea.Msg, 1)
	m.loading = true
	m.sessions.Append(models.Message{Role: models.RoleUser, Content: "q"})
	m.sessions.Append(models.Message{Role: models.RoleAssistant})

	updated, _ := m.Update(streamFlushMsg{text: "Hello, wor"})
	m = updated.(Model)

	if m.partial != "Hello, wor" {
		t.Errorf("partial = %q", m.partial)
	}
	if !m.loading {
		t.Error("loading cleared on flush")
	}
}

func TestStreamDone_CommitsAuthoritativeText(t *testing.T) {
	m := newTestChatModel(t, &fakeClient{}, config.DefaultSettings())
	m.loading = true
	m.partial = "Hello, wor"
	m.sessions.Append(models.Message{Role: models.RoleUser, Content: "q"})
	m.sessions.Append(models.Message{Role: models.RoleAssistant})

	updated, _ := m.Update(streamDoneMsg{full: "Hello, world!", role: models.RoleAssistant})
	m = updated.(Model)

	if m.loading {
		t.Error("loading = true after done")
	}
	if m.partial != "" {
		t.Errorf("partial = %q, want cleared", m.partial)
	}
	if got := m.sessions.Active().LastMessage().Content; got != "Hello, world!" {
		t.Errorf("committed content = %q", got)
	}
}

func TestStreamDone_DuetHandsOffToProfessor(t *testing.T) {
	settings := config.DefaultSettings()
	settings.DuetMode = true
	m := newTestChatModel(t, &fakeClient{full: "review"}, settings)
	m.loading = true
	m.duetActive = true
	m.sessions.Append(models.Message{Role: models.RoleUser, Content: "q"})
	m.sessions.Append(models.Message{Role: models.RoleExpert})

	updated, cmd := m.Update(streamDoneMsg{full: "expert answer", role: models.RoleExpert})
	m = updated.(Model)

	if !m.loading {
		t.Error("loading = false while professor turn is pending")
	}
	if cmd == nil {
		t.Error("no command returned to continue the duet")
	}
	last := m.sessions.Active().LastMessage()
	if last.Role != models.RoleProfessor {
		t.Errorf("last role = %q, want professor placeholder", last.Role)
	}

	msgs := m.sessions.Active().Messages
	if msgs[len(msgs)-2].Content != "expert answer" {
		t.Errorf("expert message = %q, want committed answer", msgs[len(msgs)-2].Content)
	}
}

func TestStreamErr_AuthErrorOpensKeyOverlay(t *testing.T) {
	m := newTestChatModel(t, &fakeClient{}, config.DefaultSettings())
	m.loading = true
	m.sessions.Append(models.Message{Role: models.RoleUser, Content: "q"})
	m.sessions.Append(models.Message{Role: models.RoleAssistant})

	updated, _ := m.Update(streamErrMsg{err: apierrors.NewAuthError("bad key")})
	m = updated.(Model)

	if m.loading {
		t.Error("loading = true after error")
	}
	if !m.settingsOpen {
		t.Error("settings overlay not opened for auth error")
	}
	content := m.sessions.Active().LastMessage().Content
	if !strings.Contains(content, "API key") {
		t.Errorf("apologetic bubble %q does not mention the API key", content)
	}
}

func TestStreamErr_RateLimitDoesNotOpenOverlay(t *testing.T) {
	m := newTestChatModel(t, &fakeClient{}, config.DefaultSettings())
	m.loading = true
	m.sessions.Append(models.Message{Role: models.RoleUser, Content: "q"})
	m.sessions.Append(models.Message{Role: models.RoleAssistant})

	updated, _ := m.Update(streamErrMsg{err: apierrors.NewRateLimitError("slow down")})
	m = updated.(Model)

	if m.settingsOpen {
		t.Error("settings overlay opened for rate limit error")
	}
	if !strings.Contains(m.sessions.Active().LastMessage().Content, "Too many requests") {
		t.Errorf("bubble = %q", m.sessions.Active().LastMessage().Content)
	}
}

func TestCtrlN_StartsNewSession(t *testing.T) {
	m := newTestChatModel(t, &fakeClient{}, config.DefaultSettings())
	before := m.sessions.Count()

	m = sendKey(t, m, "ctrl+n")

	if m.sessions.Count() != before+1 {
		t.Errorf("Count() = %d, want %d", m.sessions.Count(), before+1)
	}
}

func TestCtrlS_OpensSessionSelector(t *testing.T) {
	m := newTestChatModel(t, &fakeClient{}, config.DefaultSettings())

	m = sendKey(t, m, "ctrl+s")
	if !m.selectingSession {
		t.Fatal("session selector not open")
	}

	m = sendKey(t, m, "esc")
	if m.selectingSession {
		t.Error("esc did not close the selector")
	}
}

func TestSessionSelector_SwitchesOnEnter(t *testing.T) {
	m := newTestChatModel(t, &fakeClient{}, config.DefaultSettings())
	first := m.sessions.Active().ID
	m.sessions.Create()

	m = sendKey(t, m, "ctrl+s")
	// List is newest first; move to the older session and select it.
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	m = sendKey(t, m, "enter")

	if m.selectingSession {
		t.Error("selector still open after selection")
	}
	if m.sessions.Active().ID != first {
		t.Errorf("active = %d, want %d", m.sessions.Active().ID, first)
	}
}

func TestSessionSelector_Filter(t *testing.T) {
	m := newTestChatModel(t, &fakeClient{}, config.DefaultSettings())
	if err := m.sessions.Rename(m.sessions.Active().ID, "goroutines"); err != nil {
		t.Fatal(err)
	}
	m.sessions.Create()

	m.selectingSession = true
	m.sessionFilter = "goro"

	filtered := m.filteredSessions()
	if len(filtered) != 1 {
		t.Fatalf("filtered %d sessions, want 1", len(filtered))
	}
	if filtered[0].Title != "goroutines" {
		t.Errorf("filtered title = %q", filtered[0].Title)
	}
}

func TestKeyOverlay_SavesValidatedKey(t *testing.T) {
	m := newTestChatModel(t, &fakeClient{}, config.DefaultSettings())
	m = sendKey(t, m, "ctrl+o")
	if !m.settingsOpen {
		t.Fatal("overlay not open")
	}

	updated, _ := m.Update(keyValidatedMsg{key: "sk-new-key"})
	m = updated.(Model)

	if m.settingsOpen {
		t.Error("overlay still open after a valid key")
	}
	saved, err := config.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if saved.APIKey != "sk-new-key" {
		t.Errorf("saved key = %q", saved.APIKey)
	}
}

func TestKeyOverlay_RejectedKeyStaysOpen(t *testing.T) {
	m := newTestChatModel(t, &fakeClient{}, config.DefaultSettings())
	m = sendKey(t, m, "ctrl+o")

	updated, _ := m.Update(keyValidatedMsg{key: "sk-bad", err: apierrors.NewAuthError("nope")})
	m = updated.(Model)

	if !m.settingsOpen {
		t.Error("overlay closed after rejected key")
	}
	if !strings.Contains(m.keyFeedback, "rejected") {
		t.Errorf("keyFeedback = %q", m.keyFeedback)
	}
}

func TestLastAnswer_SkipsUserMessages(t *testing.T) {
	m := newTestChatModel(t, &fakeClient{}, config.DefaultSettings())
	m.sessions.Append(models.Message{Role: models.RoleUser, Content: "question"})
	m.sessions.Append(models.Message{Role: models.RoleAssistant, Content: "the answer"})
	m.sessions.Append(models.Message{Role: models.RoleUser, Content: "follow-up"})

	if got := m.lastAnswer(); got != "the answer" {
		t.Errorf("lastAnswer() = %q", got)
	}
}

func TestFormatError_IncludesHint(t *testing.T) {
	out := FormatError(apierrors.NewNoAPIKeyError())
	if !strings.Contains(out, "deepchat config set-key") {
		t.Errorf("FormatError missing key hint: %q", out)
	}
	if FormatError(nil) != "" {
		t.Error("FormatError(nil) != \"\"")
	}
}
