package session

import (
	"strings"
	"testing"

	"github.com/diogo/deepchat/internal/models"
)

func TestNew_SeedsWelcomeMessage(t *testing.T) {
	s := New()

	if s.ID == 0 {
		t.Error("New() session has zero ID")
	}
	if s.Title != defaultTitle {
		t.Errorf("Title = %q, want %q", s.Title, defaultTitle)
	}
	if len(s.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(s.Messages))
	}
	if s.Messages[0].Role != models.RoleAssistant {
		t.Errorf("welcome role = %q, want assistant", s.Messages[0].Role)
	}
	if s.Messages[0].Content == "" {
		t.Error("welcome message is empty")
	}
}

func TestAppend_DoesNotMutateOriginal(t *testing.T) {
	s := New()
	before := len(s.Messages)

	next := s.Append(models.Message{Role: models.RoleUser, Content: "hi"})

	if len(s.Messages) != before {
		t.Errorf("original grew to %d messages", len(s.Messages))
	}
	if len(next.Messages) != before+1 {
		t.Errorf("copy has %d messages, want %d", len(next.Messages), before+1)
	}
	if next.LastMessage().Content != "hi" {
		t.Errorf("last message = %q, want %q", next.LastMessage().Content, "hi")
	}
}

func TestAppend_FirstUserMessageSetsTitle(t *testing.T) {
	s := New().Append(models.Message{Role: models.RoleUser, Content: "explain goroutines"})
	if s.Title != "explain goroutines" {
		t.Errorf("Title = %q, want the first user message", s.Title)
	}

	// A second user message does not retitle.
	s = s.Append(models.Message{Role: models.RoleUser, Content: "and channels"})
	if s.Title != "explain goroutines" {
		t.Errorf("Title changed to %q on second message", s.Title)
	}
}

func TestAppend_LongTitleTruncated(t *testing.T) {
	long := strings.Repeat("x", 80)
	s := New().Append(models.Message{Role: models.RoleUser, Content: long})

	if len([]rune(s.Title)) != maxTitleLen+3 {
		t.Errorf("title length = %d, want %d", len([]rune(s.Title)), maxTitleLen+3)
	}
	if !strings.HasSuffix(s.Title, "...") {
		t.Errorf("truncated title %q missing ellipsis", s.Title)
	}
}

func TestAppend_AssistantMessageKeepsDefaultTitle(t *testing.T) {
	s := New().Append(models.Message{Role: models.RoleExpert, Content: "hello"})
	if s.Title != defaultTitle {
		t.Errorf("Title = %q, want %q", s.Title, defaultTitle)
	}
}

func TestSetLastContent(t *testing.T) {
	s := New().Append(models.Message{Role: models.RoleAssistant, Content: "partial"})
	next := s.SetLastContent("full answer")

	if next.LastMessage().Content != "full answer" {
		t.Errorf("last content = %q, want %q", next.LastMessage().Content, "full answer")
	}
	if s.LastMessage().Content != "partial" {
		t.Error("SetLastContent mutated the original session")
	}
}

func TestSetLastContent_EmptySession(t *testing.T) {
	s := &Session{ID: 1}
	if got := s.SetLastContent("x"); len(got.Messages) != 0 {
		t.Errorf("got %d messages on empty session", len(got.Messages))
	}
}
