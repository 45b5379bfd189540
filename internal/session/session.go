// Package session manages chat sessions and their local persistence.
package session

import (
	"time"

	"github.com/diogo/deepchat/internal/models"
)

// Session is one conversation thread. IDs are creation timestamps in
// milliseconds, which keeps them unique per machine and naturally ordered.
type Session struct {
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	CreatedAt time.Time        `json:"created_at"`
	Messages  []models.Message `json:"messages"`
}

const defaultTitle = "New conversation"

const maxTitleLen = 50

// welcomeText opens every fresh session so the duet personas introduce
// themselves before the first user message.
const welcomeText = "Hello! We're your AI duo: an IT expert who gets straight " +
	"to the practical answer, and a CS professor who explains the ideas " +
	"behind it. Ask us anything about programming, systems, or computer " +
	"science."

// New creates a session stamped with the current time and seeded with the
// welcome message.
func New() *Session {
	now := time.Now()
	return &Session{
		ID:        now.UnixMilli(),
		Title:     defaultTitle,
		CreatedAt: now,
		Messages: []models.Message{
			{Role: models.RoleAssistant, Content: welcomeText},
		},
	}
}

// Append returns a copy of s with msg added. Sessions are treated as
// values so stale references held by views never see later edits.
func (s *Session) Append(msg models.Message) *Session {
	out := *s
	out.Messages = make([]models.Message, len(s.Messages), len(s.Messages)+1)
	copy(out.Messages, s.Messages)
	out.Messages = append(out.Messages, msg)

	if msg.IsUser() && out.Title == defaultTitle {
		out.Title = deriveTitle(msg.Content)
	}
	return &out
}

// SetLastContent returns a copy of s with the final message's content
// replaced. With no messages it returns s unchanged.
func (s *Session) SetLastContent(content string) *Session {
	if len(s.Messages) == 0 {
		return s
	}
	out := *s
	out.Messages = make([]models.Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	out.Messages[len(out.Messages)-1].Content = content
	return &out
}

// LastMessage returns the most recent message, or a zero Message when the
// session is empty.
func (s *Session) LastMessage() models.Message {
	if len(s.Messages) == 0 {
		return models.Message{}
	}
	return s.Messages[len(s.Messages)-1]
}

func deriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) > maxTitleLen {
		return string(runes[:maxTitleLen]) + "..."
	}
	return content
}
