package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ExportFormat represents the format for exporting conversations
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ParseExportFormat maps a user-supplied format name to an ExportFormat.
func ParseExportFormat(name string) (ExportFormat, error) {
	switch strings.ToLower(name) {
	case "markdown", "md":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format '%s' (markdown or json)", name)
}

// ExportMarkdown renders a conversation as a Markdown document.
func (s *Session) ExportMarkdown() string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(s.Title)
	sb.WriteString("\n\n")

	sb.WriteString("**Created:** ")
	sb.WriteString(s.CreatedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString("**Messages:** ")
	sb.WriteString(fmt.Sprintf("%d", len(s.Messages)))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range s.Messages {
		sb.WriteString("## ")
		sb.WriteString(msg.Role.Label())
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if i < len(s.Messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// ExportJSON renders a conversation as indented JSON.
func (s *Session) ExportJSON() ([]byte, error) {
	type exportMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	type exportSession struct {
		ID        int64           `json:"id"`
		Title     string          `json:"title"`
		CreatedAt time.Time       `json:"created_at"`
		Messages  []exportMessage `json:"messages"`
	}

	out := exportSession{
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		Messages:  make([]exportMessage, len(s.Messages)),
	}
	for i, msg := range s.Messages {
		out.Messages[i] = exportMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	return json.MarshalIndent(out, "", "  ")
}

// Export renders the conversation in the requested format.
func (s *Session) Export(format ExportFormat) ([]byte, error) {
	switch format {
	case ExportFormatMarkdown:
		return []byte(s.ExportMarkdown()), nil
	case ExportFormatJSON:
		return s.ExportJSON()
	}
	return nil, fmt.Errorf("unknown export format '%s'", format)
}
