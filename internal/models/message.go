// Package models contains data types and constants for the deepchat client.
package models

// Role identifies who produced a message. Expert and Professor are the two
// assistant voices used in duet mode; both map to the provider's
// "assistant" role on the wire.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleExpert    Role = "expert"
	RoleProfessor Role = "professor"
)

// Message represents a single chat message
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// IsUser reports whether the message was written by the user
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// ProviderRole maps the local role to the OpenAI-compatible wire role
func (r Role) ProviderRole() string {
	if r == RoleUser {
		return "user"
	}
	return "assistant"
}

// Label returns the display name for a role
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleExpert:
		return "Expert"
	case RoleProfessor:
		return "Professor"
	default:
		return "Assistant"
	}
}
