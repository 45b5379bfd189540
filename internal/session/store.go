package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/deepchat/internal/config"
	"github.com/diogo/deepchat/internal/models"
)

const (
	sessionsFile      = "sessions.json"
	legacyHistoryFile = "history.json"
	avatarFile        = "avatar"
)

// Store persists the full session list as a single JSON document, the way
// a browser would keep one storage record per key.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// DefaultStore creates a store under the user's config directory.
func DefaultStore() (*Store, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return nil, err
	}
	return NewStore(dir)
}

// Load reads all persisted sessions, newest first. A missing file first
// checks for a legacy single-conversation history to migrate; otherwise
// it yields an empty list.
func (s *Store) Load() ([]*Session, error) {
	data, err := os.ReadFile(s.sessionsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return s.migrateLegacy()
		}
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}

	var sessions []*Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("failed to parse sessions: %w", err)
	}
	return sessions, nil
}

// Save writes the complete session list, replacing whatever was stored.
func (s *Store) Save(sessions []*Session) error {
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}
	if err := os.WriteFile(s.sessionsPath(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write sessions: %w", err)
	}
	return nil
}

// Clear removes all persisted sessions and any legacy history.
func (s *Store) Clear() error {
	for _, name := range []string{sessionsFile, legacyHistoryFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return nil
}

// SaveAvatar stores the user's avatar as a data URL string.
func (s *Store) SaveAvatar(dataURL string) error {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return fmt.Errorf("avatar must be an image data URL")
	}
	if err := os.WriteFile(s.avatarPath(), []byte(dataURL), 0o600); err != nil {
		return fmt.Errorf("failed to write avatar: %w", err)
	}
	return nil
}

// LoadAvatar returns the stored avatar data URL, or "" when none is set.
func (s *Store) LoadAvatar() string {
	data, err := os.ReadFile(s.avatarPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// migrateLegacy converts the pre-sessions flat message history into a
// single session. The legacy file is kept so a downgrade still works.
func (s *Store) migrateLegacy() ([]*Session, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, legacyHistoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read legacy history: %w", err)
	}

	var msgs []models.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("failed to parse legacy history: %w", err)
	}
	if len(msgs) == 0 {
		return nil, nil
	}

	now := time.Now()
	sess := &Session{
		ID:        now.UnixMilli(),
		Title:     "Imported conversation",
		CreatedAt: now,
		Messages:  msgs,
	}
	for _, m := range msgs {
		if m.IsUser() {
			sess.Title = deriveTitle(m.Content)
			break
		}
	}

	sessions := []*Session{sess}
	if err := s.Save(sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *Store) sessionsPath() string {
	return filepath.Join(s.dir, sessionsFile)
}

func (s *Store) avatarPath() string {
	return filepath.Join(s.dir, avatarFile)
}
