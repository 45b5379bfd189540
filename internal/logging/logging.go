// Package logging provides the file-backed logger for deepchat.
//
// The TUI owns the terminal, so diagnostics never go to stdout/stderr;
// they are appended to a log file under the config directory instead.
package logging

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/diogo/deepchat/internal/config"
)

// FileName is the log file name inside the config directory
const FileName = "deepchat.log"

// New returns a logger appending to ~/.deepchat/deepchat.log. If the file
// cannot be opened the returned logger discards everything; logging is
// never allowed to take the application down.
func New() zerolog.Logger {
	dir, err := config.EnsureConfigDir()
	if err != nil {
		return zerolog.Nop()
	}

	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return zerolog.Nop()
	}

	return zerolog.New(f).With().Timestamp().Logger()
}

// NewWriterLogger returns a logger writing to the given path, for tests
// and explicit targets.
func NewWriterLogger(path string) (zerolog.Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(f).With().Timestamp().Logger(), nil
}
