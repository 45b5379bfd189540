package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/deepchat/internal/api"
	"github.com/diogo/deepchat/internal/config"
	"github.com/diogo/deepchat/internal/logging"
	"github.com/diogo/deepchat/internal/session"
	"github.com/diogo/deepchat/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive terminal chat session.

Conversations are kept across restarts. Inside the chat use Ctrl+N for a
new conversation, Ctrl+S to switch between conversations, Ctrl+O for the
API key overlay and Esc to cancel a running response.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func runChat() error {
	logger := logging.New()

	cfg, err := config.LoadSettings()
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load settings, using defaults")
		cfg = config.DefaultSettings()
	}

	store, err := session.DefaultStore()
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	sessions, err := session.NewManager(store, logger)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	client := api.NewClient(cfg.APIKey,
		api.WithModel(getModel()),
		api.WithTemperature(getTemperature(cfg)),
		api.WithLogger(logger),
	)

	return tui.RunChat(client, sessions, cfg, logger)
}
