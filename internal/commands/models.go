package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/deepchat/internal/api"
	"github.com/diogo/deepchat/internal/config"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available to your API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _ := config.LoadSettings()
		client := api.NewClient(cfg.APIKey)

		var spin *spinner
		if isStdoutTTY() {
			spin = newSpinner("Fetching models")
			spin.start()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		ids, err := client.ListModels(ctx)
		if err != nil {
			if spin != nil {
				spin.stopWithError()
				fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Could not list models"))
			}
			return fmt.Errorf("could not list models: %w", err)
		}
		if spin != nil {
			spin.stopWithSuccess(fmt.Sprintf("%d models", len(ids)))
		}

		for _, id := range ids {
			marker := "  "
			if id == cfg.Model {
				marker = "* "
			}
			fmt.Println(marker + id)
		}
		return nil
	},
}
