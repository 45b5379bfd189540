package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/diogo/deepchat/internal/api"
	"github.com/diogo/deepchat/internal/config"
	"github.com/diogo/deepchat/internal/session"
	"github.com/diogo/deepchat/internal/tui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage deepchat settings",
	Long: `Open the interactive settings menu, or use a subcommand to change a
single setting from the command line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.RunSettings()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		labelStyle := lipgloss.NewStyle().Foreground(colorTextDim).Width(14)

		fmt.Printf("%s %s\n", labelStyle.Render("API key:"), maskKey(cfg.APIKey))
		fmt.Printf("%s %s\n", labelStyle.Render("Model:"), cfg.Model)
		fmt.Printf("%s %.1f\n", labelStyle.Render("Temperature:"), cfg.Temperature)
		fmt.Printf("%s %s\n", labelStyle.Render("Theme:"), cfg.Theme)
		fmt.Printf("%s %v\n", labelStyle.Render("Duet mode:"), cfg.DuetMode)
		fmt.Printf("%s %s\n", labelStyle.Render("Style:"), cfg.Markdown.Style)
		fmt.Printf("%s %v\n", labelStyle.Render("Verbose:"), cfg.Verbose)

		if path, err := config.GetConfigPath(); err == nil {
			fmt.Printf("%s %s\n", labelStyle.Render("Config file:"), path)
		}
		return nil
	},
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Set and validate the API key",
	Long: `Prompt for an API key (input is hidden), validate it against the
provider, and store it in the settings file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(os.Stderr, "API key: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
		key := strings.TrimSpace(string(raw))
		if key == "" {
			return fmt.Errorf("key cannot be empty")
		}

		cfg, _ := config.LoadSettings()

		spin := newSpinner("Validating key")
		spin.start()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client := api.NewClient(key, api.WithModel(cfg.Model))
		if err := client.ValidateKey(ctx); err != nil {
			spin.stopWithError()
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Key validation failed"))
			return fmt.Errorf("key validation failed: %w", err)
		}
		spin.stopWithSuccess("Key is valid")

		cfg.APIKey = key
		if err := config.SaveSettings(cfg); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("API key saved")
		return nil
	},
}

var configSetModelCmd = &cobra.Command{
	Use:   "set-model <model>",
	Short: "Set the default model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _ := config.LoadSettings()
		cfg.Model = args[0]
		if err := config.SaveSettings(cfg); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Printf("Model set to %s\n", args[0])
		return nil
	},
}

var configSetThemeCmd = &cobra.Command{
	Use:   "set-theme <name>",
	Short: "Set the interface theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.ToLower(args[0])
		valid := false
		for _, t := range config.AvailableThemes() {
			if t == name {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown theme '%s' (available: %s)",
				args[0], strings.Join(config.AvailableThemes(), ", "))
		}

		cfg, _ := config.LoadSettings()
		cfg.Theme = name
		if err := config.SaveSettings(cfg); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Printf("Theme set to %s\n", name)
		return nil
	},
}

var configAvatarCmd = &cobra.Command{
	Use:   "avatar <image-file>",
	Short: "Set the avatar shown next to your messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}

		mime := mimeForImage(args[0])
		if mime == "" {
			return fmt.Errorf("unsupported image type '%s' (png, jpeg, gif or webp)",
				filepath.Ext(args[0]))
		}

		dataURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))

		store, err := session.DefaultStore()
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		if err := store.SaveAvatar(dataURL); err != nil {
			return fmt.Errorf("failed to save avatar: %w", err)
		}
		fmt.Println("Avatar saved")
		return nil
	},
}

func mimeForImage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return ""
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configSetModelCmd)
	configCmd.AddCommand(configSetThemeCmd)
	configCmd.AddCommand(configAvatarCmd)
}
