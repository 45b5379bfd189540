// Package commands provides CLI commands for deepchat.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/deepchat/internal/config"
)

var (
	// Global flags
	modelFlag   string
	outputFlag  string
	fileFlag    string
	personaFlag string
	rawFlag     bool
	tempFlag    float64

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "deepchat [prompt]",
	Short: "Terminal chat client for SiliconFlow models",
	Long: `deepchat is a terminal client for chatting with large language models
through the SiliconFlow API. It streams answers with markdown rendering
and keeps your conversations on disk.

Examples:
  deepchat chat                      Start the interactive chat
  deepchat config                    Configure settings
  deepchat "What is Go?"             Send a single query
  deepchat -f prompt.md              Read prompt from file
  cat prompt.md | deepchat           Read prompt from stdin
  deepchat "Hello" -o response.md    Save response to file
  deepchat --persona expert "..."    Ask with a persona`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("deepchat %s (built %s)\n", Version, BuildTime)
			return nil
		}

		stat, _ := os.Stdin.Stat()
		hasStdin := (stat.Mode() & os.ModeCharDevice) == 0

		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data), rawFlag || !isStdoutTTY())
		}

		if hasStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data), rawFlag || !isStdoutTTY())
		}

		if len(args) > 0 {
			return runQuery(args[0], rawFlag || !isStdoutTTY())
		}

		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use (e.g., deepseek-ai/DeepSeek-V2.5)")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().StringVar(&personaFlag, "persona", "", "Persona to answer as (expert, professor)")
	rootCmd.Flags().BoolVar(&rawFlag, "raw", false, "Print the raw response without decoration")
	rootCmd.Flags().Float64VarP(&tempFlag, "temperature", "t", -1, "Sampling temperature in [0,1]")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(modelsCmd)
}

// getModel returns the model to use (from flag or settings)
func getModel() string {
	if modelFlag != "" {
		return modelFlag
	}

	cfg, err := config.LoadSettings()
	if err != nil {
		return config.DefaultSettings().Model
	}
	return cfg.Model
}

// getTemperature returns the temperature to use (from flag or settings)
func getTemperature(cfg config.Settings) float64 {
	if tempFlag >= 0 && tempFlag <= 1 {
		return tempFlag
	}
	return cfg.Temperature
}
