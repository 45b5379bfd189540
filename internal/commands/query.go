package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/deepchat/internal/api"
	"github.com/diogo/deepchat/internal/config"
	apierrors "github.com/diogo/deepchat/internal/errors"
	"github.com/diogo/deepchat/internal/models"
	"github.com/diogo/deepchat/internal/render"
	"github.com/diogo/deepchat/internal/stream"
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				MarginBottom(0)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)
)

// runQuery executes a single query and outputs the response.
// If rawOutput is true, only the raw response text is printed without
// decoration; that is also the mode used when stdout is piped.
func runQuery(prompt string, rawOutput bool) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	cfg, _ := config.LoadSettings()
	modelName := getModel()

	// Resolve persona system prompt if requested
	systemPrompt := ""
	if personaFlag != "" {
		persona, err := config.GetPersona(personaFlag)
		if err != nil {
			return fmt.Errorf("failed to load persona '%s': %w", personaFlag, err)
		}
		systemPrompt = persona.SystemPrompt
		if cfg.Verbose && !rawOutput {
			fmt.Fprintf(os.Stderr, "[verbose] Using persona: %s\n", persona.Name)
		}
	}

	if cfg.Verbose && !rawOutput {
		fmt.Fprintf(os.Stderr, "[verbose] Model: %s\n", modelName)
	}

	client := api.NewClient(cfg.APIKey,
		api.WithModel(modelName),
		api.WithTemperature(getTemperature(cfg)),
	)

	req := api.Request{
		Messages:     []models.Message{{Role: models.RoleUser, Content: prompt}},
		SystemPrompt: systemPrompt,
	}

	// Raw mode with no output file streams fragments straight to stdout
	// as they batch up; everything else collects the full response first.
	if rawOutput && outputFlag == "" {
		if _, err := streamToStdout(req, client); err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}
		return nil
	}

	var spin *spinner
	if !rawOutput {
		spin = newSpinner("Generating response")
		spin.start()
	}

	startTime := time.Now()
	text, err := client.Send(context.Background(), req)
	requestDuration := time.Since(startTime)

	if err != nil {
		if !rawOutput {
			spin.stopWithError()
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Generation failed"))
		}
		return fmt.Errorf("generation failed: %w", err)
	}
	if !rawOutput {
		spin.stopWithSuccess("Done")
	}

	if cfg.Verbose && !rawOutput {
		fmt.Fprintf(os.Stderr, "[verbose] Request took %s\n", requestDuration.Round(time.Millisecond))
	}

	// Raw output with a target file: only the response text
	if rawOutput {
		if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}

	fmt.Fprintln(os.Stderr)

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Response saved to %s", outputFlag),
		)
		fmt.Fprintln(os.Stderr, successMsg)
		return nil
	}

	// Decorated output mode (TTY)
	termWidth := getTerminalWidth()
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	label := assistantLabelStyle.Render("✦ " + modelName)
	fmt.Println(label)

	renderOpts := render.LoadOptionsFromSettingsWithWidth(contentWidth)
	rendered, err := render.Markdown(text, renderOpts)
	if err != nil {
		rendered = text
	}
	rendered = strings.TrimRight(rendered, "\n")

	bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
	fmt.Println(bubble)

	return nil
}

// streamToStdout streams a response to stdout, printing each batched
// flush as soon as it lands. Returns the authoritative full text.
func streamToStdout(req api.Request, client *api.Client) (string, error) {
	printed := 0
	agg := stream.New(func(text string) {
		if len(text) > printed {
			fmt.Print(text[printed:])
			printed = len(text)
		}
	}, stream.DefaultOptions())

	var full string
	err := client.Stream(context.Background(), req, api.Callbacks{
		OnFragment: agg.Push,
		OnComplete: func(text string) {
			full = agg.Complete(text)
			if len(full) > printed {
				fmt.Print(full[printed:])
			}
		},
	})
	if err != nil {
		agg.Discard()
		return "", err
	}
	fmt.Println()
	return full, nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if code := apierrors.GetErrorCode(err); code != apierrors.ErrCodeUnknown {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Error Code: %d (%s)", code, code.String())))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case apierrors.IsNoAPIKeyError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Run 'deepchat config set-key' to configure your API key"))
	case apierrors.IsAuthError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Your key was rejected. Run 'deepchat config set-key' with a valid key"))
	case apierrors.IsRateLimitError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: You've hit the usage limit. Try again later"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and try again"))
	}

	return sb.String()
}
