package render

import (
	"os"

	"github.com/diogo/deepchat/internal/config"
)

// LoadOptionsFromSettings derives render options from the user settings.
// The GLAMOUR_STYLE environment variable takes precedence for the style.
func LoadOptionsFromSettings() Options {
	opts := DefaultOptions()

	cfg, err := config.LoadSettings()
	if err == nil {
		md := cfg.Markdown
		if md.Style != "" {
			opts.Style = md.Style
		}
		opts.EnableEmoji = md.EnableEmoji
		opts.PreserveNewLines = md.PreserveNewLines
		opts.TableWrap = md.TableWrap
		opts.InlineTableLinks = md.InlineTableLinks
	}

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}

	return opts
}

// LoadOptionsFromSettingsWithWidth is LoadOptionsFromSettings at a width.
func LoadOptionsFromSettingsWithWidth(width int) Options {
	opts := LoadOptionsFromSettings()
	opts.Width = width
	return opts
}
