package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/deepchat/internal/logging"
	"github.com/diogo/deepchat/internal/render"
	"github.com/diogo/deepchat/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := openManager()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tMESSAGES\tCREATED")
		for _, s := range mgr.List() {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\n",
				s.ID, s.Title, len(s.Messages), s.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a conversation transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid session id '%s'", args[0])
		}

		mgr, err := openManager()
		if err != nil {
			return err
		}
		s, err := mgr.Get(id)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n\n", s.Title, s.CreatedAt.Format("2006-01-02 15:04"))

		opts := render.LoadOptionsFromSettingsWithWidth(getTerminalWidth() - 4)
		for _, msg := range s.Messages {
			fmt.Printf("── %s ──\n", msg.Role.Label())
			if msg.IsUser() || !isStdoutTTY() {
				fmt.Println(msg.Content)
			} else {
				out, err := render.Markdown(msg.Content, opts)
				if err != nil {
					out = msg.Content
				}
				fmt.Println(strings.TrimRight(out, "\n"))
			}
			fmt.Println()
		}
		return nil
	},
}

var sessionsRenameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Rename a conversation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid session id '%s'", args[0])
		}

		mgr, err := openManager()
		if err != nil {
			return err
		}
		if err := mgr.Rename(id, args[1]); err != nil {
			return err
		}
		fmt.Println("Renamed")
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid session id '%s'", args[0])
		}

		mgr, err := openManager()
		if err != nil {
			return err
		}
		if err := mgr.Delete(id); err != nil {
			return err
		}
		fmt.Println("Deleted")
		return nil
	},
}

var exportFormatFlag string

var sessionsExportCmd = &cobra.Command{
	Use:   "export <id> [file]",
	Short: "Export a conversation to markdown or JSON",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid session id '%s'", args[0])
		}

		format, err := session.ParseExportFormat(exportFormatFlag)
		if err != nil {
			return err
		}

		mgr, err := openManager()
		if err != nil {
			return err
		}
		s, err := mgr.Get(id)
		if err != nil {
			return err
		}

		data, err := s.Export(format)
		if err != nil {
			return err
		}

		if len(args) == 2 {
			if err := os.WriteFile(args[1], data, 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Printf("Exported to %s\n", args[1])
			return nil
		}

		_, err = os.Stdout.Write(data)
		return err
	},
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := openManager()
		if err != nil {
			return err
		}
		mgr.Clear()
		fmt.Println("All conversations cleared")
		return nil
	},
}

func openManager() (*session.Manager, error) {
	store, err := session.DefaultStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	mgr, err := session.NewManager(store, logging.New())
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	return mgr, nil
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsRenameCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)

	sessionsExportCmd.Flags().StringVar(&exportFormatFlag, "format", "markdown", "Export format (markdown or json)")
}
