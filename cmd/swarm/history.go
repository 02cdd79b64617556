package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/internal/service/ui"
	"github.com/sandevgo/tuskswarm/internal/transport/cli"
	"github.com/spf13/cobra"
)

const firstAskWidth = 48

var historyLimit int

var errNoJournal = errors.New("session journal is disabled (JOURNAL_ENABLED=false)")

// agentHolder is implemented by journals that remember which agent held a session.
type agentHolder interface {
	LastAgent(ctx context.Context, sessionID string) (string, error)
}

var historyCmd = &cobra.Command{
	Use:          "history [session-id]",
	Short:        "List recorded sessions or replay one of them",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, settings, done, err := boot(cmd, sinkDefault)
		if err != nil {
			return err
		}
		defer done()

		app, err := NewApp(ctx, settings)
		if err != nil {
			return err
		}
		defer app.Close()

		if app.Journal == nil {
			return errNoJournal
		}
		if len(args) == 1 {
			return showSession(ctx, app.Journal, args[0])
		}
		return listSessions(ctx, app.Journal)
	},
}

func listSessions(ctx context.Context, journal core.JournalRepository) error {
	sessions, err := journal.ListSessions(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(os.Stdout, "No sessions recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.ID,
			s.UpdatedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(s.Messages),
			truncate(s.FirstAsk, firstAskWidth),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(ui.DescStyle).
		Headers("SESSION", "UPDATED", "MESSAGES", "FIRST QUESTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Inherit(ui.TitleStyle.UnsetMarginBottom())
			}
			return style
		})
	fmt.Fprintln(os.Stdout, t.Render())
	return nil
}

func showSession(ctx context.Context, journal core.JournalRepository, id string) error {
	msgs, err := journal.GetMessages(ctx, id, historyLimit)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return fmt.Errorf("session %s not found", id)
	}

	if h, ok := journal.(agentHolder); ok {
		if agent, err := h.LastAgent(ctx, id); err == nil {
			fmt.Fprintln(os.Stdout, ui.DescStyle.Render("held by "+agent))
		}
	}
	return cli.NewRenderer().Render(os.Stdout, msgs)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of sessions or messages to show")
	rootCmd.AddCommand(historyCmd)
}
