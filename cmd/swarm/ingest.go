package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sandevgo/tuskswarm/internal/service/ingest"
	"github.com/sandevgo/tuskswarm/internal/service/ui"
	"github.com/sandevgo/tuskswarm/pkg/log"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:          "ingest",
	Short:        "Rebuild the document index from DOCUMENTS_PATH",
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

		log.FromCtx(ctx).Info().Str("path", settings.RAG.DocumentsPath).Msg("indexing documents")
		stats, err := app.Ingest.Run(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, ui.TitleStyle.Render("INDEXED DOCUMENTS"))
		fmt.Fprintln(os.Stdout, statsTable(stats))
		return nil
	},
}

func statsTable(stats ingest.Stats) string {
	rows := make([][]string, 0, len(stats.Sources)+1)
	for _, s := range stats.Sources {
		rows = append(rows, []string{s.Source, strconv.Itoa(s.Chunks), strconv.Itoa(s.Tokens)})
	}
	rows = append(rows, []string{
		fmt.Sprintf("total (%d documents)", stats.Documents),
		strconv.Itoa(stats.Chunks),
		strconv.Itoa(stats.Tokens),
	})
	last := len(rows) - 1

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(ui.DescStyle).
		Headers("SOURCE", "CHUNKS", "TOKENS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return style.Inherit(ui.TitleStyle.UnsetMarginBottom())
			case row == last:
				return style.Bold(true)
			case col > 0:
				return style.Align(lipgloss.Right)
			}
			return style
		}).
		Render()
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
