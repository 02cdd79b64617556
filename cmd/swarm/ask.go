package main

import (
	"os"
	"strings"

	"github.com/sandevgo/tuskswarm/internal/service/state"
	"github.com/sandevgo/tuskswarm/internal/transport/cli"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:          "ask <question>",
	Short:        "Ask a single question and print the transcript",
	Args:         cobra.MinimumNArgs(1),
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

		conv := state.NewConversations(app.Swarm, app.Journal, "ask")
		turn, err := conv.Ask(ctx, "ask", strings.Join(args, " "))
		if err != nil {
			return err
		}
		return cli.NewRenderer().Render(os.Stdout, turn)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
