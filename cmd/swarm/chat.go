package main

import (
	"os"

	"github.com/sandevgo/tuskswarm/internal/transport/cli"
	"github.com/sandevgo/tuskswarm/pkg/log"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session with the swarm",
	Long: `Opens the interactive session. Type a question and the coordinator routes it
to the right agent. Type 'clear' to start over and 'quit' to leave.`,
	SilenceUsage: true,
	RunE:         runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, settings, done, err := boot(cmd, sinkFile)
	if err != nil {
		return err
	}
	defer done()

	logger := log.FromCtx(ctx)

	app, err := NewApp(ctx, settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close app")
		}
	}()

	opts := []cli.Option{cli.WithWaiter(cli.NewWaiter(os.Stdin, os.Stdout))}
	if app.Journal != nil {
		opts = append(opts, cli.WithJournal(app.Journal))
	}

	session := cli.NewSession(os.Stdout, cli.NewPrompter(os.Stdin, os.Stdout), app.Swarm, opts...)
	logger.Info().Str("session", session.ID()).Msg("starting chat session")
	return session.Start(ctx)
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
