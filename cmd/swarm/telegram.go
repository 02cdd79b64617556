package main

import (
	"github.com/sandevgo/tuskswarm/internal/config"
	"github.com/sandevgo/tuskswarm/internal/service/command"
	"github.com/sandevgo/tuskswarm/internal/service/state"
	"github.com/sandevgo/tuskswarm/internal/transport/telegram"
	"github.com/sandevgo/tuskswarm/pkg/log"
	"github.com/sandevgo/tuskswarm/pkg/srv"
	"github.com/spf13/cobra"
)

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Serve the swarm as a Telegram bot",
	Long:  `Starts the Telegram bot. Only TELEGRAM_OWNER_ID may talk to it; each chat keeps its own conversation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, settings, done, err := boot(cmd, sinkDefault)
		if err != nil {
			return err
		}
		defer done()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting tuskswarm telegram bot")

		tgCfg, err := config.LoadTelegram()
		if err != nil {
			return err
		}

		app, err := NewApp(ctx, settings)
		if err != nil {
			return err
		}

		conv := state.NewConversations(app.Swarm, app.Journal, "telegram")
		bot, err := telegram.NewBot(ctx, tgCfg, conv, command.NewRouter(conv, app.Swarm))
		if err != nil {
			app.Close()
			return err
		}

		if err := srv.Run(ctx, bot, srv.OnShutdown(app.Close)); err != nil {
			return err
		}
		logger.Info().Msg("tuskswarm has been shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(telegramCmd)
}
