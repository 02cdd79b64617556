package main

import (
	mcptransport "github.com/sandevgo/tuskswarm/internal/transport/mcp"
	"github.com/sandevgo/tuskswarm/pkg/log"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the swarm as an MCP server over stdio",
	Long: `Exposes the swarm to MCP clients. Tools: ask (full routing),
search_documents (RAG agent) and query_database (SQL agent).
Logs go to stderr so stdout stays reserved for the protocol.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, settings, done, err := boot(cmd, sinkStderr)
		if err != nil {
			return err
		}
		defer done()

		app, err := NewApp(ctx, settings)
		if err != nil {
			return err
		}
		defer func() {
			if err := app.Close(); err != nil {
				log.FromCtx(ctx).Error().Err(err).Msg("failed to close app")
			}
		}()

		return mcptransport.NewServer(app.Swarm, app.RAG, app.SQL).Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
