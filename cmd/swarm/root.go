package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sandevgo/tuskswarm/internal/config"
	"github.com/sandevgo/tuskswarm/internal/service/ui"
	"github.com/sandevgo/tuskswarm/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug   bool
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "swarm",
	Short: "TuskSwarm: agents over your papers and your music store",
	Long: `TuskSwarm routes each question to a specialist agent: a retrieval agent
over a folder of PDF and DOCX papers, or a SQL agent over the Chinook database.`,
	SilenceUsage: true,
	RunE:         runChat,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load settings from this .env file first")
}

// logSink says where a command wants its logs.
type logSink int

const (
	// sinkDefault follows LOG_TO_CONSOLE.
	sinkDefault logSink = iota
	// sinkFile keeps the terminal for the UI unless LOG_TO_CONSOLE is set.
	sinkFile
	// sinkStderr keeps stdout free for a protocol.
	sinkStderr
)

// boot loads .env files and settings, installs the logger and a signal-aware context.
func boot(cmd *cobra.Command, sink logSink) (context.Context, *config.Settings, func(), error) {
	loaded, err := initEnv(envFile, config.GetRuntimePath())
	if err != nil {
		return nil, nil, nil, err
	}

	settings, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	ctx, flushLog := setupLogger(ctx, settings, sink)

	logger := log.FromCtx(ctx)
	for _, path := range loaded {
		logger.Debug().Str("path", path).Msg("loaded .env file")
	}

	return ctx, settings, func() {
		flushLog()
		stop()
	}, nil
}

func setupLogger(ctx context.Context, s *config.Settings, sink logSink) (context.Context, func()) {
	opts := log.Options{
		Debug:     debug || config.IsDebug(),
		Level:     s.Log.Level,
		Format:    s.Log.Format,
		ToConsole: s.Log.ToConsole,
	}
	switch sink {
	case sinkFile:
		if !s.Log.ToConsole {
			opts.File = s.LogPath()
		}
	case sinkStderr:
		opts.ToConsole = false
	}
	return log.NewContextWithLogger(ctx, opts)
}

// initEnv loads the first-found values from --env-file, the runtime .env and ./.env.
// Variables already present in the process environment always win.
func initEnv(explicit, runtimePath string) ([]string, error) {
	var loaded []string

	if explicit != "" {
		if err := godotenv.Load(explicit); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", explicit, err)
		}
		loaded = append(loaded, explicit)
	}

	for _, path := range []string{filepath.Join(runtimePath, ".env"), ".env"} {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}

func CustomizeHelp(rootCmd *cobra.Command) {

	cobra.AddTemplateFunc("StyleTitle", func(s string) string { return ui.TitleStyle.Render(s) })
	cobra.AddTemplateFunc("StyleUsage", func(s string) string { return ui.UsageStyle.Render(s) })
	cobra.AddTemplateFunc("StyleFlag", func(s string) string { return ui.FlagStyle.Render(s) })
	cobra.AddTemplateFunc("StyleDesc", func(s string) string { return ui.DescStyle.Render(s) })

	template := `
{{StyleTitle "USAGE"}}
  {{StyleUsage .UseLine}}
{{if gt (len .Commands) 0}}{{StyleTitle "AVAILABLE COMMANDS"}}
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}
{{end}}{{end}}
{{if .HasAvailableLocalFlags}}{{StyleTitle "FLAGS"}}
{{StyleFlag (.LocalFlags.FlagUsages | trimTrailingWhitespaces)}}
{{end}}
`
	rootCmd.SetHelpTemplate(template)
}
