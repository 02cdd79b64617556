package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

type Options struct {
	Debug bool
	// Level is a zerolog level name, ignored when Debug is set.
	Level  string
	Format string
	// ToConsole sends records to stdout instead of stderr.
	ToConsole bool
	// File appends records to a file. Used by interactive commands that own the terminal.
	File string
}

func NewContextWithLogger(ctx context.Context, opts Options) (context.Context, func()) {
	zerolog.SetGlobalLevel(resolveLevel(opts))

	var dst io.Writer = os.Stderr
	var file *os.File
	switch {
	case opts.File != "":
		f, err := openLogFile(opts.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file, using stderr: %v\n", err)
			break
		}
		dst, file = f, f
	case opts.ToConsole:
		dst = os.Stdout
	}

	// Use a diode (ring buffer) for non-blocking logging
	wr := diode.NewWriter(dst, 1000, 5*time.Millisecond, func(missed int) {
		fmt.Fprintf(os.Stderr, "Logger Dropped %d messages\n", missed)
	})

	logger := newLogger(wr, opts.Format)
	log.Logger = logger

	// Return context and a cleanup function to close the diode writer
	return logger.WithContext(ctx), func() {
		wr.Close()
		if file != nil {
			file.Close()
		}
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func newLogger(w io.Writer, format string) zerolog.Logger {
	if strings.EqualFold(format, FormatJSON) {
		return zerolog.New(w).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.DateTime,
		PartsOrder: []string{
			zerolog.LevelFieldName,
			zerolog.TimestampFieldName,
			zerolog.MessageFieldName,
		},
	}
	return zerolog.New(output).With().Timestamp().Logger()
}

func resolveLevel(opts Options) zerolog.Level {
	if opts.Debug {
		return zerolog.DebugLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}
