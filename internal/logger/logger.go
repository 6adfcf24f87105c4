package logger

import (
	"io"
	"log/slog"
	"os"
)

type Options struct {
	// Debug forces debug level. The DEBUG environment variable does the same.
	Debug bool
	// Output defaults to stderr; stdout is left to the interactive session.
	Output io.Writer
}

func SetupLogger(component string, opts Options) *slog.Logger {
	logLevel := slog.LevelInfo
	if debugEnv := os.Getenv("DEBUG"); debugEnv != "" || opts.Debug {
		logLevel = slog.LevelDebug
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: logLevel,
	})

	logger := slog.New(handler)
	logger = logger.With("component", component)
	slog.SetDefault(logger)
	return logger
}
