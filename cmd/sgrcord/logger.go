package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// newLogger logs JSON to stdout and, when logFile is set, plain text to the
// file as well. The returned func closes the file.
func newLogger(stdout io.Writer, level slog.Level, logFile string) (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{Level: level}
	jsonHandler := slog.NewJSONHandler(stdout, opts)
	if logFile == "" {
		return slog.New(jsonHandler), func() {}, nil
	}

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slogmulti.Fanout(
		jsonHandler,
		slog.NewTextHandler(f, opts),
	))
	return logger, func() { _ = f.Close() }, nil
}
