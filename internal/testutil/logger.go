package testutil

import (
	"io"
	"log/slog"

	"github.com/rumazq/fintrack-server/internal/logger"
)

// MakeNoopLogger returns a logger that discards all records.
func MakeNoopLogger() *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))}
}
