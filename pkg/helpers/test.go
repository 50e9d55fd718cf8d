package helpers

import (
	"context"
	"log/slog"

	"github.com/GregMSThompson/drought-monitor/pkg/logger"
)

// TestLogger returns a logger that writes nowhere.
func TestLogger() *slog.Logger {
	return slog.New(logger.NewTestHandler(slog.LevelWarn))
}

// TestCtx returns a context carrying TestLogger.
func TestCtx() context.Context {
	return logger.ToContext(context.Background(), TestLogger())
}
