package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/ltoma/provdock/common/environment"
	"github.com/ltoma/provdock/internal/provdock/cli"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
	})))

	cli.Execute()
}

// logLevel reads PROVDOCK_LOG_LEVEL (debug, info, warn, error).
func logLevel() slog.Level {
	switch strings.ToLower(environment.StringOr("PROVDOCK_LOG_LEVEL", "info")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
