package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default text handler for the process. Verbose
// enables debug logging.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
