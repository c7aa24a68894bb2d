package ragservice

import (
	"log/slog"
	"os"
)

var Logger *slog.Logger

func init() {
	handler := slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: slog.LevelInfo})
	Logger = slog.New(handler)
}

// UseJSONLogger switches to structured JSON output. The Lambda entrypoints
// call this so CloudWatch gets parseable log lines.
func UseJSONLogger() {
	Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(Logger)
}
