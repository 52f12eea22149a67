package logger

import (
	"log/slog"
	"os"
)

// New returns a structured stdout logger shared by services and workers.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
