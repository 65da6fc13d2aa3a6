package session

import (
	"io"
	"log/slog"

	"github.com/sbakhtiari/adminctl/internal/logging"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
