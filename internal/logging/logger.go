package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates the application logger on Stderr, keeping Stdout free for
// the player output and JSON-RPC.
func New(level slog.Level) *slog.Logger {
	return NewWriter(os.Stderr, level, false)
}

// NewWriter creates a logger on w, as text or as JSON lines.
// The "error" key is written as "err" in both formats.
func NewWriter(w io.Writer, level slog.Level, asJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
