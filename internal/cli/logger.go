package cli

import (
	"io"
	"log/slog"

	"github.com/cruciblehq/medusa/internal"
)

// Creates a text logger writing to w at the shared log level.
//
// Timestamps and source locations are only included in verbose mode.
func NewLogger(w io.Writer) *slog.Logger {
	verbose := internal.IsVerbose()

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     internal.LogLevel(),
		AddSource: verbose,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if !verbose && len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(handler)
}
