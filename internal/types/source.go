package types

import (
	"io"
	"log/slog"
)

// Source is a random-access view of one file handed to a codec.
type Source struct {
	R      io.ReaderAt
	Logger *slog.Logger
	Path   string
	Size   int64
}

// Log returns the source logger, or a logger that discards everything.
func (s Source) Log() *slog.Logger {
	if s.Logger == nil {
		return discardLogger
	}
	return s.Logger
}

var discardLogger = slog.New(slog.DiscardHandler)
