package audiotag

import (
	"log/slog"
	"runtime"
)

// Option configures reads and writes.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	err := audiotag.WriteTags("song.flac", update,
//	    audiotag.WithBackup(".bak"),
//	    audiotag.WithLogger(slog.Default()),
//	)
type Option func(*options)

// options holds configuration for one call.
type options struct {
	logger          *slog.Logger
	concurrency     int    // Files read in parallel by ReadMany
	backupSuffix    string // Suffix for backup file (e.g., ".bak")
	validate        bool   // Re-read after write to verify
	preserveModTime bool   // Keep original modification time
}

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		logger:      slog.New(slog.DiscardHandler),
		concurrency: runtime.NumCPU(),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger that receives diagnostic events.
//
// Codecs log at debug level when they skip a malformed frame, block or
// atom, or fall back from one tag scheme to another. By default nothing
// is logged.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	tags, err := audiotag.ReadTags("song.mp3", audiotag.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithConcurrency limits how many files ReadMany reads at once.
//
// Default is runtime.NumCPU(). Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
