package audiotag

import (
	"io"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// Format is an alias to types.Format.
// Re-exporting from internal/types to maintain public API.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown = types.FormatUnknown
	FormatMP3     = types.FormatMP3
	FormatFLAC    = types.FormatFLAC
	FormatM4A     = types.FormatM4A
)

// FormatFromPath routes a file name to a format by its suffix (.mp3, .flac
// or .m4a, any case). Other suffixes yield an *UnsupportedFormatError. The
// file is never touched.
func FormatFromPath(path string) (Format, error) {
	return types.FormatFromPath(path)
}

// DetectFormat is a wrapper around types.DetectFormat.
// It identifies a format from its magic bytes, for readers without a name.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return types.DetectFormat(r, size, path)
}

// Formats returns the formats with a registered codec.
func Formats() []Format {
	return registry.Formats()
}
