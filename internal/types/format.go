package types

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/simonhull/audiotag/internal/binary"
)

// Format identifies a supported container and its tag scheme.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	// FormatMP3 represents MP3 files tagged with ID3v2 or ID3v1.
	FormatMP3
	// FormatFLAC represents FLAC files tagged with Vorbis comments.
	FormatFLAC
	// FormatM4A represents MP4 audio files tagged with iTunes atoms.
	FormatM4A
)

func (f Format) String() string {
	switch f {
	case FormatMP3:
		return "MP3"
	case FormatFLAC:
		return "FLAC"
	case FormatM4A:
		return "M4A"
	default:
		return "Unknown"
	}
}

// Extension returns the file suffix routed to this format.
func (f Format) Extension() string {
	switch f {
	case FormatMP3:
		return ".mp3"
	case FormatFLAC:
		return ".flac"
	case FormatM4A:
		return ".m4a"
	default:
		return ""
	}
}

// FormatFromPath routes a file name to a format by its suffix, ignoring case.
// It never touches the file.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return FormatMP3, nil
	case ".flac":
		return FormatFLAC, nil
	case ".m4a":
		return FormatM4A, nil
	default:
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "unsupported file extension " + quoteExt(path),
		}
	}
}

func quoteExt(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return `""`
	}
	return `"` + ext + `"`
}

// DetectFormat determines the format by examining magic bytes.
//
// It is used when a caller hands over a reader without a file name. MP3
// detection needs either an ID3v2 header or an MPEG frame sync; M4A needs
// a leading ftyp atom.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	if size < 4 {
		return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "file too small"}
	}

	sr := binary.NewSafeReader(r, size, path)
	magic := make([]byte, 8)
	if size < 8 {
		magic = magic[:4]
	}
	if err := sr.ReadAt(magic, 0, "file magic bytes"); err != nil {
		return FormatUnknown, err
	}

	switch {
	case string(magic[:4]) == "fLaC":
		return FormatFLAC, nil
	case string(magic[:3]) == "ID3":
		return FormatMP3, nil
	case magic[0] == 0xFF && magic[1]&0xE0 == 0xE0:
		return FormatMP3, nil
	case len(magic) == 8 && string(magic[4:8]) == "ftyp":
		return FormatM4A, nil
	}

	return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "unrecognized file signature"}
}
