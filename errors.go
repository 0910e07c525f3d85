package audiotag

import (
	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// TagError is an alias to types.TagError.
// Re-exporting from internal/types to maintain public API.
type TagError = types.TagError

// OutOfBoundsError is an alias to binary.OutOfBoundsError. It reports a
// structure that claims more bytes than the file holds.
type OutOfBoundsError = binary.OutOfBoundsError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
type UnsupportedFormatError = types.UnsupportedFormatError

// UnsupportedWriteError is an alias to types.UnsupportedWriteError.
type UnsupportedWriteError = types.UnsupportedWriteError

// IsFormatError reports whether err describes malformed or unsupported tag
// structure, as opposed to an I/O failure.
func IsFormatError(err error) bool {
	return types.IsFormatError(err)
}
