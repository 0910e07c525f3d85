package types

import (
	"errors"
	"fmt"

	"github.com/simonhull/audiotag/internal/binary"
)

// TagError is returned when tag structure is malformed or unsupported.
//
// It covers bad magic, unsupported versions, invalid block types and
// files that cannot be rewritten safely. I/O failures are never reported
// as TagError.
type TagError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *TagError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("%s: invalid tag at offset %d: %s", e.Path, e.Offset, e.Reason)
	}
	return fmt.Sprintf("%s: invalid tag: %s", e.Path, e.Reason)
}

// NewTagError builds a TagError with a formatted reason.
func NewTagError(path string, offset int64, format string, args ...any) *TagError {
	return &TagError{Path: path, Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedFormatError is returned when a file cannot be routed to a codec.
// It is raised before any content is read.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// UnsupportedWriteError indicates no writer is registered for a format.
type UnsupportedWriteError struct {
	Reason string
	Format Format
}

func (e *UnsupportedWriteError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("write not supported for %s: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("write not supported for %s", e.Format)
}

// IsFormatError reports whether err describes malformed tag structure
// rather than an I/O failure. Truncated structures count as malformed.
func IsFormatError(err error) bool {
	var tagErr *TagError
	var boundsErr *binary.OutOfBoundsError
	return errors.As(err, &tagErr) || errors.As(err, &boundsErr)
}
