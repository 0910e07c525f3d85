// Package binary provides bounds-checked binary primitives shared by the tag codecs.
package binary

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// OutOfBoundsError is returned when a read would cross the end of the data.
//
// Tag codecs treat it as malformed structure: a frame or block that claims
// more bytes than the file holds.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset < 0 || e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// SafeReader wraps io.ReaderAt with bounds checking and helpful error messages.
type SafeReader struct {
	r    io.ReaderAt
	path string
	size int64
}

// NewSafeReader creates a new SafeReader.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		path: path,
	}
}

// FromBytes creates a SafeReader over an in-memory buffer, such as a frame
// or block payload that was already read. path only labels errors.
func FromBytes(b []byte, path string) *SafeReader {
	return NewSafeReader(bytes.NewReader(b), int64(len(b)), path)
}

// Path returns the file path associated with this reader.
func (sr *SafeReader) Path() string {
	return sr.path
}

// Size returns the number of readable bytes.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// ReadAt fills b from offset off. what names the structure being read and
// ends up in error messages.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if len(b) == 0 {
		return nil
	}
	if off < 0 || off >= sr.size || off+int64(len(b)) > sr.size {
		return &OutOfBoundsError{Path: sr.path, What: what, Offset: off, Length: len(b), Size: sr.size}
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", sr.path, what, off, err)
	}

	if n < len(b) {
		return fmt.Errorf("%s: short read for %s at offset %d: got %d bytes, expected %d: %w",
			sr.path, what, off, n, len(b), io.ErrUnexpectedEOF)
	}

	return nil
}

// Bytes reads n bytes at off into a new slice.
func (sr *SafeReader) Bytes(off int64, n int, what string) ([]byte, error) {
	// Lengths come from the file: check them before allocating.
	if n < 0 || off < 0 || off > sr.size || int64(n) > sr.size-off {
		return nil, &OutOfBoundsError{Path: sr.path, What: what, Offset: off, Length: n, Size: sr.size}
	}
	buf := make([]byte, n)
	if err := sr.ReadAt(buf, off, what); err != nil {
		return nil, err
	}
	return buf, nil
}

// Section returns a reader over [off, off+n) suitable for io.Copy.
func (sr *SafeReader) Section(off, n int64) *io.SectionReader {
	return io.NewSectionReader(sr.r, off, n)
}
