// Package id3v2 reads ID3v2.2, 2.3 and 2.4 tags and writes ID3v2.4 tags.
package id3v2

import (
	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// HeaderSize is the size of the fixed ID3v2 header and of the optional footer.
const HeaderSize = 10

const (
	flagUnsynchronisation = 0x80
	flagExtendedHeader    = 0x40
	flagFooter            = 0x10
)

// Header is the fixed 10-byte ID3v2 tag header.
type Header struct {
	frames   frameTable // Frame ids of this version mapped to tag fields
	Version  byte       // Major version (2, 3 or 4)
	Revision byte       // Minor version, ignored
	Flags    byte
	Size     uint32 // Tag size excluding header and footer
}

// Unsynchronised reports whether the whole tag body is unsynchronised.
// ID3v2.4 signals unsynchronisation per frame instead.
func (h Header) Unsynchronised() bool {
	return h.Flags&flagUnsynchronisation != 0 && h.Version < 4
}

// TagLength returns the number of bytes the tag occupies at the start of
// the file, header and footer included.
func (h Header) TagLength() int64 {
	n := int64(HeaderSize) + int64(h.Size)
	if h.Version == 4 && h.Flags&flagFooter != 0 {
		n += HeaderSize
	}
	return n
}

// HasTag reports whether sr starts with the "ID3" marker.
func HasTag(sr *binary.SafeReader) bool {
	magic := make([]byte, 3)
	return sr.ReadAt(magic, 0, "ID3v2 marker") == nil && string(magic) == "ID3"
}

// ParseHeader reads and validates the header at the start of sr.
func ParseHeader(sr *binary.SafeReader) (Header, error) {
	buf := make([]byte, HeaderSize)
	if err := sr.ReadAt(buf, 0, "ID3v2 header"); err != nil {
		return Header{}, err
	}

	if string(buf[0:3]) != "ID3" {
		return Header{}, types.NewTagError(sr.Path(), 0, "ID3v2 tag not found")
	}

	h := Header{
		Version:  buf[3],
		Revision: buf[4],
		Flags:    buf[5],
	}

	switch {
	case h.Version == 0xFF:
		return Header{}, types.NewTagError(sr.Path(), 3, "invalid ID3v2 version")
	case h.Version < 2 || h.Version > 4:
		return Header{}, types.NewTagError(sr.Path(), 3, "unsupported ID3v2 version 2.%d", h.Version)
	}

	if h.Flags&0x0F != 0 {
		return Header{}, types.NewTagError(sr.Path(), 5, "unknown ID3v2 header flags 0x%02X", h.Flags)
	}
	if h.Flags&flagExtendedHeader != 0 {
		return Header{}, types.NewTagError(sr.Path(), 5, "ID3v2 extended header is not supported")
	}

	size, err := binary.DecodeSynchsafe(buf[6:10])
	if err != nil {
		return Header{}, types.NewTagError(sr.Path(), 6, "tag size: %v", err)
	}
	h.Size = size
	h.frames = frameTables[h.Version]

	return h, nil
}

// DeclaredLength returns the length a tag at the start of sr claims to
// occupy, read from the marker, version, flags and size fields alone. It
// reports false when those fields cannot be decoded. Unlike ParseHeader it
// accepts tags this package cannot parse, such as ones with an extended
// header.
func DeclaredLength(sr *binary.SafeReader) (int64, bool) {
	buf := make([]byte, HeaderSize)
	if sr.ReadAt(buf, 0, "ID3v2 header") != nil || string(buf[0:3]) != "ID3" {
		return 0, false
	}
	if buf[3] < 2 || buf[3] > 4 {
		return 0, false
	}
	size, err := binary.DecodeSynchsafe(buf[6:10])
	if err != nil {
		return 0, false
	}
	h := Header{Version: buf[3], Flags: buf[5], Size: size}
	return h.TagLength(), true
}
