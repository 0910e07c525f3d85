// Package id3v1 reads the fixed 128-byte ID3v1 trailer found at the end of
// older MP3 files.
package id3v1

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// Size is the length of the trailer.
const Size = 128

// HasTrailer reports whether the last 128 bytes of sr start with "TAG".
func HasTrailer(sr *binary.SafeReader) bool {
	if sr.Size() < Size {
		return false
	}
	magic := make([]byte, 3)
	return sr.ReadAt(magic, sr.Size()-Size, "ID3v1 marker") == nil && string(magic) == "TAG"
}

// Decode reads the trailer at the end of sr.
//
// Layout (ID3v1.1 when byte 125 is zero):
//
//	[0:3]     "TAG"
//	[3:33]    title
//	[33:63]   artist
//	[63:93]   album
//	[93:97]   year
//	[97:125]  comment
//	[125]     zero marker
//	[126]     track
//	[127]     genre index
func Decode(sr *binary.SafeReader) (types.TagSet, error) {
	if sr.Size() < Size {
		return types.TagSet{}, types.NewTagError(sr.Path(), 0, "file too small for ID3v1 tag")
	}
	off := sr.Size() - Size
	b, err := sr.Bytes(off, Size, "ID3v1 tag")
	if err != nil {
		return types.TagSet{}, err
	}
	if string(b[0:3]) != "TAG" {
		return types.TagSet{}, types.NewTagError(sr.Path(), off, "ID3v1 tag not found")
	}

	t := types.EmptyTagSet()
	t.Title = types.Present(field(b[3:33]))
	t.Artist = types.Present(field(b[33:63]))
	t.Album = types.Present(field(b[63:93]))
	t.Comment = types.Present(field(b[97:125]))

	if year, ok := types.ParseDate(field(b[93:97])); ok {
		t.Date = types.Present(year)
	}
	if b[125] == 0 && b[126] != 0 {
		t.TrackNumber = types.Present(uint16(b[126]))
	}
	// Indices past the table decode as an empty genre.
	t.Genre = types.Present(types.GenreName(int(b[127])))

	return t, nil
}

// field decodes a fixed-width Latin-1 field. Writers fill unused space with
// NULs or spaces; both are trimmed from the end.
func field(b []byte) string {
	b = bytes.TrimRight(b, "\x00 ")
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}
