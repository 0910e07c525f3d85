// Package vorbis decodes and encodes Vorbis comment vectors, the tag
// format of FLAC files, and the FLAC picture block they embed.
//
// A comment vector is a vendor string followed by a count of UTF-8
// "KEY=value" entries, each prefixed by a 32-bit little-endian length.
// Keys are case-insensitive.
package vorbis

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// PictureKey carries a base64-encoded picture block.
const PictureKey = "METADATA_BLOCK_PICTURE"

// ValidKey reports whether key may be used as a comment field name:
// printable ASCII 0x20 through 0x7D, except '='.
func ValidKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c < 0x20 || c > 0x7D || c == '=' {
			return false
		}
	}
	return true
}

// Decode parses a comment vector. Entries with an invalid key or an
// unknown field are skipped. When a field repeats, the last value wins.
// Cover art comes from METADATA_BLOCK_PICTURE entries.
func Decode(block []byte, path string, log *slog.Logger) (types.TagSet, error) {
	r := binary.NewReaderLE(binary.FromBytes(block, path), 0)

	vendorLen, err := binary.ReadValue[uint32](r, "vendor string length")
	if err != nil {
		return types.TagSet{}, err
	}
	r.Skip(int64(vendorLen))
	count, err := binary.ReadValue[uint32](r, "comment count")
	if err != nil {
		return types.TagSet{}, err
	}

	d := decoder{tags: types.EmptyTagSet(), path: path, log: log}
	for i := uint32(0); i < count; i++ {
		n, err := binary.ReadValue[uint32](r, "comment length")
		if err != nil {
			return types.TagSet{}, fmt.Errorf("read comment %d length: %w", i, err)
		}
		entry, err := r.ReadBytes(int(n), "comment")
		if err != nil {
			return types.TagSet{}, fmt.Errorf("read comment %d: %w", i, err)
		}

		key, value, ok := strings.Cut(string(entry), "=")
		if !ok || !ValidKey(key) {
			log.Debug("skipping malformed Vorbis comment", "path", path, "index", i)
			continue
		}
		d.apply(strings.ToUpper(key), strings.ToValidUTF8(value, "\uFFFD"))
	}

	return d.finish(), nil
}

// decoder collects comment values for one Decode call.
type decoder struct {
	tags   types.TagSet
	path   string
	log    *slog.Logger
	covers types.CoverArbiter

	// Totals from TRACKTOTAL/DISCTOTAL take precedence over the "/M" part
	// of TRACKNUMBER/DISCNUMBER.
	trackTotal, discTotal types.TagField[uint16]
}

func (d *decoder) apply(key, value string) {
	t := &d.tags
	switch key {
	case "TITLE":
		t.Title = types.Present(value)
	case "ALBUM":
		t.Album = types.Present(value)
	case "ARTIST":
		t.Artist = types.Present(value)
	case "ALBUMARTIST":
		t.AlbumArtist = types.Present(value)
	case "COMPOSER":
		t.Composer = types.Present(value)
	case "GROUPING":
		t.Grouping = types.Present(value)
	case "GENRE":
		t.Genre = types.Present(value)
	case "COMMENT":
		t.Comment = types.Present(value)
	case "TITLESORT":
		t.TitleSort = types.Present(value)
	case "ALBUMSORT":
		t.AlbumSort = types.Present(value)
	case "ARTISTSORT":
		t.ArtistSort = types.Present(value)
	case "ALBUMARTISTSORT":
		t.AlbumArtistSort = types.Present(value)
	case "COMPOSERSORT":
		t.ComposerSort = types.Present(value)

	case "DATE":
		if date, ok := types.ParseDate(value); ok {
			t.Date = types.Present(date)
		} else {
			t.Date = types.Absent[types.ReleaseDate]()
		}

	case "TRACKNUMBER":
		num, total, _ := strings.Cut(value, "/")
		t.TrackNumber = parsePosition(num)
		if total != "" {
			t.TrackTotal = parsePosition(total)
		}
	case "TRACKTOTAL", "TOTALTRACKS":
		d.trackTotal = parsePosition(value)
	case "DISCNUMBER":
		num, total, _ := strings.Cut(value, "/")
		t.DiscNumber = parsePosition(num)
		if total != "" {
			t.DiscTotal = parsePosition(total)
		}
	case "DISCTOTAL", "TOTALDISCS":
		d.discTotal = parsePosition(value)
	case "BPM":
		if n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 16); err == nil {
			t.BPM = types.Present(uint16(n))
		}

	case "COMPILATION":
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true":
			t.Compilation = types.Present(true)
		default:
			t.Compilation = types.Present(false)
		}

	case PictureKey:
		d.picture(value)
	}
}

func (d *decoder) picture(value string) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(value)
	}
	if err != nil {
		d.log.Debug("skipping undecodable picture comment", "path", d.path, "err", err)
		return
	}
	pic, err := DecodePicture(raw, d.path)
	if err != nil {
		d.log.Debug("skipping malformed picture comment", "path", d.path, "err", err)
		return
	}
	d.covers.Offer(pic.Cover(), pic.Type)
}

func (d *decoder) finish() types.TagSet {
	if !d.trackTotal.IsUnspecified() {
		d.tags.TrackTotal = d.trackTotal
	}
	if !d.discTotal.IsUnspecified() {
		d.tags.DiscTotal = d.discTotal
	}
	d.tags.Cover = d.covers.Result()
	return d.tags
}

// parsePosition parses one track or disc count. Zero and unparsable values
// are Absent.
func parsePosition(s string) types.TagField[uint16] {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil || n == 0 {
		return types.Absent[uint16]()
	}
	return types.Present(uint16(n))
}

// Encode builds a comment vector from the Present fields of tags. The cover
// is embedded as a METADATA_BLOCK_PICTURE entry only when embedCover is set;
// FLAC stores it in a separate picture block instead.
func Encode(tags types.TagSet, vendor string, embedCover bool) ([]byte, error) {
	var entries []string
	add := func(key, value string) {
		entries = append(entries, key+"="+value)
	}
	text := func(key string, f types.TagField[string]) {
		if v, ok := f.Get(); ok {
			add(key, v)
		}
	}
	number := func(key string, f types.TagField[uint16]) {
		if v, ok := f.Get(); ok {
			add(key, strconv.Itoa(int(v)))
		}
	}

	text("TITLE", tags.Title)
	text("ALBUM", tags.Album)
	text("ARTIST", tags.Artist)
	text("ALBUMARTIST", tags.AlbumArtist)
	text("COMPOSER", tags.Composer)
	text("GROUPING", tags.Grouping)
	text("GENRE", tags.Genre)
	if d, ok := tags.Date.Get(); ok {
		add("DATE", d.String())
	}
	number("TRACKNUMBER", tags.TrackNumber)
	number("TRACKTOTAL", tags.TrackTotal)
	number("DISCNUMBER", tags.DiscNumber)
	number("DISCTOTAL", tags.DiscTotal)
	number("BPM", tags.BPM)
	if c, ok := tags.Compilation.Get(); ok {
		if c {
			add("COMPILATION", "1")
		} else {
			add("COMPILATION", "0")
		}
	}
	text("COMMENT", tags.Comment)
	text("TITLESORT", tags.TitleSort)
	text("ALBUMSORT", tags.AlbumSort)
	text("ARTISTSORT", tags.ArtistSort)
	text("ALBUMARTISTSORT", tags.AlbumArtistSort)
	text("COMPOSERSORT", tags.ComposerSort)
	if img, ok := tags.Cover.Get(); ok && embedCover && !img.IsNone() {
		block, err := PictureFromCover(img).Encode()
		if err != nil {
			return nil, err
		}
		add(PictureKey, base64.StdEncoding.EncodeToString(block))
	}

	var buf bytes.Buffer
	sw := binary.NewSafeWriter(&buf)
	binary.WriteLE(sw, uint32(len(vendor)))
	sw.WriteString(vendor)
	binary.WriteLE(sw, uint32(len(entries)))
	for _, e := range entries {
		if uint64(len(e)) > 0xFFFFFFFF {
			return nil, fmt.Errorf("comment of %d bytes is too large", len(e))
		}
		binary.WriteLE(sw, uint32(len(e)))
		sw.WriteString(e)
	}
	return buf.Bytes(), sw.Err()
}
