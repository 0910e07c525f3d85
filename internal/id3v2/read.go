package id3v2

import (
	"encoding/binary"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// Tag is a decoded ID3v2 tag.
type Tag struct {
	Tags   types.TagSet
	Header Header
}

// frameHeader is one decoded frame header.
type frameHeader struct {
	id    string
	size  int
	flags uint16
}

// v2.3 and v2.4 frame format flags (second flag byte).
const (
	v23FlagCompressed = 0x0080
	v23FlagEncrypted  = 0x0040
	v23FlagGrouped    = 0x0020

	v24FlagGrouped        = 0x0040
	v24FlagCompressed     = 0x0008
	v24FlagEncrypted      = 0x0004
	v24FlagUnsynchronised = 0x0002
	v24FlagDataLength     = 0x0001
)

// Decode reads the ID3v2 tag at the start of sr.
//
// Header problems are fatal. Problems inside the frame area end the scan
// and return whatever was decoded up to that point; they are logged at
// debug level.
func Decode(sr *binutil.SafeReader, log *slog.Logger) (*Tag, error) {
	h, err := ParseHeader(sr)
	if err != nil {
		return nil, err
	}

	// A tag that claims more bytes than the file holds is read as far as it goes.
	bodyLen := int64(h.Size)
	if avail := sr.Size() - HeaderSize; bodyLen > avail {
		log.Debug("ID3v2 tag truncated", "path", sr.Path(), "declared", bodyLen, "available", avail)
		bodyLen = avail
	}
	body, err := sr.Bytes(HeaderSize, int(bodyLen), "ID3v2 tag body")
	if err != nil {
		return nil, err
	}
	if h.Unsynchronised() {
		body = binutil.Unsynchronize(body)
	}

	d := &decoder{
		header: h,
		path:   sr.Path(),
		log:    log,
		text:   make(map[field]string),
	}
	d.scan(body)

	return &Tag{Header: h, Tags: d.finish()}, nil
}

// decoder accumulates frame values for one Decode call.
type decoder struct {
	header  Header
	path    string
	log     *slog.Logger
	text    map[field]string
	comment *string
	covers  types.CoverArbiter
}

func (d *decoder) headerLen() int {
	if d.header.Version == 2 {
		return 6
	}
	return 10
}

// readFrameHeader decodes the frame header at the start of b.
func (d *decoder) readFrameHeader(b []byte) (frameHeader, error) {
	if d.header.Version == 2 {
		id, err := binutil.DecodeFrameID(b[0:3])
		if err != nil {
			return frameHeader{}, err
		}
		return frameHeader{id: id, size: int(binutil.Uint24(b[3:6]))}, nil
	}

	id, err := binutil.DecodeFrameID(b[0:4])
	if err != nil {
		return frameHeader{}, err
	}
	var size uint32
	if d.header.Version == 4 {
		size, err = binutil.DecodeSynchsafe(b[4:8])
		if err != nil {
			return frameHeader{}, err
		}
	} else {
		size = binary.BigEndian.Uint32(b[4:8])
	}
	return frameHeader{id: id, size: int(size), flags: binary.BigEndian.Uint16(b[8:10])}, nil
}

// scan walks the frames in body until the end or the first malformed header.
func (d *decoder) scan(body []byte) {
	hl := d.headerLen()
	pos := 0
	for pos+hl <= len(body) {
		if body[pos] == 0 {
			break // padding
		}

		fh, err := d.readFrameHeader(body[pos : pos+hl])
		if err != nil {
			d.log.Debug("ending ID3v2 frame scan", "path", d.path, "offset", HeaderSize+pos, "err", err)
			break
		}
		end := pos + hl + fh.size
		if fh.size < 0 || end > len(body) {
			d.log.Debug("ID3v2 frame exceeds tag", "path", d.path, "frame", fh.id, "offset", HeaderSize+pos)
			break
		}

		if payload, ok := d.framePayload(fh, body[pos+hl:end]); ok {
			d.apply(fh.id, payload)
		}
		pos = end
	}
}

// framePayload applies per-frame format flags. It reports false for frames
// that cannot be interpreted.
func (d *decoder) framePayload(fh frameHeader, payload []byte) ([]byte, bool) {
	switch d.header.Version {
	case 3:
		if fh.flags&(v23FlagCompressed|v23FlagEncrypted) != 0 {
			return nil, false
		}
		if fh.flags&v23FlagGrouped != 0 {
			if len(payload) < 1 {
				return nil, false
			}
			payload = payload[1:] // group id
		}
	case 4:
		if fh.flags&(v24FlagCompressed|v24FlagEncrypted) != 0 {
			return nil, false
		}
		// The group id precedes the data length indicator.
		if fh.flags&v24FlagGrouped != 0 {
			if len(payload) < 1 {
				return nil, false
			}
			payload = payload[1:]
		}
		if fh.flags&(v24FlagUnsynchronised|v24FlagDataLength) != 0 {
			if len(payload) < 4 {
				return nil, false
			}
			payload = payload[4:]
		}
		if fh.flags&v24FlagUnsynchronised != 0 {
			payload = binutil.Unsynchronize(payload)
		}
	}
	return payload, true
}

// apply routes one frame payload to its tag field.
func (d *decoder) apply(id string, payload []byte) {
	f := d.header.frames.lookup(id)
	switch f {
	case fieldNone:
		return
	case fieldComment:
		if text, ok := decodeComment(payload); ok && d.comment == nil {
			d.comment = &text
		}
	case fieldPicture:
		var img types.CoverImage
		var typ types.PictureType
		var ok bool
		if d.header.Version == 2 {
			img, typ, ok = decodePIC(payload)
		} else {
			img, typ, ok = decodeAPIC(payload)
		}
		if ok {
			d.covers.Offer(img, typ)
		}
	default:
		if len(payload) < 1 {
			return
		}
		d.text[f] = decodeText(payload[1:], payload[0])
	}
}

// decodeComment decodes a COMM frame: encoding, language, description and
// text. Only comments with an empty description are used.
func decodeComment(payload []byte) (string, bool) {
	if len(payload) < 4 {
		return "", false
	}
	enc := payload[0]
	rest := payload[4:]

	idx := findNullTerminator(rest, enc)
	if idx < 0 {
		return decodeText(rest, enc), true
	}
	if desc := decodeText(rest[:idx], enc); desc != "" {
		return "", false
	}
	return decodeText(rest[idx+terminatorSize(enc):], enc), true
}

var trackPattern = regexp.MustCompile(`^(\d+)(?:/(\d+))?$`)

// parsePosition parses "N" or "N/M". Each part is independently optional:
// leading zeros are stripped and a part that ends up empty or does not fit
// in 16 bits is Absent.
func parsePosition(s string) (types.TagField[uint16], types.TagField[uint16]) {
	m := trackPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return types.Absent[uint16](), types.Absent[uint16]()
	}
	return parseCount(m[1]), parseCount(m[2])
}

func parseCount(s string) types.TagField[uint16] {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return types.Absent[uint16]()
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return types.Absent[uint16]()
	}
	return types.Present(uint16(n))
}

// composeDate builds the ISO-8601 string for the date frames. Before
// ID3v2.4 the year, DDMM and HHMM values live in separate frames; they are
// joined only when the day and month are present.
func composeDate(version byte, date, dayMonth, hourMin string) string {
	if version >= 4 || len(dayMonth) != 4 {
		return date
	}
	date += "-" + dayMonth[2:4] + "-" + dayMonth[0:2]
	if len(hourMin) == 4 {
		date += "T" + hourMin[0:2] + ":" + hourMin[2:4]
	}
	return date
}

// finish converts the collected frame values into the tag set.
func (d *decoder) finish() types.TagSet {
	t := types.EmptyTagSet()
	setText := func(dst *types.TagField[string], f field) {
		if v, ok := d.text[f]; ok {
			*dst = types.Present(v)
		}
	}

	setText(&t.Title, fieldTitle)
	setText(&t.Artist, fieldArtist)
	setText(&t.Album, fieldAlbum)
	setText(&t.AlbumArtist, fieldAlbumArtist)
	setText(&t.Composer, fieldComposer)
	setText(&t.Grouping, fieldGrouping)
	setText(&t.Genre, fieldGenre)
	setText(&t.TitleSort, fieldTitleSort)
	setText(&t.ArtistSort, fieldArtistSort)
	setText(&t.AlbumSort, fieldAlbumSort)
	setText(&t.AlbumArtistSort, fieldAlbumArtistSort)
	setText(&t.ComposerSort, fieldComposerSort)

	if d.comment != nil {
		t.Comment = types.Present(*d.comment)
	}
	if v, ok := d.text[fieldTrack]; ok {
		t.TrackNumber, t.TrackTotal = parsePosition(v)
	}
	if v, ok := d.text[fieldDisc]; ok {
		t.DiscNumber, t.DiscTotal = parsePosition(v)
	}
	if v, ok := d.text[fieldBPM]; ok {
		if n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 16); err == nil {
			t.BPM = types.Present(uint16(n))
		}
	}
	if v, ok := d.text[fieldCompilation]; ok {
		t.Compilation = types.Present(strings.TrimSpace(v) == "1")
	}
	if v, ok := d.text[fieldDate]; ok {
		iso := composeDate(d.header.Version, v, d.text[fieldDayMonth], d.text[fieldTime])
		if date, ok := types.ParseDate(iso); ok {
			t.Date = types.Present(date)
		}
	}
	t.Cover = d.covers.Result()

	return t
}
