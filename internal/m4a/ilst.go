package m4a

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"math"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// ilst item atom names.
const (
	itemTitle           = "\xA9nam"
	itemAlbum           = "\xA9alb"
	itemArtist          = "\xA9ART"
	itemArtistAlt       = "\xA9art"
	itemAlbumArtist     = "aART"
	itemComposer        = "\xA9wrt"
	itemGrouping        = "\xA9grp"
	itemGenre           = "\xA9gen"
	itemGenreID         = "gnre"
	itemDate            = "\xA9day"
	itemTrack           = "trkn"
	itemDisc            = "disk"
	itemBPM             = "tmpo"
	itemCompilation     = "cpil"
	itemComment         = "\xA9cmt"
	itemTitleSort       = "sonm"
	itemAlbumSort       = "soal"
	itemArtistSort      = "soar"
	itemAlbumArtistSort = "soaa"
	itemComposerSort    = "soco"
	itemCover           = "covr"
)

// Well-known data atom type codes.
const (
	dataImplicit = 0
	dataUTF8     = 1
	dataJPEG     = 13
	dataPNG      = 14
	dataUPC      = 15
	dataBEInt    = 21
	dataBEUint   = 22
)

// textItems maps the plain UTF-8 items to their fields.
var textItems = map[string]func(*types.TagSet) *types.TagField[string]{
	itemTitle:           func(t *types.TagSet) *types.TagField[string] { return &t.Title },
	itemAlbum:           func(t *types.TagSet) *types.TagField[string] { return &t.Album },
	itemArtist:          func(t *types.TagSet) *types.TagField[string] { return &t.Artist },
	itemArtistAlt:       func(t *types.TagSet) *types.TagField[string] { return &t.Artist },
	itemAlbumArtist:     func(t *types.TagSet) *types.TagField[string] { return &t.AlbumArtist },
	itemComposer:        func(t *types.TagSet) *types.TagField[string] { return &t.Composer },
	itemGrouping:        func(t *types.TagSet) *types.TagField[string] { return &t.Grouping },
	itemGenre:           func(t *types.TagSet) *types.TagField[string] { return &t.Genre },
	itemComment:         func(t *types.TagSet) *types.TagField[string] { return &t.Comment },
	itemTitleSort:       func(t *types.TagSet) *types.TagField[string] { return &t.TitleSort },
	itemAlbumSort:       func(t *types.TagSet) *types.TagField[string] { return &t.AlbumSort },
	itemArtistSort:      func(t *types.TagSet) *types.TagField[string] { return &t.ArtistSort },
	itemAlbumArtistSort: func(t *types.TagSet) *types.TagField[string] { return &t.AlbumArtistSort },
	itemComposerSort:    func(t *types.TagSet) *types.TagField[string] { return &t.ComposerSort },
}

// knownItem reports whether an ilst item is mapped to a tag field. Other
// items are carried over untouched when ilst is rebuilt.
func knownItem(name string) bool {
	if _, ok := textItems[name]; ok {
		return true
	}
	switch name {
	case itemGenreID, itemDate, itemTrack, itemDisc, itemBPM, itemCompilation, itemCover:
		return true
	}
	return false
}

// ilstContents is what decodeIlst found in an ilst atom.
type ilstContents struct {
	tags    types.TagSet
	unknown []Atom
}

// decodeIlst reads the items of an ilst atom. A malformed item header ends
// the scan with what was decoded so far; only I/O errors are returned.
func decodeIlst(sr *binutil.SafeReader, ilst Atom, log *slog.Logger) (ilstContents, error) {
	d := ilstDecoder{tags: types.EmptyTagSet()}
	var unknown []Atom

	for offset := ilst.DataOffset(); offset < ilst.End(); {
		item, err := readAtomHeader(sr, offset, ilst.End())
		if err != nil {
			if !types.IsFormatError(err) {
				return ilstContents{}, err
			}
			log.Debug("ending ilst scan", "path", sr.Path(), "offset", offset, "err", err)
			break
		}
		offset = item.End()

		if !knownItem(item.Type) {
			unknown = append(unknown, item)
			continue
		}
		typ, value, ok, err := itemData(sr, item)
		if err != nil {
			if !types.IsFormatError(err) {
				return ilstContents{}, err
			}
			log.Debug("skipping ilst item", "path", sr.Path(), "offset", item.Offset, "item", item.Type, "err", err)
			continue
		}
		if ok {
			d.apply(item.Type, typ, value)
		}
	}
	return ilstContents{tags: d.finish(), unknown: unknown}, nil
}

// itemData returns the type code and value of the first data atom inside
// an item.
func itemData(sr *binutil.SafeReader, item Atom) (uint32, []byte, bool, error) {
	data, ok, err := findAtom(sr, item.DataOffset(), item.End(), "data")
	if err != nil || !ok {
		return 0, nil, false, err
	}
	if data.DataSize() < 8 {
		return 0, nil, false, types.NewTagError(sr.Path(), data.Offset, "data atom too small")
	}
	body, err := sr.Bytes(data.DataOffset(), int(data.DataSize()), "data atom")
	if err != nil {
		return 0, nil, false, err
	}
	// Version byte, 24-bit type code, then 4 reserved bytes.
	typ := binary.BigEndian.Uint32(body[0:4]) & 0x00FFFFFF
	return typ, body[8:], true, nil
}

type ilstDecoder struct {
	tags    types.TagSet
	genreID int
	cover   bool
}

func (d *ilstDecoder) apply(name string, typ uint32, value []byte) {
	if field, ok := textItems[name]; ok {
		if typ == dataUTF8 {
			*field(&d.tags) = types.Present(string(value))
		}
		return
	}

	switch name {
	case itemDate:
		if typ != dataUTF8 {
			return
		}
		if date, ok := types.ParseDate(string(value)); ok {
			d.tags.Date = types.Present(date)
		}

	case itemTrack:
		d.tags.TrackNumber, d.tags.TrackTotal = decodePosition(value)

	case itemDisc:
		d.tags.DiscNumber, d.tags.DiscTotal = decodePosition(value)

	case itemBPM:
		if n, ok := decodeInt(typ, value); ok && n <= math.MaxUint16 {
			d.tags.BPM = types.Present(uint16(n))
		}

	case itemCompilation:
		if n, ok := decodeInt(typ, value); ok {
			d.tags.Compilation = types.Present(n != 0)
		}

	case itemGenreID:
		if n, ok := decodeInt(typ, value); ok {
			d.genreID = int(n)
		}

	case itemCover:
		if d.cover {
			return
		}
		var img types.CoverImage
		switch typ {
		case dataJPEG:
			img = types.JPEG(value)
		case dataPNG:
			img = types.PNG(value)
		case dataImplicit:
			img = types.SniffCover(value)
		}
		if !img.IsNone() {
			d.tags.Cover = types.Present(img)
			d.cover = true
		}
	}
}

// finish resolves the numeric genre, which only applies without a textual one.
func (d *ilstDecoder) finish() types.TagSet {
	if !d.tags.Genre.IsPresent() && d.genreID > 0 {
		if name := types.GenreName(d.genreID - 1); name != "" {
			d.tags.Genre = types.Present(name)
		}
	}
	return d.tags
}

// decodeInt reads a big-endian integer of one to four bytes.
func decodeInt(typ uint32, value []byte) (uint32, bool) {
	switch typ {
	case dataImplicit, dataUPC, dataBEInt, dataBEUint:
	default:
		return 0, false
	}
	if len(value) == 0 || len(value) > 4 {
		return 0, false
	}
	var n uint32
	for _, b := range value {
		n = n<<8 | uint32(b)
	}
	return n, true
}

// decodePosition reads a trkn or disk value: two reserved bytes, the
// number and the total. Zero means unknown.
func decodePosition(value []byte) (types.TagField[uint16], types.TagField[uint16]) {
	num, total := types.Absent[uint16](), types.Absent[uint16]()
	if len(value) >= 4 {
		if n := binary.BigEndian.Uint16(value[2:4]); n != 0 {
			num = types.Present(n)
		}
	}
	if len(value) >= 6 {
		if n := binary.BigEndian.Uint16(value[4:6]); n != 0 {
			total = types.Present(n)
		}
	}
	return num, total
}

// encodeItems serializes the Present fields of tags as ilst items.
func encodeItems(tags types.TagSet) []byte {
	var buf bytes.Buffer
	text := func(name string, f types.TagField[string]) {
		if v, ok := f.Get(); ok {
			writeItem(&buf, name, dataUTF8, []byte(v))
		}
	}

	text(itemTitle, tags.Title)
	text(itemAlbum, tags.Album)
	text(itemArtist, tags.Artist)
	text(itemAlbumArtist, tags.AlbumArtist)
	text(itemComposer, tags.Composer)
	text(itemGrouping, tags.Grouping)
	text(itemGenre, tags.Genre)
	if d, ok := tags.Date.Get(); ok {
		writeItem(&buf, itemDate, dataUTF8, []byte(d.String()))
	}
	if tags.TrackNumber.IsPresent() || tags.TrackTotal.IsPresent() {
		writeItem(&buf, itemTrack, dataImplicit, encodePosition(tags.TrackNumber, tags.TrackTotal, 8))
	}
	if tags.DiscNumber.IsPresent() || tags.DiscTotal.IsPresent() {
		writeItem(&buf, itemDisc, dataImplicit, encodePosition(tags.DiscNumber, tags.DiscTotal, 6))
	}
	if bpm, ok := tags.BPM.Get(); ok {
		writeItem(&buf, itemBPM, dataBEInt, binary.BigEndian.AppendUint16(nil, bpm))
	}
	if c, ok := tags.Compilation.Get(); ok {
		var b byte
		if c {
			b = 1
		}
		writeItem(&buf, itemCompilation, dataBEInt, []byte{b})
	}
	text(itemComment, tags.Comment)
	text(itemTitleSort, tags.TitleSort)
	text(itemAlbumSort, tags.AlbumSort)
	text(itemArtistSort, tags.ArtistSort)
	text(itemAlbumArtistSort, tags.AlbumArtistSort)
	text(itemComposerSort, tags.ComposerSort)
	if img, ok := tags.Cover.Get(); ok {
		switch img.Kind() {
		case types.ImageJPEG:
			writeItem(&buf, itemCover, dataJPEG, img.Data())
		case types.ImagePNG:
			writeItem(&buf, itemCover, dataPNG, img.Data())
		}
	}
	return buf.Bytes()
}

// encodePosition lays out a trkn (8 bytes) or disk (6 bytes) value.
func encodePosition(num, total types.TagField[uint16], size int) []byte {
	b := make([]byte, size)
	binary.BigEndian.PutUint16(b[2:4], num.OrElse(0))
	binary.BigEndian.PutUint16(b[4:6], total.OrElse(0))
	return b
}

// writeItem appends an item atom wrapping a single data atom.
func writeItem(buf *bytes.Buffer, name string, typ uint32, value []byte) {
	data := make([]byte, 0, 16+len(value))
	data = binary.BigEndian.AppendUint32(data, typ)
	data = append(data, 0, 0, 0, 0)
	data = append(data, value...)

	var item bytes.Buffer
	writeAtom(&item, "data", data)
	writeAtom(buf, name, item.Bytes())
}

// writeAtom appends an atom, switching to a 64-bit size when the atom does
// not fit in 32 bits.
func writeAtom(buf *bytes.Buffer, name string, body []byte) {
	size := uint64(8 + len(body))
	if size > math.MaxUint32 {
		buf.Write(binary.BigEndian.AppendUint32(nil, 1))
		buf.WriteString(name)
		buf.Write(binary.BigEndian.AppendUint64(nil, size+8))
	} else {
		buf.Write(binary.BigEndian.AppendUint32(nil, uint32(size)))
		buf.WriteString(name)
	}
	buf.Write(body)
}
