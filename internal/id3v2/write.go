package id3v2

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// paddingBlock is the alignment of the written tag body.
const paddingBlock = 128

// Encode serializes tags as a complete ID3v2.4 tag, header included.
//
// Only Present fields are written, in a fixed frame order, all text as
// UTF-8. The body is followed by at least one byte of padding and padded to
// the next multiple of 128 bytes.
func Encode(tags types.TagSet) ([]byte, error) {
	e := &encoder{}

	e.text("TIT2", tags.Title)
	e.text("TPE1", tags.Artist)
	e.text("TALB", tags.Album)
	e.text("TPE2", tags.AlbumArtist)
	e.text("TCOM", tags.Composer)
	e.text("TIT1", tags.Grouping)
	e.text("TCON", tags.Genre)
	if d, ok := tags.Date.Get(); ok {
		e.textFrame("TDRC", d.String())
	}
	if s, ok := FormatPosition(tags.TrackNumber, tags.TrackTotal); ok {
		e.textFrame("TRCK", s)
	}
	if s, ok := FormatPosition(tags.DiscNumber, tags.DiscTotal); ok {
		e.textFrame("TPOS", s)
	}
	if n, ok := tags.BPM.Get(); ok {
		e.textFrame("TBPM", strconv.Itoa(int(n)))
	}
	if c, ok := tags.Compilation.Get(); ok {
		v := "0"
		if c {
			v = "1"
		}
		e.textFrame("TCMP", v)
	}
	e.text("TSOT", tags.TitleSort)
	e.text("TSOP", tags.ArtistSort)
	e.text("TSOA", tags.AlbumSort)
	e.text("TSO2", tags.AlbumArtistSort)
	e.text("TSOC", tags.ComposerSort)
	if c, ok := tags.Comment.Get(); ok {
		// encoding, language, empty description, text
		payload := append([]byte{encodingUTF8, 'e', 'n', 'g', 0}, c...)
		e.frame("COMM", append(payload, 0))
	}
	if img, ok := tags.Cover.Get(); ok && !img.IsNone() {
		// encoding, MIME, picture type, empty description, data
		var p bytes.Buffer
		p.WriteByte(encodingUTF8)
		p.WriteString(img.MIME())
		p.WriteByte(0)
		p.WriteByte(byte(types.PictureFrontCover))
		p.WriteByte(0)
		p.Write(img.Data())
		e.frame("APIC", p.Bytes())
	}
	if e.err != nil {
		return nil, e.err
	}

	body := e.body.Len()
	padded := (body/paddingBlock + 1) * paddingBlock
	if padded >= 1<<28 {
		return nil, fmt.Errorf("ID3v2 tag of %d bytes: %w", padded, binary.ErrSynchsafeRange)
	}
	size, err := binary.EncodeSynchsafe(uint32(padded), false)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, HeaderSize+padded)
	out = append(out, 'I', 'D', '3', 4, 0, 0)
	out = append(out, size...)
	out = append(out, e.body.Bytes()...)
	out = append(out, make([]byte, padded-body)...)
	return out, nil
}

// FormatPosition renders a track or disc pair as "N", "N/M", or "0/M" when
// only the total is known. It reports false when neither is Present.
func FormatPosition(num, total types.TagField[uint16]) (string, bool) {
	n, hasN := num.Get()
	t, hasT := total.Get()
	switch {
	case hasN && hasT:
		return fmt.Sprintf("%d/%d", n, t), true
	case hasN:
		return strconv.Itoa(int(n)), true
	case hasT:
		return fmt.Sprintf("0/%d", t), true
	default:
		return "", false
	}
}

// encoder accumulates v2.4 frames. The first error sticks.
type encoder struct {
	body bytes.Buffer
	err  error
}

func (e *encoder) text(id string, f types.TagField[string]) {
	if v, ok := f.Get(); ok {
		e.textFrame(id, v)
	}
}

func (e *encoder) textFrame(id, value string) {
	payload := make([]byte, 0, len(value)+2)
	payload = append(payload, encodingUTF8)
	payload = append(payload, value...)
	e.frame(id, append(payload, 0))
}

func (e *encoder) frame(id string, payload []byte) {
	if e.err != nil {
		return
	}
	idBytes, err := binary.EncodeFrameID(id, 4)
	if err != nil {
		e.err = err
		return
	}
	if len(payload) >= 1<<28 {
		e.err = fmt.Errorf("ID3v2 frame %s of %d bytes: %w", id, len(payload), binary.ErrSynchsafeRange)
		return
	}
	size, err := binary.EncodeSynchsafe(uint32(len(payload)), false)
	if err != nil {
		e.err = fmt.Errorf("ID3v2 frame %s: %w", id, err)
		return
	}
	e.body.Write(idBytes)
	e.body.Write(size)
	e.body.Write([]byte{0, 0})
	e.body.Write(payload)
}
