package vorbis

import (
	"encoding/base64"
	"encoding/binary"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/audiotag/internal/types"
)

var discard = slog.New(slog.DiscardHandler)

var testPNG = []byte{
	0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n',
	0, 0, 0, 13, 'I', 'H', 'D', 'R',
	0, 0, 0, 2, 0, 0, 0, 3, 8, 6, 0, 0, 0,
}

// vector builds a comment vector from raw entries.
func vector(entries ...string) []byte {
	vendor := "test vendor"
	b := binary.LittleEndian.AppendUint32(nil, uint32(len(vendor)))
	b = append(b, vendor...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(entries)))
	for _, e := range entries {
		b = binary.LittleEndian.AppendUint32(b, uint32(len(e)))
		b = append(b, e...)
	}
	return b
}

func decode(t *testing.T, entries ...string) types.TagSet {
	t.Helper()
	tags, err := Decode(vector(entries...), "test.flac", discard)
	require.NoError(t, err)
	return tags
}

func pictureComment(t *testing.T, typ types.PictureType, mime string, data []byte) string {
	t.Helper()
	block, err := Picture{Type: typ, MIME: mime, Description: "cover", Data: data}.Encode()
	require.NoError(t, err)
	return PictureKey + "=" + base64.StdEncoding.EncodeToString(block)
}

func TestDecode_Fields(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		check   func(types.TagSet) bool
	}{
		{"title", "TITLE=Test Song", func(t types.TagSet) bool { return t.Title == types.Present("Test Song") }},
		{"lowercase key", "title=Lower", func(t types.TagSet) bool { return t.Title == types.Present("Lower") }},
		{"artist", "ARTIST=Test Artist", func(t types.TagSet) bool { return t.Artist == types.Present("Test Artist") }},
		{"album artist", "ALBUMARTIST=Various", func(t types.TagSet) bool { return t.AlbumArtist == types.Present("Various") }},
		{"grouping", "GROUPING=Set 1", func(t types.TagSet) bool { return t.Grouping == types.Present("Set 1") }},
		{"empty value", "GENRE=", func(t types.TagSet) bool { return t.Genre == types.Present("") }},
		{"value with equals", "COMMENT=a=b", func(t types.TagSet) bool { return t.Comment == types.Present("a=b") }},
		{"date", "DATE=2024-05-15", func(t types.TagSet) bool { return t.Date == types.Present(types.MustDate(2024, 5, 15)) }},
		{"bad date", "DATE=sometime", func(t types.TagSet) bool { return t.Date.IsAbsent() }},
		{"track number", "TRACKNUMBER=5", func(t types.TagSet) bool { return t.TrackNumber == types.Present[uint16](5) }},
		{"track pair", "TRACKNUMBER=5/12", func(t types.TagSet) bool {
			return t.TrackNumber == types.Present[uint16](5) && t.TrackTotal == types.Present[uint16](12)
		}},
		{"track zero", "TRACKNUMBER=0", func(t types.TagSet) bool { return t.TrackNumber.IsAbsent() }},
		{"totaltracks", "TOTALTRACKS=15", func(t types.TagSet) bool { return t.TrackTotal == types.Present[uint16](15) }},
		{"totaldiscs", "TOTALDISCS=4", func(t types.TagSet) bool { return t.DiscTotal == types.Present[uint16](4) }},
		{"bpm", "BPM=128", func(t types.TagSet) bool { return t.BPM == types.Present[uint16](128) }},
		{"compilation true", "COMPILATION=True", func(t types.TagSet) bool { return t.Compilation == types.Present(true) }},
		{"compilation other", "COMPILATION=yes", func(t types.TagSet) bool { return t.Compilation == types.Present(false) }},
		{"sort", "ALBUMARTISTSORT=Beatles, The", func(t types.TagSet) bool {
			return t.AlbumArtistSort == types.Present("Beatles, The")
		}},
		{"unknown key", "MUSICBRAINZ_TRACKID=abc", func(t types.TagSet) bool { return t.Equal(types.EmptyTagSet()) }},
		{"missing equals", "NOEQUALSIGN", func(t types.TagSet) bool { return t.Equal(types.EmptyTagSet()) }},
		{"invalid key", "TI\x01TLE=x", func(t types.TagSet) bool { return t.Title.IsAbsent() }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tags := decode(t, tc.comment)
			if !tc.check(tags) {
				t.Errorf("Decode(%q) did not set expected field: %+v", tc.comment, tags)
			}
		})
	}
}

func TestDecode_LastValueWins(t *testing.T) {
	tags := decode(t, "ARTIST=Artist One", "ARTIST=Artist Two")
	assert.Equal(t, types.Present("Artist Two"), tags.Artist)
}

func TestDecode_ExplicitTotalWins(t *testing.T) {
	tags := decode(t, "TRACKTOTAL=10", "TRACKNUMBER=3/12")
	assert.Equal(t, types.Present[uint16](3), tags.TrackNumber)
	assert.Equal(t, types.Present[uint16](10), tags.TrackTotal)
}

func TestDecode_Truncated(t *testing.T) {
	full := vector("TITLE=Cut short")
	_, err := Decode(full[:len(full)-3], "cut.flac", discard)
	require.Error(t, err)
	assert.True(t, types.IsFormatError(err))
}

func TestDecode_OversizedLengths(t *testing.T) {
	huge := binary.LittleEndian.AppendUint32(nil, 0xBFFFFFF0)

	comment := vector("TITLE=x")
	copy(comment[len(comment)-len("TITLE=x")-4:], huge)

	vendor := vector("TITLE=x")
	copy(vendor, huge)

	for name, block := range map[string][]byte{"comment length": comment, "vendor length": vendor} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(block, "huge.flac", discard)
			require.Error(t, err)
			assert.True(t, types.IsFormatError(err), "%v", err)
		})
	}
}

func TestDecode_PictureComments(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0}

	tags := decode(t,
		pictureComment(t, types.PictureBackCover, "image/jpeg", jpeg),
		pictureComment(t, types.PictureFrontCover, "image/png", testPNG),
		pictureComment(t, types.PictureOther, "image/jpeg", jpeg),
	)
	assert.Equal(t, types.Present(types.PNG(testPNG)), tags.Cover)

	tags = decode(t, PictureKey+"=!!not base64!!", pictureComment(t, types.PictureArtist, "IMAGE/JPG", jpeg))
	assert.Equal(t, types.Present(types.JPEG(jpeg)), tags.Cover)

	tags = decode(t, pictureComment(t, types.PictureFrontCover, "image/gif", jpeg))
	assert.True(t, tags.Cover.IsAbsent())
}

func TestEncode_RoundTrip(t *testing.T) {
	tags := types.EmptyTagSet()
	tags.Title = types.Present("Title")
	tags.Artist = types.Present("Ärtist")
	tags.Album = types.Present("")
	tags.Comment = types.Present("line one\nline two")
	tags.ComposerSort = types.Present("Bach, J.S.")
	tags.TrackTotal = types.Present[uint16](12)
	tags.DiscNumber = types.Present[uint16](1)
	tags.BPM = types.Present[uint16](90)
	tags.Compilation = types.Present(false)
	tags.Date = types.Present(types.MustDate(2001, 9))
	tags.Cover = types.Present(types.PNG(testPNG))

	block, err := Encode(tags, "audiotag test", true)
	require.NoError(t, err)

	got, err := Decode(block, "rt.flac", discard)
	require.NoError(t, err)
	assert.True(t, tags.Equal(got), "want %+v\ngot  %+v", tags, got)

	withoutCover, err := Encode(tags, "audiotag test", false)
	require.NoError(t, err)
	got, err = Decode(withoutCover, "rt.flac", discard)
	require.NoError(t, err)
	assert.True(t, got.Cover.IsAbsent())
}

func TestEncode_Layout(t *testing.T) {
	tags := types.TagSet{Title: types.Present("T"), Genre: types.Present("G")}
	block, err := Encode(tags, "v", false)
	require.NoError(t, err)

	want := vector("TITLE=T", "GENRE=G")
	// vector() writes its own vendor; patch it to compare the rest.
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(block))
	assert.Equal(t, "v", string(block[4:5]))
	assert.Equal(t, want[4+len("test vendor"):], block[5:])
}

func TestPicture_RoundTrip(t *testing.T) {
	p := PictureFromCover(types.PNG(testPNG))
	assert.Equal(t, types.PictureFrontCover, p.Type)
	assert.Equal(t, "image/png", p.MIME)
	assert.Equal(t, uint32(2), p.Width)
	assert.Equal(t, uint32(3), p.Height)
	assert.Equal(t, uint32(32), p.Depth)

	block, err := p.Encode()
	require.NoError(t, err)
	got, err := DecodePicture(block, "pic")
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.True(t, got.Cover().Equal(types.PNG(testPNG)))
}

func TestDecodePicture_Truncated(t *testing.T) {
	block, err := PictureFromCover(types.PNG(testPNG)).Encode()
	require.NoError(t, err)

	for _, n := range []int{0, 3, 8, 20, len(block) - 1} {
		_, err := DecodePicture(block[:n], "short")
		assert.True(t, types.IsFormatError(err), "length %d: %v", n, err)
	}
}

func TestDecodePicture_OversizedLengths(t *testing.T) {
	block, err := PictureFromCover(types.PNG(testPNG)).Encode()
	require.NoError(t, err)

	// Length field offsets; the block has no description.
	mimeLen := 4
	descLen := mimeLen + 4 + len("image/png")
	dataLen := descLen + 4 + 16

	for _, off := range []int{mimeLen, descLen, dataLen} {
		corrupt := append([]byte(nil), block...)
		corrupt[off], corrupt[off+1], corrupt[off+2], corrupt[off+3] = 0xBF, 0xFF, 0xFF, 0xF0
		_, err := DecodePicture(corrupt, "huge")
		assert.True(t, types.IsFormatError(err), "length field at %d: %v", off, err)
	}
}

func TestValidKey(t *testing.T) {
	assert.True(t, ValidKey("TITLE"))
	assert.True(t, ValidKey("a key }"))
	assert.False(t, ValidKey(""))
	assert.False(t, ValidKey("A=B"))
	assert.False(t, ValidKey("~"))
	assert.False(t, ValidKey("TÏTLE"))
}
