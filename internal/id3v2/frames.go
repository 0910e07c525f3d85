package id3v2

// field identifies what a frame contributes to the tag set.
type field uint8

const (
	fieldNone field = iota
	fieldTitle
	fieldArtist
	fieldAlbum
	fieldAlbumArtist
	fieldComposer
	fieldGrouping
	fieldGenre
	fieldDate
	fieldDayMonth
	fieldTime
	fieldTrack
	fieldDisc
	fieldBPM
	fieldCompilation
	fieldComment
	fieldTitleSort
	fieldArtistSort
	fieldAlbumSort
	fieldAlbumArtistSort
	fieldComposerSort
	fieldPicture
)

// aliases pairs the ID3v2.2 frame id with its ID3v2.3/2.4 counterpart.
// An empty id means the frame does not exist in that version.
var aliases = []struct {
	v22, v23 string
	field    field
}{
	{"TT2", "TIT2", fieldTitle},
	{"TP1", "TPE1", fieldArtist},
	{"TAL", "TALB", fieldAlbum},
	{"TP2", "TPE2", fieldAlbumArtist},
	{"TCM", "TCOM", fieldComposer},
	{"TT1", "TIT1", fieldGrouping},
	{"TCO", "TCON", fieldGenre},
	{"TYE", "TYER", fieldDate},
	{"TDA", "TDAT", fieldDayMonth},
	{"TIM", "TIME", fieldTime},
	{"TRK", "TRCK", fieldTrack},
	{"TPA", "TPOS", fieldDisc},
	{"TBP", "TBPM", fieldBPM},
	{"TCP", "TCMP", fieldCompilation},
	{"COM", "COMM", fieldComment},
	{"TST", "TSOT", fieldTitleSort},
	{"TSP", "TSOP", fieldArtistSort},
	{"TSA", "TSOA", fieldAlbumSort},
	{"TS2", "TSO2", fieldAlbumArtistSort},
	{"TSC", "TSOC", fieldComposerSort},
	{"PIC", "APIC", fieldPicture},
	{"", "TDRC", fieldDate},
}

// frameTable maps the frame ids of one ID3v2 version to tag fields.
type frameTable map[string]field

// frameTables holds one table per major version, selected when the header
// is parsed.
var frameTables = map[byte]frameTable{
	2: {},
	3: {},
	4: {},
}

func init() {
	for _, a := range aliases {
		if a.v22 != "" {
			frameTables[2][a.v22] = a.field
		}
		frameTables[3][a.v23] = a.field
		frameTables[4][a.v23] = a.field
	}
}

// lookup returns the field for id, or fieldNone for unknown frames.
func (t frameTable) lookup(id string) field {
	return t[id]
}
