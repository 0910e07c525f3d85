package types

import (
	"iter"
	"strconv"
)

// TagSet is the normalized set of tags understood by every codec.
//
// A TagSet returned by a read contains only Present and Absent fields.
// A TagSet passed to a write may also contain Unspecified fields, which
// keep whatever the file already holds.
type TagSet struct {
	Title           TagField[string]
	Artist          TagField[string]
	Album           TagField[string]
	AlbumArtist     TagField[string]
	Composer        TagField[string]
	Grouping        TagField[string]
	Genre           TagField[string]
	Comment         TagField[string]
	TitleSort       TagField[string]
	ArtistSort      TagField[string]
	AlbumSort       TagField[string]
	AlbumArtistSort TagField[string]
	ComposerSort    TagField[string]

	TrackNumber TagField[uint16]
	TrackTotal  TagField[uint16]
	DiscNumber  TagField[uint16]
	DiscTotal   TagField[uint16]
	BPM         TagField[uint16]

	Compilation TagField[bool]
	Date        TagField[ReleaseDate]
	Cover       TagField[CoverImage]
}

// EmptyTagSet returns a TagSet with every field Absent.
//
// This is what reading an untagged file yields, and the starting point
// every codec fills in while decoding.
func EmptyTagSet() TagSet {
	t := TagSet{}
	for _, f := range t.stringFields() {
		*f = Absent[string]()
	}
	for _, f := range t.numberFields() {
		*f = Absent[uint16]()
	}
	t.Compilation = Absent[bool]()
	t.Date = Absent[ReleaseDate]()
	t.Cover = Absent[CoverImage]()
	return t
}

// Merge reconciles an update against existing tags.
//
// For each field: a Present update wins, an Absent update clears the field,
// and an Unspecified update keeps the old value if it was Present. The
// result never contains Unspecified fields. A Present zero ReleaseDate or
// NoCover() image is treated as Absent.
//
// Example:
//
//	merged := types.Merge(existing, types.TagSet{Title: types.Present("New")})
func Merge(old, next TagSet) TagSet {
	out := TagSet{}
	oldStr, nextStr, outStr := old.stringFields(), next.stringFields(), out.stringFields()
	for i := range outStr {
		*outStr[i] = mergeField(*oldStr[i], *nextStr[i])
	}
	oldNum, nextNum, outNum := old.numberFields(), next.numberFields(), out.numberFields()
	for i := range outNum {
		*outNum[i] = mergeField(*oldNum[i], *nextNum[i])
	}
	out.Compilation = mergeField(old.Compilation, next.Compilation)
	out.Date = mergeField(old.Date, next.Date)
	out.Cover = mergeField(old.Cover, next.Cover)

	// No format can store an empty date or image.
	if d, ok := out.Date.Get(); ok && d.IsZero() {
		out.Date = Absent[ReleaseDate]()
	}
	if img, ok := out.Cover.Get(); ok && img.IsNone() {
		out.Cover = Absent[CoverImage]()
	}
	return out
}

// Equal reports whether two TagSets hold the same states and values.
func (t TagSet) Equal(other TagSet) bool {
	a, b := t.stringFields(), other.stringFields()
	for i := range a {
		if !equalField(*a[i], *b[i], equalComparable[string]) {
			return false
		}
	}
	an, bn := t.numberFields(), other.numberFields()
	for i := range an {
		if !equalField(*an[i], *bn[i], equalComparable[uint16]) {
			return false
		}
	}
	return equalField(t.Compilation, other.Compilation, equalComparable[bool]) &&
		equalField(t.Date, other.Date, equalComparable[ReleaseDate]) &&
		equalField(t.Cover, other.Cover, CoverImage.Equal)
}

// Clone returns a deep copy. Cover bytes are copied.
func (t TagSet) Clone() TagSet {
	c := t
	if img, ok := t.Cover.Get(); ok {
		c.Cover = Present(img.clone())
	}
	return c
}

// Fields iterates over the Present fields as display name and rendered value.
//
// Fields are yielded in a stable order; the cover is rendered as a summary.
//
// Example:
//
//	for name, value := range tags.Fields() {
//		fmt.Printf("%-18s %s\n", name, value)
//	}
func (t TagSet) Fields() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for i, f := range t.stringFields() {
			if v, ok := f.Get(); ok {
				if !yield(stringFieldNames[i], v) {
					return
				}
			}
		}
		for i, f := range t.numberFields() {
			if v, ok := f.Get(); ok {
				if !yield(numberFieldNames[i], strconv.Itoa(int(v))) {
					return
				}
			}
		}
		if v, ok := t.Compilation.Get(); ok {
			if !yield("compilation", strconv.FormatBool(v)) {
				return
			}
		}
		if v, ok := t.Date.Get(); ok {
			if !yield("date", v.String()) {
				return
			}
		}
		if v, ok := t.Cover.Get(); ok {
			yield("cover", v.String())
		}
	}
}

var stringFieldNames = [...]string{
	"title", "artist", "album", "album_artist", "composer", "grouping",
	"genre", "comment", "title_sort", "artist_sort", "album_sort",
	"album_artist_sort", "composer_sort",
}

var numberFieldNames = [...]string{
	"track_number", "track_total", "disc_number", "disc_total", "bpm",
}

// stringFields returns pointers to the textual fields in stringFieldNames order.
func (t *TagSet) stringFields() []*TagField[string] {
	return []*TagField[string]{
		&t.Title, &t.Artist, &t.Album, &t.AlbumArtist, &t.Composer, &t.Grouping,
		&t.Genre, &t.Comment, &t.TitleSort, &t.ArtistSort, &t.AlbumSort,
		&t.AlbumArtistSort, &t.ComposerSort,
	}
}

// numberFields returns pointers to the numeric fields in numberFieldNames order.
func (t *TagSet) numberFields() []*TagField[uint16] {
	return []*TagField[uint16]{
		&t.TrackNumber, &t.TrackTotal, &t.DiscNumber, &t.DiscTotal, &t.BPM,
	}
}
