package id3v1

import (
	"testing"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// trailer builds a 128-byte ID3v1.1 tag.
func trailer(title, artist, album, year, comment string, track, genre byte) []byte {
	b := make([]byte, Size)
	copy(b[0:3], "TAG")
	copy(b[3:33], title)
	copy(b[33:63], artist)
	copy(b[63:93], album)
	copy(b[93:97], year)
	copy(b[97:125], comment)
	b[126] = track
	b[127] = genre
	return b
}

func withAudio(tag []byte) []byte {
	return append([]byte{0xFF, 0xFB, 0x90, 0x00, 1, 2, 3, 4}, tag...)
}

func TestDecode(t *testing.T) {
	data := withAudio(trailer("Caf\xe9 Song", "Artist   ", "Album", "1987", "hi", 5, 17))
	sr := binary.FromBytes(data, "v1.mp3")

	if !HasTrailer(sr) {
		t.Fatal("expected trailer")
	}
	got, err := Decode(sr)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	checks := []struct {
		name string
		got  types.TagField[string]
		want string
	}{
		{"title", got.Title, "Café Song"},
		{"artist", got.Artist, "Artist"},
		{"album", got.Album, "Album"},
		{"comment", got.Comment, "hi"},
		{"genre", got.Genre, "Rock"},
	}
	for _, c := range checks {
		if v, ok := c.got.Get(); !ok || v != c.want {
			t.Errorf("%s = %v, want %q", c.name, c.got, c.want)
		}
	}
	if n, ok := got.TrackNumber.Get(); !ok || n != 5 {
		t.Errorf("track = %v, want 5", got.TrackNumber)
	}
	if d, ok := got.Date.Get(); !ok || d.Year() != 1987 {
		t.Errorf("date = %v, want 1987", got.Date)
	}
	if !got.AlbumArtist.IsAbsent() || !got.Cover.IsAbsent() {
		t.Error("fields without an ID3v1 slot should be Absent")
	}
}

func TestDecode_EdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		tag       []byte
		wantGenre string
		wantTrack bool
		wantDate  bool
	}{
		{"genre out of table", trailer("t", "", "", "2000", "", 1, 80), "", true, true},
		{"unknown genre 255", trailer("t", "", "", "", "", 1, 255), "", true, false},
		{"last genre", trailer("t", "", "", "", "", 1, 79), "Hard Rock", true, false},
		{"no track", trailer("t", "", "", "abcd", "", 0, 0), "Blues", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(binary.FromBytes(tt.tag, "edge.mp3"))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if v, ok := got.Genre.Get(); !ok || v != tt.wantGenre {
				t.Errorf("genre = %v, want %q", got.Genre, tt.wantGenre)
			}
			if got.TrackNumber.IsPresent() != tt.wantTrack {
				t.Errorf("track = %v, want present=%v", got.TrackNumber, tt.wantTrack)
			}
			if got.Date.IsPresent() != tt.wantDate {
				t.Errorf("date = %v, want present=%v", got.Date, tt.wantDate)
			}
			if v, ok := got.Artist.Get(); !ok || v != "" {
				t.Errorf("empty artist should be Present(\"\"), got %v", got.Artist)
			}
		})
	}
}

func TestDecode_ID3v10Comment(t *testing.T) {
	// Without the zero marker, bytes 125 and 126 belong to the comment and
	// there is no track.
	tag := trailer("t", "", "", "", "", 0, 0)
	copy(tag[97:127], "a thirty byte long comment!!!!")

	got, err := Decode(binary.FromBytes(tag, "v10.mp3"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.TrackNumber.IsPresent() {
		t.Errorf("track = %v, want Absent", got.TrackNumber)
	}
	if v, _ := got.Comment.Get(); v != "a thirty byte long comment!!" {
		t.Errorf("comment = %q", v)
	}
}

func TestDecode_Missing(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"too small", []byte("TAG")},
		{"no marker", make([]byte, 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := binary.FromBytes(tt.data, "none.mp3")
			if HasTrailer(sr) {
				t.Error("HasTrailer = true")
			}
			_, err := Decode(sr)
			if !types.IsFormatError(err) {
				t.Errorf("expected format error, got %v", err)
			}
		})
	}
}
