package audiotag

import (
	"bytes"
	"errors"
	"slices"
	"testing"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"song.mp3", FormatMP3},
		{"SONG.MP3", FormatMP3},
		{"/music/a.b/track.Flac", FormatFLAC},
		{"album/01 intro.m4a", FormatM4A},
		{"track.M4A", FormatM4A},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFormatFromPath_Unsupported(t *testing.T) {
	for _, path := range []string{"song.ogg", "song.wav", "song.m4b", "noext", "mp3", "dir.mp3/file"} {
		t.Run(path, func(t *testing.T) {
			got, err := FormatFromPath(path)
			if err == nil {
				t.Fatalf("expected error, got format %v", got)
			}
			var unsupported *UnsupportedFormatError
			if !errors.As(err, &unsupported) {
				t.Fatalf("expected *UnsupportedFormatError, got %T: %v", err, err)
			}
			if unsupported.Path != path {
				t.Errorf("expected path %q, got %q", path, unsupported.Path)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"flac", []byte("fLaC\x00\x00\x00\x22"), FormatFLAC},
		{"id3", []byte("ID3\x04\x00\x00\x00\x00"), FormatMP3},
		{"mpeg sync", []byte{0xFF, 0xFB, 0x90, 0x64, 0, 0, 0, 0}, FormatMP3},
		{"ftyp", []byte("\x00\x00\x00\x14ftypM4A "), FormatM4A},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(bytes.NewReader(tt.data), int64(len(tt.data)), "test")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDetectFormat_Unknown(t *testing.T) {
	data := []byte("RIFF\x00\x00\x00\x00WAVE")

	_, err := DetectFormat(bytes.NewReader(data), int64(len(data)), "test.wav")
	var unsupported *UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected *UnsupportedFormatError, got %T: %v", err, err)
	}
}

func TestFormats(t *testing.T) {
	want := []Format{FormatMP3, FormatFLAC, FormatM4A}
	if got := Formats(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
