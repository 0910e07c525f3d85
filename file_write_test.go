package audiotag_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/simonhull/audiotag"
)

// createM4AWithoutChunkOffsets returns an M4A whose moov carries no stco,
// which the M4A writer refuses to rewrite.
func createM4AWithoutChunkOffsets() []byte {
	return bytes.Join([][]byte{
		atom("ftyp", []byte("M4A \x00\x00\x02\x00")),
		atom("moov", atom("mvhd", make([]byte, 12))),
		atom("mdat", m4aSamples),
	}, nil)
}

// tempFiles lists leftover staging files in dir.
func tempFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".audiotag-*.tmp"))
	if err != nil {
		t.Fatal(err)
	}
	return matches
}

func TestWriteTags_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.wav")

	err := audiotag.WriteTags(path, audiotag.TagSet{Title: audiotag.Present("x")})
	var unsupported *audiotag.UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected *UnsupportedFormatError, got %T: %v", err, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no files to be created, found %d", len(entries))
	}
}

func TestWriteTags_CodecFailureLeavesOriginal(t *testing.T) {
	original := createM4AWithoutChunkOffsets()
	path := writeFixture(t, "song.m4a", original)

	err := audiotag.WriteTags(path, audiotag.TagSet{Title: audiotag.Present("x")})
	if err == nil {
		t.Fatal("expected error for M4A without chunk offset table")
	}
	if !audiotag.IsFormatError(err) {
		t.Errorf("expected a format error, got %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, original) {
		t.Error("original file was modified")
	}
	if leftovers := tempFiles(t, filepath.Dir(path)); len(leftovers) != 0 {
		t.Errorf("temp files not cleaned up: %v", leftovers)
	}
}

func TestWriteTags_NoTempFileOnSuccess(t *testing.T) {
	path := writeFixture(t, "song.flac", createFLAC())

	if err := audiotag.WriteTags(path, audiotag.TagSet{Title: audiotag.Present("x")}); err != nil {
		t.Fatalf("WriteTags failed: %v", err)
	}
	if leftovers := tempFiles(t, filepath.Dir(path)); len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestWriteTags_Backup(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			original := fx.build()
			path := writeFixture(t, fx.name, original)

			err := audiotag.WriteTags(path, audiotag.TagSet{Title: audiotag.Present("First")},
				audiotag.WithBackup(".bak"))
			if err != nil {
				t.Fatalf("WriteTags failed: %v", err)
			}

			backup, err := os.ReadFile(path + ".bak")
			if err != nil {
				t.Fatalf("backup not created: %v", err)
			}
			if !bytes.Equal(backup, original) {
				t.Error("backup does not match the original contents")
			}

			// A second write replaces the old backup with the first result.
			first, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			err = audiotag.WriteTags(path, audiotag.TagSet{Title: audiotag.Present("Second")},
				audiotag.WithBackup(".bak"))
			if err != nil {
				t.Fatalf("second WriteTags failed: %v", err)
			}
			backup, err = os.ReadFile(path + ".bak")
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(backup, first) {
				t.Error("backup was not replaced by the previous version")
			}
		})
	}
}

func TestWriteTags_PreserveModTime(t *testing.T) {
	path := writeFixture(t, "song.flac", createFLAC())
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	err := audiotag.WriteTags(path, audiotag.TagSet{Title: audiotag.Present("x")}, audiotag.WithPreserveModTime())
	if err != nil {
		t.Fatalf("WriteTags failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("expected mtime %v, got %v", mtime, info.ModTime())
	}
}

func TestWriteTags_KeepsPermissions(t *testing.T) {
	path := writeFixture(t, "song.mp3", createMP3())
	if err := os.Chmod(path, 0o640); err != nil {
		t.Fatal(err)
	}

	if err := audiotag.WriteTags(path, audiotag.TagSet{Title: audiotag.Present("x")}); err != nil {
		t.Fatalf("WriteTags failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("expected mode 0640, got %o", info.Mode().Perm())
	}
}

func TestWriteTags_Validation(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			path := writeFixture(t, fx.name, fx.build())

			if err := audiotag.WriteTags(path, fullUpdate(), audiotag.WithValidation()); err != nil {
				t.Fatalf("validated write failed: %v", err)
			}

			update := audiotag.TagSet{
				Artist: audiotag.Absent[string](),
				Cover:  audiotag.Absent[audiotag.CoverImage](),
			}
			if err := audiotag.WriteTags(path, update, audiotag.WithValidation()); err != nil {
				t.Fatalf("validated delta write failed: %v", err)
			}
		})
	}
}

func TestWriteTags_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.mp3")

	err := audiotag.WriteTags(path, audiotag.TagSet{Title: audiotag.Present("x")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("WriteTags created the missing file")
	}
}

func TestWriteTags_UppercaseSuffix(t *testing.T) {
	path := writeFixture(t, "SONG.FLAC", createFLAC())

	if err := audiotag.WriteTags(path, audiotag.TagSet{Album: audiotag.Present("Loud")}); err != nil {
		t.Fatalf("WriteTags failed: %v", err)
	}
	tags, err := audiotag.ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags failed: %v", err)
	}
	if v, _ := tags.Album.Get(); v != "Loud" {
		t.Errorf("expected album %q, got %v", "Loud", tags.Album)
	}
}
