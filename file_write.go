package audiotag

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// WriteTags merges tags into the file at path.
//
// Unspecified fields keep their current value, Absent fields are removed
// and Present fields replace what the file holds. Only the tags change;
// the audio data is copied unchanged.
//
// This is an atomic operation: the new file is written to a temporary file
// in the same directory, synced, and renamed over the original. If any step
// fails, the original file remains unchanged and the temporary file is
// removed.
//
// Options can be provided to customize write behavior:
//
//	err := audiotag.WriteTags("song.mp3",
//	    audiotag.TagSet{Title: audiotag.Present("New Title")},
//	    audiotag.WithBackup(".bak"),
//	    audiotag.WithValidation(),
//	)
//
// Returns *UnsupportedFormatError for suffixes other than .mp3, .flac and
// .m4a, before touching the file.
func WriteTags(path string, tags TagSet, opts ...Option) error { //nolint:gocyclo // Atomic file operations require sequential steps
	o := applyOptions(opts)

	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	codec := registry.Get(format)
	if codec == nil {
		return &UnsupportedWriteError{Format: format, Reason: "no codec registered"}
	}

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer src.Close() //nolint:errcheck // Closed explicitly before the swap
	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	source := types.Source{R: src, Size: info.Size(), Path: path, Logger: o.logger}

	var expected TagSet
	if o.validate {
		old, err := codec.ReadTags(source)
		if err != nil {
			if !IsFormatError(err) {
				return err
			}
			old = EmptyTagSet()
		}
		expected = Merge(old, tags)
	}

	// Create temp file in same directory as output (for atomic rename)
	tempFile, err := os.CreateTemp(filepath.Dir(path), ".audiotag-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	// Ensure cleanup on any error
	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if err := tempFile.Chmod(info.Mode().Perm()); err != nil {
		o.logger.Debug("could not copy file mode", "path", tempPath, "err", err)
	}
	if err := codec.WriteTags(tempFile, source, tags); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}

	// Sync temp file (fsync) to ensure data is on disk
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if o.validate {
		if err := validateStaged(codec, tempFile, tempPath, expected, o); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	// Close temp file and source before rename
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	_ = src.Close() //nolint:errcheck // Read-only handle

	if o.backupSuffix != "" {
		if err := backup(path, path+o.backupSuffix); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}

	// Atomic rename temp -> output
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}
	success = true

	if o.preserveModTime {
		mtime := info.ModTime()
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			o.logger.Debug("could not restore modification time", "path", path, "err", err)
		}
	}

	o.logger.Debug("tags written", "path", path, "format", format)
	return nil
}

// WriteTagsTo streams a copy of the file in r to w with tags merged in.
//
// This is the raw transform behind WriteTags, for callers that manage
// their own files or buffers. r is never modified.
func WriteTagsTo(w io.Writer, r io.ReaderAt, size int64, format Format, tags TagSet, opts ...Option) error {
	o := applyOptions(opts)

	codec := registry.Get(format)
	if codec == nil {
		return &UnsupportedWriteError{Format: format, Reason: "no codec registered"}
	}
	return codec.WriteTags(w, types.Source{R: r, Size: size, Path: streamLabel(format), Logger: o.logger}, tags)
}

// validateStaged re-reads the staged file and compares it with the tags
// the write should have produced.
func validateStaged(codec registry.Codec, f *os.File, path string, expected TagSet, o *options) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat staged file: %w", err)
	}
	got, err := codec.ReadTags(types.Source{R: f, Size: info.Size(), Path: path, Logger: o.logger})
	if err != nil {
		return fmt.Errorf("re-read: %w", err)
	}
	if got.Equal(expected) {
		return nil
	}

	want, have := maps.Collect(expected.Fields()), maps.Collect(got.Fields())
	var differ []string
	for name := range maps.Keys(want) {
		if have[name] != want[name] {
			differ = append(differ, name)
		}
	}
	for name := range maps.Keys(have) {
		if _, ok := want[name]; !ok {
			differ = append(differ, name)
		}
	}
	slices.Sort(differ)
	return fmt.Errorf("tags read back differ from the tags written: %s", strings.Join(differ, ", "))
}

// backup preserves path under backupPath. A hard link keeps the original
// in place until the final rename; filesystems without links fall back to
// moving the original aside.
func backup(path, backupPath string) error {
	if err := os.Remove(backupPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.Link(path, backupPath); err == nil {
		return nil
	}
	return os.Rename(path, backupPath)
}
