package audiotag

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// ReadTags reads the tags of the file at path.
//
// The format is chosen by the file suffix before the file is opened. The
// returned TagSet holds only Present and Absent fields; an untagged FLAC or
// M4A file yields EmptyTagSet(). An MP3 with neither an ID3v2 tag nor an
// ID3v1 trailer is reported as a *TagError.
//
// Example:
//
//	tags, err := audiotag.ReadTags("song.flac")
//	if err != nil {
//		return err
//	}
//	fmt.Println(tags.Title.OrElse("(untitled)"))
func ReadTags(path string, opts ...Option) (TagSet, error) {
	o := applyOptions(opts)

	format, err := FormatFromPath(path)
	if err != nil {
		return TagSet{}, err
	}
	codec, err := codecFor(format, path)
	if err != nil {
		return TagSet{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return TagSet{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	stat, err := f.Stat()
	if err != nil {
		return TagSet{}, fmt.Errorf("stat file: %w", err)
	}

	o.logger.Debug("reading tags", "path", path, "format", format, "size", stat.Size())
	return codec.ReadTags(types.Source{R: f, Size: stat.Size(), Path: path, Logger: o.logger})
}

// ReadTagsFrom reads tags from an in-memory or otherwise opened file.
//
// Pass FormatUnknown to identify the format by its magic bytes.
func ReadTagsFrom(r io.ReaderAt, size int64, format Format, opts ...Option) (TagSet, error) {
	o := applyOptions(opts)

	label := streamLabel(format)
	if format == FormatUnknown {
		var err error
		if format, err = DetectFormat(r, size, label); err != nil {
			return TagSet{}, err
		}
		label = streamLabel(format)
	}
	codec, err := codecFor(format, label)
	if err != nil {
		return TagSet{}, err
	}
	return codec.ReadTags(types.Source{R: r, Size: size, Path: label, Logger: o.logger})
}

// ReadFrontCover returns the cover image of the file at path, or NoCover()
// when the file carries none.
//
// Example:
//
//	cover, err := audiotag.ReadFrontCover("song.mp3")
//	if err == nil && !cover.IsNone() {
//		os.WriteFile("cover.img", cover.Data(), 0o644)
//	}
func ReadFrontCover(path string, opts ...Option) (CoverImage, error) {
	tags, err := ReadTags(path, opts...)
	if err != nil {
		return NoCover(), err
	}
	return tags.Cover.OrElse(NoCover()), nil
}

// ReadMany reads the tags of several files concurrently.
//
// Files are read independently, up to runtime.NumCPU() at a time (see
// WithConcurrency). Results are returned in the same order as the input
// paths. The first failure cancels the remaining reads and is returned
// with the failing path.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	all, err := audiotag.ReadMany(ctx, paths)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for i, tags := range all {
//		fmt.Printf("%s: %s\n", paths[i], tags.Title.OrElse("?"))
//	}
func ReadMany(ctx context.Context, paths []string, opts ...Option) ([]TagSet, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	o := applyOptions(opts)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	results := make([]TagSet, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tags, err := ReadTags(path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = tags
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// codecFor returns the registered codec for format.
func codecFor(format Format, path string) (registry.Codec, error) {
	codec := registry.Get(format)
	if codec == nil {
		return nil, &UnsupportedFormatError{Path: path, Reason: "no codec registered for " + format.String()}
	}
	return codec, nil
}

// streamLabel names a reader without a path in error messages.
func streamLabel(format Format) string {
	if format == FormatUnknown {
		return "<stream>"
	}
	return "<" + format.String() + " stream>"
}
