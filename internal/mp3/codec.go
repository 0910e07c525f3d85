// Package mp3 reads and writes the tags of MP3 files: an ID3v2 tag at the
// start of the file and an optional ID3v1 trailer at the end.
package mp3

import (
	"fmt"
	"io"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/id3v1"
	"github.com/simonhull/audiotag/internal/id3v2"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// codec implements registry.Codec for MP3.
type codec struct{}

// ReadTags decodes the ID3v2 tag, falling back to the ID3v1 trailer when
// the ID3v2 tag is missing or malformed. I/O errors are never masked by the
// fallback.
func (codec) ReadTags(src types.Source) (types.TagSet, error) {
	sr := binutil.NewSafeReader(src.R, src.Size, src.Path)
	log := src.Log()

	tag, err := id3v2.Decode(sr, log)
	if err == nil {
		return tag.Tags, nil
	}
	if !types.IsFormatError(err) {
		return types.TagSet{}, fmt.Errorf("read ID3v2 tag: %w", err)
	}
	log.Debug("no usable ID3v2 tag, trying ID3v1", "path", src.Path, "err", err)

	tags, err := id3v1.Decode(sr)
	if err == nil {
		return tags, nil
	}
	if !types.IsFormatError(err) {
		return types.TagSet{}, fmt.Errorf("read ID3v1 tag: %w", err)
	}
	return types.TagSet{}, types.NewTagError(src.Path, 0, "no ID3 tag found")
}

// layout describes where the existing tags and audio are in the source.
type layout struct {
	old        types.TagSet
	audioStart int64
	audioEnd   int64
}

// inspect locates the existing tags. An ID3v2 tag takes precedence over an
// ID3v1 trailer as the source of old values; a trailer is always dropped.
func inspect(src types.Source) (layout, error) {
	sr := binutil.NewSafeReader(src.R, src.Size, src.Path)
	log := src.Log()
	l := layout{old: types.EmptyTagSet(), audioEnd: src.Size}

	haveV2 := false
	if id3v2.HasTag(sr) {
		tag, err := id3v2.Decode(sr, log)
		switch {
		case err == nil:
			l.old = tag.Tags
			l.audioStart = min(tag.Header.TagLength(), src.Size)
			haveV2 = true
		case types.IsFormatError(err):
			// Drop a tag we cannot read when its extent is known, so the
			// new tag is not stacked on top of it.
			if n, ok := id3v2.DeclaredLength(sr); ok && n <= src.Size {
				log.Debug("dropping unreadable ID3v2 tag", "path", src.Path, "length", n, "err", err)
				l.audioStart = n
			} else {
				log.Debug("keeping unreadable ID3v2 tag as audio", "path", src.Path, "err", err)
			}
		default:
			return layout{}, fmt.Errorf("read ID3v2 tag: %w", err)
		}
	}

	v1, err := id3v1.Decode(sr)
	switch {
	case err == nil:
		if src.Size-id3v1.Size >= l.audioStart {
			l.audioEnd = src.Size - id3v1.Size
			if !haveV2 {
				l.old = v1
			}
		}
	case !types.IsFormatError(err):
		return layout{}, fmt.Errorf("read ID3v1 tag: %w", err)
	}

	return l, nil
}

// WriteTags writes a fresh ID3v2.4 tag holding the merged tags, followed by
// the audio frames. Any ID3v1 trailer is removed.
func (codec) WriteTags(w io.Writer, src types.Source, tags types.TagSet) error {
	l, err := inspect(src)
	if err != nil {
		return err
	}

	tag, err := id3v2.Encode(types.Merge(l.old, tags))
	if err != nil {
		return types.NewTagError(src.Path, 0, "encode ID3v2 tag: %v", err)
	}

	sw := binutil.NewSafeWriter(w)
	sw.WriteBytes(tag)
	sw.CopyFrom(io.NewSectionReader(src.R, l.audioStart, l.audioEnd-l.audioStart))
	if err := sw.Err(); err != nil {
		return fmt.Errorf("write MP3 stream: %w", err)
	}
	return nil
}

func init() {
	registry.Register(types.FormatMP3, codec{})
}
