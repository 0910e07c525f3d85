// Package flac reads and writes the tags of FLAC files: a Vorbis comment
// block plus picture blocks among the metadata blocks that precede the
// audio frames.
package flac

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
	"github.com/simonhull/audiotag/internal/vorbis"
)

// paddingSize is the payload size of the padding block that ends the
// metadata written by WriteTags.
const paddingSize = 1024

// vendor identifies this library in written Vorbis comments.
var vendor = "audiotag " + types.Version

// codec implements registry.Codec for FLAC.
type codec struct{}

// ReadTags decodes the Vorbis comment and picture blocks.
func (codec) ReadTags(src types.Source) (types.TagSet, error) {
	sr := binary.NewSafeReader(src.R, src.Size, src.Path)
	blocks, _, err := scanBlocks(sr)
	if err != nil {
		return types.TagSet{}, err
	}
	return decodeTags(sr, blocks, src.Log())
}

// decodeTags builds the tag set from the metadata blocks. Picture blocks
// take precedence over METADATA_BLOCK_PICTURE comments, wherever they
// appear.
func decodeTags(sr *binary.SafeReader, blocks []block, log *slog.Logger) (types.TagSet, error) {
	tags := types.EmptyTagSet()
	var covers types.CoverArbiter

	for _, b := range blocks {
		switch b.kind {
		case blockTypeVorbisComment:
			data, err := sr.Bytes(b.body(), int(b.length), "Vorbis comment block")
			if err != nil {
				return types.TagSet{}, err
			}
			tags, err = vorbis.Decode(data, sr.Path(), log)
			if err != nil {
				return types.TagSet{}, fmt.Errorf("Vorbis comment block at offset %d: %w", b.offset, err)
			}

		case blockTypePicture:
			data, err := sr.Bytes(b.body(), int(b.length), "picture block")
			if err != nil {
				return types.TagSet{}, err
			}
			pic, err := vorbis.DecodePicture(data, sr.Path())
			if err != nil {
				log.Debug("skipping malformed picture block", "path", sr.Path(), "offset", b.offset, "err", err)
				continue
			}
			covers.Offer(pic.Cover(), pic.Type)
		}
	}

	if covers.Seen() {
		tags.Cover = covers.Result()
	}
	return tags, nil
}

// WriteTags rewrites the metadata blocks and copies the audio frames.
//
// Output order: stream marker, the existing blocks other than Vorbis
// comment, picture and padding (with the last-block flag cleared), a new
// Vorbis comment block, a front-cover picture block when a cover is set,
// and a padding block marked last.
func (codec) WriteTags(w io.Writer, src types.Source, tags types.TagSet) error {
	sr := binary.NewSafeReader(src.R, src.Size, src.Path)
	blocks, audioStart, err := scanBlocks(sr)
	if err != nil {
		return err
	}
	old, err := decodeTags(sr, blocks, src.Log())
	if err != nil {
		return err
	}
	merged := types.Merge(old, tags)

	comments, err := vorbis.Encode(merged, vendor, false)
	if err != nil {
		return types.NewTagError(src.Path, 0, "encode Vorbis comment: %v", err)
	}
	if len(comments) > maxBlockSize {
		return types.NewTagError(src.Path, 0, "Vorbis comment block of %d bytes exceeds %d", len(comments), maxBlockSize)
	}

	var picture []byte
	if img, ok := merged.Cover.Get(); ok && !img.IsNone() {
		picture, err = vorbis.PictureFromCover(img).Encode()
		if err != nil {
			return types.NewTagError(src.Path, 0, "encode picture block: %v", err)
		}
		if len(picture) > maxBlockSize {
			return types.NewTagError(src.Path, 0, "picture block of %d bytes exceeds %d", len(picture), maxBlockSize)
		}
	}

	sw := binary.NewSafeWriter(w)
	sw.WriteString(magic)
	for _, b := range blocks {
		switch b.kind {
		case blockTypeVorbisComment, blockTypePicture, blockTypePadding:
			continue
		}
		sw.WriteBytes(putHeader(b.kind, false, int(b.length)))
		sw.CopyFrom(sr.Section(b.body(), b.length))
	}

	sw.WriteBytes(putHeader(blockTypeVorbisComment, false, len(comments)))
	sw.WriteBytes(comments)
	if picture != nil {
		sw.WriteBytes(putHeader(blockTypePicture, false, len(picture)))
		sw.WriteBytes(picture)
	}
	sw.WriteBytes(putHeader(blockTypePadding, true, paddingSize))
	sw.WriteBytes(make([]byte, paddingSize))

	sw.CopyFrom(sr.Section(audioStart, src.Size-audioStart))
	if err := sw.Err(); err != nil {
		return fmt.Errorf("write FLAC stream: %w", err)
	}
	return nil
}

func init() {
	registry.Register(types.FormatFLAC, codec{})
}
