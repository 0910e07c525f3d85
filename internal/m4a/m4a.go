package m4a

import (
	"io"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// codec implements registry.Codec for MP4 audio.
type codec struct{}

// ReadTags decodes the ilst atom. A file whose atom tree cannot be walked
// down to an ilst reads as untagged.
func (codec) ReadTags(src types.Source) (types.TagSet, error) {
	sr := binary.NewSafeReader(src.R, src.Size, src.Path)
	log := src.Log()

	ilst, ok, err := findPath(sr, "moov", "udta", "meta", "ilst")
	if err != nil {
		if !types.IsFormatError(err) {
			return types.TagSet{}, err
		}
		log.Debug("ending atom scan", "path", src.Path, "err", err)
		return types.EmptyTagSet(), nil
	}
	if !ok {
		return types.EmptyTagSet(), nil
	}

	contents, err := decodeIlst(sr, ilst, log)
	if err != nil {
		return types.TagSet{}, err
	}
	return contents.tags, nil
}

// WriteTags copies the file with a rebuilt ilst.
func (codec) WriteTags(w io.Writer, src types.Source, tags types.TagSet) error {
	sr := binary.NewSafeReader(src.R, src.Size, src.Path)
	return newRewriter(sr, src.Log(), tags).run(w)
}

func init() {
	registry.Register(types.FormatM4A, codec{})
}
