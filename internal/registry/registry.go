// Package registry maps file formats to their tag codecs.
package registry

import (
	"io"
	"slices"

	"github.com/simonhull/audiotag/internal/types"
)

// Codec reads and rewrites the tags of one file format.
type Codec interface {
	// ReadTags decodes the tags of src. Fields the file does not carry are
	// Absent; the result never contains Unspecified fields.
	ReadTags(src types.Source) (types.TagSet, error)

	// WriteTags streams a copy of src to w with its tags replaced by the
	// merge of the existing tags and tags. src is never modified.
	WriteTags(w io.Writer, src types.Source, tags types.TagSet) error
}

// codecs maps formats to their codecs.
var codecs = make(map[types.Format]Codec)

// Register registers a codec for a format.
// This is called by format packages during initialization (init functions).
func Register(format types.Format, codec Codec) {
	codecs[format] = codec
}

// Get returns the codec for a given format.
// Returns nil if no codec is registered for the format.
func Get(format types.Format) Codec {
	return codecs[format]
}

// Formats returns the registered formats in ascending order.
func Formats() []types.Format {
	out := make([]types.Format, 0, len(codecs))
	for f := range codecs {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}
