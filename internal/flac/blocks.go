package flac

import (
	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// Metadata block types
const (
	blockTypeStreamInfo    = 0
	blockTypePadding       = 1
	blockTypeApplication   = 2
	blockTypeSeekTable     = 3
	blockTypeVorbisComment = 4
	blockTypeCueSheet      = 5
	blockTypePicture       = 6
	blockTypeInvalid       = 127
)

const (
	magic         = "fLaC"
	headerSize    = 4
	maxBlockSize  = 0xFFFFFF
	lastBlockFlag = 0x80
)

// block is one metadata block header.
type block struct {
	offset int64 // of the 4-byte header
	length int64
	kind   byte
	last   bool
}

// body returns the offset of the block payload.
func (b block) body() int64 { return b.offset + headerSize }

// end returns the offset just past the block.
func (b block) end() int64 { return b.body() + b.length }

// scanBlocks walks the metadata blocks that follow the stream marker and
// returns them with the offset of the first audio frame.
func scanBlocks(sr *binary.SafeReader) ([]block, int64, error) {
	m := make([]byte, len(magic))
	if err := sr.ReadAt(m, 0, "FLAC stream marker"); err != nil {
		return nil, 0, err
	}
	if string(m) != magic {
		return nil, 0, types.NewTagError(sr.Path(), 0, "FLAC stream marker not found")
	}

	var blocks []block
	offset := int64(len(magic))
	for {
		header, err := binary.Read[uint32](sr, offset, "metadata block header")
		if err != nil {
			return nil, 0, err
		}
		b := block{
			offset: offset,
			kind:   byte(header>>24) &^ lastBlockFlag,
			last:   header>>31 == 1,
			length: int64(header & maxBlockSize),
		}
		if b.kind == blockTypeInvalid {
			return nil, 0, types.NewTagError(sr.Path(), offset, "invalid metadata block type 127")
		}
		if b.end() > sr.Size() {
			return nil, 0, types.NewTagError(sr.Path(), offset, "metadata block of %d bytes exceeds file", b.length)
		}
		blocks = append(blocks, b)
		offset = b.end()
		if b.last {
			return blocks, offset, nil
		}
	}
}

// putHeader encodes a block header.
func putHeader(kind byte, last bool, length int) []byte {
	h := []byte{kind, 0, 0, 0}
	if last {
		h[0] |= lastBlockFlag
	}
	binary.PutUint24(h[1:], uint32(length))
	return h
}
