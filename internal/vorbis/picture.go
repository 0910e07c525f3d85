package vorbis

import (
	"bytes"
	"fmt"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// Picture is a FLAC picture block. The same structure, base64-encoded, is
// the value of a METADATA_BLOCK_PICTURE comment.
//
// Layout (all integers 32-bit big-endian):
//
//	type, MIME length, MIME, description length, description,
//	width, height, color depth, indexed colors, data length, data
type Picture struct {
	MIME        string
	Description string
	Data        []byte
	Type        types.PictureType
	Width       uint32
	Height      uint32
	Depth       uint32
	Colors      uint32
}

// DecodePicture parses a picture block. path is used in error messages.
func DecodePicture(block []byte, path string) (Picture, error) {
	cr := binary.NewChainReader(binary.NewReader(binary.FromBytes(block, path), 0))

	var p Picture
	typ := binary.ReadChained[uint32](cr, "picture type")
	p.MIME = cr.String(int(binary.ReadChained[uint32](cr, "MIME type length")), "MIME type")
	p.Description = cr.String(int(binary.ReadChained[uint32](cr, "description length")), "picture description")
	p.Width = binary.ReadChained[uint32](cr, "picture width")
	p.Height = binary.ReadChained[uint32](cr, "picture height")
	p.Depth = binary.ReadChained[uint32](cr, "picture color depth")
	p.Colors = binary.ReadChained[uint32](cr, "picture indexed colors")
	p.Data = cr.Bytes(int(binary.ReadChained[uint32](cr, "picture data length")), "picture data")
	if err := cr.Error(); err != nil {
		return Picture{}, err
	}

	if typ > 0xFF {
		return Picture{}, types.NewTagError(path, 0, "invalid picture type %d", typ)
	}
	p.Type = types.PictureType(typ)
	return p, nil
}

// Cover returns the picture as a CoverImage. Pictures that are not JPEG
// or PNG yield None.
func (p Picture) Cover() types.CoverImage {
	return types.CoverFromMIME(p.MIME, p.Data)
}

// PictureFromCover builds a front-cover picture block for img. Dimensions
// are read from the image header and left zero when unknown.
func PictureFromCover(img types.CoverImage) Picture {
	w, h, depth := img.Dimensions()
	return Picture{
		Type:   types.PictureFrontCover,
		MIME:   img.MIME(),
		Data:   img.Data(),
		Width:  w,
		Height: h,
		Depth:  depth,
	}
}

// Encode serializes the picture block.
func (p Picture) Encode() ([]byte, error) {
	if uint64(len(p.Data)) > 0xFFFFFFFF {
		return nil, fmt.Errorf("picture of %d bytes is too large", len(p.Data))
	}
	var buf bytes.Buffer
	sw := binary.NewSafeWriter(&buf)
	binary.Write(sw, uint32(p.Type))
	binary.Write(sw, uint32(len(p.MIME)))
	sw.WriteString(p.MIME)
	binary.Write(sw, uint32(len(p.Description)))
	sw.WriteString(p.Description)
	binary.Write(sw, p.Width)
	binary.Write(sw, p.Height)
	binary.Write(sw, p.Depth)
	binary.Write(sw, p.Colors)
	binary.Write(sw, uint32(len(p.Data)))
	sw.WriteBytes(p.Data)
	return buf.Bytes(), sw.Err()
}
