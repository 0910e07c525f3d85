package id3v2

import (
	"bytes"
	"strings"

	"github.com/simonhull/audiotag/internal/types"
)

// decodeAPIC decodes an ID3v2.3/2.4 attached picture:
//
//	[1 byte]          text encoding
//	[NUL-terminated]  MIME type (Latin-1)
//	[1 byte]          picture type
//	[terminated]      description in the text encoding
//	[remaining]       picture data
//
// Only JPEG and PNG pictures are kept. The description terminator is not
// trusted: the image is located with types.FindImageStart.
func decodeAPIC(payload []byte) (types.CoverImage, types.PictureType, bool) {
	if len(payload) < 4 {
		return types.NoCover(), 0, false
	}
	mimeEnd := bytes.IndexByte(payload[1:], 0)
	if mimeEnd < 0 {
		return types.NoCover(), 0, false
	}
	mime := string(payload[1 : 1+mimeEnd])
	if mime != "" && types.CoverFromMIME(mime, nil).IsNone() {
		return types.NoCover(), 0, false
	}

	typeIdx := 1 + mimeEnd + 1
	if typeIdx >= len(payload) {
		return types.NoCover(), 0, false
	}
	return locateImage(payload, typeIdx)
}

// decodePIC decodes an ID3v2.2 picture, which carries a 3-character image
// format ("JPG", "PNG") instead of a MIME type.
func decodePIC(payload []byte) (types.CoverImage, types.PictureType, bool) {
	if len(payload) < 6 {
		return types.NoCover(), 0, false
	}
	switch strings.ToUpper(string(payload[1:4])) {
	case "JPG", "PNG":
	default:
		return types.NoCover(), 0, false
	}
	return locateImage(payload, 4)
}

// locateImage finds the image that follows the picture type byte at typeIdx.
func locateImage(payload []byte, typeIdx int) (types.CoverImage, types.PictureType, bool) {
	typ := types.PictureType(payload[typeIdx])
	start := types.FindImageStart(payload, typeIdx+2)
	if start < 0 {
		return types.NoCover(), typ, false
	}
	img := types.SniffCover(payload[start:])
	return img, typ, !img.IsNone()
}
