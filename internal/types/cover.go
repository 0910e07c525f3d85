package types

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// ImageKind identifies the encoding of a CoverImage.
type ImageKind uint8

const (
	ImageNone ImageKind = iota
	ImagePNG
	ImageJPEG
)

func (k ImageKind) String() string {
	switch k {
	case ImagePNG:
		return "PNG"
	case ImageJPEG:
		return "JPEG"
	default:
		return "none"
	}
}

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
)

// CoverImage is embedded cover art.
//
// A CoverImage is either PNG or JPEG bytes, or None. None carries no data.
type CoverImage struct {
	data []byte
	kind ImageKind
}

// PNG wraps PNG-encoded bytes. Empty data yields None.
func PNG(data []byte) CoverImage {
	if len(data) == 0 {
		return NoCover()
	}
	return CoverImage{kind: ImagePNG, data: data}
}

// JPEG wraps JPEG-encoded bytes. Empty data yields None.
func JPEG(data []byte) CoverImage {
	if len(data) == 0 {
		return NoCover()
	}
	return CoverImage{kind: ImageJPEG, data: data}
}

// NoCover returns the empty image.
func NoCover() CoverImage {
	return CoverImage{}
}

// CoverFromMIME wraps data according to a MIME type or legacy format name
// ("image/jpeg", "jpg", "PNG", ...). Unknown types yield None.
func CoverFromMIME(mime string, data []byte) CoverImage {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(mime)), "image/") {
	case "jpeg", "jpg":
		return JPEG(data)
	case "png":
		return PNG(data)
	default:
		return NoCover()
	}
}

// SniffCover wraps data by looking at its leading magic bytes.
func SniffCover(data []byte) CoverImage {
	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return JPEG(data)
	case bytes.HasPrefix(data, pngMagic):
		return PNG(data)
	default:
		return NoCover()
	}
}

// FindImageStart scans data for a JPEG or PNG signature that directly
// follows a NUL byte, starting at from. It returns the index of the
// signature, or -1.
//
// Picture frames carry a description before the image whose terminator
// cannot be trusted, so the image boundary is found by looking for a
// known signature instead. A description that itself contains a NUL
// followed by a signature will be cut short.
func FindImageStart(data []byte, from int) int {
	if from < 1 {
		from = 1
	}
	for i := from; i+len(pngMagic) <= len(data); i++ {
		if data[i-1] != 0 {
			continue
		}
		if bytes.HasPrefix(data[i:], jpegMagic) || bytes.HasPrefix(data[i:], pngMagic) {
			return i
		}
	}
	return -1
}

// Kind returns the image encoding.
func (c CoverImage) Kind() ImageKind { return c.kind }

// Data returns the encoded image bytes (nil for None).
func (c CoverImage) Data() []byte { return c.data }

// IsNone reports whether the image is empty.
func (c CoverImage) IsNone() bool { return c.kind == ImageNone }

// MIME returns "image/png", "image/jpeg", or "" for None.
func (c CoverImage) MIME() string {
	switch c.kind {
	case ImagePNG:
		return "image/png"
	case ImageJPEG:
		return "image/jpeg"
	default:
		return ""
	}
}

// Equal reports whether two images have the same kind and bytes.
func (c CoverImage) Equal(other CoverImage) bool {
	return c.kind == other.kind && bytes.Equal(c.data, other.data)
}

// String returns a short description such as "JPEG 1200x1200, 245 kB".
func (c CoverImage) String() string {
	if c.kind == ImageNone {
		return "none"
	}
	size := humanize.Bytes(uint64(len(c.data)))
	if w, h, _ := c.Dimensions(); w > 0 && h > 0 {
		return fmt.Sprintf("%s %dx%d, %s", c.kind, w, h, size)
	}
	return fmt.Sprintf("%s, %s", c.kind, size)
}

func (c CoverImage) clone() CoverImage {
	if c.data == nil {
		return c
	}
	return CoverImage{kind: c.kind, data: bytes.Clone(c.data)}
}

// Dimensions returns width, height and bits per pixel read from the image
// header. All three are zero when the header cannot be understood.
func (c CoverImage) Dimensions() (width, height, depth uint32) {
	switch c.kind {
	case ImageJPEG:
		return jpegDimensions(c.data)
	case ImagePNG:
		return pngDimensions(c.data)
	default:
		return 0, 0, 0
	}
}

// jpegDimensions walks the marker segments up to the first start-of-frame.
func jpegDimensions(data []byte) (uint32, uint32, uint32) {
	if !bytes.HasPrefix(data, jpegMagic) {
		return 0, 0, 0
	}
	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			return 0, 0, 0
		}
		marker := data[pos+1]
		if marker == 0xFF {
			pos++
			continue
		}
		// Standalone markers carry no length.
		if marker == 0x01 || (marker >= 0xD0 && marker <= 0xD8) {
			pos += 2
			continue
		}
		length := int(binary.BigEndian.Uint16(data[pos+2:]))
		isSOF := marker >= 0xC0 && marker <= 0xCF && marker != 0xC4 && marker != 0xC8 && marker != 0xCC
		if isSOF {
			// length(2) precision(1) height(2) width(2) components(1)
			if pos+10 > len(data) {
				return 0, 0, 0
			}
			precision := uint32(data[pos+4])
			height := uint32(binary.BigEndian.Uint16(data[pos+5:]))
			width := uint32(binary.BigEndian.Uint16(data[pos+7:]))
			components := uint32(data[pos+9])
			return width, height, precision * components
		}
		pos += 2 + length
	}
	return 0, 0, 0
}

// pngDimensions reads the IHDR chunk that follows the 8-byte signature.
func pngDimensions(data []byte) (uint32, uint32, uint32) {
	if len(data) < 26 || !bytes.HasPrefix(data, pngMagic) || string(data[12:16]) != "IHDR" {
		return 0, 0, 0
	}
	width := binary.BigEndian.Uint32(data[16:20])
	height := binary.BigEndian.Uint32(data[20:24])
	bitDepth := uint32(data[24])

	var channels uint32
	switch data[25] {
	case 0, 3: // grayscale, indexed
		channels = 1
	case 4: // grayscale + alpha
		channels = 2
	case 2: // truecolor
		channels = 3
	case 6: // truecolor + alpha
		channels = 4
	}
	return width, height, bitDepth * channels
}
