package id3v2

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Text encodings used by the leading byte of text, comment and picture frames.
const (
	encodingLatin1  byte = 0
	encodingUTF16   byte = 1 // with byte order mark
	encodingUTF16BE byte = 2 // ID3v2.4 only
	encodingUTF8    byte = 3 // ID3v2.4 only
)

func decoderFor(enc byte) *encoding.Decoder {
	switch enc {
	case encodingLatin1:
		return charmap.ISO8859_1.NewDecoder()
	case encodingUTF16:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	case encodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	default:
		return nil
	}
}

// decodeString converts raw frame text to UTF-8 without any cleanup.
func decodeString(data []byte, enc byte) string {
	if len(data) == 0 {
		return ""
	}
	if enc == encodingUTF16 || enc == encodingUTF16BE {
		data = data[:len(data)&^1]
		if enc == encodingUTF16 && !hasBOM(data) {
			// Some writers leave out the byte order mark; assume big-endian.
			enc = encodingUTF16BE
		}
	}
	dec := decoderFor(enc)
	if dec == nil {
		return string(data)
	}
	out, err := dec.Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(out)
}

func hasBOM(b []byte) bool {
	return len(b) >= 2 && ((b[0] == 0xFF && b[1] == 0xFE) || (b[0] == 0xFE && b[1] == 0xFF))
}

// decodeText decodes a text frame value. Trailing terminators are dropped
// and the NUL separators between multiple values become " / ".
func decodeText(data []byte, enc byte) string {
	s := decodeString(data, enc)
	s = strings.ReplaceAll(s, "\uFEFF", "")
	s = strings.TrimRight(s, "\x00")
	return strings.ReplaceAll(s, "\x00", " / ")
}

// findNullTerminator returns the index of the first string terminator for
// the encoding, or -1.
func findNullTerminator(data []byte, enc byte) int {
	switch enc {
	case encodingUTF16, encodingUTF16BE:
		for i := 0; i+1 < len(data); i += 2 {
			if data[i] == 0 && data[i+1] == 0 {
				return i
			}
		}
		return -1
	default:
		return bytes.IndexByte(data, 0)
	}
}

// terminatorSize returns the size of a string terminator for the encoding.
func terminatorSize(enc byte) int {
	if enc == encodingUTF16 || enc == encodingUTF16BE {
		return 2
	}
	return 1
}
