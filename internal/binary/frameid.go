package binary

import "fmt"

// validFrameIDByte reports whether c may appear in an ID3v2 frame id.
func validFrameIDByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// DecodeFrameID decodes an ID3v2 frame id of 3 (v2.2) or 4 (v2.3+) bytes.
// Only A-Z and 0-9 are allowed.
func DecodeFrameID(b []byte) (string, error) {
	if len(b) != 3 && len(b) != 4 {
		return "", fmt.Errorf("frame id must be 3 or 4 bytes, got %d", len(b))
	}
	for _, c := range b {
		if !validFrameIDByte(c) {
			return "", fmt.Errorf("invalid frame id %q", b)
		}
	}
	return string(b), nil
}

// EncodeFrameID encodes id, which must be exactly width characters from A-Z and 0-9.
func EncodeFrameID(id string, width int) ([]byte, error) {
	if len(id) != width {
		return nil, fmt.Errorf("frame id %q must be %d characters", id, width)
	}
	for i := 0; i < len(id); i++ {
		if !validFrameIDByte(id[i]) {
			return nil, fmt.Errorf("invalid frame id %q", id)
		}
	}
	return []byte(id), nil
}
