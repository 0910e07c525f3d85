package binary

import (
	"errors"
	"fmt"
)

var (
	// ErrSynchsafeLength is returned for synchsafe fields that are not 4 or 5 bytes.
	ErrSynchsafeLength = errors.New("synchsafe integer must be 4 or 5 bytes")
	// ErrSynchsafeRange is returned when a value does not fit the requested width.
	ErrSynchsafeRange = errors.New("value too large for synchsafe integer")
)

// DecodeSynchsafe decodes a 4- or 5-byte synchsafe integer: big-endian with
// only the low 7 bits of each byte used. A byte with its high bit set is
// rejected.
func DecodeSynchsafe(b []byte) (uint32, error) {
	if len(b) != 4 && len(b) != 5 {
		return 0, ErrSynchsafeLength
	}
	var n uint64
	for i, c := range b {
		if c&0x80 != 0 {
			return 0, fmt.Errorf("invalid synchsafe byte 0x%02X at index %d", c, i)
		}
		n = n<<7 | uint64(c)
	}
	if n > 0xFFFFFFFF {
		return 0, ErrSynchsafeRange
	}
	return uint32(n), nil
}

// EncodeSynchsafe encodes n as a synchsafe integer. Values below 2^28 take
// 4 bytes. Larger values need extended set, which selects the 5-byte form.
func EncodeSynchsafe(n uint32, extended bool) ([]byte, error) {
	width := 4
	if extended {
		width = 5
	} else if n >= 1<<28 {
		return nil, ErrSynchsafeRange
	}
	b := make([]byte, width)
	v := uint64(n)
	for i := width - 1; i >= 0; i-- {
		b[i] = byte(v & 0x7F)
		v >>= 7
	}
	return b, nil
}
