package binary

import "encoding/binary"

// Endianness represents byte order for multi-byte values.
type Endianness int

const (
	// BigEndian is used by MP4 atoms, ID3v2 and FLAC block headers.
	BigEndian Endianness = iota

	// LittleEndian is used by Vorbis comment vectors.
	LittleEndian
)

// Uint is the set of unsigned integers the readers and writers handle.
type Uint interface {
	uint8 | uint16 | uint32 | uint64
}

func sizeOf[T Uint]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

func decode[T Uint](buf []byte, endian Endianness) T {
	var order binary.ByteOrder = binary.BigEndian
	if endian == LittleEndian {
		order = binary.LittleEndian
	}
	switch len(buf) {
	case 1:
		return T(buf[0])
	case 2:
		return T(order.Uint16(buf))
	case 4:
		return T(order.Uint32(buf))
	default:
		return T(order.Uint64(buf))
	}
}

// Read reads a big-endian value of type T at the given offset.
//
// Example:
//
//	atomSize, err := binary.Read[uint32](sr, offset, "atom size")
func Read[T Uint](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, BigEndian)
}

// ReadLE reads a little-endian value of type T at the given offset.
//
// Example:
//
//	length, err := binary.ReadLE[uint32](sr, offset, "vendor length")
func ReadLE[T Uint](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, LittleEndian)
}

// ReadEndian reads a value of type T at the given offset with the given byte order.
func ReadEndian[T Uint](sr *SafeReader, off int64, what string, endian Endianness) (T, error) {
	buf := make([]byte, sizeOf[T]())
	if err := sr.ReadAt(buf, off, what); err != nil {
		var zero T
		return zero, err
	}
	return decode[T](buf, endian), nil
}

// Uint24 decodes a 3-byte big-endian value, as used by ID3v2.2 frame sizes
// and FLAC block lengths.
func Uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// PutUint24 encodes the low 24 bits of v big-endian into b.
func PutUint24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}
