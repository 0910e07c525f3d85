package binary

import (
	"encoding/binary"
	"io"
)

// SafeWriter wraps io.Writer with position tracking and a sticky error.
//
// Once a write fails every later write is skipped, so encoders can emit a
// whole structure and check Err once at the end.
type SafeWriter struct {
	w      io.Writer
	err    error
	offset int64
}

// NewSafeWriter creates a new SafeWriter.
func NewSafeWriter(w io.Writer) *SafeWriter {
	return &SafeWriter{w: w}
}

// Offset returns the current position (number of bytes written).
func (sw *SafeWriter) Offset() int64 {
	return sw.offset
}

// Err returns the first write error, if any.
func (sw *SafeWriter) Err() error {
	return sw.err
}

// WriteBytes writes raw bytes to the underlying writer.
func (sw *SafeWriter) WriteBytes(b []byte) error {
	if sw.err != nil {
		return sw.err
	}
	n, err := sw.w.Write(b)
	sw.offset += int64(n)
	sw.err = err
	return err
}

// WriteString writes a string as bytes to the underlying writer.
func (sw *SafeWriter) WriteString(s string) error {
	return sw.WriteBytes([]byte(s))
}

// CopyFrom streams r to the underlying writer.
func (sw *SafeWriter) CopyFrom(r io.Reader) error {
	if sw.err != nil {
		return sw.err
	}
	n, err := io.Copy(sw.w, r)
	sw.offset += n
	sw.err = err
	return err
}

// Write writes a value of type T in big-endian byte order.
func Write[T Uint](sw *SafeWriter, val T) error {
	return sw.WriteBytes(encode(val, BigEndian))
}

// WriteLE writes a value of type T in little-endian byte order.
func WriteLE[T Uint](sw *SafeWriter, val T) error {
	return sw.WriteBytes(encode(val, LittleEndian))
}

func encode[T Uint](val T, endian Endianness) []byte {
	var order binary.ByteOrder = binary.BigEndian
	if endian == LittleEndian {
		order = binary.LittleEndian
	}
	buf := make([]byte, sizeOf[T]())
	switch len(buf) {
	case 1:
		buf[0] = byte(val)
	case 2:
		order.PutUint16(buf, uint16(val))
	case 4:
		order.PutUint32(buf, uint32(val))
	default:
		order.PutUint64(buf, uint64(val))
	}
	return buf
}
