package binary

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

type limitedWriter struct {
	n int
}

var errFull = errors.New("writer full")

func (l *limitedWriter) Write(p []byte) (int, error) {
	if len(p) > l.n {
		n := l.n
		l.n = 0
		return n, errFull
	}
	l.n -= len(p)
	return len(p), nil
}

func TestSafeWriter_Encodings(t *testing.T) {
	tests := []struct {
		name  string
		write func(sw *SafeWriter) error
		want  []byte
	}{
		{"uint8", func(sw *SafeWriter) error { return Write[uint8](sw, 0xAB) }, []byte{0xAB}},
		{"uint16 BE", func(sw *SafeWriter) error { return Write[uint16](sw, 0x0102) }, []byte{0x01, 0x02}},
		{"uint32 BE", func(sw *SafeWriter) error { return Write[uint32](sw, 0x12345678) }, []byte{0x12, 0x34, 0x56, 0x78}},
		{"uint64 BE", func(sw *SafeWriter) error { return Write[uint64](sw, 1) }, []byte{0, 0, 0, 0, 0, 0, 0, 1}},
		{"uint32 LE", func(sw *SafeWriter) error { return WriteLE[uint32](sw, 0x12345678) }, []byte{0x78, 0x56, 0x34, 0x12}},
		{"string", func(sw *SafeWriter) error { return sw.WriteString("fLaC") }, []byte("fLaC")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			sw := NewSafeWriter(buf)
			if err := tt.write(sw); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(buf.Bytes(), tt.want) {
				t.Errorf("wrote %x, want %x", buf.Bytes(), tt.want)
			}
			if sw.Offset() != int64(len(tt.want)) {
				t.Errorf("Offset() = %d, want %d", sw.Offset(), len(tt.want))
			}
		})
	}
}

func TestSafeWriter_StickyError(t *testing.T) {
	lw := &limitedWriter{n: 3}
	sw := NewSafeWriter(lw)

	if err := sw.WriteBytes([]byte{1, 2}); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := Write[uint32](sw, 7); !errors.Is(err, errFull) {
		t.Fatalf("second write error = %v, want %v", err, errFull)
	}
	if err := sw.CopyFrom(strings.NewReader("more")); !errors.Is(err, errFull) {
		t.Errorf("write after failure error = %v, want %v", err, errFull)
	}
	if sw.Offset() != 3 {
		t.Errorf("Offset() = %d, want 3", sw.Offset())
	}
	if !errors.Is(sw.Err(), errFull) {
		t.Errorf("Err() = %v", sw.Err())
	}
}

func TestSafeWriter_CopyFrom(t *testing.T) {
	buf := &bytes.Buffer{}
	sw := NewSafeWriter(buf)
	_ = sw.WriteString("ab")
	if err := sw.CopyFrom(strings.NewReader("cdef")); err != nil {
		t.Fatalf("CopyFrom() error: %v", err)
	}
	if buf.String() != "abcdef" || sw.Offset() != 6 {
		t.Errorf("got %q at offset %d", buf.String(), sw.Offset())
	}
}
