package m4a

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	audiobinary "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// createMockAtom creates a test atom with given type and data.
func createMockAtom(atomType string, data ...[]byte) []byte {
	body := bytes.Join(data, nil)
	buf := &bytes.Buffer{}

	// Write size (8 byte header + data length)
	binary.Write(buf, binary.BigEndian, uint32(8+len(body)))
	buf.WriteString(atomType)
	buf.Write(body)

	return buf.Bytes()
}

func newReader(data []byte) *audiobinary.SafeReader {
	return audiobinary.FromBytes(data, "test.m4a")
}

func TestReadAtomHeader_Success(t *testing.T) {
	data := createMockAtom("moov", []byte{0x01, 0x02, 0x03, 0x04})

	atom, err := readAtomHeader(newReader(data), 0, int64(len(data)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if atom.Size != 12 {
		t.Errorf("expected size 12, got %d", atom.Size)
	}
	if atom.Type != "moov" {
		t.Errorf("expected type 'moov', got %s", atom.Type)
	}
	if atom.DataSize() != 4 {
		t.Errorf("expected data size 4, got %d", atom.DataSize())
	}
	if atom.DataOffset() != 8 {
		t.Errorf("expected data offset 8, got %d", atom.DataOffset())
	}
}

func TestReadAtomHeader_Extended(t *testing.T) {
	buf := &bytes.Buffer{}

	// Extended size atom: size=1, then 64-bit size
	binary.Write(buf, binary.BigEndian, uint32(1))
	buf.WriteString("mdat")
	binary.Write(buf, binary.BigEndian, uint64(24))
	buf.Write(make([]byte, 8))

	data := buf.Bytes()
	atom, err := readAtomHeader(newReader(data), 0, int64(len(data)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if atom.Size != 24 {
		t.Errorf("expected size 24, got %d", atom.Size)
	}
	if atom.Header != 16 {
		t.Errorf("expected 16-byte header, got %d", atom.Header)
	}
	if atom.DataOffset() != 16 {
		t.Errorf("expected data offset 16, got %d", atom.DataOffset())
	}
}

func TestReadAtomHeader_SizeZeroRunsToLimit(t *testing.T) {
	data := append(createMockAtom("free"), []byte{0, 0, 0, 0, 'm', 'd', 'a', 't', 1, 2, 3, 4, 5}...)

	atom, err := readAtomHeader(newReader(data), 8, int64(len(data)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !atom.ToEOF {
		t.Error("expected ToEOF")
	}
	if atom.Size != 13 || atom.End() != int64(len(data)) {
		t.Errorf("expected atom to run to end of file, got size %d", atom.Size)
	}
}

func TestReadAtomHeader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		limit int64
	}{
		{"size 2", []byte{0, 0, 0, 2, 'f', 'r', 'e', 'e'}, 8},
		{"size 7", []byte{0, 0, 0, 7, 'f', 'r', 'e', 'e'}, 8},
		{"exceeds parent", createMockAtom("free", make([]byte, 8)), 12},
		{"truncated header", []byte{0, 0, 0, 8, 'f'}, 5},
		{"extended size too small", []byte{0, 0, 0, 1, 'm', 'd', 'a', 't', 0, 0, 0, 0, 0, 0, 0, 8}, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readAtomHeader(newReader(tt.data), 0, tt.limit)
			if err == nil {
				t.Fatal("expected error")
			}
			var tagErr *types.TagError
			if !errors.As(err, &tagErr) {
				t.Errorf("expected TagError, got %T: %v", err, err)
			}
		})
	}
}

func TestFindAtom_Found(t *testing.T) {
	data := append(createMockAtom("ftyp", []byte("M4A ")), createMockAtom("moov", []byte{0x01})...)

	atom, ok, err := findAtom(newReader(data), 0, int64(len(data)), "moov")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected moov to be found")
	}
	if atom.Offset != 12 {
		t.Errorf("expected offset 12, got %d", atom.Offset)
	}
}

func TestFindAtom_NotFound(t *testing.T) {
	data := createMockAtom("ftyp", []byte("M4A "))

	_, ok, err := findAtom(newReader(data), 0, int64(len(data)), "moov")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected moov not to be found")
	}
}

func TestFindPath_SkipsMetaVersion(t *testing.T) {
	ilst := createMockAtom("ilst")
	meta := createMockAtom("meta", []byte{0, 0, 0, 0}, ilst)
	data := createMockAtom("moov", createMockAtom("udta", meta))

	atom, ok, err := findPath(newReader(data), "moov", "udta", "meta", "ilst")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected ilst to be found")
	}
	if want := int64(8 + 8 + 8 + 4); atom.Offset != want {
		t.Errorf("expected offset %d, got %d", want, atom.Offset)
	}
}

func TestWalk(t *testing.T) {
	data := bytes.Join([][]byte{
		createMockAtom("ftyp", []byte("M4A ")),
		createMockAtom("moov",
			createMockAtom("mvhd", make([]byte, 4)),
			createMockAtom("udta", createMockAtom("meta", []byte{0, 0, 0, 0}, createMockAtom("ilst")))),
		createMockAtom("mdat", []byte{1, 2, 3}),
	}, nil)

	var got []string
	err := Walk(newReader(data), func(a Atom, depth int) error {
		got = append(got, strings.Repeat(" ", depth)+a.Type)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"ftyp", "moov", " mvhd", " udta", "  meta", "   ilst", "mdat"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %q, got %q", want, got)
	}
}
