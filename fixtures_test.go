package audiotag_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

var (
	testJPEG = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x02, 0xFF, 0xD9}

	// mp3Frames is a run of silent MPEG-1 Layer III frame headers.
	mp3Frames = bytes.Repeat(append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 28)...), 8)

	// flacFrames stands in for FLAC audio frames.
	flacFrames = bytes.Repeat([]byte{0xFF, 0xF8, 0x69, 0x18, 0x00, 0x00, 0xBF, 0x03}, 16)

	// m4aSamples is the mdat payload of the M4A fixture.
	m4aSamples = []byte("M4A-AUDIO-SAMPLES")
)

// createMP3 returns an untagged MP3 stream.
func createMP3() []byte {
	return bytes.Clone(mp3Frames)
}

// createFLAC returns a FLAC stream with only a STREAMINFO block.
func createFLAC() []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("fLaC")
	buf.Write([]byte{0x80, 0x00, 0x00, 34}) // STREAMINFO, last block
	streamInfo := make([]byte, 34)
	streamInfo[0], streamInfo[2] = 0x10, 0x10
	buf.Write(streamInfo)
	buf.Write(flacFrames)
	return buf.Bytes()
}

func atom(name string, children ...[]byte) []byte {
	body := bytes.Join(children, nil)
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint32(8+len(body)))
	buf.WriteString(name)
	buf.Write(body)
	return buf.Bytes()
}

// createM4A returns an untagged M4A with moov ahead of mdat and an stco
// table pointing at the samples.
func createM4A() []byte {
	ftyp := atom("ftyp", []byte("M4A \x00\x00\x02\x00M4A mp42"))
	moov := func(offset uint32) []byte {
		stco := atom("stco", []byte{0, 0, 0, 0, 0, 0, 0, 1}, binary.BigEndian.AppendUint32(nil, offset))
		stbl := atom("stbl", atom("stsd", make([]byte, 8)), stco)
		return atom("moov", atom("mvhd", make([]byte, 12)),
			atom("trak", atom("mdia", atom("minf", stbl))))
	}
	offset := uint32(len(ftyp) + len(moov(0)) + 8)
	return bytes.Join([][]byte{ftyp, moov(offset), atom("mdat", m4aSamples)}, nil)
}

// writeFixture stores data under name in a fresh temp directory.
func writeFixture(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// fixtures lists one untagged file per supported format.
var fixtures = []struct {
	name  string
	build func() []byte
}{
	{"song.mp3", createMP3},
	{"song.flac", createFLAC},
	{"song.m4a", createM4A},
}
