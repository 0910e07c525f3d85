package binary

import (
	"bytes"
	"testing"
)

func TestUnsynchronize(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"empty", nil, []byte{}},
		{"untouched", []byte{0x01, 0xFF, 0xE0}, []byte{0x01, 0xFF, 0xE0}},
		{"stuffed", []byte{0xFF, 0x00, 0xE0}, []byte{0xFF, 0xE0}},
		{"stuffed zero", []byte{0xFF, 0x00, 0x00}, []byte{0xFF, 0x00}},
		{"consecutive", []byte{0xFF, 0x00, 0xFF, 0x00}, []byte{0xFF, 0xFF}},
		{"trailing ff", []byte{0x10, 0xFF}, []byte{0x10, 0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unsynchronize(tt.in); !bytes.Equal(got, tt.want) {
				t.Errorf("Unsynchronize(%x) = %x, want %x", tt.in, got, tt.want)
			}
		})
	}
}
