package binary

// Unsynchronize reverses ID3v2 unsynchronization by dropping every 0x00
// that directly follows a 0xFF.
func Unsynchronize(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == 0xFF && i+1 < len(b) && b[i+1] == 0x00 {
			i++
		}
	}
	return out
}
