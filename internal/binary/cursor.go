package binary

// Reader provides sequential reading with automatic offset tracking.
//
// A Reader is owned by the function that walks a structure and is passed
// down explicitly; nothing else moves its offset.
type Reader struct {
	*SafeReader
	offset int64
	endian Endianness
}

// NewReader creates a big-endian Reader starting at the given offset.
func NewReader(sr *SafeReader, offset int64) *Reader {
	return &Reader{SafeReader: sr, offset: offset}
}

// NewReaderLE creates a little-endian Reader starting at the given offset.
func NewReaderLE(sr *SafeReader, offset int64) *Reader {
	return &Reader{SafeReader: sr, offset: offset, endian: LittleEndian}
}

// ReadValue reads a numeric value in the reader's byte order and advances the offset.
func ReadValue[T Uint](r *Reader, what string) (T, error) {
	val, err := ReadEndian[T](r.SafeReader, r.offset, what, r.endian)
	if err != nil {
		var zero T
		return zero, err
	}
	r.offset += int64(sizeOf[T]())
	return val, nil
}

// ReadBytes reads n bytes and advances the offset.
func (r *Reader) ReadBytes(n int, what string) ([]byte, error) {
	buf, err := r.SafeReader.Bytes(r.offset, n, what)
	if err != nil {
		return nil, err
	}
	r.offset += int64(n)
	return buf, nil
}

// Skip advances the offset by n bytes.
func (r *Reader) Skip(n int64) {
	r.offset += n
}

// Offset returns the current offset.
func (r *Reader) Offset() int64 {
	return r.offset
}

// ChainReader allows chaining multiple reads with deferred error checking.
// After the first failure every further read is a no-op returning zero.
//
//	cr := binary.NewChainReader(binary.NewReader(sr, 0))
//	kind := binary.ReadChained[uint32](cr, "picture type")
//	mime := cr.String(int(binary.ReadChained[uint32](cr, "MIME length")), "MIME type")
//	if err := cr.Error(); err != nil {
//		return err
//	}
type ChainReader struct {
	*Reader
	err error
}

// NewChainReader creates a new ChainReader.
func NewChainReader(r *Reader) *ChainReader {
	return &ChainReader{Reader: r}
}

// ReadChained reads a value with deferred error checking.
func ReadChained[T Uint](cr *ChainReader, what string) T {
	if cr.err != nil {
		var zero T
		return zero
	}

	val, err := ReadValue[T](cr.Reader, what)
	if err != nil {
		cr.err = err
		var zero T
		return zero
	}

	return val
}

// String reads a string, accumulating any error.
func (cr *ChainReader) String(length int, what string) string {
	return string(cr.Bytes(length, what))
}

// Bytes reads n bytes, accumulating any error.
func (cr *ChainReader) Bytes(n int, what string) []byte {
	if cr.err != nil {
		return nil
	}

	val, err := cr.Reader.ReadBytes(n, what)
	if err != nil {
		cr.err = err
		return nil
	}

	return val
}

// Error returns the accumulated error, if any.
func (cr *ChainReader) Error() error {
	return cr.err
}
