// Package m4a reads and writes iTunes-style tags in MP4 audio files.
//
// Tags live in the ilst atom under moov > udta > meta. Writing rebuilds
// ilst in place, patches the sizes of its ancestors and shifts the chunk
// offset tables so they keep pointing at the same audio samples.
package m4a

import (
	"math"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// Atom is one MP4 atom (box) header.
type Atom struct {
	Type   string // 4-character type code
	Offset int64  // Position in file
	Size   int64  // Total size including header
	Header int64  // Header length: 8, or 16 with a 64-bit size
	ToEOF  bool   // Declared size 0: the atom runs to the end of its parent
}

// End returns the offset just past the atom.
func (a Atom) End() int64 { return a.Offset + a.Size }

// DataOffset returns the file offset where the atom's data starts.
func (a Atom) DataOffset() int64 { return a.Offset + a.Header }

// DataSize returns the size of the atom's data (excluding header).
func (a Atom) DataSize() int64 { return a.Size - a.Header }

// ChildOffset returns where the first child atom starts. meta is a full
// box and carries 4 bytes of version and flags before its children.
func (a Atom) ChildOffset() int64 {
	if a.Type == "meta" {
		return a.DataOffset() + 4
	}
	return a.DataOffset()
}

// readAtomHeader reads the atom header at offset. limit is the end of the
// enclosing atom (or the file); an atom may not extend past it.
func readAtomHeader(sr *binary.SafeReader, offset, limit int64) (Atom, error) {
	if limit-offset < 8 {
		return Atom{}, types.NewTagError(sr.Path(), offset, "truncated atom header")
	}
	size32, err := binary.Read[uint32](sr, offset, "atom size")
	if err != nil {
		return Atom{}, err
	}
	name, err := sr.Bytes(offset+4, 4, "atom type")
	if err != nil {
		return Atom{}, err
	}

	a := Atom{Type: string(name), Offset: offset, Header: 8}
	switch {
	case size32 == 0:
		a.Size = limit - offset
		a.ToEOF = true
	case size32 == 1:
		size64, err := binary.Read[uint64](sr, offset+8, "extended atom size")
		if err != nil {
			return Atom{}, err
		}
		if size64 < 16 || size64 > math.MaxInt64 {
			return Atom{}, types.NewTagError(sr.Path(), offset, "invalid extended size %d for atom %q", size64, a.Type)
		}
		a.Size = int64(size64)
		a.Header = 16
	case size32 < 8:
		return Atom{}, types.NewTagError(sr.Path(), offset, "invalid size %d for atom %q", size32, a.Type)
	default:
		a.Size = int64(size32)
	}

	if a.End() > limit {
		return Atom{}, types.NewTagError(sr.Path(), offset, "atom %q of %d bytes exceeds its parent", a.Type, a.Size)
	}
	return a, nil
}

// findAtom returns the first atom of the given type within [start, end).
// The boolean is false when the range holds no such atom.
func findAtom(sr *binary.SafeReader, start, end int64, atomType string) (Atom, bool, error) {
	for offset := start; offset < end; {
		a, err := readAtomHeader(sr, offset, end)
		if err != nil {
			return Atom{}, false, err
		}
		if a.Type == atomType {
			return a, true, nil
		}
		offset = a.End()
	}
	return Atom{}, false, nil
}

// findPath descends through the named atoms starting at the top level of
// the file.
func findPath(sr *binary.SafeReader, path ...string) (Atom, bool, error) {
	start, end := int64(0), sr.Size()
	var a Atom
	for _, name := range path {
		var ok bool
		var err error
		a, ok, err = findAtom(sr, start, end, name)
		if err != nil || !ok {
			return Atom{}, false, err
		}
		start, end = a.ChildOffset(), a.End()
	}
	return a, true, nil
}

// walkContainers lists the atoms Walk descends into.
var walkContainers = map[string]bool{
	"moov": true, // Movie container
	"trak": true, // Track container
	"edts": true, // Edit list container
	"mdia": true, // Media container
	"minf": true, // Media information
	"dinf": true, // Data information
	"stbl": true, // Sample table
	"udta": true, // User data
	"meta": true, // Metadata container
	"ilst": true, // iTunes metadata list
}

// Walk visits every atom depth first, calling fn with the atom and its
// nesting depth. It stops at the first malformed header or error from fn.
func Walk(sr *binary.SafeReader, fn func(a Atom, depth int) error) error {
	return walk(sr, 0, sr.Size(), 0, fn)
}

func walk(sr *binary.SafeReader, start, end int64, depth int, fn func(Atom, int) error) error {
	for offset := start; offset < end; {
		a, err := readAtomHeader(sr, offset, end)
		if err != nil {
			return err
		}
		if err := fn(a, depth); err != nil {
			return err
		}
		if walkContainers[a.Type] {
			if err := walk(sr, a.ChildOffset(), a.End(), depth+1, fn); err != nil {
				return err
			}
		}
		offset = a.End()
	}
	return nil
}
