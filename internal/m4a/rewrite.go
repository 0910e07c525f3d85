package m4a

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// Atom paths, joined with dots, that the rewriter descends into. Everything
// else inside moov is copied verbatim.
var rewriteContainers = map[string]bool{
	"moov.trak":                true,
	"moov.trak.mdia":           true,
	"moov.trak.mdia.minf":      true,
	"moov.trak.mdia.minf.stbl": true,
	"moov.udta":                true,
	"moov.udta.meta":           true,
}

const ilstPath = "moov.udta.meta.ilst"

// openAtom is a container whose children are still being copied.
type openAtom struct {
	atom   Atom
	path   string
	sizeAt int // offset of the size field in the output buffer
}

// chunkTable is a copied stco or co64 atom whose entries may need shifting.
type chunkTable struct {
	atom  Atom
	at    int // offset of the first entry in the output buffer
	count int
	wide  bool
}

// rewriter copies an MP4 file, replacing the ilst atom.
//
// Top-level atoms other than moov are streamed from the source. moov is
// rebuilt in memory: its children are copied one by one with a stack of
// open ancestors, so that when ilst changes size every enclosing size
// field can be patched. Chunk offset tables are patched once moov is
// complete and the total size change is known.
type rewriter struct {
	sr     *binutil.SafeReader
	log    *slog.Logger
	update types.TagSet

	out      bytes.Buffer
	stack    []openAtom
	tables   []chunkTable
	ilstDone bool
}

func newRewriter(sr *binutil.SafeReader, log *slog.Logger, update types.TagSet) *rewriter {
	return &rewriter{sr: sr, log: log, update: update}
}

// run writes the rewritten file to w.
func (rw *rewriter) run(w io.Writer) error {
	sw := binutil.NewSafeWriter(w)
	moovDone := false

	for offset := int64(0); offset < rw.sr.Size(); {
		a, err := readAtomHeader(rw.sr, offset, rw.sr.Size())
		if err != nil {
			return err
		}

		switch a.Type {
		case "moov":
			if moovDone {
				return types.NewTagError(rw.sr.Path(), a.Offset, "more than one moov atom")
			}
			if err := rw.rewriteMoov(a); err != nil {
				return err
			}
			sw.WriteBytes(rw.out.Bytes())
			moovDone = true

		case "mdat":
			// Samples stored after moov move with it; without a chunk
			// offset table their new position cannot be recorded.
			if moovDone && len(rw.tables) == 0 {
				return types.NewTagError(rw.sr.Path(), a.Offset, "could not find stco atom")
			}
			sw.CopyFrom(rw.sr.Section(a.Offset, a.Size))

		default:
			sw.CopyFrom(rw.sr.Section(a.Offset, a.Size))
		}

		if err := sw.Err(); err != nil {
			return fmt.Errorf("write atom %q: %w", a.Type, err)
		}
		offset = a.End()
	}

	if !moovDone {
		return types.NewTagError(rw.sr.Path(), 0, "no moov atom")
	}
	return nil
}

// rewriteMoov rebuilds moov into rw.out and shifts the chunk offsets that
// point past it.
func (rw *rewriter) rewriteMoov(moov Atom) error {
	rw.out.Reset()
	if err := rw.container(moov, "moov"); err != nil {
		return err
	}
	return rw.patchTables(moov, int64(rw.out.Len())-moov.Size)
}

// container copies a container atom and its children.
func (rw *rewriter) container(a Atom, path string) error {
	if a.ChildOffset() > a.End() {
		return types.NewTagError(rw.sr.Path(), a.Offset, "%s atom too small", a.Type)
	}
	head, err := rw.sr.Bytes(a.Offset, int(a.ChildOffset()-a.Offset), "atom header")
	if err != nil {
		return err
	}
	rw.stack = append(rw.stack, openAtom{atom: a, path: path, sizeAt: rw.out.Len()})
	rw.out.Write(head)

	for offset := a.ChildOffset(); offset < a.End(); {
		child, err := readAtomHeader(rw.sr, offset, a.End())
		if err != nil {
			return err
		}
		childPath := path + "." + child.Type

		switch {
		case rewriteContainers[childPath]:
			err = rw.container(child, childPath)
		case childPath == ilstPath && !rw.ilstDone:
			err = rw.replaceIlst(child)
		case childPath == ilstPath:
			rw.log.Debug("dropping duplicate ilst", "path", rw.sr.Path(), "offset", child.Offset)
			err = rw.grow(-child.Size)
		case path == "moov.trak.mdia.minf.stbl" && (child.Type == "stco" || child.Type == "co64"):
			err = rw.chunkTable(child)
		default:
			err = rw.copyAtom(child)
		}
		if err != nil {
			return err
		}
		offset = child.End()
	}

	if err := rw.synthesize(path); err != nil {
		return err
	}
	rw.stack = rw.stack[:len(rw.stack)-1]
	return nil
}

func (rw *rewriter) copyAtom(a Atom) error {
	raw, err := rw.sr.Bytes(a.Offset, int(a.Size), "atom "+a.Type)
	if err != nil {
		return err
	}
	rw.out.Write(raw)
	return nil
}

// replaceIlst writes the merged tags in place of the existing ilst.
func (rw *rewriter) replaceIlst(a Atom) error {
	old, err := decodeIlst(rw.sr, a, rw.log)
	if err != nil {
		return err
	}
	body := encodeItems(types.Merge(old.tags, rw.update))
	for _, item := range old.unknown {
		raw, err := rw.sr.Bytes(item.Offset, int(item.Size), "ilst item")
		if err != nil {
			return err
		}
		body = append(body, raw...)
	}

	before := rw.out.Len()
	writeAtom(&rw.out, "ilst", body)
	rw.ilstDone = true
	return rw.grow(int64(rw.out.Len()-before) - a.Size)
}

// synthesize appends whatever part of the udta > meta > ilst chain is
// missing when the container at path closes without an ilst.
func (rw *rewriter) synthesize(path string) error {
	if rw.ilstDone {
		return nil
	}

	var chain bytes.Buffer
	ilst := encodeItems(types.Merge(types.EmptyTagSet(), rw.update))
	switch path {
	case "moov.udta.meta":
		writeAtom(&chain, "ilst", ilst)
	case "moov.udta":
		writeAtom(&chain, "meta", metaBody(ilst))
	case "moov":
		var udta bytes.Buffer
		writeAtom(&udta, "meta", metaBody(ilst))
		writeAtom(&chain, "udta", udta.Bytes())
	default:
		return nil
	}

	rw.log.Debug("adding missing metadata atoms", "path", rw.sr.Path(), "parent", path)
	rw.out.Write(chain.Bytes())
	rw.ilstDone = true
	return rw.grow(int64(chain.Len()))
}

// metaBody builds the contents of a meta atom: version and flags, an
// iTunes metadata handler, and the ilst.
func metaBody(ilst []byte) []byte {
	var b bytes.Buffer
	b.Write([]byte{0, 0, 0, 0})

	hdlr := make([]byte, 0, 25)
	hdlr = append(hdlr, 0, 0, 0, 0) // version and flags
	hdlr = append(hdlr, 0, 0, 0, 0) // pre-defined
	hdlr = append(hdlr, "mdirappl"...)
	hdlr = append(hdlr, make([]byte, 8)...)
	hdlr = append(hdlr, 0) // empty name
	writeAtom(&b, "hdlr", hdlr)

	writeAtom(&b, "ilst", ilst)
	return b.Bytes()
}

// grow adds delta to the size field of every open container.
func (rw *rewriter) grow(delta int64) error {
	if delta == 0 {
		return nil
	}
	buf := rw.out.Bytes()
	for _, o := range rw.stack {
		if o.atom.ToEOF {
			continue
		}
		if o.atom.Header == 16 {
			field := buf[o.sizeAt+8 : o.sizeAt+16]
			size := int64(binary.BigEndian.Uint64(field)) + delta
			if size < 16 {
				return types.NewTagError(rw.sr.Path(), o.atom.Offset, "atom %q would shrink to %d bytes", o.path, size)
			}
			binary.BigEndian.PutUint64(field, uint64(size))
			continue
		}
		field := buf[o.sizeAt : o.sizeAt+4]
		size := int64(binary.BigEndian.Uint32(field)) + delta
		if size < 8 || size > math.MaxUint32 {
			return types.NewTagError(rw.sr.Path(), o.atom.Offset, "atom %q would be resized to %d bytes", o.path, size)
		}
		binary.BigEndian.PutUint32(field, uint32(size))
	}
	return nil
}

// chunkTable copies an stco or co64 atom and records where its entries
// landed in the output.
func (rw *rewriter) chunkTable(a Atom) error {
	width := int64(4)
	if a.Type == "co64" {
		width = 8
	}
	if a.DataSize() < 8 {
		return types.NewTagError(rw.sr.Path(), a.Offset, "%s atom too small", a.Type)
	}
	count, err := binutil.Read[uint32](rw.sr, a.DataOffset()+4, "chunk offset count")
	if err != nil {
		return err
	}
	if int64(count)*width > a.DataSize()-8 {
		return types.NewTagError(rw.sr.Path(), a.Offset, "%s declares %d entries but holds %d bytes", a.Type, count, a.DataSize()-8)
	}

	t := chunkTable{
		atom:  a,
		at:    rw.out.Len() + int(a.Header) + 8,
		count: int(count),
		wide:  width == 8,
	}
	if err := rw.copyAtom(a); err != nil {
		return err
	}
	rw.tables = append(rw.tables, t)
	return nil
}

// patchTables shifts every chunk offset that points past the source moov
// by delta, the change in moov's size. Offsets before moov stay put.
func (rw *rewriter) patchTables(moov Atom, delta int64) error {
	if delta == 0 {
		return nil
	}
	buf := rw.out.Bytes()
	for _, t := range rw.tables {
		for i := 0; i < t.count; i++ {
			var old int64
			if t.wide {
				old = int64(binary.BigEndian.Uint64(buf[t.at+i*8:]))
			} else {
				old = int64(binary.BigEndian.Uint32(buf[t.at+i*4:]))
			}
			if old < moov.End() {
				continue
			}

			shifted := old + delta
			if shifted < 0 || (!t.wide && shifted > math.MaxUint32) {
				return types.NewTagError(rw.sr.Path(), t.atom.Offset,
					"%s entry %d: chunk offset %d out of range after shifting by %d", t.atom.Type, i, old, delta)
			}
			if t.wide {
				binary.BigEndian.PutUint64(buf[t.at+i*8:], uint64(shifted))
			} else {
				binary.BigEndian.PutUint32(buf[t.at+i*4:], uint32(shifted))
			}
		}
	}
	return nil
}
