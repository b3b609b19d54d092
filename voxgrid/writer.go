package voxgrid

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/klauspost/compress/zstd"
)

const gridMagic = 0x5658 // "VX"
const gridLatestVersion = 1

// Write serializes the grid: a fixed big-endian header followed by one
// zstd-compressed block of leaf records.
func (g *Grid) Write(writer io.Writer) error {
	w := &gridWriter{writer: writer, grid: g}
	return w.writeGrid()
}

// WriteFile writes the grid to a new file at path, replacing any previous
// content.
func WriteFile(path string, g *Grid) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if err := g.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type gridWriter struct {
	writer io.Writer
	grid   *Grid
}

func (w *gridWriter) writeGrid() (err error) {
	if err = w.writeHeader(); err != nil {
		return
	}
	return w.writeLeaves()
}

func (w *gridWriter) writeHeader() (err error) {
	var header struct {
		Magic      uint16
		Version    uint8
		Background int32
		NameLen    uint16
	}
	header.Magic = gridMagic
	header.Version = gridLatestVersion
	header.Background = w.grid.background
	header.NameLen = uint16(len(w.grid.name))

	if err = binary.Write(w.writer, binary.BigEndian, header); err != nil {
		return
	}
	if _, err = w.writer.Write([]byte(w.grid.name)); err != nil {
		return
	}
	return binary.Write(w.writer, binary.BigEndian, uint32(len(w.grid.leaves)))
}

func (w *gridWriter) writeLeaves() (err error) {
	origins := make([]Coord, 0, len(w.grid.leaves))
	for origin := range w.grid.leaves {
		origins = append(origins, origin)
	}
	sort.Slice(origins, func(one, two int) bool {
		a, b := origins[one], origins[two]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})

	var out bytes.Buffer
	for _, origin := range origins {
		if err = w.writeLeaf(&out, w.grid.leaves[origin]); err != nil {
			return
		}
	}
	return writeZstdBlock(w.writer, out.Bytes())
}

func (w *gridWriter) writeLeaf(out io.Writer, l *leaf) (err error) {
	if err = binary.Write(out, binary.BigEndian, [3]int32{l.origin.X, l.origin.Y, l.origin.Z}); err != nil {
		return
	}

	mask := l.active.Bytes()
	words := make([]uint64, leafVoxels/64)
	copy(words, mask)
	if err = binary.Write(out, binary.BigEndian, words); err != nil {
		return
	}

	// inactive slots may carry stale values; the file stores background there
	values := l.values
	for i := range values {
		if !l.active.Test(uint(i)) {
			values[i] = w.grid.background
		}
	}
	return binary.Write(out, binary.BigEndian, values)
}

// writeZstdBlock frames a payload as compressed length, raw length, then
// one zstd frame.
func writeZstdBlock(w io.Writer, raw []byte) error {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	compressed := enc.EncodeAll(raw, nil)
	enc.Close()

	var sizes [8]byte
	binary.BigEndian.PutUint32(sizes[0:], uint32(len(compressed)))
	binary.BigEndian.PutUint32(sizes[4:], uint32(len(raw)))
	if _, err := w.Write(sizes[:]); err != nil {
		return err
	}
	_, err = w.Write(compressed)
	return err
}
