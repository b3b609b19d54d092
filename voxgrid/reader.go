package voxgrid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

var ErrBadMagic = errors.New("voxgrid: not a voxgrid file")
var ErrBadVersion = errors.New("voxgrid: unsupported file version")
var ErrCorruptFile = errors.New("voxgrid: corrupt file")

// Read deserializes a grid written by Grid.Write.
func Read(reader io.Reader) (*Grid, error) {
	var header struct {
		Magic      uint16
		Version    uint8
		Background int32
		NameLen    uint16
	}
	if err := binary.Read(reader, binary.BigEndian, &header); err != nil {
		return nil, err
	}
	if header.Magic != gridMagic {
		return nil, ErrBadMagic
	}
	if header.Version != gridLatestVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, header.Version)
	}

	name := make([]byte, header.NameLen)
	if _, err := io.ReadFull(reader, name); err != nil {
		return nil, err
	}

	var leafCount uint32
	if err := binary.Read(reader, binary.BigEndian, &leafCount); err != nil {
		return nil, err
	}

	payload, err := readZstdCompressed(reader)
	if err != nil {
		return nil, err
	}

	g := New(header.Background)
	g.SetName(string(name))
	if err := g.readLeaves(payload, int(leafCount)); err != nil {
		return nil, err
	}
	return g, nil
}

// ReadFile reads a grid file from disk.
func ReadFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

const leafRecordSize = 3*4 + (leafVoxels/64)*8 + leafVoxels*4

func (g *Grid) readLeaves(payload []byte, leafCount int) error {
	if len(payload) != leafCount*leafRecordSize {
		return fmt.Errorf("%w: %d bytes of leaf records for %d leaves", ErrCorruptFile, len(payload), leafCount)
	}

	const maskBase = 12
	const valueBase = maskBase + (leafVoxels/64)*8

	for n := 0; n < leafCount; n++ {
		rec := payload[n*leafRecordSize:]
		origin := Coord{
			X: int32(binary.BigEndian.Uint32(rec[0:])),
			Y: int32(binary.BigEndian.Uint32(rec[4:])),
			Z: int32(binary.BigEndian.Uint32(rec[8:])),
		}

		l := newLeaf(origin)
		for i := uint(0); i < leafVoxels; i++ {
			word := binary.BigEndian.Uint64(rec[maskBase+(i/64)*8:])
			if word&(1<<(i%64)) == 0 {
				continue
			}
			l.active.Set(i)
			l.values[i] = int32(binary.BigEndian.Uint32(rec[valueBase+i*4:]))
		}
		g.leaves[origin] = l
	}
	return nil
}

func readZstdCompressed(reader io.Reader) ([]byte, error) {
	var sizes struct {
		Compressed   uint32
		Uncompressed uint32
	}
	if err := binary.Read(reader, binary.BigEndian, &sizes); err != nil {
		return nil, err
	}

	compressed := make([]byte, sizes.Compressed)
	if _, err := io.ReadFull(reader, compressed); err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	payload, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	if len(payload) != int(sizes.Uncompressed) {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorruptFile, len(payload), sizes.Uncompressed)
	}
	return payload, nil
}
