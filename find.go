package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// blockProbe captures the value decoded at one world coordinate.
type blockProbe struct {
	x, y, z int32
	value   int32
	hit     bool
}

func (p *blockProbe) Set(x, y, z, value int32) {
	if x == p.x && y == p.y && z == p.z {
		p.value = value
		p.hit = true
	}
}

// FindBlock resolves the block at a world coordinate: region file from the
// chunk coordinates, slot from the chunk's position in the region, then a
// targeted parse of just that chunk. Absent chunks and sections resolve to
// air.
func FindBlock(palette *GlobalPalette, worldDir string, x, y, z int32) (int32, error) {
	chunkX, chunkZ := chunkOfBlock(x), chunkOfBlock(z)
	sectionY := chunkOfBlock(y)
	regionX, regionZ := regionOfChunk(chunkX), regionOfChunk(chunkZ)

	path := filepath.Join(worldDir, "region", fmt.Sprintf("r.%d.%d.mca", regionX, regionZ))
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	reader, err := NewAnvilReader(file)
	if err != nil {
		file.Close()
		return 0, err
	}
	defer reader.Close()

	slot := int(chunkX&31) + int(chunkZ&31)<<5
	raw, err := reader.ReadChunk(slot)
	if errors.Is(err, ErrNoChunk) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	chunk, err := ParseChunkSections(raw, chunkX, chunkZ)
	if err != nil {
		return 0, err
	}

	probe := blockProbe{x: x, y: y, z: z}
	for i := range chunk.Sections {
		section := &chunk.Sections[i]
		if int32(section.Y) != sectionY {
			continue
		}
		if err := DecodeSection(palette, section, chunk.XOffset, chunk.ZOffset, &probe); err != nil {
			return 0, err
		}
		break
	}
	if !probe.hit {
		return 0, nil
	}
	return probe.value, nil
}
