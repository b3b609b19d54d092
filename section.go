package main

import (
	"errors"
	"fmt"

	"github.com/voxelforge/anvil2voxel/nbt"
)

var ErrNoSections = errors.New("chunk: no sections list")
var ErrMalformedSections = errors.New("chunk: malformed sections list")

// PaletteEntry names one block state in a section's local palette.
type PaletteEntry struct {
	Name string
}

// SectionPack is the decoded state of one 16x16x16 section: its vertical
// index, its local palette, and the bit-packed palette indices. Data is
// empty when the palette is unary.
type SectionPack struct {
	Y       int8
	YOffset int32
	Palette []PaletteEntry
	Data    []int64
}

// ChunkSections holds every section of one chunk, in file order.
type ChunkSections struct {
	ChunkX, ChunkZ   int32
	XOffset, ZOffset int32
	Sections         []SectionPack
}

// ParseChunkSections walks a chunk's NBT looking only for the sections
// list, then populates one SectionPack per element. Everything else in the
// tree is skipped by payload length without allocating.
func ParseChunkSections(data []byte, chunkX, chunkZ int32) (*ChunkSections, error) {
	r := nbt.NewReader(data)
	if err := nbt.SkipRoot(r); err != nil {
		return nil, err
	}

	found, err := nbt.FindList(r, "sections")
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoSections
	}

	elem, err := r.U8()
	if err != nil {
		return nil, err
	}
	count, err := r.I32()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: count %d", ErrMalformedSections, count)
	}
	if count > 0 && nbt.Tag(elem) != nbt.TagCompound {
		return nil, fmt.Errorf("%w: element tag %s", ErrMalformedSections, nbt.Tag(elem))
	}

	chunk := &ChunkSections{
		ChunkX:  chunkX,
		ChunkZ:  chunkZ,
		XOffset: chunkX << 4,
		ZOffset: chunkZ << 4,
	}
	chunk.Sections = make([]SectionPack, 0, count)
	for i := int32(0); i < count; i++ {
		var section SectionPack
		v := sectionVisitor{section: &section}
		if err := nbt.WalkCompound(r, &v); err != nil {
			return nil, err
		}
		chunk.Sections = append(chunk.Sections, section)
	}
	return chunk, nil
}

// sectionVisitor consumes Y, block_states.data and block_states.palette,
// and skips everything else, biomes included.
type sectionVisitor struct {
	section *SectionPack
}

func (v *sectionVisitor) Entry(tag nbt.Tag, name string) nbt.Action {
	switch {
	case tag == nbt.TagByte && name == "Y":
		return nbt.Consume
	case tag == nbt.TagCompound && name == "block_states":
		return nbt.Enter
	case tag == nbt.TagLongArray && name == "data":
		return nbt.Consume
	case tag == nbt.TagList && name == "palette":
		return nbt.Consume
	}
	return nbt.Skip
}

func (v *sectionVisitor) Value(tag nbt.Tag, name string, r *nbt.Reader) error {
	switch name {
	case "Y":
		y, err := r.I8()
		if err != nil {
			return err
		}
		v.section.Y = y
		v.section.YOffset = int32(y) << 4

	case "data":
		length, err := r.I32()
		if err != nil {
			return err
		}
		if length < 0 {
			return fmt.Errorf("%w: data length %d", ErrMalformedSections, length)
		}
		longs := make([]int64, length)
		for i := range longs {
			if longs[i], err = r.I64(); err != nil {
				return err
			}
		}
		v.section.Data = longs

	case "palette":
		return v.readPalette(r)
	}
	return nil
}

func (v *sectionVisitor) readPalette(r *nbt.Reader) error {
	elem, err := r.U8()
	if err != nil {
		return err
	}
	count, err := r.I32()
	if err != nil {
		return err
	}
	if count < 0 {
		return fmt.Errorf("%w: palette count %d", ErrMalformedSections, count)
	}
	if count > 0 && nbt.Tag(elem) != nbt.TagCompound {
		return fmt.Errorf("%w: palette element tag %s", ErrMalformedSections, nbt.Tag(elem))
	}

	v.section.Palette = make([]PaletteEntry, 0, count)
	for i := int32(0); i < count; i++ {
		var entry paletteEntryVisitor
		if err := nbt.WalkCompound(r, &entry); err != nil {
			return err
		}
		v.section.Palette = append(v.section.Palette, PaletteEntry{Name: entry.name})
	}
	return nil
}

// paletteEntryVisitor pulls the Name string out of one palette compound;
// block state properties are skipped.
type paletteEntryVisitor struct {
	name string
}

func (v *paletteEntryVisitor) Entry(tag nbt.Tag, name string) nbt.Action {
	if tag == nbt.TagString && name == "Name" {
		return nbt.Consume
	}
	return nbt.Skip
}

func (v *paletteEntryVisitor) Value(tag nbt.Tag, name string, r *nbt.Reader) error {
	s, err := r.String()
	if err != nil {
		return err
	}
	v.name = s
	return nil
}
