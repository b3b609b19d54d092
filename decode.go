package main

import (
	"errors"
	"fmt"
	"math/bits"
)

const sectionVoxels = 4096

var ErrEmptyPalette = errors.New("section: empty palette")
var ErrUnknownBlock = errors.New("section: block name not in global palette")
var ErrPaletteIndexRange = errors.New("section: palette index out of range")
var ErrDataLength = errors.New("section: data list length does not cover the section")

// VoxelSink receives decoded voxels at world coordinates.
type VoxelSink interface {
	Set(x, y, z, value int32)
}

// paletteBits returns the packed index width for a local palette of size p:
// the bit length of p-1, with a floor of 4.
func paletteBits(p int) int {
	b := bits.Len(uint(p - 1))
	if b < 4 {
		b = 4
	}
	return b
}

// unarySectionData stands in for the data list of a unary section: 4096
// zero indices at 4 bits each. Routing the unary case through the general
// decoder keeps the emission order identical in both cases.
var unarySectionData = make([]int64, sectionVoxels/16)

// DecodeSection maps the section's local palette through the global palette
// and emits all 4096 voxels to the sink in (y, z, x) raster order, x
// fastest. Indices pack into 64-bit words least-significant bit first; no
// index straddles a word boundary.
func DecodeSection(palette *GlobalPalette, section *SectionPack, xOffset, zOffset int32, sink VoxelSink) error {
	p := len(section.Palette)
	if p == 0 {
		return ErrEmptyPalette
	}

	localToGlobal := make([]int32, p)
	for i, entry := range section.Palette {
		id, ok := palette.ID(entry.Name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownBlock, entry.Name)
		}
		localToGlobal[i] = id
	}

	data := section.Data
	if p == 1 {
		data = unarySectionData
	}

	width := paletteBits(p)
	mask := uint64(1)<<width - 1
	perWord := 64 / width

	fullWords := len(data) - 1
	if fullWords < 0 {
		return fmt.Errorf("%w: empty data list for palette of %d", ErrDataLength, p)
	}
	tail := sectionVoxels - fullWords*perWord
	if tail < 1 || tail > perWord {
		return fmt.Errorf("%w: %d words of %d indices", ErrDataLength, len(data), perWord)
	}

	d := 0
	for w, word := range data {
		count := perWord
		if w == fullWords {
			count = tail
		}
		packed := uint64(word)
		for j := 0; j < count; j++ {
			idx := int(packed & mask)
			packed >>= uint(width)
			if idx >= p {
				return fmt.Errorf("%w: %d >= %d", ErrPaletteIndexRange, idx, p)
			}
			x := int32(d & 0x0F)
			y := int32(d >> 8)
			z := int32((d & 0xFF) >> 4)
			sink.Set(x+xOffset, y+section.YOffset, z+zOffset, localToGlobal[idx])
			d++
		}
	}
	return nil
}
