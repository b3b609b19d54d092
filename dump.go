package main

import (
	"fmt"
	"io"

	"github.com/voxelforge/anvil2voxel/nbt"
)

// dumpChunk materializes one chunk's NBT tree and prints it, followed by a
// per-section voxel summary. This is the inspection path; conversion never
// materializes trees.
func dumpChunk(reader *AnvilReader, slot int, w io.Writer) error {
	raw, err := reader.ReadChunk(slot)
	if err != nil {
		return err
	}

	name, root, err := nbt.Parse(raw)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "slot %d, root %q, %d bytes\n", slot, name, len(raw))
	root.Dump(w)

	chunk, err := ParseChunkSections(raw, 0, 0)
	if err != nil {
		return err
	}
	for i := range chunk.Sections {
		section := &chunk.Sections[i]
		fmt.Fprintf(w, "section y=%d: palette of %d, %d data words\n",
			section.Y, len(section.Palette), len(section.Data))
	}
	return nil
}
