package main

import (
	"errors"
	"testing"

	gonbt "github.com/Tnze/go-mc/nbt"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type nbtPaletteEntry struct {
	Name string `nbt:"Name"`
}

type nbtBlockStates struct {
	Palette []nbtPaletteEntry `nbt:"palette"`
	Data    []int64           `nbt:"data"`
}

type nbtBiomes struct {
	Palette []string `nbt:"palette"`
}

type nbtSection struct {
	Y           int8           `nbt:"Y"`
	BlockStates nbtBlockStates `nbt:"block_states"`
	Biomes      nbtBiomes      `nbt:"biomes"`
}

type nbtChunk struct {
	DataVersion int32        `nbt:"DataVersion"`
	XPos        int32        `nbt:"xPos"`
	ZPos        int32        `nbt:"zPos"`
	Status      string       `nbt:"Status"`
	Sections    []nbtSection `nbt:"sections"`
}

func marshalChunk(t *testing.T, chunk nbtChunk) []byte {
	t.Helper()
	raw, err := gonbt.Marshal(chunk)
	if err != nil {
		t.Fatalf("marshal chunk fixture: %v", err)
	}
	return raw
}

func TestParseChunkSections(t *testing.T) {
	data := packIndices(make([]int, sectionVoxels), 4)
	raw := marshalChunk(t, nbtChunk{
		DataVersion: 3465,
		XPos:        -3,
		ZPos:        3,
		Status:      "minecraft:full",
		Sections: []nbtSection{
			{
				Y:           -4,
				BlockStates: nbtBlockStates{Palette: []nbtPaletteEntry{{Name: "minecraft:air"}}},
				Biomes:      nbtBiomes{Palette: []string{"minecraft:plains"}},
			},
			{
				Y: 0,
				BlockStates: nbtBlockStates{
					Palette: []nbtPaletteEntry{{Name: "minecraft:air"}, {Name: "minecraft:stone"}},
					Data:    data,
				},
				Biomes: nbtBiomes{Palette: []string{"minecraft:plains"}},
			},
		},
	})

	chunk, err := ParseChunkSections(raw, -3, 3)
	if err != nil {
		t.Fatalf("ParseChunkSections: %v", err)
	}

	want := &ChunkSections{
		ChunkX:  -3,
		ChunkZ:  3,
		XOffset: -48,
		ZOffset: 48,
		Sections: []SectionPack{
			{
				Y:       -4,
				YOffset: -64,
				Palette: []PaletteEntry{{Name: "minecraft:air"}},
			},
			{
				Y:       0,
				YOffset: 0,
				Palette: []PaletteEntry{{Name: "minecraft:air"}, {Name: "minecraft:stone"}},
				Data:    data,
			},
		},
	}
	if diff := cmp.Diff(want, chunk, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("chunk mismatch (-want +got):\n%s", diff)
	}
}

func TestParseChunkSectionsNoSections(t *testing.T) {
	raw := marshalChunk(t, nbtChunk{DataVersion: 3465, Status: "minecraft:empty"})
	// a nil slice still marshals a sections entry; strip by building a
	// chunk type without one
	type bareChunk struct {
		DataVersion int32  `nbt:"DataVersion"`
		Status      string `nbt:"Status"`
	}
	bare, err := gonbt.Marshal(bareChunk{DataVersion: 3465, Status: "minecraft:empty"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := ParseChunkSections(bare, 0, 0); !errors.Is(err, ErrNoSections) {
		t.Fatalf("chunk without sections: %v; want ErrNoSections", err)
	}

	// an empty sections list parses to zero sections
	chunk, err := ParseChunkSections(raw, 0, 0)
	if err != nil {
		t.Fatalf("ParseChunkSections: %v", err)
	}
	if len(chunk.Sections) != 0 {
		t.Fatalf("got %d sections; want 0", len(chunk.Sections))
	}
}

func TestParseChunkSectionsTruncated(t *testing.T) {
	raw := marshalChunk(t, nbtChunk{Sections: []nbtSection{{
		Y:           0,
		BlockStates: nbtBlockStates{Palette: []nbtPaletteEntry{{Name: "minecraft:stone"}}},
	}}})
	if _, err := ParseChunkSections(raw[:len(raw)/2], 0, 0); err == nil {
		t.Fatal("truncated chunk parsed without error")
	}
}
