package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadRegionName = errors.New("anvil: region filename not of the form r.<x>.<z>.mca")

// Coordinate relationships of the world format, all bitwise: a chunk is 16
// blocks on a side, a region is 32 chunks on a side.

func chunkOfBlock(block int32) int32 { return block >> 4 }

func regionOfChunk(chunk int32) int32 { return chunk >> 5 }

func localInChunk(block int32) int32 { return block & 15 }

// slotToChunkCoords converts a region-file slot index into global chunk
// coordinates.
func slotToChunkCoords(slot int, regionX, regionZ int32) (chunkX, chunkZ int32) {
	chunkX = int32(slot&31) + regionX<<5
	chunkZ = int32(slot>>5) + regionZ<<5
	return
}

// parseRegionName extracts the region coordinates from a filename of the
// form r.<x>.<z>.mca.
func parseRegionName(name string) (regionX, regionZ int32, err error) {
	if !strings.HasPrefix(name, "r.") {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadRegionName, name)
	}
	rest := name[2:]

	firstDot := strings.IndexByte(rest, '.')
	if firstDot < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadRegionName, name)
	}
	secondDot := strings.IndexByte(rest[firstDot+1:], '.')
	if secondDot < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadRegionName, name)
	}
	secondDot += firstDot + 1

	x, err := strconv.Atoi(rest[:firstDot])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadRegionName, name)
	}
	z, err := strconv.Atoi(rest[firstDot+1 : secondDot])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadRegionName, name)
	}
	return int32(x), int32(z), nil
}
