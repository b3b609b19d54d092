// Package voxgrid implements a sparse, tree-structured int32 voxel grid and
// its on-disk file format. Only leaves that have been written to occupy
// memory; storage hangs off a root table of 8x8x8 leaf nodes keyed by leaf
// origin. A voxel set to the background value stays active until Prune.
package voxgrid

import (
	"github.com/willf/bitset"
)

const (
	leafLog2Dim = 3
	leafDim     = 1 << leafLog2Dim
	leafVoxels  = leafDim * leafDim * leafDim

	// FileExtension is the conventional extension of grid files.
	FileExtension = "vxg"
)

// Coord is an integer lattice position.
type Coord struct {
	X, Y, Z int32
}

type leaf struct {
	origin Coord
	active *bitset.BitSet
	values [leafVoxels]int32
}

func newLeaf(origin Coord) *leaf {
	return &leaf{origin: origin, active: bitset.New(leafVoxels)}
}

// leafOrigin floors a coordinate to its leaf's corner. Bit masking keeps
// this correct for negative coordinates.
func leafOrigin(x, y, z int32) Coord {
	const m = leafDim - 1
	return Coord{X: x &^ m, Y: y &^ m, Z: z &^ m}
}

// leafOffset linearizes a position within a leaf, x fastest.
func leafOffset(x, y, z int32) uint {
	const m = leafDim - 1
	return uint((y&m)<<(2*leafLog2Dim) | (z&m)<<leafLog2Dim | x&m)
}

// Grid is a sparse voxel container. It is not safe for concurrent use; one
// pipeline owns a grid at a time.
type Grid struct {
	name       string
	background int32
	leaves     map[Coord]*leaf
}

// New creates an empty grid with the given background value.
func New(background int32) *Grid {
	return &Grid{
		background: background,
		leaves:     make(map[Coord]*leaf),
	}
}

func (g *Grid) Name() string {
	return g.name
}

func (g *Grid) SetName(name string) {
	g.name = name
}

func (g *Grid) Background() int32 {
	return g.background
}

// Accessor returns a new accessor over the grid.
func (g *Grid) Accessor() *Accessor {
	return &Accessor{grid: g}
}

// Value returns the voxel at (x, y, z), or the background value if it was
// never set.
func (g *Grid) Value(x, y, z int32) int32 {
	l, ok := g.leaves[leafOrigin(x, y, z)]
	if !ok {
		return g.background
	}
	off := leafOffset(x, y, z)
	if !l.active.Test(off) {
		return g.background
	}
	return l.values[off]
}

// ActiveVoxelCount reports the number of set voxels.
func (g *Grid) ActiveVoxelCount() uint64 {
	var total uint64
	for _, l := range g.leaves {
		total += uint64(l.active.Count())
	}
	return total
}

// Prune deactivates voxels whose value equals the background and drops
// leaves left with no active voxels.
func (g *Grid) Prune() {
	for origin, l := range g.leaves {
		for i, ok := l.active.NextSet(0); ok; i, ok = l.active.NextSet(i + 1) {
			if l.values[i] == g.background {
				l.active.Clear(i)
			}
		}
		if l.active.None() {
			delete(g.leaves, origin)
		}
	}
}

// Clear removes every voxel; the name and background value are kept.
// Outstanding accessors are invalidated; obtain a new one.
func (g *Grid) Clear() {
	g.leaves = make(map[Coord]*leaf)
}

// Bounds reports the inclusive bounding box of the active voxels. ok is
// false when the grid is empty.
func (g *Grid) Bounds() (min, max Coord, ok bool) {
	for _, l := range g.leaves {
		for i, set := l.active.NextSet(0); set; i, set = l.active.NextSet(i + 1) {
			c := Coord{
				X: l.origin.X + int32(i&(leafDim-1)),
				Y: l.origin.Y + int32(i>>(2*leafLog2Dim)),
				Z: l.origin.Z + int32((i>>leafLog2Dim)&(leafDim-1)),
			}
			if !ok {
				min, max, ok = c, c, true
				continue
			}
			if c.X < min.X {
				min.X = c.X
			}
			if c.Y < min.Y {
				min.Y = c.Y
			}
			if c.Z < min.Z {
				min.Z = c.Z
			}
			if c.X > max.X {
				max.X = c.X
			}
			if c.Y > max.Y {
				max.Y = c.Y
			}
			if c.Z > max.Z {
				max.Z = c.Z
			}
		}
	}
	return
}
