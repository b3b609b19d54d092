package main

import "github.com/voxelforge/anvil2voxel/voxgrid"

// gridSink inserts decoded voxels into a sparse grid accessor. Value zero
// is air and never stored.
type gridSink struct {
	acc *voxgrid.Accessor
}

func (s gridSink) Set(x, y, z, value int32) {
	if value == 0 {
		return
	}
	s.acc.SetValue(x, y, z, value)
}
