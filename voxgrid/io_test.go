package voxgrid

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	g := New(0)
	g.SetName("world.3.-2")
	acc := g.Accessor()
	acc.SetValue(0, 0, 0, 17)
	acc.SetValue(15, 15, 15, 4)
	acc.SetValue(-20, 100, 7, 99)
	acc.SetValue(-20, 101, 7, 99)

	var buf bytes.Buffer
	if err := g.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	back, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if back.Name() != "world.3.-2" {
		t.Fatalf("name = %q; want \"world.3.-2\"", back.Name())
	}
	if back.Background() != 0 {
		t.Fatalf("background = %d; want 0", back.Background())
	}
	if n := back.ActiveVoxelCount(); n != 4 {
		t.Fatalf("ActiveVoxelCount = %d; want 4", n)
	}
	for _, c := range []struct {
		x, y, z, want int32
	}{
		{0, 0, 0, 17},
		{15, 15, 15, 4},
		{-20, 100, 7, 99},
		{-20, 101, 7, 99},
		{1, 1, 1, 0},
	} {
		if v := back.Value(c.x, c.y, c.z); v != c.want {
			t.Fatalf("Value(%d,%d,%d) = %d; want %d", c.x, c.y, c.z, v, c.want)
		}
	}
}

func TestWriteDeterministic(t *testing.T) {
	build := func() *Grid {
		g := New(0)
		g.SetName("d")
		acc := g.Accessor()
		// insertion order differs between the two builds
		for i := int32(0); i < 64; i++ {
			acc.SetValue(i*3, i%7, -i, i+1)
		}
		return g
	}
	other := func() *Grid {
		g := New(0)
		g.SetName("d")
		acc := g.Accessor()
		for i := int32(63); i >= 0; i-- {
			acc.SetValue(i*3, i%7, -i, i+1)
		}
		return g
	}

	var a, b bytes.Buffer
	if err := build().Write(&a); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := other().Write(&b); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("output depends on insertion order")
	}
}

func TestWriteFileReadFile(t *testing.T) {
	g := New(0)
	g.SetName("w.0.0")
	g.Accessor().SetValue(4, 5, 6, 7)

	path := filepath.Join(t.TempDir(), "w.0.0."+FileExtension)
	if err := WriteFile(path, g); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if v := back.Value(4, 5, 6); v != 7 {
		t.Fatalf("Value = %d; want 7", v)
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0, 0, 0, 0})); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("garbage: %v; want ErrBadMagic", err)
	}

	g := New(0)
	var buf bytes.Buffer
	if err := g.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	raw := buf.Bytes()
	raw[2] = 99 // version byte
	if _, err := Read(bytes.NewReader(raw)); !errors.Is(err, ErrBadVersion) {
		t.Fatalf("bad version: %v; want ErrBadVersion", err)
	}
}
