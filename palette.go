package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

var ErrBlankPaletteLine = errors.New("palette: blank line in block list")

// GlobalPalette maps block names to dense int32 ids and back. It is built
// once at startup from a newline-delimited block list and never mutated
// afterwards, so it may be shared by reference across workers.
type GlobalPalette struct {
	ids   map[string]int32
	names []string
}

func LoadGlobalPalette(path string) (*GlobalPalette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := ReadGlobalPalette(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ReadGlobalPalette assigns each line its line number, starting at zero.
// Duplicate names overwrite the forward mapping; the block list is assumed
// curated.
func ReadGlobalPalette(r io.Reader) (*GlobalPalette, error) {
	p := &GlobalPalette{ids: make(map[string]int32)}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		name := sc.Text()
		if name == "" {
			return nil, fmt.Errorf("%w: line %d", ErrBlankPaletteLine, len(p.names)+1)
		}
		p.ids[name] = int32(len(p.names))
		p.names = append(p.names, name)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// ID returns the id of a block name, if known.
func (p *GlobalPalette) ID(name string) (int32, bool) {
	id, ok := p.ids[name]
	return id, ok
}

// Name returns the block name for an id. An out-of-range id is a programmer
// error and panics.
func (p *GlobalPalette) Name(id int32) string {
	return p.names[id]
}

// Len reports the number of entries.
func (p *GlobalPalette) Len() int {
	return len(p.names)
}
