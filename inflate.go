package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

var ErrCorruptChunk = errors.New("anvil: corrupt compressed chunk")

// inflateChunk inflates one zlib-framed chunk payload into a fresh buffer.
// The buffer starts at ten times the compressed size and doubles whenever it
// fills; region chunks have a bounded inflation ratio, so growth terminates
// within a few doublings.
func inflateChunk(compressed []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptChunk, err)
	}
	defer zr.Close()

	buf := make([]byte, 10*len(compressed))
	n := 0
	for {
		read, err := zr.Read(buf[n:])
		n += read
		if err == io.EOF {
			return buf[:n], nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptChunk, err)
		}
		if n == len(buf) {
			grown := make([]byte, 2*len(buf))
			copy(grown, buf)
			buf = grown
		}
	}
}
