package nbt

import (
	"errors"
	"math"
	"testing"
)

func TestReaderNumerics(t *testing.T) {
	buf := []byte{
		0xFE,
		0x80, 0x01,
		0xFF, 0xFF, 0xFF, 0xFE,
		0x80, 0, 0, 0, 0, 0, 0, 0x01,
	}
	r := NewReader(buf)

	if v, err := r.I8(); err != nil || v != -2 {
		t.Fatalf("I8 = %d, %v; want -2", v, err)
	}
	if v, err := r.I16(); err != nil || v != -32767 {
		t.Fatalf("I16 = %d, %v; want -32767", v, err)
	}
	if v, err := r.I32(); err != nil || v != -2 {
		t.Fatalf("I32 = %d, %v; want -2", v, err)
	}
	if v, err := r.I64(); err != nil || v != math.MinInt64+1 {
		t.Fatalf("I64 = %d, %v; want %d", v, err, int64(math.MinInt64+1))
	}
	if r.Remaining() != 0 {
		t.Fatalf("Remaining = %d; want 0", r.Remaining())
	}
}

func TestReaderFloats(t *testing.T) {
	// floats are bit reinterpretations of their big-endian encodings
	r := NewReader([]byte{0x3F, 0x80, 0x00, 0x00})
	if v, err := r.F32(); err != nil || v != 1.0 {
		t.Fatalf("F32 = %g, %v; want 1", v, err)
	}

	bits := math.Float64bits(-2.5)
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(bits >> (56 - 8*i))
	}
	r = NewReader(buf)
	if v, err := r.F64(); err != nil || v != -2.5 {
		t.Fatalf("F64 = %g, %v; want -2.5", v, err)
	}
}

func TestReaderString(t *testing.T) {
	r := NewReader([]byte{0x00, 0x05, 'h', 'e', 'l', 'l', 'o', 0xAA})
	s, err := r.String()
	if err != nil || s != "hello" {
		t.Fatalf("String = %q, %v; want \"hello\"", s, err)
	}
	if r.Offset() != 7 {
		t.Fatalf("Offset = %d; want 7", r.Offset())
	}
}

func TestReaderOutOfBounds(t *testing.T) {
	r := NewReader([]byte{1, 2})
	if _, err := r.I32(); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("I32 on short buffer: %v; want ErrUnexpectedEOF", err)
	}
	// a failed read must not advance the cursor
	if r.Offset() != 0 {
		t.Fatalf("Offset after failed read = %d; want 0", r.Offset())
	}
	if err := r.SkipBytes(-1); !errors.Is(err, ErrNegativeLength) {
		t.Fatalf("SkipBytes(-1): %v; want ErrNegativeLength", err)
	}
}
