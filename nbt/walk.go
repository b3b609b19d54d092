package nbt

import (
	"errors"
	"fmt"
)

var ErrBadTag = errors.New("nbt: unknown tag")
var ErrNotCompound = errors.New("nbt: root is not a compound")

// ErrStopWalk may be returned from a Visitor's Value method to halt the walk
// early. WalkCompound swallows it and returns nil.
var ErrStopWalk = errors.New("nbt: stop walk")

// Action tells the walker what to do with one named entry of a compound.
type Action int

const (
	// Skip advances past the entry's payload without decoding it.
	Skip Action = iota
	// Enter descends into a Compound payload, or into the Compound elements
	// of a List payload, reusing the same visitor.
	Enter
	// Consume hands the reader to the visitor's Value method, which must
	// leave the cursor at the end of the payload.
	Consume
)

// Visitor guides a targeted walk over a compound tree. The walker calls
// Entry once per named entry; payloads are only decoded where the visitor
// asks for them, everything else is skipped by length.
type Visitor interface {
	Entry(tag Tag, name string) Action
	Value(tag Tag, name string, r *Reader) error
}

// SkipRoot consumes the tag and name header of a named root compound,
// leaving the cursor at the first entry of its payload.
func SkipRoot(r *Reader) error {
	t, err := r.U8()
	if err != nil {
		return err
	}
	if Tag(t) != TagCompound {
		return fmt.Errorf("%w: tag %s", ErrNotCompound, Tag(t))
	}
	n, err := r.U16()
	if err != nil {
		return err
	}
	return r.SkipBytes(int(n))
}

// WalkCompound walks the entries of a compound payload, dispatching each to
// the visitor, until the terminating End tag.
func WalkCompound(r *Reader, v Visitor) error {
	err := walkCompound(r, v)
	if errors.Is(err, ErrStopWalk) {
		return nil
	}
	return err
}

func walkCompound(r *Reader, v Visitor) error {
	for {
		t, err := r.U8()
		if err != nil {
			return err
		}
		tag := Tag(t)
		if tag == TagEnd {
			return nil
		}
		if !tag.valid() {
			return fmt.Errorf("%w: %#02x at offset %d", ErrBadTag, t, r.off-1)
		}
		name, err := r.String()
		if err != nil {
			return err
		}

		switch v.Entry(tag, name) {
		case Consume:
			if err := v.Value(tag, name, r); err != nil {
				return err
			}
		case Enter:
			switch tag {
			case TagCompound:
				if err := walkCompound(r, v); err != nil {
					return err
				}
			case TagList:
				if err := walkList(r, v); err != nil {
					return err
				}
			default:
				if err := SkipPayload(r, tag); err != nil {
					return err
				}
			}
		default:
			if err := SkipPayload(r, tag); err != nil {
				return err
			}
		}
	}
}

// walkList descends into the Compound elements of a list; elements of any
// other tag are skipped.
func walkList(r *Reader, v Visitor) error {
	t, err := r.U8()
	if err != nil {
		return err
	}
	elem := Tag(t)
	count, err := r.I32()
	if err != nil {
		return err
	}
	if count < 0 {
		return fmt.Errorf("%w: list count %d", ErrNegativeLength, count)
	}
	for i := int32(0); i < count; i++ {
		if elem == TagCompound {
			if err := walkCompound(r, v); err != nil {
				return err
			}
		} else if err := SkipPayload(r, elem); err != nil {
			return err
		}
	}
	return nil
}

// SkipPayload advances the cursor past one payload of the given tag.
func SkipPayload(r *Reader, tag Tag) error {
	if !tag.valid() {
		return fmt.Errorf("%w: %#02x", ErrBadTag, byte(tag))
	}
	if n := fixedSize[tag]; n > 0 {
		return r.SkipBytes(n)
	}

	switch tag {
	case TagEnd:
		// zero-width; only reachable as an element of an empty list
		return nil

	case TagByteArray:
		n, err := r.I32()
		if err != nil {
			return err
		}
		return r.SkipBytes(int(n))

	case TagString:
		n, err := r.U16()
		if err != nil {
			return err
		}
		return r.SkipBytes(int(n))

	case TagList:
		t, err := r.U8()
		if err != nil {
			return err
		}
		elem := Tag(t)
		count, err := r.I32()
		if err != nil {
			return err
		}
		if count < 0 {
			return fmt.Errorf("%w: list count %d", ErrNegativeLength, count)
		}
		if !elem.valid() {
			return fmt.Errorf("%w: list element %#02x", ErrBadTag, t)
		}
		if n := fixedSize[elem]; n > 0 || elem == TagEnd {
			return r.SkipBytes(n * int(count))
		}
		for i := int32(0); i < count; i++ {
			if err := SkipPayload(r, elem); err != nil {
				return err
			}
		}
		return nil

	case TagCompound:
		for {
			t, err := r.U8()
			if err != nil {
				return err
			}
			inner := Tag(t)
			if inner == TagEnd {
				return nil
			}
			if !inner.valid() {
				return fmt.Errorf("%w: %#02x at offset %d", ErrBadTag, t, r.off-1)
			}
			n, err := r.U16()
			if err != nil {
				return err
			}
			if err := r.SkipBytes(int(n)); err != nil {
				return err
			}
			if err := SkipPayload(r, inner); err != nil {
				return err
			}
		}

	case TagIntArray:
		n, err := r.I32()
		if err != nil {
			return err
		}
		return r.SkipBytes(int(n) * 4)

	case TagLongArray:
		n, err := r.I32()
		if err != nil {
			return err
		}
		return r.SkipBytes(int(n) * 8)
	}
	return nil
}

type findListVisitor struct {
	target string
	found  bool
}

func (v *findListVisitor) Entry(tag Tag, name string) Action {
	if tag == TagList && name == v.target {
		return Consume
	}
	if tag == TagCompound {
		return Enter
	}
	return Skip
}

func (v *findListVisitor) Value(Tag, string, *Reader) error {
	v.found = true
	return ErrStopWalk
}

// FindList walks a compound payload looking for a List entry with the given
// name, descending into nested compounds. On a hit it reports true with the
// cursor positioned at the start of the list payload, just before the
// element-tag byte. When the walk finishes without a hit it reports false
// with the cursor past the compound.
func FindList(r *Reader, name string) (bool, error) {
	v := findListVisitor{target: name}
	if err := WalkCompound(r, &v); err != nil {
		return false, err
	}
	return v.found, nil
}
