package nbt

import (
	"fmt"
	"io"
	"sort"
)

// Node is one materialized NBT value. Only the field matching Tag is
// meaningful. Compounds own their children; a list of compounds owns its
// elements.
type Node struct {
	Tag Tag

	Byte   int8
	Short  int16
	Int    int32
	Long   int64
	Float  float32
	Double float64
	Str    string

	ByteSlice []byte
	Ints      []int32
	Longs     []int64

	ElemTag  Tag
	List     []*Node
	Compound map[string]*Node
}

// Parse materializes a named root compound into a tree, returning the root
// name alongside the root node.
func Parse(buf []byte) (string, *Node, error) {
	r := NewReader(buf)
	t, err := r.U8()
	if err != nil {
		return "", nil, err
	}
	if Tag(t) != TagCompound {
		return "", nil, fmt.Errorf("%w: tag %s", ErrNotCompound, Tag(t))
	}
	name, err := r.String()
	if err != nil {
		return "", nil, err
	}
	root, err := parsePayload(r, TagCompound)
	return name, root, err
}

func parsePayload(r *Reader, tag Tag) (*Node, error) {
	n := &Node{Tag: tag}
	var err error

	switch tag {
	case TagByte:
		n.Byte, err = r.I8()
	case TagShort:
		n.Short, err = r.I16()
	case TagInt:
		n.Int, err = r.I32()
	case TagLong:
		n.Long, err = r.I64()
	case TagFloat:
		n.Float, err = r.F32()
	case TagDouble:
		n.Double, err = r.F64()

	case TagByteArray:
		var length int32
		if length, err = r.I32(); err != nil {
			return nil, err
		}
		var b []byte
		if b, err = r.Bytes(int(length)); err != nil {
			return nil, err
		}
		n.ByteSlice = append([]byte(nil), b...)

	case TagString:
		n.Str, err = r.String()

	case TagList:
		var t uint8
		if t, err = r.U8(); err != nil {
			return nil, err
		}
		n.ElemTag = Tag(t)
		if !n.ElemTag.valid() {
			return nil, fmt.Errorf("%w: list element %#02x", ErrBadTag, t)
		}
		var count int32
		if count, err = r.I32(); err != nil {
			return nil, err
		}
		if count < 0 {
			return nil, fmt.Errorf("%w: list count %d", ErrNegativeLength, count)
		}
		if n.ElemTag == TagEnd {
			// empty list; elements are zero-width
			return n, nil
		}
		n.List = make([]*Node, count)
		for i := range n.List {
			if n.List[i], err = parsePayload(r, n.ElemTag); err != nil {
				return nil, err
			}
		}

	case TagCompound:
		n.Compound = make(map[string]*Node)
		for {
			var t uint8
			if t, err = r.U8(); err != nil {
				return nil, err
			}
			inner := Tag(t)
			if inner == TagEnd {
				return n, nil
			}
			if !inner.valid() {
				return nil, fmt.Errorf("%w: %#02x at offset %d", ErrBadTag, t, r.off-1)
			}
			var name string
			if name, err = r.String(); err != nil {
				return nil, err
			}
			if n.Compound[name], err = parsePayload(r, inner); err != nil {
				return nil, err
			}
		}

	case TagIntArray:
		var length int32
		if length, err = r.I32(); err != nil {
			return nil, err
		}
		if err = r.need(int(length) * 4); err != nil {
			return nil, err
		}
		n.Ints = make([]int32, length)
		for i := range n.Ints {
			n.Ints[i], _ = r.I32()
		}

	case TagLongArray:
		var length int32
		if length, err = r.I32(); err != nil {
			return nil, err
		}
		if err = r.need(int(length) * 8); err != nil {
			return nil, err
		}
		n.Longs = make([]int64, length)
		for i := range n.Longs {
			n.Longs[i], _ = r.I64()
		}

	default:
		return nil, fmt.Errorf("%w: %#02x", ErrBadTag, byte(tag))
	}

	if err != nil {
		return nil, err
	}
	return n, nil
}

// Child returns the named entry of a compound node, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil || n.Tag != TagCompound {
		return nil
	}
	return n.Compound[name]
}

// Dump writes an indented rendering of the tree, keys in sorted order.
func (n *Node) Dump(w io.Writer) {
	n.dump(w, "", "")
}

func (n *Node) dump(w io.Writer, name, indent string) {
	label := ""
	if name != "" {
		label = fmt.Sprintf("%q: ", name)
	}

	switch n.Tag {
	case TagByte:
		fmt.Fprintf(w, "%s%s%s %d\n", indent, label, n.Tag, n.Byte)
	case TagShort:
		fmt.Fprintf(w, "%s%s%s %d\n", indent, label, n.Tag, n.Short)
	case TagInt:
		fmt.Fprintf(w, "%s%s%s %d\n", indent, label, n.Tag, n.Int)
	case TagLong:
		fmt.Fprintf(w, "%s%s%s %d\n", indent, label, n.Tag, n.Long)
	case TagFloat:
		fmt.Fprintf(w, "%s%s%s %g\n", indent, label, n.Tag, n.Float)
	case TagDouble:
		fmt.Fprintf(w, "%s%s%s %g\n", indent, label, n.Tag, n.Double)
	case TagString:
		fmt.Fprintf(w, "%s%s%s %q\n", indent, label, n.Tag, n.Str)
	case TagByteArray:
		fmt.Fprintf(w, "%s%s%s [%d bytes]\n", indent, label, n.Tag, len(n.ByteSlice))
	case TagIntArray:
		fmt.Fprintf(w, "%s%s%s [%d ints]\n", indent, label, n.Tag, len(n.Ints))
	case TagLongArray:
		fmt.Fprintf(w, "%s%s%s [%d longs]\n", indent, label, n.Tag, len(n.Longs))
	case TagList:
		fmt.Fprintf(w, "%s%s%s of %s, %d elements\n", indent, label, n.Tag, n.ElemTag, len(n.List))
		for _, e := range n.List {
			e.dump(w, "", indent+"  ")
		}
	case TagCompound:
		fmt.Fprintf(w, "%s%s%s, %d entries\n", indent, label, n.Tag, len(n.Compound))
		keys := make([]string, 0, len(n.Compound))
		for k := range n.Compound {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			n.Compound[k].dump(w, k, indent+"  ")
		}
	}
}
