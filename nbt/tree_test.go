package nbt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseTree(t *testing.T) {
	type fixture struct {
		Seed    int64   `nbt:"seed"`
		Spawn   []int32 `nbt:"spawn"`
		Name    string  `nbt:"name"`
		Raining int8    `nbt:"raining"`
		Ticks   []int64 `nbt:"ticks"`
		Raw     []byte  `nbt:"raw"`
	}
	raw := marshalFixture(t, fixture{
		Seed:    -7242822727370837274,
		Spawn:   []int32{8, 64, -8},
		Name:    "overworld",
		Raining: 1,
		Ticks:   []int64{1, 1 << 40},
		Raw:     []byte{0xDE, 0xAD},
	})

	rootName, root, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rootName != "" {
		t.Fatalf("root name = %q; want empty", rootName)
	}

	want := &Node{
		Tag: TagCompound,
		Compound: map[string]*Node{
			"seed":    {Tag: TagLong, Long: -7242822727370837274},
			"spawn":   {Tag: TagIntArray, Ints: []int32{8, 64, -8}},
			"name":    {Tag: TagString, Str: "overworld"},
			"raining": {Tag: TagByte, Byte: 1},
			"ticks":   {Tag: TagLongArray, Longs: []int64{1, 1 << 40}},
			"raw":     {Tag: TagByteArray, ByteSlice: []byte{0xDE, 0xAD}},
		},
	}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTreeNested(t *testing.T) {
	type entry struct {
		Name string `nbt:"Name"`
	}
	type fixture struct {
		Palette []entry `nbt:"palette"`
	}
	raw := marshalFixture(t, fixture{Palette: []entry{{Name: "minecraft:air"}, {Name: "minecraft:stone"}}})

	_, root, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	list := root.Child("palette")
	if list == nil || list.Tag != TagList || list.ElemTag != TagCompound {
		t.Fatalf("palette = %+v; want a list of compounds", list)
	}
	if len(list.List) != 2 {
		t.Fatalf("palette has %d elements; want 2", len(list.List))
	}
	if got := list.List[1].Child("Name").Str; got != "minecraft:stone" {
		t.Fatalf("palette[1].Name = %q; want \"minecraft:stone\"", got)
	}
	if root.Child("missing") != nil {
		t.Fatal("Child on a missing key must be nil")
	}
}

func TestDump(t *testing.T) {
	type fixture struct {
		Y    int8     `nbt:"Y"`
		Tags []string `nbt:"tags"`
	}
	_, root, err := Parse(marshalFixture(t, fixture{Y: -4, Tags: []string{"a"}}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var out bytes.Buffer
	root.Dump(&out)
	text := out.String()
	for _, want := range []string{"Byte -4", `"tags"`, `"a"`} {
		if !strings.Contains(text, want) {
			t.Fatalf("dump output missing %q:\n%s", want, text)
		}
	}
}
