package pack

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"ccdd-pack/internal/datatype"
	"ccdd-pack/internal/structure"
)

func named(name string, members ...structure.Declaration) structure.MemberList {
	return structure.MemberList{Structure: name, Members: members}
}

func layoutOf(t *testing.T, alignment int, name string, lists ...structure.MemberList) Layout {
	t.Helper()
	lo, err := newResolver().NewLayouter(lists, datatype.DefaultRegistry(), alignment)
	if err != nil {
		t.Fatalf("NewLayouter error: %v", err)
	}
	l, err := lo.Layout(name)
	if err != nil {
		t.Fatalf("Layout(%s) error: %v", name, err)
	}
	return l
}

func TestLayoutPacksAndPads(t *testing.T) {
	hk := named("HK",
		bits("uint16_t", "hdr", ""),
		bits("uint8_t", "a", "3"),
		bits("uint8_t", "b", "5"),
		bits("float", "x", ""),
		bits("uint8_t", "y", ""),
	)
	got := layoutOf(t, 4, "HK", hk)
	want := []Slot{
		{First: 0, Last: 0, Offset: 0, Size: 2},
		{First: 1, Last: 2, Offset: 2, Size: 1},
		{First: 3, Last: 3, Offset: 4, Size: 4, Pad: 1},
		{First: 4, Last: 4, Offset: 8, Size: 1},
	}
	if !reflect.DeepEqual(got.Slots, want) {
		t.Fatalf("slots = %+v", got.Slots)
	}
	if got.Size != 12 || got.Align != 4 || got.Trailing != 3 || got.Padding() != 4 {
		t.Fatalf("layout = %+v padding=%d", got, got.Padding())
	}
}

func TestLayoutRolloverStartsNewUnit(t *testing.T) {
	l := named("S", bits("uint8_t", "a", "5"), bits("uint8_t", "b", "4"), bits("uint8_t", "c", "4"))
	got := layoutOf(t, 4, "S", l)
	if len(got.Slots) != 2 || got.Slots[1].First != 1 || got.Slots[1].Last != 2 || got.Size != 2 {
		t.Fatalf("layout = %+v", got)
	}
}

func TestLayoutNested(t *testing.T) {
	vec := named("Vec", bits("double", "x", ""))
	outer := named("Outer", bits("char", "c", ""), bits("Vec", "v", ""))
	for _, c := range []struct {
		alignment, offset, size int
	}{
		{4, 4, 12},
		{8, 8, 16},
		{1, 1, 9},
	} {
		got := layoutOf(t, c.alignment, "Outer", vec, outer)
		if got.Slots[1].Offset != c.offset || got.Size != c.size {
			t.Fatalf("alignment %d: layout = %+v", c.alignment, got)
		}
	}
	if got := layoutOf(t, 4, "Empty", named("Empty")); got.Size != 0 || got.Align != 1 {
		t.Fatalf("empty layout = %+v", got)
	}
}

func TestLayoutErrors(t *testing.T) {
	r := newResolver()
	if _, err := r.NewLayouter(nil, datatype.DefaultRegistry(), 0); err == nil {
		t.Fatalf("expected alignment error")
	}
	lists := []structure.MemberList{
		named("A", bits("B", "b", "")),
		named("B", bits("A", "a", "")),
		named("C", bits("Widget", "w", "")),
		named("D", bits("uint8_t", "a", "1"), bits("uint8_t", "b", ":abc")),
	}
	lo, err := r.NewLayouter(lists, datatype.DefaultRegistry(), 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lo.Layout("A"); err == nil || !strings.Contains(err.Error(), "contains itself") {
		t.Fatalf("cycle error = %v", err)
	}
	if _, err := lo.Layout("C"); err == nil || !strings.Contains(err.Error(), `no structure "Widget"`) {
		t.Fatalf("unknown type error = %v", err)
	}
	var me *MalformedBitLengthError
	if _, err := lo.Layout("D"); !errors.As(err, &me) {
		t.Fatalf("malformed error = %v", err)
	}
	if _, err := lo.Layout("Nope"); err == nil {
		t.Fatalf("expected missing structure error")
	}
}
