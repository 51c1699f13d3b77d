package macro

import (
	"errors"
	"testing"
)

func TestExpand(t *testing.T) {
	tbl := NewTable([]Macro{
		{Name: "BITS", Value: "3"},
		{Name: "wide", Value: "##BITS##2"},
		{Name: "dup", Value: "first"},
		{Name: "DUP", Value: "second"},
	})
	cases := []struct{ in, want string }{
		{"5", "5"},
		{"##BITS##", "3"},
		{"##bits##", "3"},
		{"x##BITS##y##BITS##", "x3y3"},
		{"##wide##", "32"},
		{"##Dup##", "first"},
	}
	for _, c := range cases {
		got, err := tbl.Expand(c.in)
		if err != nil {
			t.Fatalf("Expand(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("Expand(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestExpandErrors(t *testing.T) {
	tbl := NewTable([]Macro{
		{Name: "A", Value: "##B##"},
		{Name: "B", Value: "##A##"},
	})
	var ce *MacroCycleError
	if _, err := tbl.Expand("##A##"); !errors.As(err, &ce) {
		t.Fatalf("expected cycle error, got %v", err)
	}
	var ue *UnknownMacroError
	if _, err := tbl.Expand("##NOPE##"); !errors.As(err, &ue) || ue.Name != "NOPE" {
		t.Fatalf("expected unknown macro error, got %v", err)
	}
}

func TestResolveNumeric(t *testing.T) {
	tbl := NewTable([]Macro{{Name: "N", Value: " 12 "}, {Name: "S", Value: "abc"}})
	if v, err := tbl.ResolveNumeric("##N##"); err != nil || v != 12 {
		t.Fatalf("ResolveNumeric got %d, %v", v, err)
	}
	if _, err := tbl.ResolveNumeric("##S##"); err == nil {
		t.Fatalf("expected error for non-numeric expansion")
	}
	var nilTable *Table
	if v, err := nilTable.ResolveNumeric("7"); err != nil || v != 7 {
		t.Fatalf("nil table ResolveNumeric got %d, %v", v, err)
	}
}

func TestHasMacro(t *testing.T) {
	if !HasMacro("x##y##") || HasMacro("x#y#") {
		t.Fatalf("HasMacro mismatch")
	}
}
