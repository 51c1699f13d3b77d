package structure

import (
	"reflect"
	"testing"

	"ccdd-pack/internal/macro"
)

func names(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.VariableName
	}
	return out
}

func TestExpandArrays(t *testing.T) {
	tbl := Table{Name: "T", Rows: []Row{
		{VariableName: "hdr", DataType: "uint16_t"},
		{VariableName: "grid", DataType: "uint8_t", ArraySize: "2,##N##"},
		{VariableName: "grid[0][1]", DataType: "uint8_t", ArraySize: "2,##N##", Description: "kept"},
		{VariableName: "tail", DataType: "float"},
	}}
	got, err := ExpandArrays(tbl, macro.NewTable([]macro.Macro{{Name: "N", Value: "2"}}))
	if err != nil {
		t.Fatalf("ExpandArrays error: %v", err)
	}
	want := []string{"hdr", "grid", "grid[0][0]", "grid[0][1]", "grid[1][0]", "grid[1][1]", "tail"}
	if !reflect.DeepEqual(names(got.Rows), want) {
		t.Fatalf("rows=%v want %v", names(got.Rows), want)
	}
	if got.Rows[3].Description != "kept" {
		t.Fatalf("existing member row values not preserved: %+v", got.Rows[3])
	}
	if got.Rows[2].ArraySize != "2,##N##" || got.Rows[2].DataType != "uint8_t" {
		t.Fatalf("generated member row not copied from definition: %+v", got.Rows[2])
	}
	if len(tbl.Rows) != 4 {
		t.Fatalf("input table modified")
	}
}

func TestExpandArraysOrphanMember(t *testing.T) {
	tbl := Table{Name: "T", Rows: []Row{{VariableName: "x[0]", DataType: "char", ArraySize: "4"}}}
	if _, err := ExpandArrays(tbl, nil); err == nil {
		t.Fatalf("expected error for member row without definition")
	}
}

func TestExpandArraysMemberBitLength(t *testing.T) {
	tbl := Table{Name: "T", Rows: []Row{
		{VariableName: "f", DataType: "uint8_t", ArraySize: "2", BitLength: "3"},
		{VariableName: "f[1]", DataType: "uint8_t", ArraySize: "2", BitLength: ":abc", Units: "V"},
	}}
	got, err := ExpandArrays(tbl, nil)
	if err != nil {
		t.Fatalf("ExpandArrays error: %v", err)
	}
	for _, r := range got.Rows[1:] {
		if r.BitLength != "3" {
			t.Fatalf("member %s bit length %q, want the definition's", r.VariableName, r.BitLength)
		}
	}
	if got.Rows[2].Units != "V" {
		t.Fatalf("member cells lost: %+v", got.Rows[2])
	}
}

func TestExpandArraysErrors(t *testing.T) {
	for name, rows := range map[string][]Row{
		"index outside array": {
			{VariableName: "g", DataType: "int8_t", ArraySize: "2"},
			{VariableName: "g[2]", DataType: "int8_t", ArraySize: "2"},
		},
		"too many dimensions": {
			{VariableName: "g", DataType: "int8_t", ArraySize: "2"},
			{VariableName: "g[0][0]", DataType: "int8_t", ArraySize: "2"},
		},
		"member count overflow": {
			{VariableName: "g", DataType: "uint8_t", ArraySize: "3037000500,3037000500"},
		},
		"bad size": {
			{VariableName: "g", DataType: "uint8_t", ArraySize: "2,x"},
		},
	} {
		if _, err := ExpandArrays(Table{Name: "T", Rows: rows}, nil); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestMembersExcludeDefinitions(t *testing.T) {
	tbl := Table{Name: "T", Rows: []Row{
		{VariableName: "a", DataType: "uint8_t", BitLength: "3"},
		{VariableName: "name", DataType: "char", ArraySize: "3"},
		{VariableName: "name[0]", DataType: "char", ArraySize: "3"},
		{VariableName: "name[1]", DataType: "char", ArraySize: "3"},
		{VariableName: "name[2]", DataType: "char", ArraySize: "3"},
	}}
	list, err := Members(tbl, nil)
	if err != nil {
		t.Fatalf("Members error: %v", err)
	}
	if list.Len() != 4 || list.Structure != "T" {
		t.Fatalf("got %d members for %s", list.Len(), list.Structure)
	}
	if list.Members[0].BitLength != "3" || !list.Members[0].HasBitLength() {
		t.Fatalf("bit length lost: %+v", list.Members[0])
	}
	m := list.Members[1]
	if m.Name != "name[0]" || m.Row != 2 || !reflect.DeepEqual(m.ArraySize, []int{3}) {
		t.Fatalf("member = %+v", m)
	}
	if list.Index("name[2]") != 3 || list.Index("name") != -1 {
		t.Fatalf("Index mismatch")
	}
}

func TestParseNodeName(t *testing.T) {
	cases := []struct {
		in   string
		want Declaration
	}{
		{"uint8_t.flags:3", Declaration{DataType: "uint8_t", Name: "flags", BitLength: "3", Row: -1}},
		{"<html><b>float</b>.temp", Declaration{DataType: "float", Name: "temp", Row: -1}},
		{"char.name[4]", Declaration{DataType: "char", Name: "name[4]", Row: -1}},
		{"uint16_t.x:##W##", Declaration{DataType: "uint16_t", Name: "x", BitLength: "##W##", Row: -1}},
	}
	for _, c := range cases {
		got, err := ParseNodeName(c.in)
		if err != nil {
			t.Fatalf("ParseNodeName(%q) error: %v", c.in, err)
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("ParseNodeName(%q)=%+v want %+v", c.in, got, c.want)
		}
		if c.want.Name != "temp" && NodeName(got) != c.in {
			t.Fatalf("NodeName(%+v)=%q want %q", got, NodeName(got), c.in)
		}
	}
	for _, bad := range []string{"noDot", ".x", "int.", "int.x:"} {
		if _, err := ParseNodeName(bad); err == nil {
			t.Fatalf("ParseNodeName(%q) expected error", bad)
		}
	}
}

func TestRowSet(t *testing.T) {
	var r Row
	for i, c := range Columns {
		if !r.Set(c, c) {
			t.Fatalf("Set(%q) rejected", c)
		}
		if r.Values()[i] != c {
			t.Fatalf("Values()[%d]=%q want %q", i, r.Values()[i], c)
		}
	}
	if r.Set("Bogus", "x") {
		t.Fatalf("Set accepted unknown column")
	}
}

func TestDefinition(t *testing.T) {
	tbl := Table{Name: "T", Rows: []Row{{VariableName: "x", DataType: "float"}, {VariableName: "g", DataType: "int8_t", ArraySize: "2,3"}}}
	tbl, err := ExpandArrays(tbl, nil)
	if err != nil {
		t.Fatalf("ExpandArrays error: %v", err)
	}
	for i := 2; i < len(tbl.Rows); i++ {
		def, err := Definition(tbl, i, nil)
		if err != nil || def != 1 {
			t.Fatalf("Definition(%d)=%d, %v", i, def, err)
		}
	}
	if _, err := Definition(tbl, 0, nil); err == nil {
		t.Fatalf("expected error for scalar row")
	}
}

func TestParseEnumeration(t *testing.T) {
	got, err := ParseEnumeration("0|Off,1|On, 2 | Fault")
	if err != nil {
		t.Fatalf("ParseEnumeration error: %v", err)
	}
	want := []EnumValue{{0, "Off"}, {1, "On"}, {2, "Fault"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v", got)
	}
	again, err := ParseEnumeration(FormatEnumeration(got))
	if err != nil || !reflect.DeepEqual(again, want) {
		t.Fatalf("reparse got %+v, %v", again, err)
	}
	single, err := ParseEnumeration("7=Seven")
	if err != nil || !reflect.DeepEqual(single, []EnumValue{{7, "Seven"}}) {
		t.Fatalf("single pair got %+v, %v", single, err)
	}
	for _, bad := range []string{"", "Off|0", "|B"} {
		if _, err := ParseEnumeration(bad); err == nil {
			t.Fatalf("ParseEnumeration(%q) expected error", bad)
		}
	}
}
