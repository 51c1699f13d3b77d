package validate

import (
	"strings"
	"testing"

	"ccdd-pack/internal/macro"
	"ccdd-pack/internal/project"
	"ccdd-pack/internal/structure"
)

func valid() *project.Project {
	return &project.Project{
		Name:   "demo",
		Macros: []macro.Macro{{Name: "W", Value: "5"}, {Name: "N", Value: "2"}},
		Tables: []structure.Table{
			{Name: "Vec", Rows: []structure.Row{{VariableName: "x", DataType: "float", Minimum: "-1.5", Maximum: "1.5"}}},
			{Name: "HK", Rows: []structure.Row{
				{VariableName: "a", DataType: "uint8_t", BitLength: "3"},
				{VariableName: "b", DataType: "uint8_t", BitLength: "##W##"},
				{VariableName: "mode", DataType: "uint8_t", Enumeration: "0|Off,1|On"},
				{VariableName: "pos", DataType: "Vec"},
				{VariableName: "ids", DataType: "uint16_t", ArraySize: "##N##"},
				{VariableName: "ids[0]", DataType: "uint16_t", ArraySize: "##N##"},
				{VariableName: "ids[1]", DataType: "uint16_t", ArraySize: "##N##"},
			}},
		},
	}
}

func TestProjectValid(t *testing.T) {
	if err := Project(valid()); err != nil {
		t.Fatalf("unexpected issues:\n%v", err)
	}
}

func TestProjectIssues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p *project.Project)
		want   string
	}{
		{"empty table name", func(p *project.Project) { p.Tables[0].Name = "" }, "name must be non-empty"},
		{"duplicate table", func(p *project.Project) { p.Tables[1].Name = "Vec" }, "duplicate table name"},
		{"macro cycle", func(p *project.Project) { p.Macros[0].Value = "##W##" }, "macro W"},
		{"duplicate variable", func(p *project.Project) { p.Tables[1].Rows[1].VariableName = "a" }, "duplicate variable name"},
		{"unknown type", func(p *project.Project) { p.Tables[1].Rows[3].DataType = "Nope" }, `unknown data type "Nope"`},
		{"self reference", func(p *project.Project) { p.Tables[0].Rows[0].DataType = "Vec" }, "cannot contain itself"},
		{"bit length on float", func(p *project.Project) { p.Tables[0].Rows[0].BitLength = "3" }, "non-integer data type float"},
		{"bit length too wide", func(p *project.Project) { p.Tables[1].Rows[0].BitLength = "9" }, "between 1 and 8"},
		{"malformed bit length", func(p *project.Project) { p.Tables[1].Rows[0].BitLength = ":abc" }, `bit length ":abc"`},
		{"bad enumeration", func(p *project.Project) { p.Tables[1].Rows[2].Enumeration = "Off" }, "enumeration"},
		{"enumeration on float", func(p *project.Project) { p.Tables[0].Rows[0].Enumeration = "0|A" }, "enumeration on non-integer"},
		{"non-numeric limit", func(p *project.Project) { p.Tables[0].Rows[0].Maximum = "lots" }, `maximum "lots" is not numeric`},
		{"missing member", func(p *project.Project) { p.Tables[1].Rows = p.Tables[1].Rows[:6] }, "missing 1 of 2 array members"},
		{"member bit length", func(p *project.Project) { p.Tables[1].Rows[6].BitLength = ":abc" }, `member ids[1] bit length ":abc" differs`},
		{"swapped members", func(p *project.Project) {
			r := p.Tables[1].Rows
			r[5].VariableName, r[6].VariableName = r[6].VariableName, r[5].VariableName
		}, "array member ids[1] is out of place"},
		{"member index outside array", func(p *project.Project) { p.Tables[1].Rows[6].VariableName = "ids[7]" }, "array member ids[7] is out of place"},
		{"member count overflow", func(p *project.Project) {
			p.Tables[1].Rows = append(p.Tables[1].Rows, structure.Row{VariableName: "big", DataType: "uint8_t", ArraySize: "3037000500,3037000500"})
		}, "more than 1048576 members"},
		{"malformed array size", func(p *project.Project) {
			p.Tables[1].Rows = append(p.Tables[1].Rows, structure.Row{VariableName: "z", DataType: "char", ArraySize: "x"})
		}, `non-numeric value "x"`},
		{"orphan member", func(p *project.Project) {
			p.Tables[0].Rows = append(p.Tables[0].Rows, structure.Row{VariableName: "y[0]", DataType: "float"})
		}, "without a preceding definition"},
	}
	for _, c := range cases {
		p := valid()
		c.mutate(p)
		err := Project(p)
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Fatalf("%s: expected issue containing %q, got %v", c.name, c.want, err)
		}
	}
}

func TestProjectAggregates(t *testing.T) {
	p := valid()
	p.Tables[1].Rows[0].DataType = ""
	p.Tables[1].Rows[3].DataType = "Nope"
	err := Project(p)
	if err == nil {
		t.Fatalf("expected issues")
	}
	if n := len(strings.Split(err.Error(), "\n")); n != 2 {
		t.Fatalf("expected 2 issues, got %d:\n%v", n, err)
	}
}
