package structure

import (
	"fmt"
	"strings"

	"ccdd-pack/internal/arrayvar"
	"ccdd-pack/internal/macro"
	"ccdd-pack/internal/textutil"
)

// ExpandArrays returns a copy of the table in which every array definition
// row is immediately followed by its full, ordered set of member rows.
// Existing member rows keep their own cell values, matched to their slot by
// linear offset; name, data type, array size and bit length always come from
// the definition. Member rows that do not follow a matching definition, or
// whose index lies outside the array, are an error.
func ExpandArrays(t Table, macros *macro.Table) (Table, error) {
	out := t
	out.Rows = make([]Row, 0, len(t.Rows))
	for i := 0; i < len(t.Rows); i++ {
		def := t.Rows[i]
		if arrayvar.IsMember(def.VariableName) {
			return Table{}, fmt.Errorf("table %s row %d: array member %q has no definition row", t.Name, i, def.VariableName)
		}
		out.Rows = append(out.Rows, def)
		if def.ArraySize == "" {
			continue
		}
		dims, err := parseArraySize(def.ArraySize, macros)
		if err != nil {
			return Table{}, fmt.Errorf("table %s variable %s: %w", t.Name, def.VariableName, err)
		}
		names, err := arrayvar.MemberNames(def.VariableName, dims)
		if err != nil {
			return Table{}, fmt.Errorf("table %s variable %s: %w", t.Name, def.VariableName, err)
		}
		existing := map[int]Row{}
		for i+1 < len(t.Rows) && arrayvar.IsMember(t.Rows[i+1].VariableName) &&
			arrayvar.RemoveIndex(t.Rows[i+1].VariableName) == def.VariableName {
			i++
			off, err := arrayvar.Offset(dims, arrayvar.IndexSuffix(t.Rows[i].VariableName))
			if err != nil {
				return Table{}, fmt.Errorf("table %s variable %s: %w", t.Name, t.Rows[i].VariableName, err)
			}
			existing[off] = t.Rows[i]
		}
		for off, name := range names {
			m, ok := existing[off]
			if !ok {
				m = def
			}
			m.VariableName = name
			m.DataType = def.DataType
			m.ArraySize = def.ArraySize
			m.BitLength = def.BitLength
			out.Rows = append(out.Rows, m)
		}
	}
	return out, nil
}

func parseArraySize(size string, macros *macro.Table) ([]int, error) {
	exp, err := macros.Expand(size)
	if err != nil {
		return nil, err
	}
	return arrayvar.ParseSize(exp)
}

// Members derives the physical member list of a structure from its rows:
// scalars and array members in row order. Array definition rows only group
// their members and are not part of the layout. The table should already be
// expanded (see ExpandArrays).
func Members(t Table, macros *macro.Table) (MemberList, error) {
	list := MemberList{Structure: t.Name}
	for i, r := range t.Rows {
		isMember := arrayvar.IsMember(r.VariableName)
		if r.ArraySize != "" && !isMember {
			continue
		}
		d := Declaration{
			Name:      textutil.StripDecoration(r.VariableName),
			DataType:  textutil.StripDecoration(r.DataType),
			BitLength: strings.TrimSpace(r.BitLength),
			Row:       i,
		}
		if isMember {
			dims, err := parseArraySize(r.ArraySize, macros)
			if err != nil {
				return MemberList{}, fmt.Errorf("table %s variable %s: %w", t.Name, r.VariableName, err)
			}
			d.ArraySize = dims
		}
		list.Members = append(list.Members, d)
	}
	return list, nil
}

// ParseNodeName reads a variable tree label of the form
// "dataType.variableName[:bitLength]", stripping any display decoration
// first. Row is set to -1.
func ParseNodeName(label string) (Declaration, error) {
	s := strings.TrimSpace(textutil.StripDecoration(label))
	dot := strings.IndexByte(s, '.')
	if dot <= 0 || dot == len(s)-1 {
		return Declaration{}, fmt.Errorf("variable label %q: expected dataType.variableName", label)
	}
	d := Declaration{DataType: s[:dot], Name: s[dot+1:], Row: -1}
	if c := strings.IndexByte(d.Name, ':'); c != -1 {
		d.BitLength = strings.TrimSpace(d.Name[c+1:])
		d.Name = d.Name[:c]
		if d.BitLength == "" {
			return Declaration{}, fmt.Errorf("variable label %q: empty bit length", label)
		}
	}
	return d, nil
}

// NodeName renders a declaration as a variable tree label.
func NodeName(d Declaration) string {
	s := d.DataType + "." + d.Name
	if d.BitLength != "" {
		s += ":" + d.BitLength
	}
	return s
}

// Definition returns the index of the array definition row that owns member
// row i, located from the member's linear offset within its array.
func Definition(t Table, i int, macros *macro.Table) (int, error) {
	if i < 0 || i >= len(t.Rows) {
		return -1, fmt.Errorf("table %s: row %d out of range", t.Name, i)
	}
	r := t.Rows[i]
	if !arrayvar.IsMember(r.VariableName) {
		return -1, fmt.Errorf("table %s row %d: %q is not an array member", t.Name, i, r.VariableName)
	}
	dims, err := parseArraySize(r.ArraySize, macros)
	if err != nil {
		return -1, fmt.Errorf("table %s variable %s: %w", t.Name, r.VariableName, err)
	}
	off, err := arrayvar.Offset(dims, arrayvar.IndexSuffix(r.VariableName))
	if err != nil {
		return -1, fmt.Errorf("table %s variable %s: %w", t.Name, r.VariableName, err)
	}
	def := i - off - 1
	if def < 0 || t.Rows[def].VariableName != arrayvar.RemoveIndex(r.VariableName) {
		return -1, fmt.Errorf("table %s variable %s: definition row not found at offset %d", t.Name, r.VariableName, off)
	}
	return def, nil
}
