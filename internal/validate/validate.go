// Package validate checks a project's tables before they are resolved or
// exported. It does not stop at the first problem: every issue found is
// collected and returned as one error, one issue per line.
package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ccdd-pack/internal/arrayvar"
	"ccdd-pack/internal/datatype"
	"ccdd-pack/internal/macro"
	"ccdd-pack/internal/project"
	"ccdd-pack/internal/structure"
)

// Project validates every macro and table of p:
//
//   - Table names are non-empty and unique.
//   - Macros expand without unknown references or cycles.
//   - Variable names are non-empty and unique within a table.
//   - Data types name a primitive or another table, never the table itself.
//   - Bit lengths sit on integer types, resolve to a number and fit the type.
//   - Array sizes parse and every definition is followed by all its members.
//   - Enumerations parse and sit on integer or character types.
//   - Minimum and maximum values of primitive types are numeric.
//
// It returns nil if everything looks fine.
func Project(p *project.Project) error {
	var errs errlist
	v := &validator{
		types:  p.Registry(),
		macros: p.MacroTable(),
		tables: make(map[string]bool, len(p.Tables)),
		errs:   &errs,
	}
	for _, m := range p.Macros {
		if _, err := v.macros.Expand("##" + m.Name + "##"); err != nil {
			errs.add("macro %s: %v", m.Name, err)
		}
	}
	for i, t := range p.Tables {
		if strings.TrimSpace(t.Name) == "" {
			errs.add("tables[%d]: name must be non-empty", i)
			continue
		}
		if v.tables[t.Name] {
			errs.add("tables[%d]: duplicate table name %q", i, t.Name)
		}
		v.tables[t.Name] = true
	}
	for _, t := range p.Tables {
		v.table(t)
	}
	return errs.err()
}

type validator struct {
	types  *datatype.Registry
	macros *macro.Table
	tables map[string]bool
	errs   *errlist
}

func (v *validator) table(t structure.Table) {
	seen := make(map[string]bool, len(t.Rows))
	for i := 0; i < len(t.Rows); i++ {
		r := t.Rows[i]
		prefix := fmt.Sprintf("%s row %d (%s)", t.Name, i, r.VariableName)
		if strings.TrimSpace(r.VariableName) == "" {
			v.errs.add("%s: variable name must be non-empty", prefix)
			continue
		}
		if arrayvar.IsMember(r.VariableName) {
			v.errs.add("%s: array member without a preceding definition row", prefix)
			continue
		}
		if seen[r.VariableName] {
			v.errs.add("%s: duplicate variable name", prefix)
		}
		seen[r.VariableName] = true

		v.dataType(t.Name, prefix, r)
		v.bitLength(prefix, r)
		v.enumeration(prefix, r)
		v.limits(prefix, r)
		if r.ArraySize != "" {
			i = v.members(t, i, prefix)
		}
	}
}

func (v *validator) dataType(table, prefix string, r structure.Row) {
	switch {
	case r.DataType == "":
		v.errs.add("%s: data type must be non-empty", prefix)
	case r.DataType == table:
		v.errs.add("%s: structure %s cannot contain itself", prefix, table)
	case !v.types.IsPrimitive(r.DataType) && !v.tables[r.DataType]:
		v.errs.add("%s: unknown data type %q", prefix, r.DataType)
	}
}

func (v *validator) bitLength(prefix string, r structure.Row) {
	if r.BitLength == "" || r.DataType == "" {
		return
	}
	if !v.types.IsInteger(r.DataType) {
		v.errs.add("%s: bit length on non-integer data type %s", prefix, r.DataType)
		return
	}
	bits, err := v.macros.ResolveNumeric(strings.TrimPrefix(strings.TrimSpace(r.BitLength), ":"))
	if err != nil {
		v.errs.add("%s: bit length %q: %v", prefix, r.BitLength, err)
		return
	}
	width, err := v.types.SizeInBits(r.DataType)
	if err != nil {
		v.errs.add("%s: %v", prefix, err)
		return
	}
	if bits < 1 || bits > width {
		v.errs.add("%s: bit length %d must be between 1 and %d for %s", prefix, bits, width, r.DataType)
	}
}

func (v *validator) enumeration(prefix string, r structure.Row) {
	if r.Enumeration == "" {
		return
	}
	if _, err := structure.ParseEnumeration(r.Enumeration); err != nil {
		v.errs.add("%s: %v", prefix, err)
	}
	if v.types.IsPrimitive(r.DataType) && !v.types.IsInteger(r.DataType) && !v.types.IsCharacter(r.DataType) {
		v.errs.add("%s: enumeration on non-integer data type %s", prefix, r.DataType)
	}
}

func (v *validator) limits(prefix string, r structure.Row) {
	if !v.types.IsPrimitive(r.DataType) || v.types.IsCharacter(r.DataType) {
		return
	}
	for _, lim := range []struct{ name, value string }{{"minimum", r.Minimum}, {"maximum", r.Maximum}} {
		if lim.value == "" {
			continue
		}
		exp, err := v.macros.Expand(lim.value)
		if err != nil {
			v.errs.add("%s: %s: %v", prefix, lim.name, err)
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(exp), 64); err != nil {
			v.errs.add("%s: %s %q is not numeric", prefix, lim.name, lim.value)
		}
	}
}

// members checks the member rows that follow the array definition at row i
// and returns the index of the last row it consumed. Each member must sit at
// the row its linear offset within the array points to.
func (v *validator) members(t structure.Table, i int, prefix string) int {
	def := t.Rows[i]
	last := v.skipMembers(t, i)
	exp, err := v.macros.Expand(def.ArraySize)
	if err != nil {
		v.errs.add("%s: array size: %v", prefix, err)
		return last
	}
	dims, err := arrayvar.ParseSize(exp)
	if err != nil {
		v.errs.add("%s: %v", prefix, err)
		return last
	}
	want, err := arrayvar.NumMembers(dims)
	if err != nil {
		v.errs.add("%s: %v", prefix, err)
		return last
	}
	if want == 0 {
		v.errs.add("%s: array size %q has no dimensions", prefix, def.ArraySize)
		return last
	}
	got := last - i
	for j := i + 1; j <= last; j++ {
		m := t.Rows[j]
		if m.DataType != def.DataType || m.ArraySize != def.ArraySize {
			v.errs.add("%s: member %s data type or array size differs from its definition", prefix, m.VariableName)
			continue
		}
		if m.BitLength != def.BitLength {
			v.errs.add("%s: member %s bit length %q differs from its definition %q", prefix, m.VariableName, m.BitLength, def.BitLength)
		}
		if owner, err := structure.Definition(t, j, v.macros); err != nil || owner != i {
			v.errs.add("%s: array member %s is out of place (row %d of %d members)", prefix, m.VariableName, j-i-1, want)
		}
	}
	switch {
	case got < want:
		v.errs.add("%s: missing %d of %d array members", prefix, want-got, want)
	case got > want:
		v.errs.add("%s: %d extra array members", prefix, got-want)
	}
	return last
}

func (v *validator) skipMembers(t structure.Table, i int) int {
	name := t.Rows[i].VariableName
	for i+1 < len(t.Rows) && arrayvar.IsMember(t.Rows[i+1].VariableName) &&
		arrayvar.RemoveIndex(t.Rows[i+1].VariableName) == name {
		i++
	}
	return i
}

// errlist aggregates multiple validation issues into a single error.
type errlist struct {
	msgs []string
}

func (e *errlist) add(format string, args ...any) {
	if e == nil {
		return
	}
	e.msgs = append(e.msgs, fmt.Sprintf(format, args...))
}

func (e *errlist) err() error {
	if e == nil || len(e.msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(e.msgs, "\n"))
}
