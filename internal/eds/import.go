package eds

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ccdd-pack/internal/arrayvar"
	"ccdd-pack/internal/datatype"
	"ccdd-pack/internal/macro"
	"ccdd-pack/internal/structure"
)

// typeIndex maps the data type names of one package to their definitions.
type typeIndex struct {
	arrays      map[string]*ArrayDataType
	integers    map[string]*IntegerDataType
	floats      map[string]*FloatDataType
	strings     map[string]*StringDataType
	enumerateds map[string]*EnumeratedDataType
	containers  map[string]*ContainerDataType
}

func newTypeIndex(set *DataTypeSet) *typeIndex {
	idx := &typeIndex{
		arrays:      map[string]*ArrayDataType{},
		integers:    map[string]*IntegerDataType{},
		floats:      map[string]*FloatDataType{},
		strings:     map[string]*StringDataType{},
		enumerateds: map[string]*EnumeratedDataType{},
		containers:  map[string]*ContainerDataType{},
	}
	if set == nil {
		return idx
	}
	for i := range set.Arrays {
		idx.arrays[set.Arrays[i].Name] = &set.Arrays[i]
	}
	for i := range set.Integers {
		idx.integers[set.Integers[i].Name] = &set.Integers[i]
	}
	for i := range set.Floats {
		idx.floats[set.Floats[i].Name] = &set.Floats[i]
	}
	for i := range set.Strings {
		idx.strings[set.Strings[i].Name] = &set.Strings[i]
	}
	for i := range set.Enumerateds {
		idx.enumerateds[set.Enumerateds[i].Name] = &set.Enumerateds[i]
	}
	for i := range set.Containers {
		idx.containers[set.Containers[i].Name] = &set.Containers[i]
	}
	return idx
}

func (idx *typeIndex) has(name string) bool {
	return idx.arrays[name] != nil || idx.integers[name] != nil || idx.floats[name] != nil ||
		idx.strings[name] != nil || idx.enumerateds[name] != nil || idx.containers[name] != nil
}

type importer struct {
	types  *datatype.Registry
	macros *macro.Table
}

// Import converts every package of the sheet into a structure table. Types
// named only by encoding are matched against the registry. Array
// definitions are followed by regenerated member rows, which copy the
// definition's cells. Any problem aborts the import with a *ParseError and
// no tables are returned.
func Import(sheet *DataSheet, types *datatype.Registry, macros *macro.Table) ([]structure.Table, error) {
	if sheet == nil {
		return nil, &ParseError{Msg: "no document"}
	}
	if types == nil {
		types = datatype.DefaultRegistry()
	}
	im := &importer{types: types, macros: macros}
	seen := map[string]bool{}
	tables := make([]structure.Table, 0, len(sheet.Packages))
	for i := range sheet.Packages {
		t, err := im.pkg(&sheet.Packages[i])
		if err != nil {
			return nil, err
		}
		if seen[t.Name] {
			return nil, &ParseError{Package: sheet.Packages[i].Name, Msg: fmt.Sprintf("table %s defined more than once", t.Name)}
		}
		seen[t.Name] = true
		tables = append(tables, t)
	}
	return tables, nil
}

func (im *importer) pkg(p *Package) (structure.Table, error) {
	if p.Name == "" {
		return structure.Table{}, &ParseError{Element: "Package", Msg: "missing name attribute"}
	}
	sc, err := decodeSideChannel(p.ShortDescription)
	if err != nil {
		return structure.Table{}, &ParseError{Package: p.Name, Element: "shortDescription", Msg: "bad side channel", Err: err}
	}
	t := structure.Table{Name: p.Name, Description: p.LongDescription, MessageID: sc[KeyMessageID]}
	if name := sc[KeyTable]; name != "" {
		t.Name = name
	}

	idx := newTypeIndex(p.DataTypeSet)
	ranges := im.validRanges(idx, t.Name, p.Name)
	for _, param := range telemetry(p) {
		r, err := im.row(idx, param, ranges[param.Name])
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Package = p.Name
				return structure.Table{}, pe
			}
			return structure.Table{}, &ParseError{Package: p.Name, Element: fmt.Sprintf("Parameter %q", param.Name), Msg: "cannot convert", Err: err}
		}
		t.Rows = append(t.Rows, r)
	}
	out, err := structure.ExpandArrays(t, im.macros)
	if err != nil {
		return structure.Table{}, &ParseError{Package: p.Name, Msg: "cannot expand arrays", Err: err}
	}
	return out, nil
}

// telemetry returns the parameters of the telemetry interface, or of the
// first interface that has any when none is named that way.
func telemetry(p *Package) []Parameter {
	if p.DeclaredInterfaceSet == nil {
		return nil
	}
	var first []Parameter
	for _, in := range p.DeclaredInterfaceSet.Interfaces {
		if in.ParameterSet == nil {
			continue
		}
		if in.Name == TelemetryInterface {
			return in.ParameterSet.Parameters
		}
		if first == nil {
			first = in.ParameterSet.Parameters
		}
	}
	return first
}

// validRanges reads entry ranges from the table's member container.
func (im *importer) validRanges(idx *typeIndex, tableName, pkgName string) map[string]*MinMaxRange {
	out := map[string]*MinMaxRange{}
	c := idx.containers[tableName+TypeSuffix]
	if c == nil {
		c = idx.containers[pkgName+TypeSuffix]
	}
	if c == nil || c.EntryList == nil {
		return out
	}
	for _, e := range c.EntryList.Entries {
		if e.ValidRange != nil && e.ValidRange.MinMaxRange != nil {
			out[e.Name] = e.ValidRange.MinMaxRange
		}
	}
	return out
}

func (im *importer) row(idx *typeIndex, param Parameter, rng *MinMaxRange) (structure.Row, error) {
	element := fmt.Sprintf("Parameter %q", param.Name)
	if param.Name == "" {
		return structure.Row{}, &ParseError{Element: "Parameter", Msg: "missing name attribute"}
	}
	sc, err := decodeSideChannel(param.ShortDescription)
	if err != nil {
		return structure.Row{}, &ParseError{Element: element, Msg: "bad side channel", Err: err}
	}
	if !idx.has(param.Type) {
		return structure.Row{}, &ParseError{Element: element, Msg: fmt.Sprintf("unknown type %q", param.Type)}
	}

	r := structure.Row{VariableName: param.Name, Description: param.LongDescription}
	elem := param.Type
	var dims []int
	if arr := idx.arrays[param.Type]; arr != nil {
		for _, d := range arr.DimensionList.Dimensions {
			if d.Size <= 0 {
				return structure.Row{}, &ParseError{Element: element, Msg: fmt.Sprintf("array %s has dimension size %d", arr.Name, d.Size)}
			}
			dims = append(dims, d.Size)
		}
		if len(dims) == 0 {
			return structure.Row{}, &ParseError{Element: element, Msg: fmt.Sprintf("array %s has no dimensions", arr.Name)}
		}
		elem = arr.DataTypeRef
		r.ArraySize = arrayvar.FormatSize(dims)
	}
	if v, ok := sc[KeyArraySize]; ok {
		r.ArraySize = v
	}

	if _, ok := sc[KeyDataType]; ok {
		r.DataType = sc[KeyDataType]
		r.BitLength = sc[KeyBitLength]
		r.Enumeration = sc[KeyEnumeration]
		r.Units = sc[KeyUnits]
		r.Minimum = sc[KeyMinimum]
		r.Maximum = sc[KeyMaximum]
		r.Rate = sc[KeyRate]
		return r, nil
	}

	if !idx.has(elem) {
		return structure.Row{}, &ParseError{Element: element, Msg: fmt.Sprintf("unknown element type %q", elem)}
	}
	if err := im.infer(idx, elem, len(dims) > 0, &r); err != nil {
		return structure.Row{}, &ParseError{Element: element, Msg: "cannot infer data type", Err: err}
	}
	r.Rate = sc[KeyRate]
	if rng != nil {
		r.Minimum, r.Maximum = rng.Min, rng.Max
	}
	return r, nil
}

// infer fills the data type cells of r from the XML type named elem.
func (im *importer) infer(idx *typeIndex, elem string, isArray bool, r *structure.Row) error {
	switch {
	case idx.integers[elem] != nil:
		it := idx.integers[elem]
		if err := im.integer(it.Encoding, r); err != nil {
			return err
		}
		if it.Semantics != nil {
			r.Units = it.Semantics.Unit
		}

	case idx.enumerateds[elem] != nil:
		et := idx.enumerateds[elem]
		if err := im.integer(et.Encoding, r); err != nil {
			return err
		}
		vals := make([]structure.EnumValue, 0, len(et.EnumerationList.Enumerations))
		for _, e := range et.EnumerationList.Enumerations {
			vals = append(vals, structure.EnumValue{Value: e.Value, Label: e.Label})
		}
		r.Enumeration = structure.FormatEnumeration(vals)

	case idx.floats[elem] != nil:
		ft := idx.floats[elem]
		if ft.Encoding == nil {
			return fmt.Errorf("float type %s has no encoding", elem)
		}
		var size int
		switch ft.Encoding.EncodingAndPrecision {
		case FloatSingle:
			size = 4
		case FloatDouble:
			size = 8
		case FloatQuad:
			size = 16
		default:
			return fmt.Errorf("float type %s: unsupported encoding %q", elem, ft.Encoding.EncodingAndPrecision)
		}
		name, ok := im.types.Match(size, datatype.FloatingPoint)
		if !ok {
			return fmt.Errorf("no %d-byte floating point data type", size)
		}
		r.DataType = name
		if ft.Semantics != nil {
			r.Units = ft.Semantics.Unit
		}

	case idx.strings[elem] != nil:
		st := idx.strings[elem]
		name, ok := im.types.Match(1, datatype.Character)
		if !ok {
			return fmt.Errorf("no character data type")
		}
		r.DataType = name
		if !isArray && st.Length > 1 {
			r.ArraySize = strconv.Itoa(st.Length)
		}

	case idx.containers[elem] != nil:
		c := idx.containers[elem]
		r.DataType = c.BaseType
		if r.DataType == "" {
			r.DataType = strings.TrimSuffix(c.Name, TypeSuffix)
		}

	default:
		return fmt.Errorf("type %s cannot be used as a variable type", elem)
	}
	return nil
}

// integer picks the smallest registered integer type that holds the encoded
// width; a width that is not a whole type becomes a bit length.
func (im *importer) integer(enc *IntegerDataEncoding, r *structure.Row) error {
	if enc == nil {
		return fmt.Errorf("integer type has no encoding")
	}
	if enc.SizeInBits <= 0 {
		return fmt.Errorf("sizeInBits %d is not positive", enc.SizeInBits)
	}
	base := datatype.SignedInt
	if enc.Encoding == EncodingUnsigned {
		base = datatype.UnsignedInt
	}
	for _, size := range []int{1, 2, 4, 8} {
		if enc.SizeInBits > size*8 {
			continue
		}
		name, ok := im.types.Match(size, base)
		if !ok {
			continue
		}
		r.DataType = name
		if enc.SizeInBits != size*8 {
			r.BitLength = strconv.Itoa(enc.SizeInBits)
		}
		return nil
	}
	return fmt.Errorf("no %s data type holds %d bits", base, enc.SizeInBits)
}
