package eds

import (
	"errors"
	"fmt"

	"ccdd-pack/internal/arrayvar"
	"ccdd-pack/internal/datatype"
	"ccdd-pack/internal/macro"
	"ccdd-pack/internal/project"
	"ccdd-pack/internal/structure"
)

type exporter struct {
	types     *datatype.Registry
	macros    *macro.Table
	byteOrder string
}

// Export builds a data sheet holding every table of the project, in project
// order. Array member rows are folded into their definition's array type.
func Export(p *project.Project) (*DataSheet, error) {
	e := &exporter{types: p.Registry(), macros: p.MacroTable(), byteOrder: ByteOrderLittle}
	if p.BigEndian() {
		e.byteOrder = ByteOrderBig
	}
	sheet := &DataSheet{Xmlns: Namespace, Device: Device{Name: p.Name}}
	if sheet.Device.Name == "" {
		sheet.Device.Name = "project"
	}
	for _, t := range p.Tables {
		pkg, err := e.table(t)
		if err != nil {
			return nil, err
		}
		sheet.Packages = append(sheet.Packages, pkg)
	}
	return sheet, nil
}

// packageState collects the types of one package and refuses duplicate
// names, except for structure containers which may be referenced many
// times.
type packageState struct {
	set   DataTypeSet
	names map[string]bool
}

func (ps *packageState) claim(name string) error {
	if ps.names[name] {
		return fmt.Errorf("data type name %s used twice", name)
	}
	ps.names[name] = true
	return nil
}

func (e *exporter) table(t structure.Table) (Package, error) {
	pkg := Package{Name: t.Name, LongDescription: t.Description}
	sc, scErr := encodeSideChannel(pair{KeyTable, t.Name}, pair{KeyMessageID, t.MessageID})
	if scErr != nil {
		scErr.Table = t.Name
		return Package{}, scErr
	}
	pkg.ShortDescription = sc

	ps := &packageState{names: map[string]bool{}}
	var params []Parameter
	var entries []Entry
	for i, r := range t.Rows {
		if arrayvar.IsMember(r.VariableName) {
			continue
		}
		if r.VariableName == "" || r.DataType == "" {
			return Package{}, fmt.Errorf("eds: table %s row %d: variable name and data type are required", t.Name, i)
		}
		param, err := e.parameter(ps, r)
		if err != nil {
			var sce *SideChannelError
			if errors.As(err, &sce) {
				sce.Table = t.Name
				return Package{}, sce
			}
			return Package{}, fmt.Errorf("eds: table %s variable %s: %w", t.Name, r.VariableName, err)
		}
		params = append(params, param)
		entry := Entry{Name: r.VariableName, Type: param.Type}
		if r.Minimum != "" || r.Maximum != "" {
			entry.ValidRange = &Range{MinMaxRange: &MinMaxRange{Min: r.Minimum, Max: r.Maximum, RangeType: RangeInclusive}}
		}
		entries = append(entries, entry)
	}
	if len(entries) > 0 {
		name := t.Name + TypeSuffix
		if err := ps.claim(name); err != nil {
			return Package{}, fmt.Errorf("eds: table %s: %w", t.Name, err)
		}
		ps.set.Containers = append(ps.set.Containers, ContainerDataType{Name: name, EntryList: &EntryList{Entries: entries}})
	}
	if !ps.set.empty() {
		pkg.DataTypeSet = &ps.set
	}
	if len(params) > 0 {
		pkg.DeclaredInterfaceSet = &DeclaredInterfaceSet{Interfaces: []Interface{{
			Name:         TelemetryInterface,
			ParameterSet: &ParameterSet{Parameters: params},
		}}}
	}
	return pkg, nil
}

// parameter adds the data types for one scalar or array definition row and
// returns its parameter.
func (e *exporter) parameter(ps *packageState, r structure.Row) (Parameter, error) {
	primitive := e.types.IsPrimitive(r.DataType)
	elemName := r.DataType + TypeSuffix
	if primitive {
		elemName = r.VariableName + TypeSuffix
	}
	param := Parameter{Name: r.VariableName, Type: elemName, LongDescription: r.Description}

	var dims []int
	arraySize := ""
	if r.ArraySize != "" {
		exp, err := e.macros.Expand(r.ArraySize)
		if err != nil {
			return Parameter{}, err
		}
		if dims, err = arrayvar.ParseSize(exp); err != nil {
			return Parameter{}, err
		}
		if len(dims) == 0 {
			return Parameter{}, fmt.Errorf("array size %q has no dimensions", r.ArraySize)
		}
		if macro.HasMacro(r.ArraySize) || r.ArraySize != arrayvar.FormatSize(dims) {
			arraySize = r.ArraySize
		}
		arr := ArrayDataType{Name: r.VariableName + ArraySuffix, DataTypeRef: elemName}
		for _, d := range dims {
			arr.DimensionList.Dimensions = append(arr.DimensionList.Dimensions, Dimension{Size: d})
		}
		if err := ps.claim(arr.Name); err != nil {
			return Parameter{}, err
		}
		ps.set.Arrays = append(ps.set.Arrays, arr)
		param.Type = arr.Name
	}

	if primitive {
		if err := ps.claim(elemName); err != nil {
			return Parameter{}, err
		}
		if err := e.primitive(ps, elemName, r, dims); err != nil {
			return Parameter{}, err
		}
	} else if !ps.names[elemName] {
		ps.names[elemName] = true
		ps.set.Containers = append(ps.set.Containers, ContainerDataType{Name: elemName, BaseType: r.DataType})
	}

	sc, scErr := encodeSideChannel(
		pair{KeyDataType, r.DataType},
		pair{KeyArraySize, arraySize},
		pair{KeyBitLength, r.BitLength},
		pair{KeyEnumeration, r.Enumeration},
		pair{KeyUnits, r.Units},
		pair{KeyMinimum, r.Minimum},
		pair{KeyMaximum, r.Maximum},
		pair{KeyRate, r.Rate},
	)
	if scErr != nil {
		scErr.Variable = r.VariableName
		return Parameter{}, scErr
	}
	param.ShortDescription = sc
	return param, nil
}

func (e *exporter) integerEncoding(r structure.Row) (*IntegerDataEncoding, error) {
	bits, err := e.types.SizeInBits(r.DataType)
	if err != nil {
		return nil, err
	}
	if r.BitLength != "" {
		if bits, err = e.macros.ResolveNumeric(r.BitLength); err != nil {
			return nil, fmt.Errorf("bit length: %w", err)
		}
	}
	enc := &IntegerDataEncoding{SizeInBits: bits, Encoding: EncodingSignMagnitude, ByteOrder: e.byteOrder}
	if e.types.IsUnsignedInt(r.DataType) || e.types.IsPointer(r.DataType) {
		enc.Encoding = EncodingUnsigned
	}
	return enc, nil
}

func (e *exporter) primitive(ps *packageState, name string, r structure.Row, dims []int) error {
	var semantics *Semantics
	if r.Units != "" {
		semantics = &Semantics{Unit: r.Units}
	}
	isInt := e.types.IsInteger(r.DataType) || e.types.IsPointer(r.DataType)
	isChar := e.types.IsCharacter(r.DataType)

	switch {
	case r.Enumeration != "" && (isInt || isChar):
		vals, err := structure.ParseEnumeration(r.Enumeration)
		if err != nil {
			return err
		}
		enc, err := e.integerEncoding(r)
		if err != nil {
			return err
		}
		et := EnumeratedDataType{Name: name, LongDescription: r.Description, Encoding: enc}
		for _, v := range vals {
			et.EnumerationList.Enumerations = append(et.EnumerationList.Enumerations, Enumeration{Value: v.Value, Label: v.Label})
		}
		ps.set.Enumerateds = append(ps.set.Enumerateds, et)

	case isInt:
		enc, err := e.integerEncoding(r)
		if err != nil {
			return err
		}
		ps.set.Integers = append(ps.set.Integers, IntegerDataType{
			Name:            name,
			LongDescription: r.Description,
			Encoding:        enc,
			Range:           &Range{MinMaxRange: &MinMaxRange{RangeType: RangeInclusive}},
			Semantics:       semantics,
		})

	case e.types.IsFloat(r.DataType):
		size, err := e.types.SizeInBytes(r.DataType)
		if err != nil {
			return err
		}
		var precision string
		switch size {
		case 4:
			precision = FloatSingle
		case 8:
			precision = FloatDouble
		case 16:
			precision = FloatQuad
		default:
			return fmt.Errorf("no IEEE 754 encoding for a %d-byte float", size)
		}
		ps.set.Floats = append(ps.set.Floats, FloatDataType{
			Name:            name,
			LongDescription: r.Description,
			Encoding:        &FloatDataEncoding{EncodingAndPrecision: precision, ByteOrder: e.byteOrder},
			Semantics:       semantics,
		})

	case isChar:
		length := 1
		if len(dims) > 0 {
			length = dims[len(dims)-1]
		}
		ps.set.Strings = append(ps.set.Strings, StringDataType{
			Name:            name,
			Length:          length,
			LongDescription: r.Description,
			Encoding:        &StringDataEncoding{Encoding: EncodingUTF8, ByteOrder: e.byteOrder},
		})

	default:
		return fmt.Errorf("data type %s has no EDS mapping", r.DataType)
	}
	return nil
}
