// Package structure defines structure tables (row-oriented, as edited and
// exported) and the ordered member lists derived from them for pack
// resolution.
package structure

// Standard structure table column names, in table order.
const (
	ColVariableName = "Variable Name"
	ColDataType     = "Data Type"
	ColArraySize    = "Array Size"
	ColBitLength    = "Bit Length"
	ColDescription  = "Description"
	ColUnits        = "Units"
	ColEnumeration  = "Enumeration"
	ColMinimum      = "Minimum"
	ColMaximum      = "Maximum"
	ColRate         = "Rate"
)

// Columns lists the structure columns in table order.
var Columns = []string{
	ColVariableName, ColDataType, ColArraySize, ColBitLength, ColDescription,
	ColUnits, ColEnumeration, ColMinimum, ColMaximum, ColRate,
}

// Row is one structure table row. An array appears as a definition row
// (ArraySize set, name without index) followed by one member row per element
// (name with index suffix, same ArraySize).
type Row struct {
	VariableName string `yaml:"variableName"`
	DataType     string `yaml:"dataType"`
	ArraySize    string `yaml:"arraySize,omitempty"`
	BitLength    string `yaml:"bitLength,omitempty"`
	Description  string `yaml:"description,omitempty"`
	Units        string `yaml:"units,omitempty"`
	Enumeration  string `yaml:"enumeration,omitempty"`
	Minimum      string `yaml:"minimum,omitempty"`
	Maximum      string `yaml:"maximum,omitempty"`
	Rate         string `yaml:"rate,omitempty"`
}

// Values returns the row cells in Columns order.
func (r Row) Values() []string {
	return []string{
		r.VariableName, r.DataType, r.ArraySize, r.BitLength, r.Description,
		r.Units, r.Enumeration, r.Minimum, r.Maximum, r.Rate,
	}
}

// Set assigns a cell by column name; unknown columns are ignored and
// reported false.
func (r *Row) Set(column, value string) bool {
	switch column {
	case ColVariableName:
		r.VariableName = value
	case ColDataType:
		r.DataType = value
	case ColArraySize:
		r.ArraySize = value
	case ColBitLength:
		r.BitLength = value
	case ColDescription:
		r.Description = value
	case ColUnits:
		r.Units = value
	case ColEnumeration:
		r.Enumeration = value
	case ColMinimum:
		r.Minimum = value
	case ColMaximum:
		r.Maximum = value
	case ColRate:
		r.Rate = value
	default:
		return false
	}
	return true
}

// Table is one structure table.
type Table struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	MessageID   string `yaml:"messageID,omitempty"`
	Rows        []Row  `yaml:"rows"`
}

// Declaration is one member of a structure in physical layout order. Name
// carries any array index suffix; ArraySize is the owning array's
// dimensions (nil for scalars). BitLength is the raw cell text, possibly a
// macro expression; "" means not a bit-field.
type Declaration struct {
	Name      string
	DataType  string
	BitLength string
	ArraySize []int
	Row       int // index of the source row in the table, -1 if unknown
}

// HasBitLength reports whether the declaration is a bit-field.
func (d Declaration) HasBitLength() bool {
	return d.BitLength != ""
}

// MemberList is the ordered member sequence of one structure. Order is the
// declaration order and is never re-sorted.
type MemberList struct {
	Structure string
	Members   []Declaration
}

// Len returns the number of members.
func (l MemberList) Len() int { return len(l.Members) }

// Index returns the position of the member with the given variable name, or
// -1.
func (l MemberList) Index(name string) int {
	for i, m := range l.Members {
		if m.Name == name {
			return i
		}
	}
	return -1
}
