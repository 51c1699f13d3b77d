// Package eds maps structure tables to and from an electronic data sheet
// (EDS) XML document: one Package per table, holding the data types of its
// variables, a member container and a telemetry parameter set.
//
// Table metadata that has no natural EDS element travels in shortDescription
// attributes as "key==value" pairs joined by ",,". Import prefers that side
// channel and falls back to the XML structure when it is absent, so
// documents produced by other tools can still be read.
package eds

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Namespace is the EDS schema namespace written on the root element.
const Namespace = "http://www.ccsds.org/schema/sois/seds"

// Type name suffixes.
const (
	TypeSuffix  = "_Type"
	ArraySuffix = "_Array"
)

// TelemetryInterface names the interface that carries table variables.
const TelemetryInterface = "Telemetry"

// Encoding attribute values.
const (
	EncodingUnsigned      = "unsigned"
	EncodingSignMagnitude = "signMagnitude"
	EncodingUTF8          = "UTF-8"
	ByteOrderBig          = "bigEndian"
	ByteOrderLittle       = "littleEndian"
	FloatSingle           = "IEEE754_2008_single"
	FloatDouble           = "IEEE754_2008_double"
	FloatQuad             = "IEEE754_2008_quad"
	RangeInclusive        = "inclusiveMinInclusiveMax"
)

type DataSheet struct {
	XMLName  xml.Name  `xml:"DataSheet"`
	Xmlns    string    `xml:"xmlns,attr,omitempty"`
	Device   Device    `xml:"Device"`
	Packages []Package `xml:"Package"`
}

type Device struct {
	Name             string `xml:"name,attr"`
	ShortDescription string `xml:"shortDescription,attr,omitempty"`
	LongDescription  string `xml:"LongDescription,omitempty"`
}

type Package struct {
	Name                 string                `xml:"name,attr"`
	ShortDescription     string                `xml:"shortDescription,attr,omitempty"`
	LongDescription      string                `xml:"LongDescription,omitempty"`
	DataTypeSet          *DataTypeSet          `xml:"DataTypeSet"`
	DeclaredInterfaceSet *DeclaredInterfaceSet `xml:"DeclaredInterfaceSet"`
}

// DataTypeSet groups data types by kind. Element order inside the set is
// not significant; types are referenced by name.
type DataTypeSet struct {
	Arrays      []ArrayDataType      `xml:"ArrayDataType"`
	Integers    []IntegerDataType    `xml:"IntegerDataType"`
	Floats      []FloatDataType      `xml:"FloatDataType"`
	Strings     []StringDataType     `xml:"StringDataType"`
	Enumerateds []EnumeratedDataType `xml:"EnumeratedDataType"`
	Containers  []ContainerDataType  `xml:"ContainerDataType"`
}

func (s *DataTypeSet) empty() bool {
	return len(s.Arrays)+len(s.Integers)+len(s.Floats)+len(s.Strings)+len(s.Enumerateds)+len(s.Containers) == 0
}

type ArrayDataType struct {
	Name          string        `xml:"name,attr"`
	DataTypeRef   string        `xml:"dataTypeRef,attr"`
	DimensionList DimensionList `xml:"DimensionList"`
}

type DimensionList struct {
	Dimensions []Dimension `xml:"Dimension"`
}

type Dimension struct {
	Size int `xml:"size,attr"`
}

type IntegerDataEncoding struct {
	SizeInBits int    `xml:"sizeInBits,attr"`
	Encoding   string `xml:"encoding,attr"`
	ByteOrder  string `xml:"byteOrder,attr,omitempty"`
}

type MinMaxRange struct {
	Min       string `xml:"min,attr,omitempty"`
	Max       string `xml:"max,attr,omitempty"`
	RangeType string `xml:"rangeType,attr"`
}

type Range struct {
	MinMaxRange *MinMaxRange `xml:"MinMaxRange"`
}

type Semantics struct {
	Unit string `xml:"unit,attr"`
}

type IntegerDataType struct {
	Name            string               `xml:"name,attr"`
	LongDescription string               `xml:"LongDescription,omitempty"`
	Encoding        *IntegerDataEncoding `xml:"IntegerDataEncoding"`
	Range           *Range               `xml:"Range"`
	Semantics       *Semantics           `xml:"Semantics"`
}

type FloatDataEncoding struct {
	EncodingAndPrecision string `xml:"encodingAndPrecision,attr"`
	ByteOrder            string `xml:"byteOrder,attr,omitempty"`
}

type FloatDataType struct {
	Name            string             `xml:"name,attr"`
	LongDescription string             `xml:"LongDescription,omitempty"`
	Encoding        *FloatDataEncoding `xml:"FloatDataEncoding"`
	Semantics       *Semantics         `xml:"Semantics"`
}

type StringDataEncoding struct {
	Encoding  string `xml:"encoding,attr"`
	ByteOrder string `xml:"byteOrder,attr,omitempty"`
}

type StringDataType struct {
	Name            string              `xml:"name,attr"`
	Length          int                 `xml:"length,attr"`
	LongDescription string              `xml:"LongDescription,omitempty"`
	Encoding        *StringDataEncoding `xml:"StringDataEncoding"`
}

type Enumeration struct {
	Value int    `xml:"value,attr"`
	Label string `xml:"label,attr"`
}

type EnumerationList struct {
	Enumerations []Enumeration `xml:"Enumeration"`
}

type EnumeratedDataType struct {
	Name            string               `xml:"name,attr"`
	LongDescription string               `xml:"LongDescription,omitempty"`
	Encoding        *IntegerDataEncoding `xml:"IntegerDataEncoding"`
	EnumerationList EnumerationList      `xml:"EnumerationList"`
}

type ContainerDataType struct {
	Name            string     `xml:"name,attr"`
	BaseType        string     `xml:"baseType,attr,omitempty"`
	LongDescription string     `xml:"LongDescription,omitempty"`
	EntryList       *EntryList `xml:"EntryList"`
}

type EntryList struct {
	Entries []Entry `xml:"Entry"`
}

type Entry struct {
	Name       string `xml:"name,attr"`
	Type       string `xml:"type,attr"`
	ValidRange *Range `xml:"ValidRange"`
}

type DeclaredInterfaceSet struct {
	Interfaces []Interface `xml:"Interface"`
}

type Interface struct {
	Name         string        `xml:"name,attr"`
	ParameterSet *ParameterSet `xml:"ParameterSet"`
}

type ParameterSet struct {
	Parameters []Parameter `xml:"Parameter"`
}

type Parameter struct {
	Name             string `xml:"name,attr"`
	Type             string `xml:"type,attr"`
	ShortDescription string `xml:"shortDescription,attr,omitempty"`
	LongDescription  string `xml:"LongDescription,omitempty"`
}

// Marshal renders the sheet as indented XML with a declaration header.
func Marshal(sheet *DataSheet) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(sheet); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Unmarshal parses an EDS document. Syntax errors and a wrong root element
// are reported as *ParseError.
func Unmarshal(data []byte) (*DataSheet, error) {
	var sheet DataSheet
	if err := xml.Unmarshal(data, &sheet); err != nil {
		return nil, &ParseError{Msg: "malformed XML", Err: err}
	}
	if sheet.Device.Name == "" {
		return nil, &ParseError{Element: "Device", Msg: "missing name attribute"}
	}
	return &sheet, nil
}

// String summarizes the sheet for log lines.
func (s *DataSheet) String() string {
	return fmt.Sprintf("data sheet %s (%d packages)", s.Device.Name, len(s.Packages))
}
