// Package datatype is the primitive data type registry: names, sizes and
// base types used to size bit-fields and to classify table rows for export.
package datatype

import (
	"fmt"
	"strings"
)

// BaseType classifies a primitive data type.
type BaseType int

const (
	SignedInt BaseType = iota
	UnsignedInt
	FloatingPoint
	Character
	Pointer
)

var baseTypeNames = [...]string{
	SignedInt:     "signed integer",
	UnsignedInt:   "unsigned integer",
	FloatingPoint: "floating point",
	Character:     "character",
	Pointer:       "pointer",
}

func (b BaseType) String() string {
	if int(b) >= 0 && int(b) < len(baseTypeNames) {
		return baseTypeNames[b]
	}
	return fmt.Sprintf("BaseType(%d)", int(b))
}

// ParseBaseType converts a base type name ("unsigned integer", ...) back to
// its value. Matching is case-insensitive.
func ParseBaseType(s string) (BaseType, error) {
	s = strings.TrimSpace(s)
	for i, n := range baseTypeNames {
		if strings.EqualFold(n, s) {
			return BaseType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown base data type %q", s)
}

// MarshalText implements encoding.TextMarshaler so project files can spell
// base types by name.
func (b BaseType) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BaseType) UnmarshalText(text []byte) error {
	v, err := ParseBaseType(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// DataType is one primitive data type definition. Size is in bytes; a
// character type with Size > 1 is the string pseudo-type.
type DataType struct {
	UserName string   `yaml:"userName,omitempty"`
	CName    string   `yaml:"cName"`
	Size     int      `yaml:"size"`
	Base     BaseType `yaml:"baseType"`
}

// Name is the user-defined name when set, otherwise the C name.
func (d DataType) Name() string {
	if d.UserName != "" {
		return d.UserName
	}
	return d.CName
}

// Defaults returns the stock primitive set.
func Defaults() []DataType {
	return []DataType{
		{UserName: "int8_t", CName: "signed char", Size: 1, Base: SignedInt},
		{UserName: "int16_t", CName: "signed short int", Size: 2, Base: SignedInt},
		{UserName: "int32_t", CName: "signed int", Size: 4, Base: SignedInt},
		{UserName: "int64_t", CName: "signed long int", Size: 8, Base: SignedInt},
		{UserName: "uint8_t", CName: "unsigned char", Size: 1, Base: UnsignedInt},
		{UserName: "uint16_t", CName: "unsigned short int", Size: 2, Base: UnsignedInt},
		{UserName: "uint32_t", CName: "unsigned int", Size: 4, Base: UnsignedInt},
		{UserName: "uint64_t", CName: "unsigned long int", Size: 8, Base: UnsignedInt},
		{UserName: "float", CName: "float", Size: 4, Base: FloatingPoint},
		{UserName: "double", CName: "double", Size: 8, Base: FloatingPoint},
		{UserName: "char", CName: "char", Size: 1, Base: Character},
		{UserName: "string", CName: "char", Size: 2, Base: Character},
		{UserName: "address", CName: "void *", Size: 4, Base: Pointer},
	}
}

// UnknownDataTypeError reports a data type name with no registered size.
type UnknownDataTypeError struct {
	Name string
}

func (e *UnknownDataTypeError) Error() string {
	return fmt.Sprintf("unknown data type %q", e.Name)
}

// Registry looks data types up by name, case-insensitively. The first
// definition with a given name wins. A Registry is read-only after
// construction.
type Registry struct {
	types  []DataType
	byName map[string]int
}

// NewRegistry builds a registry over the supplied definitions.
func NewRegistry(types []DataType) *Registry {
	r := &Registry{
		types:  append([]DataType(nil), types...),
		byName: make(map[string]int, len(types)),
	}
	for i, t := range r.types {
		key := strings.ToLower(t.Name())
		if _, dup := r.byName[key]; !dup {
			r.byName[key] = i
		}
	}
	return r
}

// DefaultRegistry is NewRegistry(Defaults()).
func DefaultRegistry() *Registry { return NewRegistry(Defaults()) }

// Types returns a copy of the registered definitions in registration order.
func (r *Registry) Types() []DataType {
	return append([]DataType(nil), r.types...)
}

// Lookup returns the definition for name.
func (r *Registry) Lookup(name string) (DataType, bool) {
	i, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return DataType{}, false
	}
	return r.types[i], true
}

func (r *Registry) get(name string) (DataType, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return DataType{}, &UnknownDataTypeError{Name: name}
	}
	return t, nil
}

// IsPrimitive reports whether name is a registered primitive. Anything else
// in a data type column refers to a structure.
func (r *Registry) IsPrimitive(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// SizeInBytes returns the storage size of one element. The string
// pseudo-type reports 1 since each member row holds a single character.
func (r *Registry) SizeInBytes(name string) (int, error) {
	t, err := r.get(name)
	if err != nil {
		return 0, err
	}
	if r.IsString(name) {
		return 1, nil
	}
	return t.Size, nil
}

// SizeInBits is SizeInBytes * 8.
func (r *Registry) SizeInBits(name string) (int, error) {
	n, err := r.SizeInBytes(name)
	if err != nil {
		return 0, err
	}
	return n * 8, nil
}

// BitWidthOf returns the storage unit width used for bit-packing.
func (r *Registry) BitWidthOf(name string) (int, error) {
	return r.SizeInBits(name)
}

func (r *Registry) base(name string) (BaseType, bool) {
	t, ok := r.Lookup(name)
	return t.Base, ok
}

// IsInteger reports a signed or unsigned integer type.
func (r *Registry) IsInteger(name string) bool {
	b, ok := r.base(name)
	return ok && (b == SignedInt || b == UnsignedInt)
}

func (r *Registry) IsSignedInt(name string) bool {
	b, ok := r.base(name)
	return ok && b == SignedInt
}

func (r *Registry) IsUnsignedInt(name string) bool {
	b, ok := r.base(name)
	return ok && b == UnsignedInt
}

func (r *Registry) IsFloat(name string) bool {
	b, ok := r.base(name)
	return ok && b == FloatingPoint
}

func (r *Registry) IsCharacter(name string) bool {
	b, ok := r.base(name)
	return ok && b == Character
}

// IsString reports the string pseudo-type (character with size > 1).
func (r *Registry) IsString(name string) bool {
	t, ok := r.Lookup(name)
	return ok && t.Base == Character && t.Size > 1
}

func (r *Registry) IsPointer(name string) bool {
	b, ok := r.base(name)
	return ok && b == Pointer
}

// Match returns the first registered type with the given size in bytes and
// base type. It is used when an import only carries an encoding.
func (r *Registry) Match(sizeBytes int, base BaseType) (string, bool) {
	for _, t := range r.types {
		if t.Base != base {
			continue
		}
		size := t.Size
		if base == Character {
			size = 1
		}
		if size == sizeBytes {
			return t.Name(), true
		}
	}
	return "", false
}
