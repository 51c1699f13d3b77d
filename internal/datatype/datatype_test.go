package datatype

import (
	"errors"
	"testing"
)

func TestDefaultSizes(t *testing.T) {
	r := DefaultRegistry()
	cases := map[string]int{
		"uint8_t":  8,
		"UINT16_T": 16,
		"int32_t":  32,
		"double":   64,
		"char":     8,
		"string":   8,
		"address":  32,
	}
	for name, want := range cases {
		got, err := r.BitWidthOf(name)
		if err != nil {
			t.Fatalf("BitWidthOf(%q) error: %v", name, err)
		}
		if got != want {
			t.Fatalf("BitWidthOf(%q)=%d want %d", name, got, want)
		}
	}
}

func TestUnknownDataType(t *testing.T) {
	r := DefaultRegistry()
	_, err := r.SizeInBits("MyStruct")
	var ue *UnknownDataTypeError
	if !errors.As(err, &ue) || ue.Name != "MyStruct" {
		t.Fatalf("expected UnknownDataTypeError, got %v", err)
	}
	if r.IsPrimitive("MyStruct") {
		t.Fatalf("structure name reported as primitive")
	}
}

func TestClassification(t *testing.T) {
	r := DefaultRegistry()
	if !r.IsInteger("int8_t") || !r.IsSignedInt("int8_t") || r.IsUnsignedInt("int8_t") {
		t.Fatalf("int8_t classification wrong")
	}
	if !r.IsUnsignedInt("uint32_t") || !r.IsFloat("float") || !r.IsPointer("address") {
		t.Fatalf("classification wrong")
	}
	if !r.IsString("string") || r.IsString("char") || !r.IsCharacter("char") {
		t.Fatalf("string classification wrong")
	}
}

func TestMatch(t *testing.T) {
	r := DefaultRegistry()
	if n, ok := r.Match(2, UnsignedInt); !ok || n != "uint16_t" {
		t.Fatalf("Match(2, unsigned)=%q,%v", n, ok)
	}
	if n, ok := r.Match(8, FloatingPoint); !ok || n != "double" {
		t.Fatalf("Match(8, float)=%q,%v", n, ok)
	}
	if n, ok := r.Match(1, Character); !ok || n != "char" {
		t.Fatalf("Match(1, char)=%q,%v", n, ok)
	}
	if _, ok := r.Match(3, SignedInt); ok {
		t.Fatalf("unexpected match for 3-byte int")
	}
}

func TestUserNameFallsBackToCName(t *testing.T) {
	r := NewRegistry([]DataType{{CName: "short", Size: 2, Base: SignedInt}})
	if _, ok := r.Lookup("short"); !ok {
		t.Fatalf("C name lookup failed")
	}
}

func TestBaseTypeText(t *testing.T) {
	var b BaseType
	if err := b.UnmarshalText([]byte("Unsigned Integer")); err != nil || b != UnsignedInt {
		t.Fatalf("UnmarshalText got %v, %v", b, err)
	}
	if err := b.UnmarshalText([]byte("complex")); err == nil {
		t.Fatalf("expected error for unknown base type")
	}
}
