// Package pack resolves which members of a structure share storage: runs of
// bit-fields packed into one storage unit, and the character members that
// make up one string.
//
// Resolution works on structure.MemberList values only; display text is
// stripped before a list is built, never here. Packing is greedy in
// declaration order, matching how the members are laid out by the compiler
// the tables describe; no attempt is made to find a denser packing.
package pack

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ccdd-pack/internal/arrayvar"
	"ccdd-pack/internal/structure"
)

// ErrIndexOutOfRange is returned when the target index is not a member of
// the list.
var ErrIndexOutOfRange = errors.New("member index out of range")

// MalformedBitLengthError reports a bit length cell that does not resolve to
// a non-negative integer.
type MalformedBitLengthError struct {
	Structure string
	Variable  string
	Text      string
	Err       error
}

func (e *MalformedBitLengthError) Error() string {
	msg := fmt.Sprintf("%s.%s: malformed bit length %q", e.Structure, e.Variable, e.Text)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedBitLengthError) Unwrap() error { return e.Err }

// Range bounds the members that share storage with Target. First and Last
// are inclusive; First <= Target <= Last always holds.
type Range struct {
	First  int
	Last   int
	Target int
}

// Len is the number of members in the range.
func (r Range) Len() int { return r.Last - r.First + 1 }

// Contains reports whether index i lies in the range.
func (r Range) Contains(i int) bool { return i >= r.First && i <= r.Last }

func single(target int) Range { return Range{First: target, Last: target, Target: target} }

// MacroResolver turns a (possibly macro-bearing) cell into an integer.
// *macro.Table implements it.
type MacroResolver interface {
	ResolveNumeric(text string) (int, error)
}

// TypeResolver supplies storage widths and character classification.
// *datatype.Registry implements it.
type TypeResolver interface {
	BitWidthOf(dataType string) (int, error)
	IsCharacter(dataType string) bool
}

// Resolver computes pack and string ranges. It holds no mutable state and is
// safe for concurrent use when its collaborators are.
type Resolver struct {
	macros MacroResolver
	types  TypeResolver
}

// NewResolver returns a Resolver. A nil MacroResolver treats bit lengths as
// plain integers.
func NewResolver(macros MacroResolver, types TypeResolver) *Resolver {
	if macros == nil {
		macros = literal{}
	}
	return &Resolver{macros: macros, types: types}
}

type literal struct{}

func (literal) ResolveNumeric(text string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(text))
}

func checkIndex(list structure.MemberList, target int) error {
	if target < 0 || target >= len(list.Members) {
		return fmt.Errorf("%s: index %d of %d members: %w", list.Structure, target, len(list.Members), ErrIndexOutOfRange)
	}
	return nil
}

// BitLength resolves the bit length of member i. A leading ':' (the tree
// label separator) is tolerated.
func (r *Resolver) BitLength(list structure.MemberList, i int) (int, error) {
	m := list.Members[i]
	text := strings.TrimPrefix(strings.TrimSpace(m.BitLength), ":")
	v, err := r.macros.ResolveNumeric(text)
	if err != nil {
		return 0, &MalformedBitLengthError{Structure: list.Structure, Variable: m.Name, Text: m.BitLength, Err: err}
	}
	if v < 0 {
		return 0, &MalformedBitLengthError{Structure: list.Structure, Variable: m.Name, Text: m.BitLength}
	}
	return v, nil
}

// Check resolves the bit length of every bit-field in the list and returns
// the first *MalformedBitLengthError. A structure that fails Check yields no
// pack ranges at all.
func (r *Resolver) Check(list structure.MemberList) error {
	for i, m := range list.Members {
		if !m.HasBitLength() {
			continue
		}
		if _, err := r.BitLength(list, i); err != nil {
			return err
		}
	}
	return nil
}

// PackRange returns the run of bit-fields packed into the same storage unit
// as the target. Partners are contiguous siblings with a bit length and the
// target's data type. When the running bit total overflows the type's width
// before the target is reached, a new unit starts at the overflowing member;
// after the target is reached, overflow closes the run. A target without a
// bit length, or one alone in its unit, yields a single-member range. A
// malformed bit length anywhere in the list fails every target (see Check).
func (r *Resolver) PackRange(list structure.MemberList, target int) (Range, error) {
	if err := checkIndex(list, target); err != nil {
		return Range{}, err
	}
	if err := r.Check(list); err != nil {
		return Range{}, err
	}
	return r.packRange(list, target)
}

// packRange is PackRange for a list that has passed Check.
func (r *Resolver) packRange(list structure.MemberList, target int) (Range, error) {
	tgt := list.Members[target]
	if !tgt.HasBitLength() {
		return single(target), nil
	}
	width, err := r.types.BitWidthOf(tgt.DataType)
	if err != nil {
		return Range{}, fmt.Errorf("%s.%s: %w", list.Structure, tgt.Name, err)
	}
	partner := func(i int) bool {
		m := list.Members[i]
		return m.HasBitLength() && m.DataType == tgt.DataType
	}

	cur := target - 1
	for cur >= 0 && partner(cur) {
		cur--
	}
	cur++
	first := cur

	bitCount := 0
	inPack := false
	for ; cur < len(list.Members); cur++ {
		if !partner(cur) {
			break
		}
		bits, err := r.BitLength(list, cur)
		if err != nil {
			return Range{}, err
		}
		bitCount += bits
		if bitCount > width {
			if inPack {
				break
			}
			bitCount = bits
			first = cur
		}
		if cur == target {
			inPack = true
		}
	}
	last := cur
	if inPack {
		last--
	}
	return Range{First: first, Last: last, Target: target}, nil
}

// StringKey is the grouping key for string members: data type and variable
// name with the string size (last) index removed.
func StringKey(d structure.Declaration) string {
	return d.DataType + "." + arrayvar.RemoveStringSize(d.Name)
}

// StringMemberRange returns the contiguous run of siblings that belong to
// the same string as the target, i.e. share its StringKey. No capacity is
// involved.
func (r *Resolver) StringMemberRange(list structure.MemberList, target int) (Range, error) {
	if err := checkIndex(list, target); err != nil {
		return Range{}, err
	}
	key := StringKey(list.Members[target])
	first := target
	for first > 0 && StringKey(list.Members[first-1]) == key {
		first--
	}
	last := target
	for last < len(list.Members)-1 && StringKey(list.Members[last+1]) == key {
		last++
	}
	return Range{First: first, Last: last, Target: target}, nil
}

// IsStringMember reports whether the member is one character of a string:
// an array member of a character type.
func (r *Resolver) IsStringMember(d structure.Declaration) bool {
	return len(d.ArraySize) > 0 && arrayvar.IsMember(d.Name) && r.types.IsCharacter(d.DataType)
}
