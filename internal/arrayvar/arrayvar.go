// Package arrayvar handles the textual form of array variables: array size
// cells ("3,4" or "[3][4]"), member index suffixes ("[1][2]") and the
// row-major mapping between a suffix and its linear member offset.
//
// Member rows are matched downstream by string equality, so FormatIndex is
// the single place that decides how a suffix is spelled.
package arrayvar

import (
	"fmt"
	"strconv"
	"strings"
)

// RemoveIndex strips every array index from a variable name: "a[1][2]" -> "a".
func RemoveIndex(name string) string {
	if i := strings.IndexByte(name, '['); i != -1 {
		return name[:i]
	}
	return name
}

// RemoveStringSize strips only the last array index, which for a character
// array is the string size dimension: "s[1][7]" -> "s[1]".
func RemoveStringSize(name string) string {
	if i := strings.LastIndexByte(name, '['); i != -1 {
		return name[:i]
	}
	return name
}

// IndexSuffix returns the array index portion of a member name ("[1][2]"), or
// "" when the name carries no index.
func IndexSuffix(name string) string {
	if i := strings.IndexByte(name, '['); i != -1 {
		return name[i:]
	}
	return ""
}

// IsMember reports whether name denotes an array member (ends with ']').
func IsMember(name string) bool {
	return strings.HasSuffix(name, "]")
}

// FormatIndex renders index values as a bracketed suffix: [1 2] -> "[1][2]".
func FormatIndex(idx []int) string {
	var b strings.Builder
	for _, v := range idx {
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(v))
		b.WriteByte(']')
	}
	return b.String()
}

// FormatSize renders dimensions in the comma form used by array size cells.
func FormatSize(dims []int) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// ParseSize parses an array size cell in either "#,#,..." or "[#][#]..."
// form. A blank cell yields nil (not an array).
func ParseSize(s string) ([]int, error) {
	vals, err := parseList(s)
	if err != nil {
		return nil, fmt.Errorf("array size %q: %w", s, err)
	}
	for _, v := range vals {
		if v < 1 {
			return nil, fmt.Errorf("array size %q: dimension must be >= 1", s)
		}
	}
	return vals, nil
}

// ParseIndex parses a member suffix ("[1][2]" or "1,2") into index values.
func ParseIndex(s string) ([]int, error) {
	vals, err := parseList(s)
	if err != nil {
		return nil, fmt.Errorf("array index %q: %w", s, err)
	}
	for _, v := range vals {
		if v < 0 {
			return nil, fmt.Errorf("array index %q: negative index", s)
		}
	}
	return vals, nil
}

func parseList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "[") {
		s = strings.ReplaceAll(s, "][", ",")
		s = strings.NewReplacer("[", "", "]", "").Replace(s)
	}
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("non-numeric value %q", strings.TrimSpace(f))
		}
		out[i] = v
	}
	return out, nil
}

// MaxMembers caps the member count of one array. Every member becomes a
// table row, so larger arrays are rejected rather than expanded.
const MaxMembers = 1 << 20

// NumMembers returns the total member count for the dimensions; 0 when dims
// is empty (not an array). A product above MaxMembers is an error.
func NumMembers(dims []int) (int, error) {
	if len(dims) == 0 {
		return 0, nil
	}
	n := 1
	for _, d := range dims {
		if d < 1 {
			return 0, fmt.Errorf("array size %s: dimension must be >= 1", FormatSize(dims))
		}
		if n > MaxMembers/d {
			return 0, fmt.Errorf("array size %s: more than %d members", FormatSize(dims), MaxMembers)
		}
		n *= d
	}
	return n, nil
}

// IndexAt returns the index tuple of the member at linear offset in
// row-major order.
func IndexAt(dims []int, linear int) ([]int, error) {
	total, err := NumMembers(dims)
	if err != nil {
		return nil, err
	}
	if linear < 0 || linear >= total {
		return nil, fmt.Errorf("member offset %d outside array of %d members", linear, total)
	}
	idx := make([]int, len(dims))
	for i := len(dims) - 1; i >= 0; i-- {
		idx[i] = linear % dims[i]
		linear /= dims[i]
	}
	return idx, nil
}

// Offset maps a member suffix back to its linear row offset within the
// array. The suffix must name exactly one index per dimension, each inside
// its bound.
func Offset(dims []int, suffix string) (int, error) {
	idx, err := ParseIndex(suffix)
	if err != nil {
		return 0, err
	}
	if len(idx) != len(dims) {
		return 0, fmt.Errorf("array index %q: %d indices for %d dimensions", suffix, len(idx), len(dims))
	}
	off := 0
	for i, v := range idx {
		if v >= dims[i] {
			return 0, fmt.Errorf("array index %q: index %d out of bounds (size %d)", suffix, v, dims[i])
		}
		off = off*dims[i] + v
	}
	return off, nil
}

// MemberNames returns the member names of an array in row-major order.
func MemberNames(name string, dims []int) ([]string, error) {
	n, err := NumMembers(dims)
	if err != nil || n == 0 {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		idx, err := IndexAt(dims, i)
		if err != nil {
			return nil, err
		}
		out[i] = name + FormatIndex(idx)
	}
	return out, nil
}
