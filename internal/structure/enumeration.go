package structure

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// EnumValue is one value/label pair of an enumeration cell.
type EnumValue struct {
	Value int
	Label string
}

var enumLeadRe = regexp.MustCompile(`^\s*\d+\s*([^\d\s])`)

// ParseEnumeration splits an enumeration cell such as "0|Off,1|On". The
// value separator is the first character after the leading value; the pair
// separator is the character that ends the first label.
func ParseEnumeration(s string) ([]EnumValue, error) {
	m := enumLeadRe.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("enumeration %q: initial non-negative integer or value separator missing", s)
	}
	valSep := m[1]
	parts := regexp.MustCompile(`\s*\d+\s*` + regexp.QuoteMeta(valSep)).Split(s, -1)
	pairs := []string{s}
	if len(parts) > 2 {
		first := strings.TrimRight(parts[1], " \t")
		if first == "" {
			return nil, fmt.Errorf("enumeration %q: separator between enumerated pairs missing", s)
		}
		pairSep := first[len(first)-1:]
		pairs = strings.Split(s, pairSep)
	}
	out := make([]EnumValue, 0, len(pairs))
	for _, p := range pairs {
		vl := strings.SplitN(p, valSep, 2)
		if len(vl) != 2 {
			return nil, fmt.Errorf("enumeration %q: pair %q has no value separator", s, p)
		}
		v, err := strconv.Atoi(strings.TrimSpace(vl[0]))
		if err != nil {
			return nil, fmt.Errorf("enumeration %q: value %q is not an integer", s, strings.TrimSpace(vl[0]))
		}
		out = append(out, EnumValue{Value: v, Label: strings.TrimSpace(vl[1])})
	}
	return out, nil
}

// FormatEnumeration renders pairs as "value|label" joined by ", ".
func FormatEnumeration(vals []EnumValue) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v.Value) + " | " + v.Label
	}
	return strings.Join(parts, ", ")
}
