// Package macro expands ##name## references in table cells and resolves
// expanded text to integers (bit lengths, array sizes).
package macro

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Identifier delimits a macro name inside cell text.
const Identifier = "##"

// maxDepth bounds nested expansion; cycles are reported before this is hit.
const maxDepth = 32

var refRe = regexp.MustCompile(Identifier + `([^#]+)` + Identifier)

// Macro is one name/value definition.
type Macro struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// UnknownMacroError reports a reference to an undefined macro.
type UnknownMacroError struct {
	Name string
}

func (e *UnknownMacroError) Error() string {
	return fmt.Sprintf("undefined macro %q", e.Name)
}

// MacroCycleError reports a macro whose value refers back to itself.
type MacroCycleError struct {
	Chain []string
}

func (e *MacroCycleError) Error() string {
	return "macro reference cycle: " + strings.Join(e.Chain, " -> ")
}

// Table holds macro definitions. Names are matched case-insensitively and the
// first definition of a name wins.
type Table struct {
	macros []Macro
	byName map[string]string
}

// NewTable builds a table from definitions.
func NewTable(macros []Macro) *Table {
	t := &Table{
		macros: append([]Macro(nil), macros...),
		byName: make(map[string]string, len(macros)),
	}
	for _, m := range t.macros {
		key := strings.ToLower(m.Name)
		if _, dup := t.byName[key]; !dup {
			t.byName[key] = m.Value
		}
	}
	return t
}

// Macros returns a copy of the definitions in declaration order.
func (t *Table) Macros() []Macro {
	if t == nil {
		return nil
	}
	return append([]Macro(nil), t.macros...)
}

// Value returns the raw (unexpanded) value of a macro.
func (t *Table) Value(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.byName[strings.ToLower(name)]
	return v, ok
}

// HasMacro reports whether text contains a macro reference.
func HasMacro(text string) bool {
	return refRe.MatchString(text)
}

// Expand replaces every macro reference in text with its value. Values that
// themselves contain references are expanded too.
func (t *Table) Expand(text string) (string, error) {
	return t.expand(text, nil)
}

func (t *Table) expand(text string, chain []string) (string, error) {
	if !strings.Contains(text, Identifier) {
		return text, nil
	}
	var b strings.Builder
	last := 0
	for _, loc := range refRe.FindAllStringSubmatchIndex(text, -1) {
		name := text[loc[2]:loc[3]]
		for _, c := range chain {
			if strings.EqualFold(c, name) {
				return "", &MacroCycleError{Chain: append(append([]string(nil), chain...), name)}
			}
		}
		if len(chain) >= maxDepth {
			return "", &MacroCycleError{Chain: append(append([]string(nil), chain...), name)}
		}
		val, ok := t.Value(name)
		if !ok {
			return "", &UnknownMacroError{Name: name}
		}
		exp, err := t.expand(val, append(chain, name))
		if err != nil {
			return "", err
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(exp)
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

// ResolveNumeric expands text and parses the result as a base-10 integer.
func (t *Table) ResolveNumeric(text string) (int, error) {
	exp, err := t.Expand(text)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(exp))
	if err != nil {
		return 0, fmt.Errorf("%q does not resolve to an integer (expanded %q)", text, exp)
	}
	return v, nil
}
