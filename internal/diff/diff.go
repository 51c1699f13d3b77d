// Package diff renders structure tables as canonical text and compares two
// renderings as a classic unified patch (---/+++ headers, @@ hunks) using
// github.com/pmezard/go-difflib/difflib.
package diff

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"

	"ccdd-pack/internal/structure"
)

// Options controls patch generation.
type Options struct {
	// MaxBytes is a guardrail on input size (old+new). When exceeded a
	// placeholder patch is returned and oversize is true. 0 means no limit.
	MaxBytes int

	// Context is the number of context lines in hunks; 0 means 3.
	Context int
}

// Unified produces a unified patch for a↦b, or "" when they are equal.
func Unified(aName, bName string, a, b []byte, opt Options) (body string, oversize bool) {
	if opt.MaxBytes > 0 && len(a)+len(b) > opt.MaxBytes {
		return omitted(aName, bName), true
	}
	if string(a) == string(b) {
		return "", false
	}
	ctx := opt.Context
	if ctx <= 0 {
		ctx = 3
	}
	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(string(a)),
		B:        splitLinesKeepNL(string(b)),
		FromFile: aName,
		ToFile:   bName,
		Context:  ctx,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil || s == "" {
		return omitted(aName, bName), false
	}
	return s, false
}

// Tables diffs the canonical text of two table sets.
func Tables(aName, bName string, a, b []structure.Table, opt Options) (string, bool) {
	return Unified(aName, bName, []byte(TablesText(a)), []byte(TablesText(b)), opt)
}

// TablesText renders the tables in order with TableText.
func TablesText(tables []structure.Table) string {
	var b strings.Builder
	for _, t := range tables {
		b.WriteString(TableText(t))
	}
	return b.String()
}

// TableText renders one table, one line per row. Only non-empty cells are
// written, as column=value pairs in column order, so that a changed cell
// shows up as a single changed line.
func TableText(t structure.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "table %s\n", t.Name)
	if t.Description != "" {
		fmt.Fprintf(&b, "  description=%q\n", t.Description)
	}
	if t.MessageID != "" {
		fmt.Fprintf(&b, "  messageID=%q\n", t.MessageID)
	}
	for _, r := range t.Rows {
		b.WriteString("  row")
		for i, v := range r.Values() {
			if v == "" {
				continue
			}
			fmt.Fprintf(&b, " %s=%q", strings.ReplaceAll(structure.Columns[i], " ", ""), v)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.SplitAfter(s, "\n")
}

func omitted(aName, bName string) string {
	return fmt.Sprintf("--- %s\n+++ %s\n@@\n# diff omitted (oversize)\n", aName, bName)
}
