// Package textutil holds small text normalizers shared by the loaders and
// the tree-name parser.
package textutil

import (
	"bytes"
	"regexp"
	"strings"
)

// NormalizeUTF8LF converts CRLF to LF and ensures the output is valid UTF-8
// by replacing invalid byte sequences with the Unicode replacement character.
func NormalizeUTF8LF(b []byte) []byte {
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	b = bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
	// Drop a leading BOM.
	b = bytes.TrimPrefix(b, []byte("\uFEFF"))
	return bytes.ToValidUTF8(b, []byte("\uFFFD"))
}

// EnsureTrailingLF appends a single \n if not already present.
func EnsureTrailingLF(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

var (
	tagRe    = regexp.MustCompile(`<[^>]*>`)
	entityRe = regexp.MustCompile(`&[^;\s]+;`)
)

// StripDecoration removes HTML markup used to decorate tree and table display
// text: <br> becomes a space, other tags are dropped, the common entities are
// decoded and any remaining entity is removed.
func StripDecoration(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	s = strings.ReplaceAll(s, "<br>", " ")
	s = tagRe.ReplaceAllString(s, "")
	s = strings.NewReplacer(
		"&#160;", " ",
		"&nbsp;", " ",
		"&amp;", "&",
		"&gt;", ">",
		"&lt;", "<",
	).Replace(s)
	return entityRe.ReplaceAllString(s, "")
}
