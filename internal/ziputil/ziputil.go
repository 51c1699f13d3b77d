// Package ziputil writes reproducible ZIP archives: every entry has the same
// timestamp and mode, and entry names are relative, slash separated and
// unique regardless of case.
package ziputil

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// FixedZipTime is the modification time of every entry (1980-01-01 UTC).
var FixedZipTime = time.Unix(315532800, 0).UTC()

// SanitizePath turns p into a relative entry name. Drive letters, leading
// slashes and "." or ".." segments are dropped; ".." never climbs above the
// archive root.
func SanitizePath(p string) string {
	s := filepath.ToSlash(p)
	if len(s) > 1 && s[1] == ':' {
		s = s[2:]
	}
	s = strings.TrimPrefix(path.Clean("/"+s), "/")
	if s == "" {
		return "entry"
	}
	return s
}

// Writer adds entries to a ZIP stream.
type Writer struct {
	zw   *zip.Writer
	used map[string]bool
}

// NewWriter returns a Writer on w. Close must be called to finish the archive.
func NewWriter(w io.Writer) *Writer {
	return &Writer{zw: zip.NewWriter(w), used: map[string]bool{}}
}

// Reserve sanitizes name and claims it, appending -1, -2, ... before the
// extension when an entry differing only in case is already taken.
func (w *Writer) Reserve(name string) string {
	name = SanitizePath(name)
	ext := path.Ext(name)
	if ext == name || strings.HasSuffix(name, "/"+ext) {
		ext = ""
	}
	stem := strings.TrimSuffix(name, ext)
	for n := 0; ; n++ {
		alt := name
		if n > 0 {
			alt = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}
		if key := strings.ToLower(alt); !w.used[key] {
			w.used[key] = true
			return alt
		}
	}
}

// Add writes data as a deflated entry. The name is used as given after
// sanitizing; call Reserve first to make it unique.
func (w *Writer) Add(name string, data []byte) error {
	h := &zip.FileHeader{Name: SanitizePath(name), Method: zip.Deflate, Modified: FixedZipTime}
	h.SetMode(0o644)
	f, err := w.zw.CreateHeader(h)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Close finishes the archive. It does not close the underlying writer.
func (w *Writer) Close() error {
	return w.zw.Close()
}
