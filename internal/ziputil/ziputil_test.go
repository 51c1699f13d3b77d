package ziputil

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestSanitizePath(t *testing.T) {
	cases := map[string]string{
		"tables/HK.xml":     "tables/HK.xml",
		"/abs/x.xml":        "abs/x.xml",
		"C:/tables/x.xml":   "tables/x.xml",
		"tables/../../x":    "x",
		"./a/./b":           "a/b",
		"":                  "entry",
		"tables/a/../b.xml": "tables/b.xml",
	}
	for in, want := range cases {
		if got := SanitizePath(in); got != want {
			t.Fatalf("SanitizePath(%q)=%q want %q", in, got, want)
		}
	}
}

func TestReserve(t *testing.T) {
	w := NewWriter(io.Discard)
	got := []string{
		w.Reserve("tables/HK.xml"),
		w.Reserve("tables/hk.xml"),
		w.Reserve("/tables/HK.xml"),
		w.Reserve("README"),
		w.Reserve("readme"),
	}
	want := []string{"tables/HK.xml", "tables/hk-1.xml", "tables/HK-2.xml", "README", "readme-1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestAddFixedTime(t *testing.T) {
	var buf bytes.Buffer
	zw := NewWriter(&buf)
	if err := zw.Add("../a.txt", []byte("hello\n")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	f := zr.File[0]
	if f.Name != "a.txt" || !f.Modified.Equal(FixedZipTime) {
		t.Fatalf("entry %q modified %v", f.Name, f.Modified)
	}
	rc, err := f.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	if b, _ := io.ReadAll(rc); string(b) != "hello\n" {
		t.Fatalf("content %q", b)
	}
}
