package walkwalk

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func relPaths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func TestCollectFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"tables/b.yaml":     "b",
		"tables/a.CSV":      "a",
		"project.yml":       "p",
		"notes.txt":         "n",
		"build-old/x.yaml":  "x",
		"scratch/tmp.yaml":  "t",
		"scratch/keep.yaml": "k",
		IgnoreFile:          "scratch/*\n!scratch/keep.yaml\n",
	})
	files, err := Collect(root, Options{
		Exts:          []string{".yaml", ".yml", ".csv"},
		Exclude:       []string{"build"},
		UseIgnoreFile: true,
	})
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	want := []string{"project.yml", "scratch/keep.yaml", "tables/a.CSV", "tables/b.yaml"}
	if got := relPaths(files); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if files[2].Ext != ".csv" || files[0].Size != 1 || len(files[0].SHA256Hex) != 64 {
		t.Fatalf("file info = %+v", files[2])
	}
}

func TestCollectSingleFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"one.yaml": "x"})
	files, err := Collect(filepath.Join(root, "one.yaml"), Options{Exts: []string{".csv"}})
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "one.yaml" {
		t.Fatalf("got %+v", files)
	}
}

func TestCollectMissingRoot(t *testing.T) {
	if _, err := Collect(filepath.Join(t.TempDir(), "nope"), Options{}); err == nil {
		t.Fatalf("expected error for missing root")
	}
}

func TestCollectIgnoreRules(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"drafts/a.yaml":     "a",
		"tables/drafts":     "not a directory",
		"tables/hk.yaml":    "hk",
		"tables/hk.bak.csv": "old",
		IgnoreFile:          "# scratch\ndrafts/\n*.bak.csv\n",
	})
	files, err := Collect(root, Options{UseIgnoreFile: true})
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	want := []string{"tables/drafts", "tables/hk.yaml"}
	if got := relPaths(files); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestCollectBadIgnorePattern(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.yaml": "a", IgnoreFile: "[\n"})
	if _, err := Collect(root, Options{UseIgnoreFile: true}); err == nil {
		t.Fatalf("expected error for malformed pattern")
	}
}
