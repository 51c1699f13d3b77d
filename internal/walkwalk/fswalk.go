// Package walkwalk provides a deterministic, filterable filesystem walker
// used to gather the definition files of a project directory.
package walkwalk

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// FileInfo describes one collected file.
type FileInfo struct {
	RelPath   string // root-relative path with forward slashes
	AbsPath   string
	Size      int64
	SHA256Hex string // lowercase hex sha256 of the contents
	Ext       string // lowercase extension including dot (e.g., ".yaml")
}

// Options filters a walk. Exclude entries match a base name exactly or as a
// prefix ("build" skips "build-old"). An empty Exts accepts every file.
// Symbolic links are never followed.
type Options struct {
	Exts          []string
	Exclude       []string
	UseIgnoreFile bool // honor <root>/.ccddignore
}

// IgnoreFile is the ignore file read from the walk root when enabled.
const IgnoreFile = ".ccddignore"

type walkState struct {
	opt   Options
	exts  map[string]struct{}
	root  string
	rules []ignoreRule
	files []FileInfo
}

// Collect walks root and returns the matching files sorted by RelPath. A
// root that names a single file yields just that file.
func Collect(root string, opt Options) ([]FileInfo, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	ws := &walkState{opt: opt, exts: make(map[string]struct{}, len(opt.Exts)), root: abs}
	for _, e := range opt.Exts {
		ws.exts[strings.ToLower(e)] = struct{}{}
	}
	if !st.IsDir() {
		ws.root = filepath.Dir(abs)
		if err := ws.add(abs, filepath.Base(abs), st.Size()); err != nil {
			return nil, err
		}
		return ws.files, nil
	}
	if opt.UseIgnoreFile {
		rules, err := readIgnoreFile(filepath.Join(abs, IgnoreFile))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		ws.rules = rules
	}
	if err := filepath.WalkDir(abs, ws.visit); err != nil {
		return nil, err
	}
	sort.Slice(ws.files, func(i, j int) bool { return ws.files[i].RelPath < ws.files[j].RelPath })
	return ws.files, nil
}

func (ws *walkState) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		return err
	}
	if path == ws.root {
		return nil
	}
	rel, ok := ws.relative(path)
	if !ok || d.Type()&fs.ModeSymlink != 0 {
		return nil
	}
	if ws.skipped(rel, d.IsDir()) {
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}
	if d.IsDir() || !ws.accepts(path) {
		return nil
	}
	info, err := d.Info()
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	return ws.add(path, rel, info.Size())
}

func (ws *walkState) add(path, rel string, size int64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hash %s: %w", rel, err)
	}
	ws.files = append(ws.files, FileInfo{
		RelPath:   rel,
		AbsPath:   path,
		Size:      size,
		SHA256Hex: hex.EncodeToString(h.Sum(nil)),
		Ext:       strings.ToLower(filepath.Ext(path)),
	})
	return nil
}

func (ws *walkState) relative(path string) (string, bool) {
	rel, err := filepath.Rel(ws.root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	return rel, rel != ".." && !strings.HasPrefix(rel, "../")
}

func (ws *walkState) skipped(rel string, isDir bool) bool {
	base := path.Base(rel)
	if base == IgnoreFile {
		return true
	}
	for _, ex := range ws.opt.Exclude {
		if ex != "" && strings.HasPrefix(base, ex) {
			return true
		}
	}
	ignored := false
	for _, r := range ws.rules {
		if r.matches(rel, isDir) {
			ignored = !r.keep
		}
	}
	return ignored
}

func (ws *walkState) accepts(name string) bool {
	if len(ws.exts) == 0 {
		return true
	}
	_, ok := ws.exts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ignoreRule is one line of the ignore file. A pattern without a slash
// matches a base name at any depth; one with a slash matches the whole
// root-relative path. "!" re-includes, a trailing "/" matches directories
// only. The last matching rule wins.
type ignoreRule struct {
	pattern string
	keep    bool
	dirOnly bool
}

func (r ignoreRule) matches(rel string, isDir bool) bool {
	if r.dirOnly && !isDir {
		return false
	}
	name := rel
	if !strings.Contains(r.pattern, "/") {
		name = path.Base(rel)
	}
	ok, _ := path.Match(r.pattern, name)
	return ok
}

func readIgnoreFile(name string) ([]ignoreRule, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var rules []ignoreRule
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		var r ignoreRule
		if strings.HasPrefix(line, "!") {
			r.keep = true
			line = strings.TrimSpace(line[1:])
		}
		r.dirOnly = strings.HasSuffix(line, "/")
		r.pattern = strings.Trim(line, "/")
		if r.pattern == "" {
			continue
		}
		if _, err := path.Match(r.pattern, ""); err != nil {
			return nil, fmt.Errorf("%s: pattern %q: %w", filepath.Base(name), line, err)
		}
		rules = append(rules, r)
	}
	return rules, sc.Err()
}
