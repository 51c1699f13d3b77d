// Package project loads and saves project definitions: data types, macros and
// structure tables. A project is read from a YAML file, a tagged CSV file, or
// a directory holding any mix of them.
package project

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"ccdd-pack/internal/datatype"
	"ccdd-pack/internal/fileio"
	"ccdd-pack/internal/macro"
	"ccdd-pack/internal/structure"
	"ccdd-pack/internal/textutil"
	"ccdd-pack/internal/walkwalk"
)

// Endianness names the byte order written into exported encodings.
type Endianness string

const (
	BigEndian    Endianness = "big"
	LittleEndian Endianness = "little"
)

// ParseEndianness accepts "big"/"little" and the BIG_ENDIAN/LITTLE_ENDIAN
// spellings. Blank means big.
func ParseEndianness(s string) (Endianness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "big", "big_endian", "bigendian":
		return BigEndian, nil
	case "little", "little_endian", "littleendian":
		return LittleEndian, nil
	}
	return "", fmt.Errorf("unknown endianness %q (want big or little)", s)
}

// Project is a complete set of definitions. Sources and Notes are filled by
// Load and never serialized.
type Project struct {
	Name       string              `yaml:"name"`
	Endianness Endianness          `yaml:"endianness,omitempty"`
	DataTypes  []datatype.DataType `yaml:"dataTypes,omitempty"`
	Macros     []macro.Macro       `yaml:"macros,omitempty"`
	Tables     []structure.Table   `yaml:"tables,omitempty"`

	Sources []walkwalk.FileInfo `yaml:"-"`
	Notes   []string            `yaml:"-"`
}

// Registry returns the project's data types, or the default primitive set
// when the project defines none.
func (p *Project) Registry() *datatype.Registry {
	if len(p.DataTypes) == 0 {
		return datatype.DefaultRegistry()
	}
	return datatype.NewRegistry(p.DataTypes)
}

// MacroTable returns the project's macros.
func (p *Project) MacroTable() *macro.Table { return macro.NewTable(p.Macros) }

// BigEndian reports the byte order; blank defaults to big.
func (p *Project) BigEndian() bool { return p.Endianness != LittleEndian }

// Table returns the table with the given name.
func (p *Project) Table(name string) (*structure.Table, bool) {
	for i := range p.Tables {
		if p.Tables[i].Name == name {
			return &p.Tables[i], true
		}
	}
	return nil, false
}

// Exts lists the file extensions Load reads.
var Exts = []string{".yaml", ".yml", ".csv"}

// Load reads a project file or directory. Directory entries are merged in
// sorted path order; hidden files and directories are skipped, as is
// anything matched by a .ccddignore file. Array definition rows are expanded
// into their member rows once every macro is known.
func Load(path string) (*Project, error) {
	files, err := walkwalk.Collect(path, walkwalk.Options{Exts: Exts, Exclude: []string{"."}, UseIgnoreFile: true})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no project files (%s) under %s", strings.Join(Exts, ", "), path)
	}
	p := &Project{}
	seen := make(map[string]string, len(files))
	for _, f := range files {
		if prev, dup := seen[f.SHA256Hex]; dup {
			p.Notes = append(p.Notes, fmt.Sprintf("%s skipped (same content as %s)", f.RelPath, prev))
			continue
		}
		seen[f.SHA256Hex] = f.RelPath
		b, err := os.ReadFile(f.AbsPath)
		if err != nil {
			return nil, err
		}
		b = textutil.NormalizeUTF8LF(b)
		var part *Project
		if f.Ext == ".csv" {
			part, err = ReadCSV(bytes.NewReader(b))
		} else {
			part, err = Decode(bytes.NewReader(b))
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.RelPath, err)
		}
		if err := p.merge(part); err != nil {
			return nil, fmt.Errorf("%s: %w", f.RelPath, err)
		}
		p.Notes = append(p.Notes, part.Notes...)
		p.Sources = append(p.Sources, f)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if p.Endianness, err = ParseEndianness(string(p.Endianness)); err != nil {
		return nil, err
	}
	macros := p.MacroTable()
	for i, t := range p.Tables {
		if p.Tables[i], err = structure.ExpandArrays(t, macros); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Project) merge(part *Project) error {
	if p.Name == "" {
		p.Name = part.Name
	}
	if p.Endianness == "" {
		p.Endianness = part.Endianness
	}
	p.DataTypes = append(p.DataTypes, part.DataTypes...)
	p.Macros = append(p.Macros, part.Macros...)
	for _, t := range part.Tables {
		if _, dup := p.Table(t.Name); dup {
			return fmt.Errorf("table %q defined more than once", t.Name)
		}
		p.Tables = append(p.Tables, t)
	}
	return nil
}

// Decode reads one YAML project document.
func Decode(r io.Reader) (*Project, error) {
	var p Project
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if err == io.EOF {
			return &p, nil
		}
		return nil, err
	}
	return &p, nil
}

// Encode writes p as YAML.
func Encode(w io.Writer, p *Project) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return err
	}
	return enc.Close()
}

// Save writes p to path atomically. A ".csv" path selects the tagged CSV
// layout; anything else is YAML.
func Save(path string, p *Project) error {
	return fileio.WriteWith(path, func(w io.Writer) error {
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			return WriteCSV(w, p)
		}
		return Encode(w, p)
	})
}
