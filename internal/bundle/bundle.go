// Package bundle writes an export archive for a project. It creates a
// reproducible ZIP with the following layout:
//
//	README.md          # table index, no wall-clock timestamps
//	project.yaml       # the project as loaded (data types, macros, tables)
//	datasheet.xml      # one EDS data sheet holding every table
//	tables/<name>.xml  # one EDS data sheet per table
//
// Entries are written in that order with fixed timestamps, so writing the
// same project twice yields identical bytes.
package bundle

import (
	"bytes"
	"fmt"
	"io"

	"ccdd-pack/internal/eds"
	"ccdd-pack/internal/fileio"
	"ccdd-pack/internal/project"
	"ccdd-pack/internal/structure"
	"ccdd-pack/internal/ziputil"
)

// Entry names.
const (
	ReadmeName    = "README.md"
	ProjectName   = "project.yaml"
	DataSheetName = "datasheet.xml"
	TablesDir     = "tables/"
)

// Write builds the archive for p and atomically replaces path with it.
func Write(path string, p *project.Project) error {
	return fileio.WriteWith(path, func(w io.Writer) error {
		return WriteTo(w, p)
	})
}

// WriteTo streams the archive for p to w.
func WriteTo(w io.Writer, p *project.Project) error {
	sheet, err := sheetBytes(p, p.Tables)
	if err != nil {
		return err
	}
	var proj bytes.Buffer
	if err := project.Encode(&proj, p); err != nil {
		return err
	}

	zw := ziputil.NewWriter(w)
	for _, n := range []string{ReadmeName, ProjectName, DataSheetName} {
		zw.Reserve(n)
	}
	entries := make([]readmeTable, 0, len(p.Tables))
	perTable := make([][]byte, 0, len(p.Tables))
	for _, t := range p.Tables {
		data, err := sheetBytes(p, []structure.Table{t})
		if err != nil {
			return err
		}
		name := zw.Reserve(TablesDir + t.Name + ".xml")
		entries = append(entries, readmeTable{Name: t.Name, MessageID: t.MessageID, Rows: len(t.Rows), File: name})
		perTable = append(perTable, data)
	}

	if err := zw.Add(ReadmeName, generateReadme(p, entries)); err != nil {
		return err
	}
	if err := zw.Add(ProjectName, proj.Bytes()); err != nil {
		return err
	}
	if err := zw.Add(DataSheetName, sheet); err != nil {
		return err
	}
	for i, e := range entries {
		if err := zw.Add(e.File, perTable[i]); err != nil {
			return err
		}
	}
	return zw.Close()
}

// sheetBytes exports the given tables of p as one data sheet.
func sheetBytes(p *project.Project, tables []structure.Table) ([]byte, error) {
	sub := *p
	sub.Tables = tables
	sheet, err := eds.Export(&sub)
	if err != nil {
		return nil, fmt.Errorf("bundle: %w", err)
	}
	return eds.Marshal(sheet)
}
