package project

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ccdd-pack/internal/datatype"
	"ccdd-pack/internal/macro"
	"ccdd-pack/internal/structure"
)

// Section tags of the tagged CSV layout. A tag sits alone on its line and
// applies to the records that follow it.
const (
	TagNameType    = "_name_type_"
	TagDescription = "_description_"
	TagColumnData  = "_column_data_"
	TagDataFields  = "_data_fields_"
	TagMacros      = "_macros_"
	TagDataType    = "_data_type_"
)

// structureType is the only table type read from CSV.
const structureType = "Structure"

// messageIDField is the data field that carries a table's message ID.
const messageIDField = "Message ID"

// dataFieldColumns is the record width of a _data_fields_ entry: name,
// description, size, input type, required, applicability, value.
const dataFieldColumns = 7

type csvReader struct {
	p       *Project
	tag     string
	table   *structure.Table
	skip    bool
	columns []string
}

// ReadCSV reads the tagged CSV layout. Tables whose type is not Structure
// are skipped with a note; sections this tool does not use are ignored.
func ReadCSV(r io.Reader) (*Project, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	st := &csvReader{p: &Project{}}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		if len(rec) == 1 && isTag(rec[0]) {
			st.tag = strings.TrimSpace(rec[0])
			continue
		}
		if err := st.record(rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	st.flush()
	return st.p, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func isTag(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) > 2 && strings.HasPrefix(s, "_") && strings.HasSuffix(s, "_")
}

func (st *csvReader) flush() {
	if st.table != nil {
		st.p.Tables = append(st.p.Tables, *st.table)
		st.table = nil
	}
}

func (st *csvReader) record(rec []string) error {
	switch st.tag {
	case "":
		return errors.New("data before the first section tag")
	case TagNameType:
		if len(rec) != 2 && len(rec) != 3 {
			return fmt.Errorf("%s: want table name and type, got %d values", TagNameType, len(rec))
		}
		st.flush()
		st.columns = nil
		if !strings.EqualFold(strings.TrimSpace(rec[1]), structureType) {
			st.skip = true
			st.p.Notes = append(st.p.Notes, fmt.Sprintf("table %s skipped (type %s)", rec[0], rec[1]))
			return nil
		}
		st.skip = false
		st.table = &structure.Table{Name: strings.TrimSpace(rec[0])}
	case TagDescription:
		if st.table != nil {
			st.table.Description = rec[0]
		}
	case TagColumnData:
		st.tag = "cells"
		st.columns = make([]string, len(rec))
		for i, c := range rec {
			st.columns[i] = strings.TrimSpace(c)
		}
	case "cells":
		if st.skip {
			return nil
		}
		if st.table == nil {
			return errors.New("cell data without a table")
		}
		var row structure.Row
		for i, v := range rec {
			if i < len(st.columns) {
				row.Set(st.columns[i], v)
			}
		}
		st.table.Rows = append(st.table.Rows, row)
	case TagDataFields:
		if len(rec) != dataFieldColumns {
			return fmt.Errorf("%s: want %d values, got %d", TagDataFields, dataFieldColumns, len(rec))
		}
		if st.table != nil && strings.EqualFold(strings.TrimSpace(rec[0]), messageIDField) {
			st.table.MessageID = strings.TrimSpace(rec[dataFieldColumns-1])
		}
	case TagMacros:
		if len(rec) > 2 {
			return fmt.Errorf("%s: want name and value, got %d values", TagMacros, len(rec))
		}
		m := macro.Macro{Name: strings.TrimSpace(rec[0])}
		if len(rec) == 2 {
			m.Value = rec[1]
		}
		st.p.Macros = append(st.p.Macros, m)
	case TagDataType:
		if len(rec) != 4 {
			return fmt.Errorf("%s: want user name, C name, size and base type, got %d values", TagDataType, len(rec))
		}
		size, err := strconv.Atoi(strings.TrimSpace(rec[2]))
		if err != nil || size < 1 {
			return fmt.Errorf("%s: data type %s: bad size %q", TagDataType, rec[0], rec[2])
		}
		base, err := datatype.ParseBaseType(rec[3])
		if err != nil {
			return fmt.Errorf("%s: data type %s: %w", TagDataType, rec[0], err)
		}
		st.p.DataTypes = append(st.p.DataTypes, datatype.DataType{
			UserName: strings.TrimSpace(rec[0]),
			CName:    strings.TrimSpace(rec[1]),
			Size:     size,
			Base:     base,
		})
	}
	return nil
}

// WriteCSV writes p in the tagged CSV layout readable by ReadCSV.
func WriteCSV(w io.Writer, p *Project) error {
	cw := csv.NewWriter(w)
	write := func(rec ...string) {
		_ = cw.Write(rec) // errors surface through cw.Error
	}
	if len(p.DataTypes) > 0 {
		write(TagDataType)
		for _, dt := range p.DataTypes {
			write(dt.UserName, dt.CName, strconv.Itoa(dt.Size), dt.Base.String())
		}
	}
	if len(p.Macros) > 0 {
		write(TagMacros)
		for _, m := range p.Macros {
			write(m.Name, m.Value)
		}
	}
	for _, t := range p.Tables {
		write(TagNameType)
		write(t.Name, structureType)
		if t.Description != "" {
			write(TagDescription)
			write(t.Description)
		}
		write(TagColumnData)
		write(structure.Columns...)
		for _, r := range t.Rows {
			write(r.Values()...)
		}
		if t.MessageID != "" {
			write(TagDataFields)
			write(messageIDField, "Message ID", "8", "Message ID", "false", "All tables", t.MessageID)
		}
	}
	cw.Flush()
	return cw.Error()
}
