package bundle

import (
	"bytes"
	"strings"
	"text/template"

	"ccdd-pack/internal/project"
)

type readmeTable struct {
	Name      string
	MessageID string
	Rows      int
	File      string
}

type rdCtx struct {
	Project    string
	Endianness string
	DataTypes  int
	Macros     int
	Tables     []readmeTable
}

const readmeTemplate = `
# {{.Project}}

This archive is an export of project **{{.Project}}** produced by *ccdd-pack*.

## Layout
- **project.yaml** — the project definition (data types, macros, tables).
- **datasheet.xml** — one EDS data sheet with a package per table.
- **tables/** — the same packages, one data sheet per table.

## Conventions
- Encoding: **UTF-8**; newlines: **\n** only.
- Byte order: **{{.Endianness}}**.
- Data types: {{.DataTypes}}; macros: {{.Macros}}.
- Array member rows are not exported; they are regenerated from the definition row on import.

## Tables
{{range .Tables -}}
- **{{.Name}}**{{if .MessageID}} (message ID {{.MessageID}}){{end}}: {{.Rows}} rows, ` + "`{{.File}}`" + `
{{end}}`

func generateReadme(p *project.Project, tables []readmeTable) []byte {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "ccdd-pack export"
	}
	endian := string(project.LittleEndian)
	if p.BigEndian() {
		endian = string(project.BigEndian)
	}
	ctx := rdCtx{
		Project:    name,
		Endianness: endian,
		DataTypes:  len(p.Registry().Types()),
		Macros:     len(p.Macros),
		Tables:     tables,
	}

	t := template.Must(template.New("readme").Parse(readmeTemplate))
	var buf bytes.Buffer
	_ = t.Execute(&buf, ctx)
	// Strip trailing spaces and ensure a final newline.
	lines := strings.Split(strings.TrimLeft(buf.String(), "\n"), "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimRight(ln, " \t")
	}
	out := strings.Join(lines, "\n")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return []byte(out)
}
