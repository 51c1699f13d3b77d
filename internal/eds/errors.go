package eds

import "fmt"

// ParseError reports an EDS document that cannot be imported. Import is all
// or nothing: the first ParseError aborts the whole document.
type ParseError struct {
	Package string // package (table) being read; "" at document level
	Element string // offending element, e.g. `Parameter "temp"`
	Msg     string
	Err     error
}

func (e *ParseError) Error() string {
	s := "eds"
	if e.Package != "" {
		s += ": package " + e.Package
	}
	if e.Element != "" {
		s += ": " + e.Element
	}
	s += ": " + e.Msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *ParseError) Unwrap() error { return e.Err }

// SideChannelError reports a table value that cannot be carried in a
// shortDescription side channel because it contains a separator.
type SideChannelError struct {
	Table    string
	Variable string
	Key      string
	Value    string
}

func (e *SideChannelError) Error() string {
	where := e.Table
	if e.Variable != "" {
		where += "." + e.Variable
	}
	return fmt.Sprintf("eds: %s: %s value %q contains a reserved separator (%q or %q) or starts or ends with ','",
		where, e.Key, e.Value, fieldSep, valueSep)
}
