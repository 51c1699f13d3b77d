package eds

import (
	"embed"
	"fmt"
	"io"
	"sync"

	"github.com/jacoelho/xsd"
	xsderrors "github.com/jacoelho/xsd/errors"
)

//go:embed schema/seds.xsd
var schemaFS embed.FS

var loadSchema = sync.OnceValues(func() (*xsd.Schema, error) {
	return xsd.LoadWithOptions(schemaFS, "schema/seds.xsd", xsd.NewLoadOptions())
})

// Validate checks a document against the embedded data sheet schema. Schema
// violations are returned as an xsd errors.ValidationList.
func Validate(r io.Reader) error {
	s, err := loadSchema()
	if err != nil {
		return fmt.Errorf("eds: load schema: %w", err)
	}
	return s.Validate(r)
}

// Violations lists the messages of a Validate error, one per violation. It
// returns nil for errors that are not schema violations.
func Violations(err error) []string {
	list, ok := xsderrors.AsValidations(err)
	if !ok {
		return nil
	}
	out := make([]string, len(list))
	for i := range list {
		out[i] = list[i].Error()
	}
	return out
}
