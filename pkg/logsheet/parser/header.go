// Package parser reads the header directive and data rows of a
// structured access log (W3C extended style: `#`-prefixed directives,
// whitespace-separated data fields).
package parser

import (
	"bufio"
	"io"
	"strings"

	"logsheet/pkg/logsheet/models"
)

// FieldsDirective is the reserved marker that introduces the column
// declaration line.
const FieldsDirective = "#Fields"

// ReadSchema scans lines until it finds the field declaration directive
// and returns the declared column names. The first directive in the file
// wins; later declarations are ignored so that a single forward pass over
// the file sees every data row under the same schema. Returns
// ErrMissingHeader when no directive exists.
func ReadSchema(r io.Reader) (models.Schema, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, FieldsDirective) {
			continue
		}
		// Everything after the marker token, split on single spaces.
		names := strings.Split(strings.TrimSpace(line), " ")[1:]
		return models.Schema(names), nil
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, ErrMissingHeader
}
