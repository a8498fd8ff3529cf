package parser

import (
	"bufio"
	"io"
	"strings"

	"logsheet/pkg/logsheet/models"
)

// maxLineSize bounds a single log line. IIS fields are short; 1 MiB
// leaves generous headroom for query strings and user agents.
const maxLineSize = 1 << 20

// RowReader yields the retained data rows of a log document, one per
// call to Next, in file order. It is a lazy, single-pass reader: rows
// already consumed cannot be replayed. A line is retained iff it does
// not start with the comment marker `#` and is non-blank after trimming.
type RowReader struct {
	sc  *bufio.Scanner
	row models.Row
	pos int
}

// NewRowReader returns a RowReader over r.
func NewRowReader(r io.Reader) *RowReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &RowReader{sc: sc}
}

// Next advances to the next retained row. It returns false at end of
// input or on read error; check Err afterwards.
func (rr *RowReader) Next() bool {
	for rr.sc.Scan() {
		line := rr.sc.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		rr.row = models.Row(strings.Fields(line))
		rr.pos++
		return true
	}
	return false
}

// Row returns the current row. Valid only after a true Next.
func (rr *RowReader) Row() models.Row {
	return rr.row
}

// Pos returns the 1-based position of the current row among retained
// lines.
func (rr *RowReader) Pos() int {
	return rr.pos
}

// Err returns the first read error encountered, if any.
func (rr *RowReader) Err() error {
	return rr.sc.Err()
}

// Validate consumes rr and checks every row's width against the schema.
// It returns ErrEmptyData when no rows are retained, and an
// InconsistentRowsError listing the positions of every mismatching row
// when at least one disagrees with the schema. Validation sees the whole
// document, so a caller can refuse to open its destination until the
// entire file is known to be well-formed.
func Validate(rr *RowReader, schema models.Schema) error {
	var bad []int
	rows := 0
	for rr.Next() {
		rows++
		if len(rr.Row()) != schema.Columns() {
			bad = append(bad, rr.Pos())
		}
	}
	if err := rr.Err(); err != nil {
		return err
	}
	if rows == 0 {
		return ErrEmptyData
	}
	if len(bad) > 0 {
		return &InconsistentRowsError{Positions: bad}
	}
	return nil
}
