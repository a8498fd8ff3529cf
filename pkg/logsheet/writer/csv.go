package writer

import (
	"io"
	"strings"

	"logsheet/pkg/logsheet/models"
)

// Delimiter separates fields in delimited-text output.
const Delimiter = ","

// CSV writes rows as delimited text. Tokens are joined verbatim without
// quoting: they originate from whitespace splitting and therefore cannot
// contain whitespace, but a caller feeding tokens from another source
// must add quoting before reusing this writer.
type CSV struct {
	w     io.Writer
	chunk int
	batch []string
}

// NewCSV returns a CSV sink writing to w, flushing every chunkSize rows.
// A chunkSize <= 0 uses DefaultChunkSize.
func NewCSV(w io.Writer, chunkSize int) *CSV {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &CSV{w: w, chunk: chunkSize, batch: make([]string, 0, chunkSize)}
}

var _ Sink = (*CSV)(nil)

// WriteSchema writes the header line immediately.
func (c *CSV) WriteSchema(schema models.Schema) error {
	_, err := io.WriteString(c.w, strings.Join(schema, Delimiter)+"\n")
	return err
}

// WriteRow buffers the row, flushing when the batch is full.
func (c *CSV) WriteRow(row models.Row) error {
	c.batch = append(c.batch, strings.Join(row, Delimiter))
	if len(c.batch) >= c.chunk {
		return c.flush()
	}
	return nil
}

// Close flushes the remaining partial batch.
func (c *CSV) Close() error {
	return c.flush()
}

func (c *CSV) flush() error {
	if len(c.batch) == 0 {
		return nil
	}
	_, err := io.WriteString(c.w, strings.Join(c.batch, "\n")+"\n")
	c.batch = c.batch[:0]
	return err
}
