// Package writer serializes a validated schema and row stream into
// tabular output files with bounded memory: rows are accumulated into
// fixed-size batches and each batch is flushed as a single write.
package writer

import "logsheet/pkg/logsheet/models"

// DefaultChunkSize is the number of rows accumulated in memory before a
// batch is flushed to the underlying output.
const DefaultChunkSize = 10000

// Sink consumes a schema followed by a stream of rows. WriteSchema must
// be called once before the first WriteRow. Close flushes any buffered
// partial batch and finalizes the output; no writes may follow it.
type Sink interface {
	WriteSchema(schema models.Schema) error
	WriteRow(row models.Row) error
	Close() error
}
