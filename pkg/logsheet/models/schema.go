// Package models defines data structures shared by the log conversion pipeline.
package models

// Schema is the ordered list of column names declared by a log file's
// field directive. Order is significant: it defines output column order.
// Names are not required to be unique.
type Schema []string

// Columns returns the number of declared columns.
func (s Schema) Columns() int {
	return len(s)
}
