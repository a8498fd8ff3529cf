// Package logsheet converts structured access logs (header directive
// plus whitespace-separated data rows) into delimited text or
// spreadsheet workbooks, preserving directory structure across a tree.
package logsheet

import (
	"io"
	"log"
	"runtime"
	"strings"

	"logsheet/pkg/logsheet/writer"
)

// Format selects the output container.
type Format string

const (
	// FormatCSV writes comma-delimited UTF-8 text.
	FormatCSV Format = "csv"
	// FormatXLSX writes a spreadsheet workbook with sheet splitting.
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a user-supplied format string to a Format,
// case-insensitively. Returns ErrUnsupportedFormat for anything outside
// {csv, xlsx}.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Ext returns the destination file extension for the format.
func (f Format) Ext() string {
	return "." + string(f)
}

// DefaultExtension is the source extension discovered in folder mode.
const DefaultExtension = ".log"

// Options configures conversion behavior.
type Options struct {
	// Format selects the output container. Default: FormatCSV.
	Format Format
	// ChunkSize is the number of rows batched per write.
	// Default: writer.DefaultChunkSize.
	ChunkSize int
	// RowsPerSheet caps data rows per workbook sheet.
	// Default: writer.ExcelRowLimit.
	RowsPerSheet int
	// Extension is the source file extension matched during discovery.
	// Default: DefaultExtension.
	Extension string
	// Workers bounds the batch worker pool. Default: available
	// parallelism.
	Workers int
	// Logger receives per-file progress and failure reports. The
	// library never logs through package-level state; a nil Logger
	// discards output.
	Logger *log.Logger
}

// DefaultOptions returns default conversion options.
func DefaultOptions() Options {
	return Options{
		Format:       FormatCSV,
		ChunkSize:    writer.DefaultChunkSize,
		RowsPerSheet: writer.ExcelRowLimit,
		Extension:    DefaultExtension,
		Workers:      runtime.NumCPU(),
	}
}

// withDefaults fills unset fields so callers can pass sparse Options.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Format == "" {
		o.Format = d.Format
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = d.ChunkSize
	}
	if o.RowsPerSheet <= 0 {
		o.RowsPerSheet = d.RowsPerSheet
	}
	if o.Extension == "" {
		o.Extension = d.Extension
	}
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
	return o
}
