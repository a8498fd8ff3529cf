package logsheet

import (
	"os"
	"path/filepath"
	"strings"

	"logsheet/pkg/logsheet/models"
	"logsheet/pkg/logsheet/parser"
	"logsheet/pkg/logsheet/writer"
)

// Convert converts a single log file to dest in the configured format.
// The whole document is validated before the destination is opened, and
// output goes through a temporary file replaced by rename, so a failure
// at any stage leaves no partial destination file behind.
func Convert(src, dest string, opts Options) error {
	opts = opts.withDefaults()

	if _, err := ParseFormat(string(opts.Format)); err != nil {
		return NewConvertError(src, "format", err)
	}

	schema, err := readSchema(src)
	if err != nil {
		return err
	}

	f, err := os.Open(src)
	if err != nil {
		return NewConvertError(src, "read", err)
	}
	err = parser.Validate(parser.NewRowReader(f), schema)
	f.Close()
	if err != nil {
		return NewConvertError(src, "validate", err)
	}

	if err := writeValidated(src, dest, schema, opts); err != nil {
		return NewConvertError(src, "write", err)
	}
	return nil
}

// ConvertFile converts src into the mirrored relative path under
// destRoot, with the extension replaced by the format's. Intermediate
// directories are created as needed. The computed destination path is
// returned even when conversion fails.
func ConvertFile(src, srcRoot, destRoot string, opts Options) (string, error) {
	opts = opts.withDefaults()

	rel, err := filepath.Rel(srcRoot, src)
	if err != nil {
		return "", NewConvertError(src, "write", err)
	}
	dest := replaceExt(filepath.Join(destRoot, rel), opts.Format.Ext())
	return dest, Convert(src, dest, opts)
}

func readSchema(src string) (models.Schema, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, NewConvertError(src, "read", err)
	}
	defer f.Close()
	s, err := parser.ReadSchema(f)
	if err != nil {
		return nil, NewConvertError(src, "header", err)
	}
	return s, nil
}

// writeValidated replays the row pass and streams it into the sink,
// writing to a temporary file in the destination directory and renaming
// on success.
func writeValidated(src, dest string, schema models.Schema, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".logsheet-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath) // no-op after a successful rename
	}()

	var sink writer.Sink
	switch opts.Format {
	case FormatXLSX:
		sink = writer.NewWorkbook(tmp, opts.ChunkSize, opts.RowsPerSheet)
	default:
		sink = writer.NewCSV(tmp, opts.ChunkSize)
	}

	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := sink.WriteSchema(schema); err != nil {
		return err
	}
	rr := parser.NewRowReader(f)
	for rr.Next() {
		if err := sink.WriteRow(rr.Row()); err != nil {
			return err
		}
	}
	if err := rr.Err(); err != nil {
		return err
	}
	if err := sink.Close(); err != nil {
		return err
	}

	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, dest)
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
