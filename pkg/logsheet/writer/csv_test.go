package writer

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"logsheet/pkg/logsheet/models"
)

func writeCSV(t *testing.T, w *CSV, schema models.Schema, rows []models.Row) {
	t.Helper()
	if err := w.WriteSchema(schema); err != nil {
		t.Fatalf("WriteSchema failed: %v", err)
	}
	for _, row := range rows {
		if err := w.WriteRow(row); err != nil {
			t.Fatalf("WriteRow failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestCSVOutput(t *testing.T) {
	var buf bytes.Buffer
	writeCSV(t, NewCSV(&buf, 0), models.Schema{"a", "b", "c"}, []models.Row{
		{"1", "2", "3"},
		{"4", "5", "6"},
	})

	expected := "a,b,c\n1,2,3\n4,5,6\n"
	if buf.String() != expected {
		t.Errorf("output = %q, expected %q", buf.String(), expected)
	}
}

// countingWriter records the number of Write calls so batching can be
// observed without changing the byte stream.
type countingWriter struct {
	buf    bytes.Buffer
	writes int
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	cw.writes++
	return cw.buf.Write(p)
}

func TestCSVBatching(t *testing.T) {
	var rows []models.Row
	for i := 0; i < 5; i++ {
		rows = append(rows, models.Row{fmt.Sprintf("%d", i), "x"})
	}

	cw := &countingWriter{}
	writeCSV(t, NewCSV(cw, 2), models.Schema{"n", "v"}, rows)

	// Header + two full batches + one partial batch.
	if cw.writes != 4 {
		t.Errorf("writes = %d, expected 4", cw.writes)
	}

	// Batch boundaries must not leak into the byte stream.
	var plain bytes.Buffer
	writeCSV(t, NewCSV(&plain, 100), models.Schema{"n", "v"}, rows)
	if cw.buf.String() != plain.String() {
		t.Errorf("chunked output %q differs from unchunked %q", cw.buf.String(), plain.String())
	}
}

func TestCSVRoundTrip(t *testing.T) {
	schema := models.Schema{"date", "time", "status"}
	rows := []models.Row{
		{"2024-01-01", "00:00:01", "200"},
		{"2024-01-01", "00:00:02", "404"},
		{"2024-01-02", "12:30:00", "500"},
	}

	var buf bytes.Buffer
	writeCSV(t, NewCSV(&buf, 2), schema, rows)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != len(rows)+1 {
		t.Fatalf("line count = %d, expected %d", len(lines), len(rows)+1)
	}
	if lines[0] != strings.Join(schema, Delimiter) {
		t.Errorf("header = %q, expected %q", lines[0], strings.Join(schema, Delimiter))
	}
	for i, row := range rows {
		got := strings.Split(lines[i+1], Delimiter)
		if strings.Join(got, " ") != strings.Join(row, " ") {
			t.Errorf("row %d = %v, expected %v", i+1, got, row)
		}
	}
}
