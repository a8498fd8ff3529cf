package logsheet

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"logsheet/pkg/logsheet/parser"
)

const sampleLog = "#Software: Internet Information Services\n" +
	"#Fields a b c\n" +
	"1 2 3\n" +
	"4 5 6\n"

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

func TestConvertCSV(t *testing.T) {
	dir := t.TempDir()
	src := writeFixture(t, dir, "access.log", sampleLog)
	dest := filepath.Join(dir, "access.csv")

	if err := Convert(src, dest, Options{Format: FormatCSV}); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	expected := "a,b,c\n1,2,3\n4,5,6\n"
	if string(data) != expected {
		t.Errorf("output = %q, expected %q", data, expected)
	}
}

func TestConvertXLSX(t *testing.T) {
	dir := t.TempDir()
	src := writeFixture(t, dir, "access.log", sampleLog)
	dest := filepath.Join(dir, "access.xlsx")

	if err := Convert(src, dest, Options{Format: FormatXLSX}); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	f, err := excelize.OpenFile(dest)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	expected := [][]string{{"a", "b", "c"}, {"1", "2", "3"}, {"4", "5", "6"}}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("rows = %v, expected %v", rows, expected)
	}
}

func TestConvertIdempotent(t *testing.T) {
	dir := t.TempDir()
	src := writeFixture(t, dir, "access.log", sampleLog)
	dest := filepath.Join(dir, "access.csv")

	if err := Convert(src, dest, Options{}); err != nil {
		t.Fatalf("first Convert failed: %v", err)
	}
	first, _ := os.ReadFile(dest)
	if err := Convert(src, dest, Options{}); err != nil {
		t.Fatalf("second Convert failed: %v", err)
	}
	second, _ := os.ReadFile(dest)
	if string(first) != string(second) {
		t.Errorf("repeated conversion produced different bytes")
	}
}

func TestConvertUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	src := writeFixture(t, dir, "access.log", sampleLog)
	dest := filepath.Join(dir, "access.json")

	err := Convert(src, dest, Options{Format: "json"})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, expected ErrUnsupportedFormat", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("destination file written despite invalid format")
	}
}

func TestConvertFailureLeavesNoOutput(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(error) bool
	}{
		{
			name:    "missing header",
			content: "1 2 3\n",
			check:   func(err error) bool { return errors.Is(err, parser.ErrMissingHeader) },
		},
		{
			name:    "no data rows",
			content: "#Fields a b c\n#Date today\n",
			check:   func(err error) bool { return errors.Is(err, parser.ErrEmptyData) },
		},
		{
			name:    "inconsistent row",
			content: "#Fields a b c\n1 2 3\n4 5 6\n7 8\n",
			check: func(err error) bool {
				var ire *parser.InconsistentRowsError
				return errors.As(err, &ire) && reflect.DeepEqual(ire.Positions, []int{3})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srcDir := t.TempDir()
			outDir := t.TempDir()
			src := writeFixture(t, srcDir, "bad.log", tt.content)
			dest := filepath.Join(outDir, "bad.csv")

			err := Convert(src, dest, Options{})
			if err == nil || !tt.check(err) {
				t.Fatalf("err = %v, expected document failure", err)
			}

			var ce *ConvertError
			if !errors.As(err, &ce) || ce.File != src {
				t.Errorf("err = %v, expected ConvertError identifying %s", err, src)
			}

			// Nothing may be left behind, temporary files included.
			entries, readErr := os.ReadDir(outDir)
			if readErr != nil {
				t.Fatalf("Failed to read output dir: %v", readErr)
			}
			if len(entries) != 0 {
				t.Errorf("output dir not empty after failure: %v", entries)
			}
		})
	}
}

func TestConvertMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := Convert(filepath.Join(dir, "absent.log"), filepath.Join(dir, "absent.csv"), Options{})
	var ce *ConvertError
	if !errors.As(err, &ce) || ce.Stage != "read" {
		t.Fatalf("err = %v, expected read-stage ConvertError", err)
	}
}

func TestConvertFileMirrorsRelativePath(t *testing.T) {
	srcRoot := t.TempDir()
	destRoot := t.TempDir()
	src := writeFixture(t, srcRoot, filepath.Join("sub", "y.log"), sampleLog)

	dest, err := ConvertFile(src, srcRoot, destRoot, Options{Format: FormatCSV})
	if err != nil {
		t.Fatalf("ConvertFile failed: %v", err)
	}

	expected := filepath.Join(destRoot, "sub", "y.csv")
	if dest != expected {
		t.Errorf("dest = %s, expected %s", dest, expected)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("destination not written: %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		ok       bool
	}{
		{"csv", FormatCSV, true},
		{"CSV", FormatCSV, true},
		{"xlsx", FormatXLSX, true},
		{"Xlsx", FormatXLSX, true},
		{"json", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		f, err := ParseFormat(tt.input)
		if tt.ok && (err != nil || f != tt.expected) {
			t.Errorf("ParseFormat(%q) = %v, %v; expected %v", tt.input, f, err, tt.expected)
		}
		if !tt.ok && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("ParseFormat(%q) err = %v, expected ErrUnsupportedFormat", tt.input, err)
		}
	}
}

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		path, ext, expected string
	}{
		{"out/x.log", ".csv", "out/x.csv"},
		{"out/x", ".csv", "out/x.csv"},
		{"out/x.tar.log", ".xlsx", "out/x.tar.xlsx"},
	}
	for _, tt := range tests {
		if got := replaceExt(tt.path, tt.ext); got != tt.expected {
			t.Errorf("replaceExt(%q, %q) = %q, expected %q", tt.path, tt.ext, got, tt.expected)
		}
	}
}

func TestConvertWhitespaceRuns(t *testing.T) {
	dir := t.TempDir()
	src := writeFixture(t, dir, "ws.log", "#Fields a b\n1\t\t2\n  3   4  \n")
	dest := filepath.Join(dir, "ws.csv")

	if err := Convert(src, dest, Options{}); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	data, _ := os.ReadFile(dest)
	if !strings.Contains(string(data), "1,2\n3,4\n") {
		t.Errorf("output = %q, expected whitespace runs collapsed", data)
	}
}
