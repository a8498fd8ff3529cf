package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"logsheet/pkg/logsheet/models"
)

// ExcelRowLimit is the maximum number of data rows written to one sheet
// before the writer rolls over to the next sheet.
const ExcelRowLimit = 1048576

// Workbook writes rows into a spreadsheet workbook, splitting into
// additional sheets (Sheet1, Sheet2, ...) whenever the current sheet's
// data-row count reaches the per-sheet limit. Rows are streamed through
// an excelize stream writer in batches; a sheet is created lazily on the
// first flush targeting it, with the header as its first row.
type Workbook struct {
	w      io.Writer
	f      *excelize.File
	sw     *excelize.StreamWriter
	schema models.Schema

	chunk int
	limit int

	batch     []models.Row
	sheet     int // 1-based index of the current sheet
	sheetRows int // data rows assigned to the current sheet
	nextRow   int // next workbook row number within the current sheet
}

// NewWorkbook returns a workbook sink writing the finished container to
// w on Close. chunkSize <= 0 uses DefaultChunkSize; rowsPerSheet <= 0
// uses ExcelRowLimit.
func NewWorkbook(w io.Writer, chunkSize, rowsPerSheet int) *Workbook {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if rowsPerSheet <= 0 {
		rowsPerSheet = ExcelRowLimit
	}
	return &Workbook{
		w:     w,
		f:     excelize.NewFile(),
		chunk: chunkSize,
		limit: rowsPerSheet,
		batch: make([]models.Row, 0, chunkSize),
		sheet: 1,
	}
}

var _ Sink = (*Workbook)(nil)

// WriteSchema records the header row, written to each sheet on creation.
func (wb *Workbook) WriteSchema(schema models.Schema) error {
	wb.schema = schema
	return nil
}

// WriteRow buffers the row for the current sheet. A full batch is
// flushed in one write; reaching the per-sheet row limit rolls over to
// the next sheet, flushing first so that no batch spans two sheets.
func (wb *Workbook) WriteRow(row models.Row) error {
	wb.batch = append(wb.batch, row)
	wb.sheetRows++
	if len(wb.batch) >= wb.chunk {
		if err := wb.flush(); err != nil {
			return err
		}
	}
	if wb.sheetRows >= wb.limit {
		if err := wb.rollSheet(); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes the remaining partial batch and writes the workbook.
func (wb *Workbook) Close() error {
	if err := wb.flush(); err != nil {
		return err
	}
	// A document with no rows still gets its header sheet. After a
	// rollover at exact end of stream no new sheet is due: nextRow > 0
	// means at least one sheet was already written.
	if wb.sw == nil && wb.nextRow == 0 {
		if err := wb.openSheet(); err != nil {
			return err
		}
	}
	if wb.sw != nil {
		if err := wb.sw.Flush(); err != nil {
			return err
		}
	}
	if _, err := wb.f.WriteTo(wb.w); err != nil {
		return err
	}
	return wb.f.Close()
}

// openSheet creates the current sheet and writes its header row.
func (wb *Workbook) openSheet() error {
	name := fmt.Sprintf("Sheet%d", wb.sheet)
	if wb.sheet > 1 {
		if _, err := wb.f.NewSheet(name); err != nil {
			return err
		}
	}
	sw, err := wb.f.NewStreamWriter(name)
	if err != nil {
		return err
	}
	wb.sw = sw
	if err := wb.sw.SetRow("A1", toCells(models.Row(wb.schema))); err != nil {
		return err
	}
	wb.nextRow = 2
	return nil
}

// flush writes the buffered batch to the current sheet, appending at
// the sheet's next free row.
func (wb *Workbook) flush() error {
	if len(wb.batch) == 0 {
		return nil
	}
	if wb.sw == nil {
		if err := wb.openSheet(); err != nil {
			return err
		}
	}
	for _, row := range wb.batch {
		cell, err := excelize.CoordinatesToCellName(1, wb.nextRow)
		if err != nil {
			return err
		}
		if err := wb.sw.SetRow(cell, toCells(row)); err != nil {
			return err
		}
		wb.nextRow++
	}
	wb.batch = wb.batch[:0]
	return nil
}

// rollSheet finishes the current sheet and directs subsequent rows to
// the next one. The next sheet is not created until it receives a row.
func (wb *Workbook) rollSheet() error {
	if err := wb.flush(); err != nil {
		return err
	}
	if wb.sw != nil {
		if err := wb.sw.Flush(); err != nil {
			return err
		}
		wb.sw = nil
	}
	wb.sheet++
	wb.sheetRows = 0
	return nil
}

func toCells(row models.Row) []interface{} {
	cells := make([]interface{}, len(row))
	for i, tok := range row {
		cells[i] = tok
	}
	return cells
}
