// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tabular

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXSink is a Sink backed by a single excelize worksheet. Every cell is
// written as a string: no styling, formulas or number typing.
type XLSXSink struct {
	file  *excelize.File
	sheet string
	next  int
}

// NewXLSXSink returns an empty workbook with one worksheet.
func NewXLSXSink() (*XLSXSink, error) {
	f := excelize.NewFile()
	return &XLSXSink{file: f, sheet: f.GetSheetName(f.GetActiveSheetIndex()), next: 1}, nil
}

// AppendRow writes cells to the next free row.
func (s *XLSXSink) AppendRow(cells []string) error {
	axis, err := excelize.CoordinatesToCellName(1, s.next)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := s.file.SetSheetRow(s.sheet, axis, &values); err != nil {
		return fmt.Errorf("setting row %d: %w", s.next, err)
	}
	s.next++
	return nil
}

// Rows returns how many rows have been appended, header included.
func (s *XLSXSink) Rows() int {
	return s.next - 1
}

// WriteTo serializes the workbook to w.
func (s *XLSXSink) WriteTo(w io.Writer) (int64, error) {
	return s.file.WriteTo(w)
}

// Close releases the workbook.
func (s *XLSXSink) Close() error {
	return s.file.Close()
}

// ReadRows returns every row of the first worksheet of the XLSX file at
// path. Rows are padded to the width of the first (header) row, so an empty
// trailing cell still appears as "".
func ReadRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("reading rows from %s: %w", path, err)
	}
	if len(rows) == 0 {
		return rows, nil
	}

	width := len(rows[0])
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows, nil
}
