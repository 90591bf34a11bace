// Package spreadsheet reads uploaded workbooks into plain rows of text cells.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrMalformed is returned when the input cannot be parsed as a workbook.
var ErrMalformed = errors.New("malformed workbook")

// RawRow is one sheet row as an ordered sequence of optional text cells. Number is the 1-based row
// number inside the sheet.
type RawRow struct {
	Number int
	Cells  []string
}

// Cell returns the trimmed value at index i. Missing trailing cells and blank cells report false.
func (r RawRow) Cell(i int) (string, bool) {
	if i < 0 || i >= len(r.Cells) {
		return "", false
	}
	v := strings.TrimSpace(r.Cells[i])
	return v, v != ""
}

// Text returns the trimmed value at index i or "".
func (r RawRow) Text(i int) string {
	v, _ := r.Cell(i)
	return v
}

// Values returns every cell trimmed.
func (r RawRow) Values() []string {
	out := make([]string, len(r.Cells))
	for i := range r.Cells {
		out[i] = r.Text(i)
	}
	return out
}

// NonEmpty returns the present cells in column order.
func (r RawRow) NonEmpty() []string {
	out := make([]string, 0, len(r.Cells))
	for i := range r.Cells {
		if v, ok := r.Cell(i); ok {
			out = append(out, v)
		}
	}
	return out
}

// Blank reports whether the row has no present cell.
func (r RawRow) Blank() bool {
	for i := range r.Cells {
		if _, ok := r.Cell(i); ok {
			return false
		}
	}
	return true
}

// Sheet is a header row followed by data rows.
type Sheet struct {
	Name   string
	Header RawRow
	Rows   []RawRow
}

// Headers returns the header cells trimmed.
func (s *Sheet) Headers() []string {
	return s.Header.Values()
}

// Workbook wraps an opened excelize file.
type Workbook struct {
	file *excelize.File
}

// Open parses r as an xlsx workbook.
func Open(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(f.GetSheetList()) == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformed)
	}
	return &Workbook{file: f}, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetNames lists worksheets in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Pick returns the first sheet whose name satisfies match, or the first sheet.
func (w *Workbook) Pick(match func(name string) bool) string {
	names := w.SheetNames()
	if match != nil {
		for _, name := range names {
			if match(name) {
				return name
			}
		}
	}
	return names[0]
}

// Sheet reads a worksheet. The first row is the header; fully blank rows are dropped but keep their
// numbering for the rows that follow.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	rows, err := w.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrMalformed, name, err)
	}
	sheet := &Sheet{Name: name, Header: RawRow{Number: 1}}
	for i, cells := range rows {
		row := RawRow{Number: i + 1, Cells: cells}
		if i == 0 {
			sheet.Header = row
			continue
		}
		if row.Blank() {
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

// ReadSheet opens r and reads the sheet chosen by match.
func ReadSheet(r io.Reader, match func(name string) bool) (*Sheet, error) {
	wb, err := Open(r)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return wb.Sheet(wb.Pick(match))
}
