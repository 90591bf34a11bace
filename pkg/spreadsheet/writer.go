package spreadsheet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Table is one worksheet to write: a header row and data rows.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Build renders tables into xlsx bytes, one worksheet per table in order.
func Build(tables ...Table) ([]byte, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("build workbook: no tables")
	}
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("build workbook: header style: %w", err)
	}

	defaultSheet := f.GetSheetName(0)
	for i, table := range tables {
		name := table.Name
		if name == "" {
			name = fmt.Sprintf("Hoja%d", i+1)
		}
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return nil, fmt.Errorf("build workbook: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("build workbook: new sheet %q: %w", name, err)
		}

		rowNum := 1
		if len(table.Header) > 0 {
			if err := writeRow(f, name, rowNum, table.Header); err != nil {
				return nil, err
			}
			last, _ := excelize.CoordinatesToCellName(len(table.Header), 1)
			if err := f.SetCellStyle(name, "A1", last, bold); err != nil {
				return nil, fmt.Errorf("build workbook: style header: %w", err)
			}
			rowNum++
		}
		for _, row := range table.Rows {
			if err := writeRow(f, name, rowNum, row); err != nil {
				return nil, err
			}
			rowNum++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	if len(cells) == 0 {
		return nil
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("build workbook: write row %d: %w", rowNum, err)
	}
	return nil
}
