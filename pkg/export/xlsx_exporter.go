package export

import (
	"fmt"

	"github.com/noah-isme/iea-horarios-api/pkg/spreadsheet"
)

// XLSXExporter renders datasets into a single-sheet workbook.
type XLSXExporter struct{}

// NewXLSXExporter constructs an xlsx exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render writes the dataset into a worksheet named after the title.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}
	name := data.Title
	if name == "" || len(name) > 31 {
		name = "Horarios"
	}
	return spreadsheet.Build(spreadsheet.Table{Name: name, Header: data.Headers, Rows: data.Records()})
}
