package source

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// DecodeXLSX reads the first sheet of a workbook. The first non-blank row is
// the header. Cells are read as formatted text, so dates keep the workbook's
// display format.
func DecodeXLSX(r io.Reader, name string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", name, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%s: workbook has no sheets", name)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s of %s: %w", sheet, name, err)
	}

	t := &Table{Name: name}
	for i, rec := range rows {
		if isBlank(rec) {
			continue
		}
		if t.Headers == nil {
			t.Headers = rec
			continue
		}
		t.Rows = append(t.Rows, Row{Line: i + 1, Values: rec})
	}
	if t.Headers == nil {
		return nil, fmt.Errorf("%s: no header row", name)
	}
	return t, nil
}
