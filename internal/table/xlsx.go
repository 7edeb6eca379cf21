package table

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX parses an XLSX workbook into a Table. sheet selects a worksheet
// by name; when empty, the first sheet is used. The first row is the header.
func LoadXLSX(raw []byte, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyInput
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	header := rows[0]
	records := rows[1:]
	if len(header) == 0 || len(records) == 0 {
		return nil, ErrEmptyInput
	}
	return build(header, records), nil
}
