package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SheetSpec describes one sheet: a bold header row followed by optional data rows.
type SheetSpec struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Write renders an xlsx document with the given sheets in order.
func Write(sheets []SheetSpec) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("write workbook: no sheets")
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	defaultSheet := f.GetSheetName(0)
	for i, spec := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, spec.Name); err != nil {
				return nil, fmt.Errorf("rename sheet %s: %w", spec.Name, err)
			}
		} else if _, err := f.NewSheet(spec.Name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", spec.Name, err)
		}
		for col, header := range spec.Headers {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(spec.Name, cell, header); err != nil {
				return nil, err
			}
			if err := f.SetCellStyle(spec.Name, cell, cell, headerStyle); err != nil {
				return nil, err
			}
			if err := f.SetColWidth(spec.Name, columnName(col+1), columnName(col+1), 24); err != nil {
				return nil, err
			}
		}
		for r, values := range spec.Rows {
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, r+2)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellStr(spec.Name, cell, v); err != nil {
					return nil, err
				}
			}
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func columnName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return "A"
	}
	return name
}
