package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

type Workbook struct {
	file *excelize.File
}

// Open parses an xlsx document held in memory.
func Open(data []byte) (*Workbook, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("open workbook: empty input")
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{file: f}, nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// ExtractSheet returns the data rows of the named sheet. An absent or header-only sheet yields no rows.
func ExtractSheet(w *Workbook, sheet string) []Row {
	if w == nil || w.file == nil {
		return nil
	}
	if idx, err := w.file.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil
	}
	raw, err := w.file.GetRows(sheet)
	if err != nil || len(raw) < 2 {
		return nil
	}
	headers := raw[0]
	rows := make([]Row, 0, len(raw)-1)
	for i, cells := range raw[1:] {
		row := NewRow(i+2, headers, cells)
		if row.IsBlank() {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
