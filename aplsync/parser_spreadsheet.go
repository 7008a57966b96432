package aplsync

import (
	"bytes"
	"fmt"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/models"
	"github.com/xuri/excelize/v2"
)

// SpreadsheetParser parses xlsx workbooks. Only the first sheet is read;
// publishers ship single-sheet product lists.
type SpreadsheetParser struct{}

// Parse implements Parser for tabular spreadsheets
func (p *SpreadsheetParser) Parse(data []byte, mapping models.ColumnMapping) ([]ProductRecord, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook: %v", ErrParseFailed, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrParseFailed)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", ErrParseFailed, sheets[0], err)
	}
	if len(rows) == 0 {
		return []ProductRecord{}, nil
	}

	idx, err := resolveColumns(rows[0], mapping)
	if err != nil {
		return nil, err
	}

	return rowsToRecords(rows[1:], idx), nil
}
