package aplsync

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/models"
)

// DelimitedParser parses delimited text files (CSV, TSV, pipe-delimited).
// A zero value parses comma-separated content.
type DelimitedParser struct {
	// Delimiter overrides the field separator. 0 means comma.
	Delimiter rune
}

// Parse implements Parser for delimited text
func (p *DelimitedParser) Parse(data []byte, mapping models.ColumnMapping) ([]ProductRecord, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	if p.Delimiter != 0 {
		reader.Comma = p.Delimiter
	}
	// Source files routinely have ragged rows; short rows degrade to empty
	// fields during extraction instead of failing the whole file.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []ProductRecord{}, nil
		}
		return nil, fmt.Errorf("%w: reading header: %v", ErrParseFailed, err)
	}

	idx, err := resolveColumns(header, mapping)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading row: %v", ErrParseFailed, err)
		}
		rows = append(rows, row)
	}

	return rowsToRecords(rows, idx), nil
}
