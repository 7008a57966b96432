package aplsync

import (
	"fmt"
	"strings"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/constants"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/models"
	"github.com/rs/zerolog/log"
)

// Logical record fields a column mapping may bind. Only FieldCode is
// mandatory; the rest degrade to empty values when unresolvable.
const (
	FieldCode        = "code"
	FieldName        = "name"
	FieldBrand       = "brand"
	FieldSize        = "size"
	FieldCategory    = "category"
	FieldSubcategory = "subcategory"
)

// Parser converts raw source bytes plus a column mapping into candidate
// catalog records.
type Parser interface {
	// Parse produces the normalized record sequence or a structured parse error
	Parse(data []byte, mapping models.ColumnMapping) ([]ProductRecord, error)
}

// ForFormat returns the parser for a declared format. Formats that are
// declared but not implemented fail here, before any fetch work is wasted
// on them.
func ForFormat(format constants.DataFormat) (Parser, error) {
	switch format {
	case constants.FormatSpreadsheet:
		return &SpreadsheetParser{}, nil
	case constants.FormatDelimited:
		return &DelimitedParser{}, nil
	case constants.FormatHTML, constants.FormatDocument:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// columnIndex maps each logical field to a column position in the source.
type columnIndex map[string]int

// resolveColumns matches a header row against the mapping. For every logical
// field the acceptable header names are tried in declared order and the first
// present one wins. Matching is case-insensitive on trimmed headers.
func resolveColumns(header []string, mapping models.ColumnMapping) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	index := make(columnIndex, len(mapping))
	for field, aliases := range mapping {
		for _, alias := range aliases {
			if pos, ok := positions[strings.ToLower(strings.TrimSpace(alias))]; ok {
				index[field] = pos
				break
			}
		}
	}

	if _, ok := index[FieldCode]; !ok {
		return nil, ErrMissingCodeColumn
	}
	return index, nil
}

// cell returns the trimmed value of a logical field within a row, or ""
// when the field is unbound or the row is short.
func (idx columnIndex) cell(row []string, field string) string {
	pos, ok := idx[field]
	if !ok || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}

// rowsToRecords converts data rows into product records using a resolved
// column index. Rows without a resolvable code, or whose normalized code has
// an implausible length, are dropped as noise rather than failing the parse.
func rowsToRecords(rows [][]string, idx columnIndex) []ProductRecord {
	records := make([]ProductRecord, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		code := NormalizeCode(idx.cell(row, FieldCode))
		if !ValidCode(code) {
			dropped++
			continue
		}

		records = append(records, ProductRecord{
			Code:        code,
			Name:        idx.cell(row, FieldName),
			Brand:       idx.cell(row, FieldBrand),
			Size:        idx.cell(row, FieldSize),
			Category:    idx.cell(row, FieldCategory),
			Subcategory: idx.cell(row, FieldSubcategory),
		})
	}

	if dropped > 0 {
		log.Debug().Int("dropped", dropped).Int("kept", len(records)).Msg("Dropped rows without a plausible code")
	}
	return records
}
