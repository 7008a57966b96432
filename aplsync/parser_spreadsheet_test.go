package aplsync

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestSpreadsheetParse(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"UPC", "Description", "Brand", "Size"},
		{"00011110001", "Whole Milk", "DairyCo", "1 gal"},
		{"00011110002", "Skim Milk", "DairyCo", "1 gal"},
		{"TOTALS", "", "", ""},
	})

	p := &SpreadsheetParser{}
	records, err := p.Parse(data, testMapping)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2 with the footer dropped", len(records))
	}
	if records[0].Code != "00011110001" || records[0].Brand != "DairyCo" {
		t.Errorf("records[0] = %+v", records[0])
	}
}

func TestSpreadsheetParseMissingCodeColumn(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Item", "Description"},
		{"1", "Milk"},
	})

	p := &SpreadsheetParser{}
	if _, err := p.Parse(data, testMapping); !errors.Is(err, ErrMissingCodeColumn) {
		t.Fatalf("err = %v, want ErrMissingCodeColumn", err)
	}
}

func TestSpreadsheetParseGarbageBytes(t *testing.T) {
	p := &SpreadsheetParser{}
	if _, err := p.Parse([]byte("not a workbook"), testMapping); !errors.Is(err, ErrParseFailed) {
		t.Fatalf("err = %v, want ErrParseFailed", err)
	}
}

func TestSpreadsheetParseHeaderOnly(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"UPC", "Description"},
	})

	p := &SpreadsheetParser{}
	records, err := p.Parse(data, testMapping)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records = %+v, want none", records)
	}
}
