package aplsync

import (
	"errors"
	"testing"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/constants"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/models"
)

var testMapping = models.ColumnMapping{
	FieldCode:     {"UPC", "Product Code"},
	FieldName:     {"Description", "Product Name"},
	FieldBrand:    {"Brand"},
	FieldSize:     {"Size"},
	FieldCategory: {"Category"},
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format  constants.DataFormat
		wantErr bool
	}{
		{constants.FormatDelimited, false},
		{constants.FormatSpreadsheet, false},
		{constants.FormatHTML, true},
		{constants.FormatDocument, true},
		{constants.DataFormat("pdf"), true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			_, err := ForFormat(tt.format)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("ForFormat(%q) err = %v, want ErrUnsupportedFormat", tt.format, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ForFormat(%q) err = %v", tt.format, err)
			}
		})
	}
}

func TestDelimitedParse(t *testing.T) {
	data := []byte("UPC,Description,Brand,Size\n" +
		"00011110001,Whole Milk,DairyCo,1 gal\n" +
		"000-1111-0002,Skim Milk,DairyCo,1 gal\n")

	p := &DelimitedParser{}
	records, err := p.Parse(data, testMapping)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Code != "00011110001" || records[0].Name != "Whole Milk" {
		t.Errorf("records[0] = %+v", records[0])
	}
	// Dashes get stripped by normalization.
	if records[1].Code != "00011110002" {
		t.Errorf("records[1].Code = %q, want normalized digits", records[1].Code)
	}
}

func TestDelimitedParseAliasOrder(t *testing.T) {
	// Both aliases for code resolve; the first declared one must win.
	mapping := models.ColumnMapping{
		FieldCode: {"UPC", "Product Code"},
		FieldName: {"Description"},
	}
	data := []byte("Product Code,UPC,Description\n" +
		"99999999999,11111111111,From UPC Column\n")

	p := &DelimitedParser{}
	records, err := p.Parse(data, mapping)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 1 || records[0].Code != "11111111111" {
		t.Fatalf("records = %+v, want code from UPC column", records)
	}
}

func TestDelimitedParseHeaderMatchingIsCaseInsensitive(t *testing.T) {
	data := []byte("  upc , DESCRIPTION \n00011110001,Milk\n")

	p := &DelimitedParser{}
	records, err := p.Parse(data, testMapping)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Milk" {
		t.Fatalf("records = %+v", records)
	}
}

func TestDelimitedParseDropsImplausibleCodes(t *testing.T) {
	data := []byte("UPC,Description\n" +
		"123,Too Short\n" +
		"123456789012345,Too Long\n" +
		"TOTALS,Footer Row\n" +
		"00011110001,Kept\n")

	p := &DelimitedParser{}
	records, err := p.Parse(data, testMapping)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Kept" {
		t.Fatalf("records = %+v, want only the plausible code", records)
	}
}

func TestDelimitedParseMissingCodeColumn(t *testing.T) {
	data := []byte("Item,Description\n1,Milk\n")

	p := &DelimitedParser{}
	if _, err := p.Parse(data, testMapping); !errors.Is(err, ErrMissingCodeColumn) {
		t.Fatalf("err = %v, want ErrMissingCodeColumn", err)
	}
}

func TestDelimitedParseEmptyFile(t *testing.T) {
	p := &DelimitedParser{}
	records, err := p.Parse(nil, testMapping)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records = %+v, want none", records)
	}
}

func TestDelimitedParseRaggedRows(t *testing.T) {
	data := []byte("UPC,Description,Brand\n" +
		"00011110001,Milk\n" +
		"00011110002,Eggs,FarmFresh,extra\n")

	p := &DelimitedParser{}
	records, err := p.Parse(data, testMapping)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Brand != "" {
		t.Errorf("short row brand = %q, want empty", records[0].Brand)
	}
	if records[1].Brand != "FarmFresh" {
		t.Errorf("records[1].Brand = %q", records[1].Brand)
	}
}

func TestDelimitedParsePipeDelimiter(t *testing.T) {
	data := []byte("UPC|Description\n00011110001|Milk\n")

	p := &DelimitedParser{Delimiter: '|'}
	records, err := p.Parse(data, testMapping)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Milk" {
		t.Fatalf("records = %+v", records)
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"00011110001", "00011110001"},
		{"000-1111-0001", "00011110001"},
		{" 0001111 0001 ", "00011110001"},
		{"UPC:00011110001", "00011110001"},
		{"no digits", ""},
	}

	for _, tt := range tests {
		if got := NormalizeCode(tt.raw); got != tt.want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestValidCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"1234567", false},
		{"12345678", true},
		{"12345678901234", true},
		{"123456789012345", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidCode(tt.code); got != tt.want {
			t.Errorf("ValidCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
