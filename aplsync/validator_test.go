package aplsync

import (
	"errors"
	"testing"
)

func TestValidateRecordCount(t *testing.T) {
	tests := []struct {
		name        string
		parsed      int
		minExpected int
		wantErr     bool
	}{
		{"above minimum", 9941, 9000, false},
		{"exactly minimum", 9000, 9000, false},
		{"below minimum", 120, 9000, true},
		{"zero parsed", 0, 9000, true},
		{"gate disabled", 0, 0, false},
		{"negative minimum disables gate", 0, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecordCount(tt.parsed, tt.minExpected)
			if tt.wantErr {
				if !errors.Is(err, ErrBelowMinimumRecords) {
					t.Errorf("err = %v, want ErrBelowMinimumRecords", err)
				}
				return
			}
			if err != nil {
				t.Errorf("err = %v, want nil", err)
			}
		})
	}
}

func TestValidateChangeRate(t *testing.T) {
	tests := []struct {
		name          string
		added         int
		updated       int
		removed       int
		existingCount int64
		maxRate       float64
		wantWarning   bool
	}{
		{"typical refresh", 141, 380, 95, 9800, 0.25, false},
		{"exactly at threshold", 0, 2450, 0, 9800, 0.25, false},
		{"mass removal breaches", 0, 0, 5000, 9800, 0.25, true},
		{"combined churn breaches", 1500, 800, 700, 9800, 0.25, true},
		{"empty catalog skips check", 500, 0, 0, 0, 0.25, false},
		{"disabled threshold", 9000, 0, 0, 100, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidateChangeRate(tt.added, tt.updated, tt.removed, tt.existingCount, tt.maxRate)
			if tt.wantWarning && warning == "" {
				t.Error("expected a warning, got none")
			}
			if !tt.wantWarning && warning != "" {
				t.Errorf("unexpected warning: %s", warning)
			}
		})
	}
}
