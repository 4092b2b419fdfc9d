package event

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"chapter-fund-ledger/internal/domain/apperr"
)

func TestInput_Validate(t *testing.T) {
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)
	neg := decimal.NewFromInt(-5)
	huge := decimal.RequireFromString("12345678901.00")
	top := decimal.RequireFromString("9999999999.99")

	tests := []struct {
		name    string
		in      Input
		wantErr bool
	}{
		{"ok defaults", Input{Name: "Blood drive"}, false},
		{"missing name", Input{Name: "  "}, true},
		{"bad status", Input{Name: "x", Status: "archived"}, true},
		{"negative target", Input{Name: "x", TargetAmount: &neg}, true},
		{"target beyond column", Input{Name: "x", TargetAmount: &huge}, true},
		{"largest target", Input{Name: "x", TargetAmount: &top}, false},
		{"end before start", Input{Name: "x", StartDate: &start, EndDate: &end}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			in.Normalize()
			err := in.Validate()
			if tt.wantErr && !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("want ErrValidation, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
		})
	}
}

func TestInput_NormalizeDefaultsStatus(t *testing.T) {
	in := Input{Name: " Camp "}
	in.Normalize()
	if in.Status != StatusUpcoming || in.Name != "Camp" {
		t.Fatalf("normalize mismatch: %+v", in)
	}
	var e Event
	in.Apply(&e)
	if e.Status != StatusUpcoming || e.Name != "Camp" {
		t.Fatalf("apply mismatch: %+v", e)
	}
}
