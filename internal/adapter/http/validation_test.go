package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestHex32Validation(t *testing.T) {
	type P struct {
		EventID string `json:"event_id" validate:"hex32"`
	}
	cv := NewValidator()

	// valid: 32-char lowercase hex
	ok := P{EventID: strings.Repeat("a", 32)}
	if err := cv.Validate(ok); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}

	// invalid samples
	for _, s := range []string{
		"",                                  // empty
		strings.Repeat("A", 32),             // uppercase
		"deadbeef",                          // too short
		strings.Repeat("g", 32),             // non-hex char
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",   // 31 chars
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x", // 33 with extra
	} {
		err := cv.Validate(P{EventID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "event_id", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, fe)
		}
	}
}

func TestMoneyValidation(t *testing.T) {
	type P struct {
		Amount decimal.Decimal  `json:"amount" validate:"money,dec2,amountcap"`
		Target *decimal.Decimal `json:"target" validate:"omitempty,money0,dec2,amountcap"`
	}
	cv := NewValidator()
	d := decimal.RequireFromString
	zero := decimal.Zero
	neg := d("-1")
	fine := d("10000.50")
	huge := d("10000000000")

	tests := []struct {
		name  string
		in    P
		field string
		msg   string
	}{
		{name: "whole rupees", in: P{Amount: d("5000")}},
		{name: "paise", in: P{Amount: d("1250.25"), Target: &fine}},
		{name: "zero target", in: P{Amount: d("1"), Target: &zero}},
		{name: "zero amount", in: P{Amount: zero}, field: "amount", msg: "greater than 0"},
		{name: "negative amount", in: P{Amount: d("-5")}, field: "amount", msg: "greater than 0"},
		{name: "three places", in: P{Amount: d("1.005")}, field: "amount", msg: "at most 2 decimal places"},
		{name: "negative target", in: P{Amount: d("1"), Target: &neg}, field: "target", msg: "must not be negative"},
		{name: "largest amount", in: P{Amount: d("9999999999.99")}},
		{name: "amount beyond column", in: P{Amount: huge}, field: "amount", msg: "less than 10000000000"},
		{name: "target beyond column", in: P{Amount: d("1"), Target: &huge}, field: "target", msg: "less than 10000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cv.Validate(tt.in)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error on %s", tt.field)
			}
			if fe := ToFieldErrors(err); !containsFieldMsg(fe, tt.field, tt.msg) {
				t.Fatalf("want %s %q, got %+v", tt.field, tt.msg, fe)
			}
		})
	}
}

func TestRequiredAndFormatMapping(t *testing.T) {
	type P struct {
		Name  string `json:"name"          validate:"required"`
		Email string `json:"email"         validate:"required,email"`
		Mode  string `json:"payment_mode"  validate:"oneof=upi cash"`
		Date  string `json:"donation_date" validate:"datetime=2006-01-02"`
		URL   string `json:"receipt_url"   validate:"url"`
		Note  string `json:"note"          validate:"max=3"`
	}
	cv := NewValidator()

	// Intentionally violate all
	err := cv.Validate(P{Email: "nope", Mode: "card", Date: "01/03/2025", URL: "receipt", Note: "long"})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	want := map[string]string{
		"name":          "is required",
		"email":         "valid email",
		"payment_mode":  "one of: upi cash",
		"donation_date": "2006-01-02",
		"receipt_url":   "valid URL",
		"note":          "at most 3",
	}
	for field, msg := range want {
		if !containsFieldMsg(fe, field, msg) {
			t.Fatalf("missing %q for %s: %+v", msg, field, fe)
		}
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	err := errors.New("boom")
	fe := ToFieldErrors(err)
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
