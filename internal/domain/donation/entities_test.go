package donation

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"chapter-fund-ledger/internal/domain/apperr"
	"chapter-fund-ledger/internal/domain/member"
)

func TestCanTransition_ClosedTable(t *testing.T) {
	all := []Status{StatusPending, StatusApproved, StatusRejected}
	allowed := map[[2]Status]bool{
		{StatusPending, StatusApproved}: true,
		{StatusPending, StatusRejected}: true,
		{StatusRejected, StatusPending}: true,
	}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]Status{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
	if CanTransition(StatusRejected, StatusApproved) {
		t.Fatal("rejected must not go straight to approved")
	}
}

func TestInitialStatus(t *testing.T) {
	tests := map[member.Role]Status{
		member.RoleAdmin:       StatusApproved,
		member.RoleTreasurer:   StatusApproved,
		member.RoleCoordinator: StatusPending,
	}
	for role, want := range tests {
		if got := InitialStatus(role); got != want {
			t.Errorf("InitialStatus(%s) = %s, want %s", role, got, want)
		}
	}
}

func validFields() Fields {
	return Fields{
		DonorName:    "Ravi",
		Amount:       decimal.NewFromInt(5000),
		PaymentMode:  PaymentUPI,
		DonationDate: time.Date(2025, 3, 1, 15, 4, 0, 0, time.UTC),
	}
}

func TestFields_Validate(t *testing.T) {
	bad := BloodGroup("Z+")
	tests := []struct {
		name   string
		mutate func(*Fields)
		field  string
	}{
		{"zero amount", func(f *Fields) { f.Amount = decimal.Zero }, "amount"},
		{"negative amount", func(f *Fields) { f.Amount = decimal.NewFromInt(-1) }, "amount"},
		{"three decimals", func(f *Fields) { f.Amount = decimal.RequireFromString("10.005") }, "amount"},
		{"beyond column", func(f *Fields) { f.Amount = decimal.RequireFromString("10000000000") }, "amount"},
		{"missing donor", func(f *Fields) { f.DonorName = "   " }, "donor_name"},
		{"bad mode", func(f *Fields) { f.PaymentMode = "crypto" }, "payment_mode"},
		{"missing date", func(f *Fields) { f.DonationDate = time.Time{} }, "donation_date"},
		{"bad blood group", func(f *Fields) { f.BloodGroup = &bad }, "blood_group"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)
			f.Normalize()
			err := f.Validate()
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("want ErrValidation, got %v", err)
			}
			found := false
			for _, fe := range apperr.Fields(err) {
				if fe.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("field %q not reported: %v", tt.field, err)
			}
		})
	}
}

func TestFields_NormalizeAndApply(t *testing.T) {
	blank := " "
	bg := BloodGroup(" o+ ")
	f := validFields()
	f.Notes = &blank
	f.BloodGroup = &bg
	f.Normalize()
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if f.Notes != nil {
		t.Fatal("blank notes should be nil")
	}
	if *f.BloodGroup != "O+" {
		t.Fatalf("blood group = %q", *f.BloodGroup)
	}
	if f.DonationDate.Hour() != 0 {
		t.Fatalf("donation date not truncated: %v", f.DonationDate)
	}

	d := Donation{Status: StatusApproved}
	f.Apply(&d)
	if d.Status != StatusApproved || !d.Amount.Equal(decimal.NewFromInt(5000)) || d.DonorName != "Ravi" {
		t.Fatalf("apply mismatch: %+v", d)
	}
}
