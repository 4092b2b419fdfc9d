package donation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"chapter-fund-ledger/internal/domain/apperr"
	"chapter-fund-ledger/internal/domain/member"
	"chapter-fund-ledger/internal/domain/money"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// transitions is the closed donation state machine. approved is final;
// rejected can only go back to pending through a resubmission.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusRejected: {StatusPending},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// InitialStatus decides the status of a freshly recorded donation. Trusted
// roles enter approved rows directly; coordinator entries wait for review.
func InitialStatus(r member.Role) Status {
	if member.CanApprove(r) {
		return StatusApproved
	}
	return StatusPending
}

type PaymentMode string

const (
	PaymentUPI          PaymentMode = "upi"
	PaymentCash         PaymentMode = "cash"
	PaymentBankTransfer PaymentMode = "bank_transfer"
	PaymentCheque       PaymentMode = "cheque"
	PaymentOther        PaymentMode = "other"
)

func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentUPI, PaymentCash, PaymentBankTransfer, PaymentCheque, PaymentOther:
		return true
	}
	return false
}

// BloodGroup is optional donor metadata kept for the chapter's blood drives.
type BloodGroup string

var bloodGroups = map[BloodGroup]struct{}{
	"A+": {}, "A-": {}, "B+": {}, "B-": {}, "AB+": {}, "AB-": {}, "O+": {}, "O-": {},
}

func (b BloodGroup) Valid() bool { _, ok := bloodGroups[b]; return ok }

// Table: donations
type Donation struct {
	ID              string          `gorm:"column:id;type:char(32);primaryKey" json:"id"`
	ClubID          string          `gorm:"column:club_id;type:char(32);not null;index:idx_donations_club_status,priority:1" json:"club_id"`
	EventID         *string         `gorm:"column:event_id;type:char(32);index:idx_donations_event" json:"event_id,omitempty"`
	DonorName       string          `gorm:"column:donor_name;type:varchar(120);not null" json:"donor_name"`
	DonorEmail      *string         `gorm:"column:donor_email;type:varchar(255)" json:"donor_email,omitempty"`
	DonorPhone      *string         `gorm:"column:donor_phone;type:varchar(32)" json:"donor_phone,omitempty"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null;check:amount > 0" json:"amount"`
	PaymentMode     PaymentMode     `gorm:"column:payment_mode;type:varchar(16);not null;check:payment_mode IN ('upi','cash','bank_transfer','cheque','other')" json:"payment_mode"`
	TransactionID   *string         `gorm:"column:transaction_id;type:varchar(120)" json:"transaction_id,omitempty"`
	ScreenshotURL   *string         `gorm:"column:screenshot_url;type:text" json:"screenshot_url,omitempty"`
	Notes           *string         `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CollectedBy     string          `gorm:"column:collected_by;type:char(32);not null;index:idx_donations_collector" json:"collected_by"`
	DonationDate    time.Time       `gorm:"column:donation_date;type:date;not null" json:"donation_date"`
	BloodGroup      *BloodGroup     `gorm:"column:blood_group;type:varchar(4)" json:"blood_group,omitempty"`
	ContactConsent  bool            `gorm:"column:contact_consent;not null;default:false" json:"contact_consent"`
	Status          Status          `gorm:"column:status;type:varchar(16);not null;default:'pending';index:idx_donations_club_status,priority:2;check:status IN ('pending','approved','rejected')" json:"status"`
	RejectionReason *string         `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`
	ReviewedBy      *string         `gorm:"column:reviewed_by;type:char(32)" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time      `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Donation) TableName() string { return "donations" }

// PendingRow is a pending donation joined with the names reviewers need.
type PendingRow struct {
	Donation
	EventName     *string `gorm:"column:event_name" json:"event_name,omitempty"`
	CollectorName string  `gorm:"column:collector_name" json:"collector_name"`
}

// Review is the set of columns written by a status transition. Nil pointers
// clear the column.
type Review struct {
	To              Status
	ReviewedBy      *string
	ReviewedAt      *time.Time
	RejectionReason *string
}

// Fields carries the donor/payment details of a donation, used both when
// recording and when an admin edits one.
type Fields struct {
	EventID        *string
	DonorName      string
	DonorEmail     *string
	DonorPhone     *string
	Amount         decimal.Decimal
	PaymentMode    PaymentMode
	TransactionID  *string
	ScreenshotURL  *string
	Notes          *string
	DonationDate   time.Time
	BloodGroup     *BloodGroup
	ContactConsent bool
}

func (f *Fields) Normalize() {
	f.DonorName = strings.TrimSpace(f.DonorName)
	f.EventID = blankToNil(f.EventID)
	f.DonorEmail = blankToNil(f.DonorEmail)
	f.DonorPhone = blankToNil(f.DonorPhone)
	f.TransactionID = blankToNil(f.TransactionID)
	f.ScreenshotURL = blankToNil(f.ScreenshotURL)
	f.Notes = blankToNil(f.Notes)
	if f.BloodGroup != nil {
		bg := BloodGroup(strings.ToUpper(strings.TrimSpace(string(*f.BloodGroup))))
		if bg == "" {
			f.BloodGroup = nil
		} else {
			f.BloodGroup = &bg
		}
	}
	if !f.DonationDate.IsZero() {
		f.DonationDate = truncateDay(f.DonationDate)
	}
}

func (f Fields) Validate() error {
	var c apperr.Collector
	c.Check(f.DonorName != "", "donor_name", "is required")
	c.Check(len(f.DonorName) <= 120, "donor_name", "must be at most 120 characters")
	c.Check(f.Amount.IsPositive(), "amount", "must be greater than 0")
	c.Check(f.Amount.Equal(f.Amount.Round(2)), "amount", "must have at most 2 decimal places")
	c.Check(money.Fits(f.Amount), "amount", money.TooLarge)
	c.Check(f.PaymentMode.Valid(), "payment_mode", "must be one of upi, cash, bank_transfer, cheque, other")
	c.Check(!f.DonationDate.IsZero(), "donation_date", "is required")
	if f.BloodGroup != nil {
		c.Check(f.BloodGroup.Valid(), "blood_group", "is not a recognised blood group")
	}
	return c.Err()
}

// Apply copies the fields onto d without touching status or review stamps.
func (f Fields) Apply(d *Donation) {
	d.EventID = f.EventID
	d.DonorName = f.DonorName
	d.DonorEmail = f.DonorEmail
	d.DonorPhone = f.DonorPhone
	d.Amount = f.Amount
	d.PaymentMode = f.PaymentMode
	d.TransactionID = f.TransactionID
	d.ScreenshotURL = f.ScreenshotURL
	d.Notes = f.Notes
	d.DonationDate = f.DonationDate
	d.BloodGroup = f.BloodGroup
	d.ContactConsent = f.ContactConsent
}

// Columns maps the fields to their donation columns. Status and review
// stamps are never part of it.
func (f Fields) Columns() map[string]any {
	return map[string]any{
		"event_id":        f.EventID,
		"donor_name":      f.DonorName,
		"donor_email":     f.DonorEmail,
		"donor_phone":     f.DonorPhone,
		"amount":          f.Amount,
		"payment_mode":    f.PaymentMode,
		"transaction_id":  f.TransactionID,
		"screenshot_url":  f.ScreenshotURL,
		"notes":           f.Notes,
		"donation_date":   f.DonationDate,
		"blood_group":     f.BloodGroup,
		"contact_consent": f.ContactConsent,
	}
}

func blankToNil(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
