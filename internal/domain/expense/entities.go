package expense

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"chapter-fund-ledger/internal/domain/apperr"
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

// Both outcomes are terminal; there is no resubmission path for expenses.
func CanTransition(from, to Status) bool {
	return from == StatusPending && (to == StatusApproved || to == StatusRejected)
}

type Category string

const (
	CategoryFood            Category = "food"
	CategorySupplies        Category = "supplies"
	CategoryTransport       Category = "transport"
	CategoryVenue           Category = "venue"
	CategoryPrinting        Category = "printing"
	CategoryMedical         Category = "medical"
	CategoryDonationForward Category = "donation_forward"
	CategoryOther           Category = "other"
)

var Categories = []Category{
	CategoryFood, CategorySupplies, CategoryTransport, CategoryVenue,
	CategoryPrinting, CategoryMedical, CategoryDonationForward, CategoryOther,
}

func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Table: expenses. Only approved rows count against the club balance.
type Expense struct {
	ID              string          `gorm:"column:id;type:char(32);primaryKey" json:"id"`
	ClubID          string          `gorm:"column:club_id;type:char(32);not null;index:idx_expenses_club_status,priority:1" json:"club_id"`
	EventID         *string         `gorm:"column:event_id;type:char(32);index:idx_expenses_event" json:"event_id,omitempty"`
	Title           string          `gorm:"column:title;type:varchar(160);not null" json:"title"`
	Description     *string         `gorm:"column:description;type:text" json:"description,omitempty"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null;check:amount > 0" json:"amount"`
	Category        Category        `gorm:"column:category;type:varchar(24);not null;check:category IN ('food','supplies','transport','venue','printing','medical','donation_forward','other')" json:"category"`
	ReceiptURL      *string         `gorm:"column:receipt_url;type:text" json:"receipt_url,omitempty"`
	Status          Status          `gorm:"column:status;type:varchar(16);not null;default:'pending';index:idx_expenses_club_status,priority:2;check:status IN ('pending','approved','rejected')" json:"status"`
	SubmittedBy     string          `gorm:"column:submitted_by;type:char(32);not null;index:idx_expenses_submitter" json:"submitted_by"`
	ApprovedBy      *string         `gorm:"column:approved_by;type:char(32)" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `gorm:"column:approved_at" json:"approved_at,omitempty"`
	RejectionReason *string         `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`
	ExpenseDate     time.Time       `gorm:"column:expense_date;type:date;not null" json:"expense_date"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Expense) TableName() string { return "expenses" }

type PendingRow struct {
	Expense
	EventName     *string `gorm:"column:event_name" json:"event_name,omitempty"`
	SubmitterName string  `gorm:"column:submitter_name" json:"submitter_name"`
}

// Decision is what an approve/reject writes. ApprovedBy is stamped on both
// outcomes; ApprovedAt only on approval.
type Decision struct {
	To              Status
	ApprovedBy      string
	ApprovedAt      *time.Time
	RejectionReason *string
}

type Fields struct {
	EventID     *string
	Title       string
	Description *string
	Amount      decimal.Decimal
	Category    Category
	ReceiptURL  *string
	ExpenseDate time.Time
}

func (f *Fields) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.EventID = blankToNil(f.EventID)
	f.Description = blankToNil(f.Description)
	f.ReceiptURL = blankToNil(f.ReceiptURL)
	f.Category = Category(strings.ToLower(strings.TrimSpace(string(f.Category))))
	if f.Category == "" {
		f.Category = CategoryOther
	}
	if !f.ExpenseDate.IsZero() {
		y, m, d := f.ExpenseDate.UTC().Date()
		f.ExpenseDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}

func (f Fields) Validate() error {
	var c apperr.Collector
	c.Check(f.Title != "", "title", "is required")
	c.Check(len(f.Title) <= 160, "title", "must be at most 160 characters")
	c.Check(f.Amount.IsPositive(), "amount", "must be greater than 0")
	c.Check(f.Amount.Equal(f.Amount.Round(2)), "amount", "must have at most 2 decimal places")
	c.Check(money.Fits(f.Amount), "amount", money.TooLarge)
	c.Check(f.Category.Valid(), "category", "is not a known expense category")
	c.Check(!f.ExpenseDate.IsZero(), "expense_date", "is required")
	return c.Err()
}

func (f Fields) Apply(e *Expense) {
	e.EventID = f.EventID
	e.Title = f.Title
	e.Description = f.Description
	e.Amount = f.Amount
	e.Category = f.Category
	e.ReceiptURL = f.ReceiptURL
	e.ExpenseDate = f.ExpenseDate
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
