package event

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"chapter-fund-ledger/internal/domain/apperr"
	"chapter-fund-ledger/internal/domain/money"
)

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// GeneralFund is the display name for ledger rows without an event.
const GeneralFund = "General Fund"

// Table: events. Deleting an event detaches its donations/expenses
// (event_id → NULL) and never deletes them.
type Event struct {
	ID           string           `gorm:"column:id;type:char(32);primaryKey" json:"id"`
	ClubID       string           `gorm:"column:club_id;type:char(32);not null;index:idx_events_club" json:"club_id"`
	Name         string           `gorm:"column:name;type:varchar(160);not null" json:"name"`
	Description  *string          `gorm:"column:description;type:text" json:"description,omitempty"`
	TargetAmount *decimal.Decimal `gorm:"column:target_amount;type:decimal(12,2)" json:"target_amount,omitempty"`
	StartDate    *time.Time       `gorm:"column:start_date;type:date" json:"start_date,omitempty"`
	EndDate      *time.Time       `gorm:"column:end_date;type:date" json:"end_date,omitempty"`
	Status       Status           `gorm:"column:status;type:varchar(16);not null;default:'upcoming';check:status IN ('upcoming','active','completed','cancelled')" json:"status"`
	CreatedBy    *string          `gorm:"column:created_by;type:char(32)" json:"created_by,omitempty"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Event) TableName() string { return "events" }

// Input carries the writable fields of an event.
type Input struct {
	Name         string
	Description  *string
	TargetAmount *decimal.Decimal
	StartDate    *time.Time
	EndDate      *time.Time
	Status       Status
}

func (in *Input) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	if in.Status == "" {
		in.Status = StatusUpcoming
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if d == "" {
			in.Description = nil
		} else {
			in.Description = &d
		}
	}
}

func (in Input) Validate() error {
	var c apperr.Collector
	c.Check(in.Name != "", "name", "is required")
	c.Check(len(in.Name) <= 160, "name", "must be at most 160 characters")
	c.Check(in.Status.Valid(), "status", "must be one of upcoming, active, completed, cancelled")
	if in.TargetAmount != nil {
		c.Check(!in.TargetAmount.IsNegative(), "target_amount", "must not be negative")
		c.Check(money.Fits(*in.TargetAmount), "target_amount", money.TooLarge)
	}
	if in.StartDate != nil && in.EndDate != nil {
		c.Check(!in.EndDate.Before(*in.StartDate), "end_date", "must not be before start_date")
	}
	return c.Err()
}

// Apply copies the input onto e.
func (in Input) Apply(e *Event) {
	e.Name = in.Name
	e.Description = in.Description
	e.TargetAmount = in.TargetAmount
	e.StartDate = in.StartDate
	e.EndDate = in.EndDate
	e.Status = in.Status
}
