package club

import (
	"strings"
	"time"

	"chapter-fund-ledger/internal/domain/apperr"
)

// Table: clubs. The tenant boundary; every other ledger row carries club_id.
type Club struct {
	ID          string    `gorm:"column:id;type:char(32);primaryKey" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(120);not null" json:"name"`
	Description *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	PaymentID   *string   `gorm:"column:payment_id;type:varchar(120)" json:"payment_id,omitempty"`
	BankDetails *string   `gorm:"column:bank_details;type:text" json:"bank_details,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Club) TableName() string { return "clubs" }

// Settings is the admin-editable part of a club.
type Settings struct {
	Name        string
	Description *string
	PaymentID   *string
	BankDetails *string
}

func (s *Settings) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Description = trimOptional(s.Description)
	s.PaymentID = trimOptional(s.PaymentID)
	s.BankDetails = trimOptional(s.BankDetails)
}

func (s Settings) Validate() error {
	var c apperr.Collector
	c.Check(s.Name != "", "name", "is required")
	c.Check(len(s.Name) <= 120, "name", "must be at most 120 characters")
	if s.PaymentID != nil {
		c.Check(len(*s.PaymentID) <= 120, "payment_id", "must be at most 120 characters")
	}
	return c.Err()
}

// Apply copies the settings onto c.
func (s Settings) Apply(c *Club) {
	c.Name = s.Name
	c.Description = s.Description
	c.PaymentID = s.PaymentID
	c.BankDetails = s.BankDetails
}

func trimOptional(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
