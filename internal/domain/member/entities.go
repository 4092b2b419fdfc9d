package member

import (
	"strings"
	"time"

	"chapter-fund-ledger/internal/domain/apperr"
)

// Table: members. Email is unique across all clubs; a member belongs to at
// most one club.
type Member struct {
	ID        string    `gorm:"column:id;type:char(32);primaryKey" json:"id"`
	AuthID    *string   `gorm:"column:auth_id;type:varchar(128);uniqueIndex:ux_members_auth_id" json:"-"`
	ClubID    *string   `gorm:"column:club_id;type:char(32);index:idx_members_club" json:"club_id,omitempty"`
	FullName  string    `gorm:"column:full_name;type:varchar(120);not null" json:"full_name"`
	Email     string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex:ux_members_email" json:"email"`
	Phone     *string   `gorm:"column:phone;type:varchar(32)" json:"phone,omitempty"`
	Role      Role      `gorm:"column:role;type:varchar(16);not null;default:'coordinator';check:role IN ('admin','treasurer','coordinator')" json:"role"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	JoinedAt  time.Time `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string { return "members" }

// InClub reports whether the member is affiliated with clubID.
func (m *Member) InClub(clubID string) bool {
	return m.ClubID != nil && *m.ClubID == clubID
}

// Caller is the resolved, request-scoped identity handed to every operation.
type Caller struct {
	MemberID string `json:"member_id"`
	ClubID   string `json:"club_id"`
	Role     Role   `json:"role"`
	Name     string `json:"name"`
}

func (c Caller) Can(cap Capability) bool { return c.Role.Can(cap) }

// NewCaller projects an active, club-affiliated member into a Caller.
func NewCaller(m *Member) Caller {
	c := Caller{MemberID: m.ID, Role: m.Role, Name: m.FullName}
	if m.ClubID != nil {
		c.ClubID = *m.ClubID
	}
	return c
}

// Profile is the editable part of a member used when adding one.
type Profile struct {
	FullName string
	Email    string
	Phone    *string
	Role     Role
}

func (p *Profile) Normalize() {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
}

func (p Profile) Validate() error {
	var c apperr.Collector
	c.Check(p.FullName != "", "full_name", "is required")
	c.Check(len(p.FullName) <= 120, "full_name", "must be at most 120 characters")
	c.Check(validEmail(p.Email), "email", "must be a valid email address")
	c.Check(p.Role.Valid(), "role", "must be one of admin, treasurer, coordinator")
	return c.Err()
}

func validEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t") && strings.Contains(s[at:], ".")
}
