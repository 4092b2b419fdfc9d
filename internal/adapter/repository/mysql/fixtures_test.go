package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"chapter-fund-ledger/internal/domain/club"
	"chapter-fund-ledger/internal/domain/donation"
	"chapter-fund-ledger/internal/domain/expense"
	"chapter-fund-ledger/internal/domain/member"
	"chapter-fund-ledger/internal/testutil/sqlitedb"
	"chapter-fund-ledger/pkg/id"
)

type fixture struct {
	db        *gorm.DB
	club      *club.Club
	admin     *member.Member
	treasurer *member.Member
	coord     *member.Member
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := sqlitedb.Open(t)
	ctx := context.Background()

	c := &club.Club{ID: id.NewID32(), Name: "Riverside Chapter"}
	if err := NewClubRepository(db).Create(ctx, c); err != nil {
		t.Fatalf("create club: %v", err)
	}
	f := &fixture{db: db, club: c}
	f.admin = f.addMember(t, "Anita", "anita@example.org", member.RoleAdmin)
	f.treasurer = f.addMember(t, "Tarun", "tarun@example.org", member.RoleTreasurer)
	f.coord = f.addMember(t, "Chitra", "chitra@example.org", member.RoleCoordinator)
	return f
}

func (f *fixture) addMember(t *testing.T, name, email string, role member.Role) *member.Member {
	t.Helper()
	clubID := f.club.ID
	m := &member.Member{ID: id.NewID32(), ClubID: &clubID, FullName: name, Email: email, Role: role, IsActive: true}
	if err := NewMemberRepository(f.db).Create(context.Background(), m); err != nil {
		t.Fatalf("create member: %v", err)
	}
	return m
}

func (f *fixture) donation(t *testing.T, amount string, status donation.Status, eventID *string) *donation.Donation {
	t.Helper()
	d := &donation.Donation{
		ID:           id.NewID32(),
		ClubID:       f.club.ID,
		EventID:      eventID,
		DonorName:    "Ravi Kumar",
		Amount:       decimal.RequireFromString(amount),
		PaymentMode:  donation.PaymentUPI,
		CollectedBy:  f.coord.ID,
		DonationDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:       status,
	}
	if err := NewDonationRepository(f.db).Create(context.Background(), d); err != nil {
		t.Fatalf("create donation: %v", err)
	}
	return d
}

func (f *fixture) expense(t *testing.T, amount string, eventID *string) *expense.Expense {
	t.Helper()
	e := &expense.Expense{
		ID:          id.NewID32(),
		ClubID:      f.club.ID,
		EventID:     eventID,
		Title:       "Food Supplies",
		Amount:      decimal.RequireFromString(amount),
		Category:    expense.CategoryFood,
		Status:      expense.StatusPending,
		SubmittedBy: f.coord.ID,
		ExpenseDate: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	if err := NewExpenseRepository(f.db).Create(context.Background(), e); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	return e
}
