// Package fixture seeds a club with one member per role on top of an
// in-memory database, for usecase tests.
package fixture

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"chapter-fund-ledger/internal/adapter/repository/mysql"
	"chapter-fund-ledger/internal/domain/club"
	"chapter-fund-ledger/internal/domain/member"
	"chapter-fund-ledger/internal/testutil/sqlitedb"
	"chapter-fund-ledger/pkg/id"
)

type Fixture struct {
	DB        *gorm.DB
	UoW       *mysql.GormUoW
	Club      *club.Club
	Admin     *member.Member
	Treasurer *member.Member
	Coord     *member.Member
}

func New(t testing.TB) *Fixture {
	t.Helper()
	db := sqlitedb.Open(t)
	f := &Fixture{DB: db, UoW: mysql.NewGormUoW(db)}
	f.Club = f.AddClub(t, "Riverside Chapter")
	f.Admin = f.AddMember(t, f.Club.ID, "Anita Rao", "anita@example.org", member.RoleAdmin)
	f.Treasurer = f.AddMember(t, f.Club.ID, "Tarun Das", "tarun@example.org", member.RoleTreasurer)
	f.Coord = f.AddMember(t, f.Club.ID, "Chitra Nair", "chitra@example.org", member.RoleCoordinator)
	return f
}

func (f *Fixture) AddClub(t testing.TB, name string) *club.Club {
	t.Helper()
	c := &club.Club{ID: id.NewID32(), Name: name}
	if err := mysql.NewClubRepository(f.DB).Create(context.Background(), c); err != nil {
		t.Fatalf("create club: %v", err)
	}
	return c
}

// AddMember creates an active member whose auth id is "auth|" + email.
func (f *Fixture) AddMember(t testing.TB, clubID, name, email string, role member.Role) *member.Member {
	t.Helper()
	authID := "auth|" + email
	m := &member.Member{ID: id.NewID32(), AuthID: &authID, ClubID: &clubID, FullName: name, Email: email, Role: role, IsActive: true}
	if err := mysql.NewMemberRepository(f.DB).Create(context.Background(), m); err != nil {
		t.Fatalf("create member: %v", err)
	}
	return m
}

func (f *Fixture) Members() *mysql.MemberRepository { return mysql.NewMemberRepository(f.DB) }

// Caller builds the request caller for m as the identity resolver would.
func Caller(m *member.Member) member.Caller { return member.NewCaller(m) }
