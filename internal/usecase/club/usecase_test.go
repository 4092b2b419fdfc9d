package club

import (
	"context"
	"errors"
	"testing"

	"chapter-fund-ledger/internal/domain/apperr"
	"chapter-fund-ledger/internal/domain/club"
	"chapter-fund-ledger/internal/domain/member"
	"chapter-fund-ledger/internal/domain/uow"
	"chapter-fund-ledger/internal/testutil/fixture"
	"chapter-fund-ledger/internal/usecase/identity"
)

func setup(t *testing.T) (*fixture.Fixture, *Usecase) {
	t.Helper()
	f := fixture.New(t)
	return f, NewUsecase(f.UoW, nil)
}

func setupInput(email string) SetupInput {
	return SetupInput{
		Club:  club.Settings{Name: "Hillside Chapter"},
		Admin: member.Profile{FullName: "Meera Iyer", Email: email, Role: member.RoleCoordinator},
	}
}

func TestSetup(t *testing.T) {
	f, uc := setup(t)
	ctx := context.Background()

	res, err := uc.Setup(ctx, "auth|meera", setupInput(" Meera@Example.org "))
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if res.Admin.Role != member.RoleAdmin || !res.Admin.InClub(res.Club.ID) || res.Admin.Email != "meera@example.org" {
		t.Fatalf("admin: %+v", res.Admin)
	}

	caller, err := identity.NewResolver(f.Members(), f.UoW).Resolve(ctx, "auth|meera")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if caller.ClubID != res.Club.ID || caller.Role != member.RoleAdmin {
		t.Fatalf("caller: %+v", caller)
	}
}

func TestSetup_Errors(t *testing.T) {
	f, uc := setup(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		authID string
		in     SetupInput
		want   error
	}{
		{"no identity", " ", setupInput("x@example.org"), apperr.ErrUnauthenticated},
		{"identity already in a club", *f.Admin.AuthID, setupInput("new@example.org"), apperr.ErrConflict},
		{"email taken", "auth|other", setupInput(f.Coord.Email), apperr.ErrConflict},
		{"missing club name", "auth|other", SetupInput{Admin: member.Profile{FullName: "A", Email: "a@example.org"}}, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Setup(ctx, tt.authID, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSetup_ValidationCollectsBothForms(t *testing.T) {
	_, uc := setup(t)
	_, err := uc.Setup(context.Background(), "auth|x", SetupInput{})
	fields := map[string]bool{}
	for _, fe := range apperr.Fields(err) {
		fields[fe.Field] = true
	}
	if !fields["name"] || !fields["full_name"] || !fields["email"] {
		t.Fatalf("fields = %v", fields)
	}
}

func TestGetAndUpdateSettings(t *testing.T) {
	f, uc := setup(t)
	ctx := context.Background()

	upi := "chapter@upi"
	updated, err := uc.UpdateSettings(ctx, fixture.Caller(f.Admin), club.Settings{Name: "Riverside Blood Donors", PaymentID: &upi})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if updated.Name != "Riverside Blood Donors" {
		t.Fatalf("name = %q", updated.Name)
	}

	got, err := uc.Get(ctx, fixture.Caller(f.Coord))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.PaymentID == nil || *got.PaymentID != upi {
		t.Fatalf("payment id not persisted: %+v", got)
	}

	if _, err := uc.UpdateSettings(ctx, fixture.Caller(f.Treasurer), club.Settings{Name: "x"}); !errors.Is(err, apperr.ErrWrongRole) {
		t.Fatalf("treasurer: want ErrWrongRole, got %v", err)
	}
}

func TestAddMember(t *testing.T) {
	f, uc := setup(t)
	ctx := context.Background()
	admin := fixture.Caller(f.Admin)

	m, err := uc.AddMember(ctx, admin, member.Profile{FullName: "Kiran Shah", Email: "kiran@example.org"})
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if m.Role != member.RoleCoordinator || !m.IsActive || m.AuthID != nil || !m.InClub(f.Club.ID) {
		t.Fatalf("member: %+v", m)
	}

	if _, err := uc.AddMember(ctx, admin, member.Profile{FullName: "Kiran S", Email: "KIRAN@example.org"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate email: want ErrConflict, got %v", err)
	}
	if _, err := uc.AddMember(ctx, admin, member.Profile{FullName: "X", Email: "not-an-email"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("bad email: want ErrValidation, got %v", err)
	}
	if _, err := uc.AddMember(ctx, fixture.Caller(f.Treasurer), member.Profile{FullName: "Y", Email: "y@example.org"}); !errors.Is(err, apperr.ErrWrongRole) {
		t.Fatalf("treasurer: want ErrWrongRole, got %v", err)
	}

	list, err := uc.ListMembers(ctx, admin)
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("members = %d, want 4", len(list))
	}
}

func TestUpdateMemberRole(t *testing.T) {
	f, uc := setup(t)
	ctx := context.Background()
	admin := fixture.Caller(f.Admin)

	m, err := uc.UpdateMemberRole(ctx, admin, f.Coord.ID, member.RoleTreasurer)
	if err != nil {
		t.Fatalf("UpdateMemberRole: %v", err)
	}
	if m.Role != member.RoleTreasurer {
		t.Fatalf("role = %s", m.Role)
	}
	stored, _ := f.Members().GetByID(ctx, f.Coord.ID)
	if stored.Role != member.RoleTreasurer {
		t.Fatalf("stored role = %s", stored.Role)
	}

	other := f.AddClub(t, "Elsewhere")
	outsider := f.AddMember(t, other.ID, "Out Sider", "out@example.org", member.RoleCoordinator)

	tests := []struct {
		name     string
		memberID string
		role     member.Role
		want     error
	}{
		{"self", f.Admin.ID, member.RoleCoordinator, apperr.ErrSelfModification},
		{"other club", outsider.ID, member.RoleAdmin, apperr.ErrNotFound},
		{"unknown member", "missing", member.RoleAdmin, apperr.ErrNotFound},
		{"bad role", f.Coord.ID, "owner", apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.UpdateMemberRole(ctx, admin, tt.memberID, tt.role); !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestToggleMemberStatus(t *testing.T) {
	f, uc := setup(t)
	ctx := context.Background()
	admin := fixture.Caller(f.Admin)
	coord := fixture.Caller(f.Coord)

	m, err := uc.ToggleMemberStatus(ctx, admin, f.Coord.ID)
	if err != nil {
		t.Fatalf("ToggleMemberStatus: %v", err)
	}
	if m.IsActive {
		t.Fatalf("member still active")
	}
	// the stale caller is refused on its next operation
	if _, err := uc.Get(ctx, coord); !errors.Is(err, apperr.ErrInactive) {
		t.Fatalf("deactivated caller: want ErrInactive, got %v", err)
	}

	m, err = uc.ToggleMemberStatus(ctx, admin, f.Coord.ID)
	if err != nil || !m.IsActive {
		t.Fatalf("reactivate: %+v, %v", m, err)
	}
	if _, err := uc.Get(ctx, coord); err != nil {
		t.Fatalf("reactivated caller: %v", err)
	}

	if _, err := uc.ToggleMemberStatus(ctx, admin, f.Admin.ID); !errors.Is(err, apperr.ErrSelfModification) {
		t.Fatalf("self: want ErrSelfModification, got %v", err)
	}
}

// racingUoW lets another admin's status change land on the tx-bound member
// repository right before the usecase writes its own.
type racingUoW struct {
	inner uow.UnitOfWork
	other func(ctx context.Context, members member.Repository)
}

func (u racingUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.inner.WithinTx(ctx, func(r uow.Repos) error {
		r.Members = racingMembers{Repository: r.Members, other: u.other}
		return fn(r)
	})
}

type racingMembers struct {
	member.Repository
	other func(ctx context.Context, members member.Repository)
}

func (m racingMembers) SetActive(ctx context.Context, clubID, id string, active bool) (bool, error) {
	m.other(ctx, m.Repository)
	return m.Repository.SetActive(ctx, clubID, id, active)
}

func TestToggleMemberStatus_ConcurrentToggleConflicts(t *testing.T) {
	f := fixture.New(t)
	ctx := context.Background()
	second := f.AddMember(t, f.Club.ID, "Kavya Menon", "kavya@example.org", member.RoleAdmin)

	uc := NewUsecase(racingUoW{
		inner: f.UoW,
		other: func(ctx context.Context, members member.Repository) {
			if ok, err := members.SetActive(ctx, f.Club.ID, f.Coord.ID, false); err != nil || !ok {
				t.Fatalf("other admin's toggle: ok=%v err=%v", ok, err)
			}
		},
	}, nil)

	if _, err := uc.ToggleMemberStatus(ctx, fixture.Caller(second), f.Coord.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
	// the conflicting toggle rolls back with its transaction
	got, err := f.Members().GetByID(ctx, f.Coord.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsActive {
		t.Fatalf("failed toggle left the member deactivated")
	}
}

func TestRoleChangeAppliesToNextCall(t *testing.T) {
	f, uc := setup(t)
	ctx := context.Background()
	treasurer := fixture.Caller(f.Treasurer)

	if _, err := uc.ListMembers(ctx, treasurer); !errors.Is(err, apperr.ErrWrongRole) {
		t.Fatalf("treasurer: want ErrWrongRole, got %v", err)
	}
	if _, err := uc.UpdateMemberRole(ctx, fixture.Caller(f.Admin), f.Treasurer.ID, member.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.ListMembers(ctx, treasurer); err != nil {
		t.Fatalf("promoted caller with stale role: %v", err)
	}
}
