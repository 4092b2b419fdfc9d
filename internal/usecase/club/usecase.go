// Package club covers first-run setup, club settings and member
// administration.
package club

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chapter-fund-ledger/internal/domain/apperr"
	"chapter-fund-ledger/internal/domain/club"
	"chapter-fund-ledger/internal/domain/member"
	"chapter-fund-ledger/internal/domain/uow"
	"chapter-fund-ledger/internal/infrastructure/logger"
	"chapter-fund-ledger/internal/usecase/identity"
	"chapter-fund-ledger/pkg/id"
)

type Usecase struct {
	uow uow.UnitOfWork
	log *logger.Logger
}

func NewUsecase(tx uow.UnitOfWork, log *logger.Logger) *Usecase {
	if log == nil {
		log = logger.Nop()
	}
	return &Usecase{uow: tx, log: log.WithComponent(logger.ComponentClub)}
}

// Setup creates a club with authID as its first admin. An identity that is
// already registered cannot set up another club.
func (u *Usecase) Setup(ctx context.Context, authID string, in SetupInput) (*SetupResult, error) {
	authID = strings.TrimSpace(authID)
	if authID == "" {
		return nil, apperr.ErrUnauthenticated
	}
	in.Club.Normalize()
	in.Admin.Normalize()
	in.Admin.Role = member.RoleAdmin
	var c apperr.Collector
	for _, err := range []error{in.Club.Validate(), in.Admin.Validate()} {
		for _, f := range apperr.Fields(err) {
			c.Add(f.Field, f.Message)
		}
	}
	if err := c.Err(); err != nil {
		return nil, err
	}

	out := &SetupResult{}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Members.GetByAuthID(ctx, authID); err == nil {
			return fmt.Errorf("identity already belongs to a club: %w", apperr.ErrConflict)
		} else if !errors.Is(err, apperr.ErrNotFound) {
			return fmt.Errorf("lookup identity: %w", err)
		}
		if err := emailFree(ctx, r.Members, in.Admin.Email); err != nil {
			return err
		}

		cl := &club.Club{ID: id.NewID32()}
		in.Club.Apply(cl)
		if err := r.Clubs.Create(ctx, cl); err != nil {
			return fmt.Errorf("create club: %w", err)
		}
		admin := newMember(cl.ID, in.Admin)
		admin.AuthID = &authID
		if err := r.Members.Create(ctx, admin); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		out.Club, out.Admin = cl, admin
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.InfoContext(ctx, "club set up", logger.FieldClubID, out.Club.ID, logger.FieldMemberID, out.Admin.ID)
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, c member.Caller) (*club.Club, error) {
	var out *club.Club
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := identity.Authorize(ctx, r.Members, c, member.CapRecord); err != nil {
			return err
		}
		cl, err := r.Clubs.GetByID(ctx, c.ClubID)
		if err != nil {
			return fmt.Errorf("club %s: %w", c.ClubID, err)
		}
		out = cl
		return nil
	})
	return out, err
}

func (u *Usecase) UpdateSettings(ctx context.Context, c member.Caller, in club.Settings) (*club.Club, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out *club.Club
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := identity.Authorize(ctx, r.Members, c, member.CapConfigureClub); err != nil {
			return err
		}
		cl, err := r.Clubs.GetByID(ctx, c.ClubID)
		if err != nil {
			return fmt.Errorf("club %s: %w", c.ClubID, err)
		}
		in.Apply(cl)
		if err := r.Clubs.Save(ctx, cl); err != nil {
			return fmt.Errorf("save club: %w", err)
		}
		out = cl
		return nil
	})
	return out, err
}

// AddMember pre-registers a member in the caller's club. The new member
// links an identity later through the account-linking flow.
func (u *Usecase) AddMember(ctx context.Context, c member.Caller, p member.Profile) (*member.Member, error) {
	p.Normalize()
	if p.Role == "" {
		p.Role = member.RoleCoordinator
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var out *member.Member
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := identity.Authorize(ctx, r.Members, c, member.CapManageMembers); err != nil {
			return err
		}
		if err := emailFree(ctx, r.Members, p.Email); err != nil {
			return err
		}
		m := newMember(c.ClubID, p)
		if err := r.Members.Create(ctx, m); err != nil {
			return fmt.Errorf("create member: %w", err)
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.InfoContext(ctx, "member added", logger.FieldClubID, c.ClubID, logger.FieldMemberID, out.ID)
	return out, nil
}

func (u *Usecase) ListMembers(ctx context.Context, c member.Caller) ([]member.Member, error) {
	out := []member.Member{}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := identity.Authorize(ctx, r.Members, c, member.CapManageMembers); err != nil {
			return err
		}
		rows, err := r.Members.ListByClub(ctx, c.ClubID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		out = append(out, rows...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) UpdateMemberRole(ctx context.Context, c member.Caller, memberID string, role member.Role) (*member.Member, error) {
	if !role.Valid() {
		return nil, apperr.Validation("role", "must be one of admin, treasurer, coordinator")
	}
	return u.modifyMember(ctx, c, memberID, func(r uow.Repos, m *member.Member) error {
		if err := r.Members.UpdateRole(ctx, c.ClubID, m.ID, role); err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		m.Role = role
		return nil
	})
}

// ToggleMemberStatus flips is_active. A deactivated member keeps their
// history and is refused from the next operation on.
func (u *Usecase) ToggleMemberStatus(ctx context.Context, c member.Caller, memberID string) (*member.Member, error) {
	return u.modifyMember(ctx, c, memberID, func(r uow.Repos, m *member.Member) error {
		ok, err := r.Members.SetActive(ctx, c.ClubID, m.ID, !m.IsActive)
		if err != nil {
			return fmt.Errorf("set active: %w", err)
		}
		if !ok {
			return fmt.Errorf("member %s status changed concurrently: %w", m.ID, apperr.ErrConflict)
		}
		m.IsActive = !m.IsActive
		return nil
	})
}

func (u *Usecase) modifyMember(ctx context.Context, c member.Caller, memberID string, apply func(uow.Repos, *member.Member) error) (*member.Member, error) {
	var out *member.Member
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := identity.Authorize(ctx, r.Members, c, member.CapManageMembers); err != nil {
			return err
		}
		if memberID == c.MemberID {
			return apperr.ErrSelfModification
		}
		m, err := r.Members.GetByID(ctx, memberID)
		if err != nil {
			return fmt.Errorf("member %s: %w", memberID, err)
		}
		if !m.InClub(c.ClubID) {
			return fmt.Errorf("member %s: %w", memberID, apperr.ErrNotFound)
		}
		if err := apply(r, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.InfoContext(ctx, "member updated", logger.FieldClubID, c.ClubID, logger.FieldMemberID, out.ID,
		"role", out.Role, "is_active", out.IsActive)
	return out, nil
}

func emailFree(ctx context.Context, members member.Repository, email string) error {
	_, err := members.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return fmt.Errorf("email %s already registered: %w", email, apperr.ErrConflict)
	case errors.Is(err, apperr.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("lookup email: %w", err)
	}
}

func newMember(clubID string, p member.Profile) *member.Member {
	return &member.Member{
		ID:       id.NewID32(),
		ClubID:   &clubID,
		FullName: p.FullName,
		Email:    p.Email,
		Phone:    p.Phone,
		Role:     p.Role,
		IsActive: true,
	}
}
