// Package identity turns an external authentication id into a member Caller
// and re-checks that caller's standing before each mutation.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chapter-fund-ledger/internal/domain/apperr"
	"chapter-fund-ledger/internal/domain/member"
	"chapter-fund-ledger/internal/domain/uow"
)

type Resolver struct {
	members member.Repository
	uow     uow.UnitOfWork
}

func NewResolver(members member.Repository, tx uow.UnitOfWork) *Resolver {
	return &Resolver{members: members, uow: tx}
}

// Resolve maps an authenticated identity to an active, club-affiliated member.
func (r *Resolver) Resolve(ctx context.Context, authID string) (member.Caller, error) {
	authID = strings.TrimSpace(authID)
	if authID == "" {
		return member.Caller{}, apperr.ErrUnauthenticated
	}
	m, err := r.members.GetByAuthID(ctx, authID)
	if err != nil {
		return member.Caller{}, notFoundAsMember(err)
	}
	if err := standing(m); err != nil {
		return member.Caller{}, err
	}
	return member.NewCaller(m), nil
}

// Link attaches authID to the pre-registered member with email. Linking the
// same pair twice is a no-op; an identity already bound elsewhere conflicts.
func (r *Resolver) Link(ctx context.Context, authID, email string) (member.Caller, error) {
	authID = strings.TrimSpace(authID)
	email = strings.ToLower(strings.TrimSpace(email))
	if authID == "" {
		return member.Caller{}, apperr.ErrUnauthenticated
	}
	if email == "" {
		return member.Caller{}, apperr.Validation("email", "is required")
	}

	var caller member.Caller
	err := r.uow.WithinTx(ctx, func(repos uow.Repos) error {
		m, err := repos.Members.GetByEmail(ctx, email)
		if err != nil {
			return notFoundAsMember(err)
		}
		switch {
		case m.AuthID == nil:
			if err := repos.Members.LinkAuth(ctx, m.ID, authID); err != nil {
				return fmt.Errorf("link identity: %w", err)
			}
			m.AuthID = &authID
		case *m.AuthID != authID:
			return fmt.Errorf("member already linked to another identity: %w", apperr.ErrConflict)
		}
		if err := standing(m); err != nil {
			return err
		}
		caller = member.NewCaller(m)
		return nil
	})
	return caller, err
}

// Authorize re-reads the caller's member row through members (normally bound
// to the running transaction) and checks capability c against the current
// role. Role or status changes therefore apply from the next operation on.
func Authorize(ctx context.Context, members member.Repository, c member.Caller, capability member.Capability) (*member.Member, error) {
	if c.MemberID == "" {
		return nil, apperr.ErrUnauthenticated
	}
	m, err := members.GetByID(ctx, c.MemberID)
	if err != nil {
		return nil, notFoundAsMember(err)
	}
	if err := standing(m); err != nil {
		return nil, err
	}
	if !m.InClub(c.ClubID) {
		return nil, apperr.ErrMemberNotFound
	}
	if !m.Role.Can(capability) {
		return nil, fmt.Errorf("%s requires %s: %w", m.Role, capability, apperr.ErrWrongRole)
	}
	return m, nil
}

func standing(m *member.Member) error {
	if !m.IsActive {
		return apperr.ErrInactive
	}
	if m.ClubID == nil || *m.ClubID == "" {
		return apperr.ErrMemberNotFound
	}
	return nil
}

func notFoundAsMember(err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.ErrMemberNotFound
	}
	return err
}
