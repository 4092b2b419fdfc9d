package membermock

import (
	"context"
	"errors"

	domain "chapter-fund-ledger/internal/domain/member"
)

var _ domain.Repository = (*Repo)(nil)

var ErrUnimplemented = errors.New("membermock: method not implemented")

// Repo is a function-backed mock of member.Repository. Unset writers return
// nil; unset readers return ErrUnimplemented.
type Repo struct {
	CreateFn      func(ctx context.Context, m *domain.Member) error
	GetByIDFn     func(ctx context.Context, id string) (*domain.Member, error)
	GetByAuthIDFn func(ctx context.Context, authID string) (*domain.Member, error)
	GetByEmailFn  func(ctx context.Context, email string) (*domain.Member, error)
	ListByClubFn  func(ctx context.Context, clubID string) ([]domain.Member, error)
	UpdateRoleFn  func(ctx context.Context, clubID, id string, role domain.Role) error
	SetActiveFn   func(ctx context.Context, clubID, id string, active bool) (bool, error)
	LinkAuthFn    func(ctx context.Context, id, authID string) error
}

func (m *Repo) Create(ctx context.Context, mem *domain.Member) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, mem)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) GetByAuthID(ctx context.Context, authID string) (*domain.Member, error) {
	if m.GetByAuthIDFn != nil {
		return m.GetByAuthIDFn(ctx, authID)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) ListByClub(ctx context.Context, clubID string) ([]domain.Member, error) {
	if m.ListByClubFn != nil {
		return m.ListByClubFn(ctx, clubID)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) UpdateRole(ctx context.Context, clubID, id string, role domain.Role) error {
	if m.UpdateRoleFn != nil {
		return m.UpdateRoleFn(ctx, clubID, id, role)
	}
	return nil
}

func (m *Repo) SetActive(ctx context.Context, clubID, id string, active bool) (bool, error) {
	if m.SetActiveFn != nil {
		return m.SetActiveFn(ctx, clubID, id, active)
	}
	return true, nil
}

func (m *Repo) LinkAuth(ctx context.Context, id, authID string) error {
	if m.LinkAuthFn != nil {
		return m.LinkAuthFn(ctx, id, authID)
	}
	return nil
}
