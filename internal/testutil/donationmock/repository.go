package donationmock

import (
	"context"
	"errors"

	domain "chapter-fund-ledger/internal/domain/donation"
)

var _ domain.Repository = (*Repo)(nil)

var ErrUnimplemented = errors.New("donationmock: method not implemented")

// Repo is a function-backed mock of donation.Repository.
type Repo struct {
	CreateFn       func(ctx context.Context, d *domain.Donation) error
	GetByIDFn      func(ctx context.Context, clubID, id string) (*domain.Donation, error)
	UpdateFieldsFn func(ctx context.Context, clubID, id string, f domain.Fields) error
	DeleteFn       func(ctx context.Context, clubID, id string) error
	ListFn         func(ctx context.Context, q domain.ListQuery) ([]domain.Donation, error)
	ListPendingFn  func(ctx context.Context, clubID string) ([]domain.PendingRow, error)
	ListByClubFn   func(ctx context.Context, clubID string) ([]domain.Donation, error)
	TransitionFn   func(ctx context.Context, clubID, id string, from domain.Status, r domain.Review) (bool, error)
	DetachEventFn  func(ctx context.Context, clubID, eventID string) error
}

func (m *Repo) Create(ctx context.Context, d *domain.Donation) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, clubID, id string) (*domain.Donation, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, clubID, id)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) UpdateFields(ctx context.Context, clubID, id string, f domain.Fields) error {
	if m.UpdateFieldsFn != nil {
		return m.UpdateFieldsFn(ctx, clubID, id, f)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, clubID, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, clubID, id)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, q domain.ListQuery) ([]domain.Donation, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, q)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) ListPending(ctx context.Context, clubID string) ([]domain.PendingRow, error) {
	if m.ListPendingFn != nil {
		return m.ListPendingFn(ctx, clubID)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) ListByClub(ctx context.Context, clubID string) ([]domain.Donation, error) {
	if m.ListByClubFn != nil {
		return m.ListByClubFn(ctx, clubID)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) Transition(ctx context.Context, clubID, id string, from domain.Status, r domain.Review) (bool, error) {
	if m.TransitionFn != nil {
		return m.TransitionFn(ctx, clubID, id, from, r)
	}
	return false, ErrUnimplemented
}

func (m *Repo) DetachEvent(ctx context.Context, clubID, eventID string) error {
	if m.DetachEventFn != nil {
		return m.DetachEventFn(ctx, clubID, eventID)
	}
	return nil
}
