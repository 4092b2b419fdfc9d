package expensemock

import (
	"context"
	"errors"

	domain "chapter-fund-ledger/internal/domain/expense"
)

var _ domain.Repository = (*Repo)(nil)

var ErrUnimplemented = errors.New("expensemock: method not implemented")

// Repo is a function-backed mock of expense.Repository.
type Repo struct {
	CreateFn      func(ctx context.Context, e *domain.Expense) error
	GetByIDFn     func(ctx context.Context, clubID, id string) (*domain.Expense, error)
	ListFn        func(ctx context.Context, q domain.ListQuery) ([]domain.Expense, error)
	ListPendingFn func(ctx context.Context, clubID string) ([]domain.PendingRow, error)
	ListByClubFn  func(ctx context.Context, clubID string) ([]domain.Expense, error)
	DecideFn      func(ctx context.Context, clubID, id string, d domain.Decision) (bool, error)
	DetachEventFn func(ctx context.Context, clubID, eventID string) error
}

func (m *Repo) Create(ctx context.Context, e *domain.Expense) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, clubID, id string) (*domain.Expense, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, clubID, id)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) List(ctx context.Context, q domain.ListQuery) ([]domain.Expense, error) {
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

func (m *Repo) ListByClub(ctx context.Context, clubID string) ([]domain.Expense, error) {
	if m.ListByClubFn != nil {
		return m.ListByClubFn(ctx, clubID)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) Decide(ctx context.Context, clubID, id string, d domain.Decision) (bool, error) {
	if m.DecideFn != nil {
		return m.DecideFn(ctx, clubID, id, d)
	}
	return false, ErrUnimplemented
}

func (m *Repo) DetachEvent(ctx context.Context, clubID, eventID string) error {
	if m.DetachEventFn != nil {
		return m.DetachEventFn(ctx, clubID, eventID)
	}
	return nil
}
