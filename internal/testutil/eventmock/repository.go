package eventmock

import (
	"context"
	"errors"

	domain "chapter-fund-ledger/internal/domain/event"
)

var _ domain.Repository = (*Repo)(nil)

var ErrUnimplemented = errors.New("eventmock: method not implemented")

// Repo is a function-backed mock of event.Repository.
type Repo struct {
	CreateFn     func(ctx context.Context, e *domain.Event) error
	GetByIDFn    func(ctx context.Context, clubID, id string) (*domain.Event, error)
	ListByClubFn func(ctx context.Context, clubID string) ([]domain.Event, error)
	SaveFn       func(ctx context.Context, e *domain.Event) error
	DeleteFn     func(ctx context.Context, clubID, id string) error
}

func (m *Repo) Create(ctx context.Context, e *domain.Event) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, clubID, id string) (*domain.Event, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, clubID, id)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) ListByClub(ctx context.Context, clubID string) ([]domain.Event, error) {
	if m.ListByClubFn != nil {
		return m.ListByClubFn(ctx, clubID)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) Save(ctx context.Context, e *domain.Event) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, e)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, clubID, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, clubID, id)
	}
	return nil
}
