package event

import "context"

type Repository interface {
	Create(ctx context.Context, e *Event) error
	// GetByID resolves an event only within clubID.
	GetByID(ctx context.Context, clubID, id string) (*Event, error)
	ListByClub(ctx context.Context, clubID string) ([]Event, error)
	Save(ctx context.Context, e *Event) error
	Delete(ctx context.Context, clubID, id string) error
}
