package donation

import "context"

// ListQuery narrows a donation listing. Empty fields are ignored.
type ListQuery struct {
	ClubID      string
	CollectedBy string
	Status      Status
	Limit       int
}

type Repository interface {
	Create(ctx context.Context, d *Donation) error
	GetByID(ctx context.Context, clubID, id string) (*Donation, error)
	// UpdateFields rewrites the donor/payment columns of one donation and
	// leaves status and review stamps as they are in the row.
	UpdateFields(ctx context.Context, clubID, id string, f Fields) error
	Delete(ctx context.Context, clubID, id string) error

	List(ctx context.Context, q ListQuery) ([]Donation, error)
	ListPending(ctx context.Context, clubID string) ([]PendingRow, error)
	ListByClub(ctx context.Context, clubID string) ([]Donation, error)

	// Transition applies r only if the row is still in status from.
	// It reports whether a row was updated.
	Transition(ctx context.Context, clubID, id string, from Status, r Review) (bool, error)

	// DetachEvent clears event_id on every donation of the event.
	DetachEvent(ctx context.Context, clubID, eventID string) error
}
