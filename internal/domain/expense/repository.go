package expense

import "context"

type ListQuery struct {
	ClubID      string
	SubmittedBy string
	Status      Status
	Limit       int
}

type Repository interface {
	Create(ctx context.Context, e *Expense) error
	GetByID(ctx context.Context, clubID, id string) (*Expense, error)

	List(ctx context.Context, q ListQuery) ([]Expense, error)
	ListPending(ctx context.Context, clubID string) ([]PendingRow, error)
	ListByClub(ctx context.Context, clubID string) ([]Expense, error)

	// Decide applies d only while the row is still pending and was not
	// submitted by d.ApprovedBy. It reports whether a row was updated.
	Decide(ctx context.Context, clubID, id string, d Decision) (bool, error)

	DetachEvent(ctx context.Context, clubID, eventID string) error
}
