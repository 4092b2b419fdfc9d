// Package ledgerevent describes the lifecycle notifications emitted after a
// ledger mutation commits. Consumers (summary cache, notification and export
// collaborators) subscribe through a Publisher.
package ledgerevent

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	DonationRecorded    Kind = "donation.recorded"
	DonationApproved    Kind = "donation.approved"
	DonationRejected    Kind = "donation.rejected"
	DonationResubmitted Kind = "donation.resubmitted"
	DonationUpdated     Kind = "donation.updated"
	DonationDeleted     Kind = "donation.deleted"

	ExpenseSubmitted Kind = "expense.submitted"
	ExpenseApproved  Kind = "expense.approved"
	ExpenseRejected  Kind = "expense.rejected"

	EventDeleted Kind = "event.deleted"
)

// Event is one committed ledger change.
type Event struct {
	ID         string           `json:"id"`
	Kind       Kind             `json:"kind"`
	ClubID     string           `json:"club_id"`
	EntityID   string           `json:"entity_id"`
	ActorID    string           `json:"actor_id"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Status     string           `json:"status,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func New(kind Kind, clubID, entityID, actorID string) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		ClubID:     clubID,
		EntityID:   entityID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}

// WithAmount returns a copy of e carrying amount and status.
func (e Event) WithAmount(amount decimal.Decimal, status string) Event {
	e.Amount = &amount
	e.Status = status
	return e
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, e Event) error

func (f PublisherFunc) Publish(ctx context.Context, e Event) error { return f(ctx, e) }
