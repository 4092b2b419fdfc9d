// Package event manages a club's fundraising events. Deleting an event keeps
// its donations and expenses, moving them to the general fund.
package event

import (
	"context"
	"fmt"

	"chapter-fund-ledger/internal/domain/event"
	"chapter-fund-ledger/internal/domain/ledgerevent"
	"chapter-fund-ledger/internal/domain/member"
	"chapter-fund-ledger/internal/domain/uow"
	"chapter-fund-ledger/internal/infrastructure/logger"
	"chapter-fund-ledger/internal/usecase/identity"
	"chapter-fund-ledger/pkg/id"
)

type Usecase struct {
	uow    uow.UnitOfWork
	events ledgerevent.Publisher
	log    *logger.Logger
}

func NewUsecase(tx uow.UnitOfWork, events ledgerevent.Publisher, log *logger.Logger) *Usecase {
	if events == nil {
		events = ledgerevent.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Usecase{uow: tx, events: events, log: log.WithComponent(logger.ComponentEvent)}
}

func (u *Usecase) Create(ctx context.Context, c member.Caller, in event.Input) (*event.Event, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out *event.Event
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := identity.Authorize(ctx, r.Members, c, member.CapManageEvents)
		if err != nil {
			return err
		}
		e := &event.Event{ID: id.NewID32(), ClubID: c.ClubID, CreatedBy: &m.ID}
		in.Apply(e)
		if err := r.Events.Create(ctx, e); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		out = e
		return nil
	})
	return out, err
}

func (u *Usecase) Update(ctx context.Context, c member.Caller, eventID string, in event.Input) (*event.Event, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out *event.Event
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := identity.Authorize(ctx, r.Members, c, member.CapManageEvents); err != nil {
			return err
		}
		e, err := r.Events.GetByID(ctx, c.ClubID, eventID)
		if err != nil {
			return fmt.Errorf("event %s: %w", eventID, err)
		}
		in.Apply(e)
		if err := r.Events.Save(ctx, e); err != nil {
			return fmt.Errorf("save event: %w", err)
		}
		out = e
		return nil
	})
	return out, err
}

// Delete detaches the event's donations and expenses and removes the event,
// in one transaction.
func (u *Usecase) Delete(ctx context.Context, c member.Caller, eventID string) error {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := identity.Authorize(ctx, r.Members, c, member.CapManageEvents); err != nil {
			return err
		}
		if _, err := r.Events.GetByID(ctx, c.ClubID, eventID); err != nil {
			return fmt.Errorf("event %s: %w", eventID, err)
		}
		if err := r.Donations.DetachEvent(ctx, c.ClubID, eventID); err != nil {
			return fmt.Errorf("detach donations: %w", err)
		}
		if err := r.Expenses.DetachEvent(ctx, c.ClubID, eventID); err != nil {
			return fmt.Errorf("detach expenses: %w", err)
		}
		if err := r.Events.Delete(ctx, c.ClubID, eventID); err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	e := ledgerevent.New(ledgerevent.EventDeleted, c.ClubID, eventID, c.MemberID)
	if err := u.events.Publish(ctx, e); err != nil {
		u.log.WarnContext(ctx, "publish ledger event failed",
			logger.FieldKind, e.Kind, logger.FieldEntityID, eventID, logger.FieldError, err)
	}
	return nil
}

func (u *Usecase) List(ctx context.Context, c member.Caller) ([]event.Event, error) {
	out := []event.Event{}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := identity.Authorize(ctx, r.Members, c, member.CapRecord); err != nil {
			return err
		}
		rows, err := r.Events.ListByClub(ctx, c.ClubID)
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		out = append(out, rows...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, c member.Caller, eventID string) (*event.Event, error) {
	var out *event.Event
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := identity.Authorize(ctx, r.Members, c, member.CapRecord); err != nil {
			return err
		}
		e, err := r.Events.GetByID(ctx, c.ClubID, eventID)
		if err != nil {
			return fmt.Errorf("event %s: %w", eventID, err)
		}
		out = e
		return nil
	})
	return out, err
}
