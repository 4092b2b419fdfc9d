package donation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chapter-fund-ledger/internal/domain/apperr"
	"chapter-fund-ledger/internal/domain/donation"
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
	now    func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, events ledgerevent.Publisher, log *logger.Logger) *Usecase {
	if events == nil {
		events = ledgerevent.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Usecase{
		uow:    tx,
		events: events,
		log:    log.WithComponent(logger.ComponentDonation),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Record enters a donation collected by the caller. Trusted roles enter it
// approved (and stamped as its own reviewer); coordinator entries start
// pending.
func (u *Usecase) Record(ctx context.Context, c member.Caller, in donation.Fields) (*donation.Donation, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var out *donation.Donation
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := identity.Authorize(ctx, r.Members, c, member.CapRecord)
		if err != nil {
			return err
		}
		if err := eventInClub(ctx, r, c.ClubID, in.EventID); err != nil {
			return err
		}

		d := &donation.Donation{
			ID:          id.NewID32(),
			ClubID:      c.ClubID,
			CollectedBy: m.ID,
			Status:      donation.InitialStatus(m.Role),
		}
		in.Apply(d)
		if d.Status == donation.StatusApproved {
			now := u.now()
			d.ReviewedBy = &m.ID
			d.ReviewedAt = &now
		}
		if err := r.Donations.Create(ctx, d); err != nil {
			return fmt.Errorf("create donation: %w", err)
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.publish(ctx, ledgerevent.New(ledgerevent.DonationRecorded, out.ClubID, out.ID, c.MemberID).
		WithAmount(out.Amount, string(out.Status)))
	return out, nil
}

func (u *Usecase) ListPending(ctx context.Context, c member.Caller) ([]donation.PendingRow, error) {
	out := []donation.PendingRow{}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := identity.Authorize(ctx, r.Members, c, member.CapApprove); err != nil {
			return err
		}
		rows, err := r.Donations.ListPending(ctx, c.ClubID)
		if err != nil {
			return fmt.Errorf("list pending donations: %w", err)
		}
		out = append(out, rows...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) Approve(ctx context.Context, c member.Caller, donationID string) (*donation.Donation, error) {
	d, err := u.review(ctx, c, donationID, donation.StatusApproved, nil)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, ledgerevent.New(ledgerevent.DonationApproved, d.ClubID, d.ID, c.MemberID).
		WithAmount(d.Amount, string(d.Status)))
	return d, nil
}

func (u *Usecase) Reject(ctx context.Context, c member.Caller, donationID, reason string) (*donation.Donation, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation("rejection_reason", "is required")
	}
	d, err := u.review(ctx, c, donationID, donation.StatusRejected, &reason)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, ledgerevent.New(ledgerevent.DonationRejected, d.ClubID, d.ID, c.MemberID).
		WithAmount(d.Amount, string(d.Status)))
	return d, nil
}

// review moves a pending donation to approved or rejected and stamps the
// reviewer in the same UPDATE.
func (u *Usecase) review(ctx context.Context, c member.Caller, donationID string, to donation.Status, reason *string) (*donation.Donation, error) {
	var out *donation.Donation
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := identity.Authorize(ctx, r.Members, c, member.CapApprove)
		if err != nil {
			return err
		}
		d, err := r.Donations.GetByID(ctx, c.ClubID, donationID)
		if err != nil {
			return fmt.Errorf("donation %s: %w", donationID, err)
		}
		if !donation.CanTransition(d.Status, to) {
			return fmt.Errorf("donation %s is %s: %w", donationID, d.Status, apperr.ErrInvalidTransition)
		}
		now := u.now()
		ok, err := r.Donations.Transition(ctx, c.ClubID, donationID, d.Status, donation.Review{
			To:              to,
			ReviewedBy:      &m.ID,
			ReviewedAt:      &now,
			RejectionReason: reason,
		})
		if err != nil {
			return fmt.Errorf("transition donation: %w", err)
		}
		if !ok {
			return fmt.Errorf("donation %s changed concurrently: %w", donationID, apperr.ErrInvalidTransition)
		}
		d.Status, d.ReviewedBy, d.ReviewedAt, d.RejectionReason = to, &m.ID, &now, reason
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Resubmit sends a rejected donation back to review. Only its collector may
// do so; fix, when given, replaces the donation's fields first.
func (u *Usecase) Resubmit(ctx context.Context, c member.Caller, donationID string, fix *donation.Fields) (*donation.Donation, error) {
	if fix != nil {
		fix.Normalize()
		if err := fix.Validate(); err != nil {
			return nil, err
		}
	}

	var out *donation.Donation
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := identity.Authorize(ctx, r.Members, c, member.CapRecord)
		if err != nil {
			return err
		}
		d, err := r.Donations.GetByID(ctx, c.ClubID, donationID)
		if err != nil {
			return fmt.Errorf("donation %s: %w", donationID, err)
		}
		if d.CollectedBy != m.ID {
			return fmt.Errorf("only the collector may resubmit: %w", apperr.ErrWrongRole)
		}
		if !donation.CanTransition(d.Status, donation.StatusPending) {
			return fmt.Errorf("donation %s is %s: %w", donationID, d.Status, apperr.ErrInvalidTransition)
		}
		ok, err := r.Donations.Transition(ctx, c.ClubID, donationID, d.Status, donation.Review{To: donation.StatusPending})
		if err != nil {
			return fmt.Errorf("transition donation: %w", err)
		}
		if !ok {
			return fmt.Errorf("donation %s changed concurrently: %w", donationID, apperr.ErrInvalidTransition)
		}
		d.Status, d.ReviewedBy, d.ReviewedAt, d.RejectionReason = donation.StatusPending, nil, nil, nil

		if fix != nil {
			if err := eventInClub(ctx, r, c.ClubID, fix.EventID); err != nil {
				return err
			}
			if err := r.Donations.UpdateFields(ctx, c.ClubID, donationID, *fix); err != nil {
				return fmt.Errorf("update donation: %w", err)
			}
			fix.Apply(d)
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.publish(ctx, ledgerevent.New(ledgerevent.DonationResubmitted, out.ClubID, out.ID, c.MemberID).
		WithAmount(out.Amount, string(out.Status)))
	return out, nil
}

// Update edits an existing donation regardless of its status. Admin only.
func (u *Usecase) Update(ctx context.Context, c member.Caller, donationID string, in donation.Fields) (*donation.Donation, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var out *donation.Donation
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := identity.Authorize(ctx, r.Members, c, member.CapEditLedger); err != nil {
			return err
		}
		if _, err := r.Donations.GetByID(ctx, c.ClubID, donationID); err != nil {
			return fmt.Errorf("donation %s: %w", donationID, err)
		}
		if err := eventInClub(ctx, r, c.ClubID, in.EventID); err != nil {
			return err
		}
		if err := r.Donations.UpdateFields(ctx, c.ClubID, donationID, in); err != nil {
			return fmt.Errorf("update donation: %w", err)
		}
		// Status and review stamps come from the row, not from the first read.
		d, err := r.Donations.GetByID(ctx, c.ClubID, donationID)
		if err != nil {
			return fmt.Errorf("donation %s: %w", donationID, err)
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.publish(ctx, ledgerevent.New(ledgerevent.DonationUpdated, out.ClubID, out.ID, c.MemberID).
		WithAmount(out.Amount, string(out.Status)))
	return out, nil
}

// Delete removes a donation. Admin only.
func (u *Usecase) Delete(ctx context.Context, c member.Caller, donationID string) error {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := identity.Authorize(ctx, r.Members, c, member.CapEditLedger); err != nil {
			return err
		}
		if err := r.Donations.Delete(ctx, c.ClubID, donationID); err != nil {
			return fmt.Errorf("donation %s: %w", donationID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	u.publish(ctx, ledgerevent.New(ledgerevent.DonationDeleted, c.ClubID, donationID, c.MemberID))
	return nil
}

// Get returns one donation. Coordinators only see donations they collected.
func (u *Usecase) Get(ctx context.Context, c member.Caller, donationID string) (*donation.Donation, error) {
	var out *donation.Donation
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := identity.Authorize(ctx, r.Members, c, member.CapRecord)
		if err != nil {
			return err
		}
		d, err := r.Donations.GetByID(ctx, c.ClubID, donationID)
		if err != nil {
			return fmt.Errorf("donation %s: %w", donationID, err)
		}
		if !m.Role.Can(member.CapViewReports) && d.CollectedBy != m.ID {
			return fmt.Errorf("donation %s: %w", donationID, apperr.ErrNotFound)
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) List(ctx context.Context, c member.Caller, f ListFilter) ([]donation.Donation, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validation("status", "must be one of pending, approved, rejected")
	}
	if f.Limit <= 0 || f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}

	out := []donation.Donation{}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := identity.Authorize(ctx, r.Members, c, member.CapRecord)
		if err != nil {
			return err
		}
		q := donation.ListQuery{ClubID: c.ClubID, Status: f.Status, Limit: f.Limit}
		if f.Mine || !m.Role.Can(member.CapViewReports) {
			q.CollectedBy = m.ID
		}
		rows, err := r.Donations.List(ctx, q)
		if err != nil {
			return fmt.Errorf("list donations: %w", err)
		}
		out = append(out, rows...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) publish(ctx context.Context, e ledgerevent.Event) {
	if err := u.events.Publish(ctx, e); err != nil {
		u.log.WarnContext(ctx, "publish ledger event failed",
			logger.FieldKind, e.Kind, logger.FieldEntityID, e.EntityID, logger.FieldError, err)
	}
}

func eventInClub(ctx context.Context, r uow.Repos, clubID string, eventID *string) error {
	if eventID == nil {
		return nil
	}
	if _, err := r.Events.GetByID(ctx, clubID, *eventID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Validation("event_id", "does not belong to this club")
		}
		return fmt.Errorf("event %s: %w", *eventID, err)
	}
	return nil
}
