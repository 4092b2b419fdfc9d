package expense

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chapter-fund-ledger/internal/domain/apperr"
	"chapter-fund-ledger/internal/domain/expense"
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
		log:    log.WithComponent(logger.ComponentExpense),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Submit files an expense for review. Every expense starts pending, whatever
// the submitter's role.
func (u *Usecase) Submit(ctx context.Context, c member.Caller, in expense.Fields) (*expense.Expense, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var out *expense.Expense
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := identity.Authorize(ctx, r.Members, c, member.CapRecord)
		if err != nil {
			return err
		}
		if in.EventID != nil {
			if _, err := r.Events.GetByID(ctx, c.ClubID, *in.EventID); err != nil {
				if errors.Is(err, apperr.ErrNotFound) {
					return apperr.Validation("event_id", "does not belong to this club")
				}
				return fmt.Errorf("event %s: %w", *in.EventID, err)
			}
		}
		e := &expense.Expense{
			ID:          id.NewID32(),
			ClubID:      c.ClubID,
			Status:      expense.StatusPending,
			SubmittedBy: m.ID,
		}
		in.Apply(e)
		if err := r.Expenses.Create(ctx, e); err != nil {
			return fmt.Errorf("create expense: %w", err)
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.publish(ctx, ledgerevent.New(ledgerevent.ExpenseSubmitted, out.ClubID, out.ID, c.MemberID).
		WithAmount(out.Amount, string(out.Status)))
	return out, nil
}

func (u *Usecase) ListPending(ctx context.Context, c member.Caller) ([]expense.PendingRow, error) {
	out := []expense.PendingRow{}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := identity.Authorize(ctx, r.Members, c, member.CapApprove); err != nil {
			return err
		}
		rows, err := r.Expenses.ListPending(ctx, c.ClubID)
		if err != nil {
			return fmt.Errorf("list pending expenses: %w", err)
		}
		out = append(out, rows...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Approve fails with ErrSelfApproval when the caller submitted the expense.
func (u *Usecase) Approve(ctx context.Context, c member.Caller, expenseID string) (*expense.Expense, error) {
	e, err := u.decide(ctx, c, expenseID, expense.StatusApproved, nil)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, ledgerevent.New(ledgerevent.ExpenseApproved, e.ClubID, e.ID, c.MemberID).
		WithAmount(e.Amount, string(e.Status)))
	return e, nil
}

// Reject records reason. Submitters cannot decide on their own expense in
// either direction.
func (u *Usecase) Reject(ctx context.Context, c member.Caller, expenseID, reason string) (*expense.Expense, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation("rejection_reason", "is required")
	}
	e, err := u.decide(ctx, c, expenseID, expense.StatusRejected, &reason)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, ledgerevent.New(ledgerevent.ExpenseRejected, e.ClubID, e.ID, c.MemberID).
		WithAmount(e.Amount, string(e.Status)))
	return e, nil
}

func (u *Usecase) decide(ctx context.Context, c member.Caller, expenseID string, to expense.Status, reason *string) (*expense.Expense, error) {
	var out *expense.Expense
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := identity.Authorize(ctx, r.Members, c, member.CapApprove)
		if err != nil {
			return err
		}
		e, err := r.Expenses.GetByID(ctx, c.ClubID, expenseID)
		if err != nil {
			return fmt.Errorf("expense %s: %w", expenseID, err)
		}
		if e.SubmittedBy == m.ID {
			return apperr.ErrSelfApproval
		}
		if !expense.CanTransition(e.Status, to) {
			return fmt.Errorf("expense %s is %s: %w", expenseID, e.Status, apperr.ErrInvalidTransition)
		}

		d := expense.Decision{To: to, ApprovedBy: m.ID, RejectionReason: reason}
		if to == expense.StatusApproved {
			now := u.now()
			d.ApprovedAt = &now
		}
		ok, err := r.Expenses.Decide(ctx, c.ClubID, expenseID, d)
		if err != nil {
			return fmt.Errorf("decide expense: %w", err)
		}
		if !ok {
			return fmt.Errorf("expense %s changed concurrently: %w", expenseID, apperr.ErrInvalidTransition)
		}
		e.Status, e.ApprovedBy, e.ApprovedAt, e.RejectionReason = to, &m.ID, d.ApprovedAt, reason
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one expense. Coordinators only see expenses they submitted.
func (u *Usecase) Get(ctx context.Context, c member.Caller, expenseID string) (*expense.Expense, error) {
	var out *expense.Expense
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := identity.Authorize(ctx, r.Members, c, member.CapRecord)
		if err != nil {
			return err
		}
		e, err := r.Expenses.GetByID(ctx, c.ClubID, expenseID)
		if err != nil {
			return fmt.Errorf("expense %s: %w", expenseID, err)
		}
		if !m.Role.Can(member.CapViewReports) && e.SubmittedBy != m.ID {
			return fmt.Errorf("expense %s: %w", expenseID, apperr.ErrNotFound)
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) List(ctx context.Context, c member.Caller, f ListFilter) ([]expense.Expense, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validation("status", "must be one of pending, approved, rejected")
	}
	if f.Limit <= 0 || f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}

	out := []expense.Expense{}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := identity.Authorize(ctx, r.Members, c, member.CapRecord)
		if err != nil {
			return err
		}
		q := expense.ListQuery{ClubID: c.ClubID, Status: f.Status, Limit: f.Limit}
		if f.Mine || !m.Role.Can(member.CapViewReports) {
			q.SubmittedBy = m.ID
		}
		rows, err := r.Expenses.List(ctx, q)
		if err != nil {
			return fmt.Errorf("list expenses: %w", err)
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
