// Package report serves fund summaries and club reports. Every call reads one
// ledger snapshot in a single transaction and aggregates it in memory.
package report

import (
	"context"
	"fmt"

	"chapter-fund-ledger/internal/domain/ledger"
	"chapter-fund-ledger/internal/domain/member"
	"chapter-fund-ledger/internal/domain/uow"
	"chapter-fund-ledger/internal/infrastructure/logger"
	"chapter-fund-ledger/internal/usecase/identity"
)

// SummaryCache memoizes fund summaries per club and scope.
type SummaryCache interface {
	GetOrLoad(ctx context.Context, clubID string, scope ledger.DonationScope, load func(context.Context) (ledger.FundSummary, error)) (ledger.FundSummary, error)
}

type Usecase struct {
	uow   uow.UnitOfWork
	cache SummaryCache
	log   *logger.Logger
}

// NewUsecase builds the report usecase. A nil cache computes every summary
// from the database.
func NewUsecase(tx uow.UnitOfWork, cache SummaryCache, log *logger.Logger) *Usecase {
	if log == nil {
		log = logger.Nop()
	}
	return &Usecase{uow: tx, cache: cache, log: log.WithComponent(logger.ComponentReport)}
}

func (u *Usecase) GetFundSummary(ctx context.Context, c member.Caller, opts ledger.SummaryOptions) (ledger.FundSummary, error) {
	if !opts.DonationScope.Valid() {
		opts.DonationScope = ledger.ScopeApproved
	}
	if err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		_, err := identity.Authorize(ctx, r.Members, c, member.CapViewReports)
		return err
	}); err != nil {
		return ledger.FundSummary{}, err
	}

	load := func(ctx context.Context) (ledger.FundSummary, error) {
		var out ledger.FundSummary
		err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
			s, err := u.loadSnapshot(ctx, r, c.ClubID, false)
			if err != nil {
				return err
			}
			out = ledger.Summarize(s, opts)
			return nil
		})
		return out, err
	}
	if u.cache == nil {
		return load(ctx)
	}
	return u.cache.GetOrLoad(ctx, c.ClubID, opts.DonationScope, load)
}

// GetMyStats is the personal dashboard; every active member may read their own.
func (u *Usecase) GetMyStats(ctx context.Context, c member.Caller) (ledger.MemberStats, error) {
	var out ledger.MemberStats
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := identity.Authorize(ctx, r.Members, c, member.CapRecord)
		if err != nil {
			return err
		}
		s, err := u.loadSnapshot(ctx, r, c.ClubID, false)
		if err != nil {
			return err
		}
		out = ledger.StatsFor(s, m.ID)
		return nil
	})
	return out, err
}

func (u *Usecase) GetDonationsReport(ctx context.Context, c member.Caller, f ledger.DonationFilter) (ledger.DonationsReport, error) {
	if err := f.Validate(); err != nil {
		return ledger.DonationsReport{}, err
	}
	var out ledger.DonationsReport
	err := u.clubReport(ctx, c, func(s ledger.Snapshot) { out = ledger.BuildDonationsReport(s, f) })
	return out, err
}

func (u *Usecase) GetExpensesReport(ctx context.Context, c member.Caller, f ledger.ExpenseFilter) (ledger.ExpensesReport, error) {
	if err := f.Validate(); err != nil {
		return ledger.ExpensesReport{}, err
	}
	var out ledger.ExpensesReport
	err := u.clubReport(ctx, c, func(s ledger.Snapshot) { out = ledger.BuildExpensesReport(s, f) })
	return out, err
}

func (u *Usecase) GetEventsReport(ctx context.Context, c member.Caller) (ledger.EventsReport, error) {
	var out ledger.EventsReport
	err := u.clubReport(ctx, c, func(s ledger.Snapshot) { out = ledger.BuildEventsReport(s) })
	return out, err
}

func (u *Usecase) GetMembersReport(ctx context.Context, c member.Caller) (ledger.MembersReport, error) {
	var out ledger.MembersReport
	err := u.clubReport(ctx, c, func(s ledger.Snapshot) { out = ledger.BuildMembersReport(s) })
	return out, err
}

// clubReport authorizes a club-wide report and hands build the snapshot,
// all inside one transaction.
func (u *Usecase) clubReport(ctx context.Context, c member.Caller, build func(ledger.Snapshot)) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := identity.Authorize(ctx, r.Members, c, member.CapViewReports); err != nil {
			return err
		}
		s, err := u.loadSnapshot(ctx, r, c.ClubID, true)
		if err != nil {
			return err
		}
		build(s)
		return nil
	})
}

// loadSnapshot reads the club ledger. Donations and expenses are required;
// with lookups set, events and members are loaded too and a failure there
// leaves the section empty.
func (u *Usecase) loadSnapshot(ctx context.Context, r uow.Repos, clubID string, lookups bool) (ledger.Snapshot, error) {
	s := ledger.Snapshot{ClubID: clubID}
	var err error
	if s.Donations, err = r.Donations.ListByClub(ctx, clubID); err != nil {
		return s, fmt.Errorf("load donations: %w", err)
	}
	if s.Expenses, err = r.Expenses.ListByClub(ctx, clubID); err != nil {
		return s, fmt.Errorf("load expenses: %w", err)
	}
	if !lookups {
		return s, nil
	}
	if s.Events, err = r.Events.ListByClub(ctx, clubID); err != nil {
		u.log.WarnContext(ctx, "events lookup failed, report continues without names",
			logger.FieldClubID, clubID, logger.FieldError, err)
		s.Events = nil
	}
	if s.Members, err = r.Members.ListByClub(ctx, clubID); err != nil {
		u.log.WarnContext(ctx, "members lookup failed, report continues without names",
			logger.FieldClubID, clubID, logger.FieldError, err)
		s.Members = nil
	}
	return s, nil
}
