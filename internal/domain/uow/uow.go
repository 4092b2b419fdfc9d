package uow

import (
	"context"

	"chapter-fund-ledger/internal/domain/club"
	"chapter-fund-ledger/internal/domain/donation"
	"chapter-fund-ledger/internal/domain/event"
	"chapter-fund-ledger/internal/domain/expense"
	"chapter-fund-ledger/internal/domain/member"
)

// Repos are bound to one transaction.
type Repos struct {
	Clubs     club.Repository
	Members   member.Repository
	Events    event.Repository
	Donations donation.Repository
	Expenses  expense.Repository
}

type UnitOfWork interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
