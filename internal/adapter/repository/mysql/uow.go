package mysql

import (
	"context"

	"gorm.io/gorm"

	"chapter-fund-ledger/internal/domain/uow"
)

var _ uow.UnitOfWork = (*GormUoW)(nil)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Clubs:     &ClubRepository{db: tx},
		Members:   &MemberRepository{db: tx},
		Events:    &EventRepository{db: tx},
		Donations: &DonationRepository{db: tx},
		Expenses:  &ExpenseRepository{db: tx},
	}
}
