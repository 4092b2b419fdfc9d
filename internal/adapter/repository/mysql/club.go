package mysql

import (
	"context"

	"gorm.io/gorm"

	"chapter-fund-ledger/internal/domain/club"
)

type ClubRepository struct{ db *gorm.DB }

func NewClubRepository(db *gorm.DB) *ClubRepository { return &ClubRepository{db: db} }

func (r *ClubRepository) Create(ctx context.Context, c *club.Club) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *ClubRepository) GetByID(ctx context.Context, id string) (*club.Club, error) {
	var out club.Club
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *ClubRepository) Save(ctx context.Context, c *club.Club) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}
