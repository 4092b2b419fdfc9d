package mysql

import (
	"context"

	"gorm.io/gorm"

	"chapter-fund-ledger/internal/domain/event"
)

type EventRepository struct{ db *gorm.DB }

func NewEventRepository(db *gorm.DB) *EventRepository { return &EventRepository{db: db} }

func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	return translate(r.db.WithContext(ctx).Create(e).Error)
}

func (r *EventRepository) GetByID(ctx context.Context, clubID, id string) (*event.Event, error) {
	var out event.Event
	err := r.db.WithContext(ctx).Where("id = ? AND club_id = ?", id, clubID).First(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *EventRepository) ListByClub(ctx context.Context, clubID string) ([]event.Event, error) {
	var out []event.Event
	err := r.db.WithContext(ctx).
		Where("club_id = ?", clubID).
		Order("created_at DESC, id ASC").
		Find(&out).Error
	return out, translate(err)
}

func (r *EventRepository) Save(ctx context.Context, e *event.Event) error {
	return translate(r.db.WithContext(ctx).Save(e).Error)
}

func (r *EventRepository) Delete(ctx context.Context, clubID, id string) error {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND club_id = ?", id, clubID).
		Delete(&event.Event{}))
}
