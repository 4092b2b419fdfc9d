package mysql

import (
	"context"

	"gorm.io/gorm"

	"chapter-fund-ledger/internal/domain/donation"
)

type DonationRepository struct{ db *gorm.DB }

func NewDonationRepository(db *gorm.DB) *DonationRepository { return &DonationRepository{db: db} }

func (r *DonationRepository) Create(ctx context.Context, d *donation.Donation) error {
	return translate(r.db.WithContext(ctx).Create(d).Error)
}

func (r *DonationRepository) GetByID(ctx context.Context, clubID, id string) (*donation.Donation, error) {
	var out donation.Donation
	err := r.db.WithContext(ctx).Where("id = ? AND club_id = ?", id, clubID).First(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *DonationRepository) UpdateFields(ctx context.Context, clubID, id string, f donation.Fields) error {
	return translate(r.db.WithContext(ctx).Model(&donation.Donation{}).
		Where("id = ? AND club_id = ?", id, clubID).
		Updates(f.Columns()).Error)
}

func (r *DonationRepository) Delete(ctx context.Context, clubID, id string) error {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND club_id = ?", id, clubID).
		Delete(&donation.Donation{}))
}

func (r *DonationRepository) List(ctx context.Context, q donation.ListQuery) ([]donation.Donation, error) {
	tx := r.db.WithContext(ctx).Where("club_id = ?", q.ClubID)
	if q.CollectedBy != "" {
		tx = tx.Where("collected_by = ?", q.CollectedBy)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	var out []donation.Donation
	err := tx.Order("donation_date DESC, created_at DESC").Find(&out).Error
	return out, translate(err)
}

func (r *DonationRepository) ListPending(ctx context.Context, clubID string) ([]donation.PendingRow, error) {
	var out []donation.PendingRow
	err := r.db.WithContext(ctx).
		Table("donations AS d").
		Select("d.*, e.name AS event_name, m.full_name AS collector_name").
		Joins("LEFT JOIN events e ON e.id = d.event_id").
		Joins("JOIN members m ON m.id = d.collected_by").
		Where("d.club_id = ? AND d.status = ?", clubID, donation.StatusPending).
		Order("d.created_at ASC").
		Scan(&out).Error
	return out, translate(err)
}

func (r *DonationRepository) ListByClub(ctx context.Context, clubID string) ([]donation.Donation, error) {
	var out []donation.Donation
	err := r.db.WithContext(ctx).Where("club_id = ?", clubID).Find(&out).Error
	return out, translate(err)
}

// Transition is a compare-and-set on status: concurrent reviewers race on
// the WHERE clause and only one of them updates the row.
func (r *DonationRepository) Transition(ctx context.Context, clubID, id string, from donation.Status, rv donation.Review) (bool, error) {
	res := r.db.WithContext(ctx).Model(&donation.Donation{}).
		Where("id = ? AND club_id = ? AND status = ?", id, clubID, from).
		Updates(map[string]any{
			"status":           rv.To,
			"reviewed_by":      rv.ReviewedBy,
			"reviewed_at":      rv.ReviewedAt,
			"rejection_reason": rv.RejectionReason,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *DonationRepository) DetachEvent(ctx context.Context, clubID, eventID string) error {
	return translate(r.db.WithContext(ctx).Model(&donation.Donation{}).
		Where("club_id = ? AND event_id = ?", clubID, eventID).
		Update("event_id", nil).Error)
}
