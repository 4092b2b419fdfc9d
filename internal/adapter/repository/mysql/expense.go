package mysql

import (
	"context"

	"gorm.io/gorm"

	"chapter-fund-ledger/internal/domain/expense"
)

type ExpenseRepository struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository { return &ExpenseRepository{db: db} }

func (r *ExpenseRepository) Create(ctx context.Context, e *expense.Expense) error {
	return translate(r.db.WithContext(ctx).Create(e).Error)
}

func (r *ExpenseRepository) GetByID(ctx context.Context, clubID, id string) (*expense.Expense, error) {
	var out expense.Expense
	err := r.db.WithContext(ctx).Where("id = ? AND club_id = ?", id, clubID).First(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *ExpenseRepository) List(ctx context.Context, q expense.ListQuery) ([]expense.Expense, error) {
	tx := r.db.WithContext(ctx).Where("club_id = ?", q.ClubID)
	if q.SubmittedBy != "" {
		tx = tx.Where("submitted_by = ?", q.SubmittedBy)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	var out []expense.Expense
	err := tx.Order("expense_date DESC, created_at DESC").Find(&out).Error
	return out, translate(err)
}

func (r *ExpenseRepository) ListPending(ctx context.Context, clubID string) ([]expense.PendingRow, error) {
	var out []expense.PendingRow
	err := r.db.WithContext(ctx).
		Table("expenses AS x").
		Select("x.*, e.name AS event_name, m.full_name AS submitter_name").
		Joins("LEFT JOIN events e ON e.id = x.event_id").
		Joins("JOIN members m ON m.id = x.submitted_by").
		Where("x.club_id = ? AND x.status = ?", clubID, expense.StatusPending).
		Order("x.created_at ASC").
		Scan(&out).Error
	return out, translate(err)
}

func (r *ExpenseRepository) ListByClub(ctx context.Context, clubID string) ([]expense.Expense, error) {
	var out []expense.Expense
	err := r.db.WithContext(ctx).Where("club_id = ?", clubID).Find(&out).Error
	return out, translate(err)
}

// Decide writes the decision only while the expense is pending and the
// decider did not submit it.
func (r *ExpenseRepository) Decide(ctx context.Context, clubID, id string, d expense.Decision) (bool, error) {
	res := r.db.WithContext(ctx).Model(&expense.Expense{}).
		Where("id = ? AND club_id = ? AND status = ? AND submitted_by <> ?",
			id, clubID, expense.StatusPending, d.ApprovedBy).
		Updates(map[string]any{
			"status":           d.To,
			"approved_by":      d.ApprovedBy,
			"approved_at":      d.ApprovedAt,
			"rejection_reason": d.RejectionReason,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *ExpenseRepository) DetachEvent(ctx context.Context, clubID, eventID string) error {
	return translate(r.db.WithContext(ctx).Model(&expense.Expense{}).
		Where("club_id = ? AND event_id = ?", clubID, eventID).
		Update("event_id", nil).Error)
}
