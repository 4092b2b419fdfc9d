package mysql

import (
	"context"

	"gorm.io/gorm"

	"chapter-fund-ledger/internal/domain/apperr"
	"chapter-fund-ledger/internal/domain/member"
)

type MemberRepository struct{ db *gorm.DB }

func NewMemberRepository(db *gorm.DB) *MemberRepository { return &MemberRepository{db: db} }

func (r *MemberRepository) Create(ctx context.Context, m *member.Member) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *MemberRepository) first(ctx context.Context, query string, arg any) (*member.Member, error) {
	var out member.Member
	if err := r.db.WithContext(ctx).Where(query, arg).First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id string) (*member.Member, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *MemberRepository) GetByAuthID(ctx context.Context, authID string) (*member.Member, error) {
	return r.first(ctx, "auth_id = ?", authID)
}

func (r *MemberRepository) GetByEmail(ctx context.Context, email string) (*member.Member, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *MemberRepository) ListByClub(ctx context.Context, clubID string) ([]member.Member, error) {
	var out []member.Member
	err := r.db.WithContext(ctx).
		Where("club_id = ?", clubID).
		Order("joined_at ASC, id ASC").
		Find(&out).Error
	return out, translate(err)
}

func (r *MemberRepository) UpdateRole(ctx context.Context, clubID, id string, role member.Role) error {
	return affected(r.db.WithContext(ctx).Model(&member.Member{}).
		Where("id = ? AND club_id = ?", id, clubID).
		Update("role", role))
}

func (r *MemberRepository) SetActive(ctx context.Context, clubID, id string, active bool) (bool, error) {
	res := r.db.WithContext(ctx).Model(&member.Member{}).
		Where("id = ? AND club_id = ? AND is_active = ?", id, clubID, !active).
		Update("is_active", active)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// LinkAuth only attaches an identity to a member that has none yet.
func (r *MemberRepository) LinkAuth(ctx context.Context, id, authID string) error {
	res := r.db.WithContext(ctx).Model(&member.Member{}).
		Where("id = ? AND auth_id IS NULL", id).
		Update("auth_id", authID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrConflict
	}
	return nil
}
