package member

import "context"

type Repository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id string) (*Member, error)
	GetByAuthID(ctx context.Context, authID string) (*Member, error)
	GetByEmail(ctx context.Context, email string) (*Member, error)
	ListByClub(ctx context.Context, clubID string) ([]Member, error)

	// UpdateRole touches the role column of a member in clubID.
	UpdateRole(ctx context.Context, clubID, id string, role Role) error
	// SetActive moves a member of clubID to active only if it is currently
	// !active. It reports whether a row changed.
	SetActive(ctx context.Context, clubID, id string, active bool) (bool, error)
	LinkAuth(ctx context.Context, id, authID string) error
}
