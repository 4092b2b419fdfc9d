package club

import "context"

type Repository interface {
	Create(ctx context.Context, c *Club) error
	GetByID(ctx context.Context, id string) (*Club, error)
	Save(ctx context.Context, c *Club) error
}
