package posts

import "context"

// Repository is the post store. Implementations assign IDs on Create, return
// ErrNotFound for unknown or malformed IDs and list by updated_at descending.
type Repository interface {
	Create(ctx context.Context, p *Post) (*Post, error)
	GetByID(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context) ([]*Post, error)
	Update(ctx context.Context, id string, u Update) (*Post, error)
	Ping(ctx context.Context) error
}
