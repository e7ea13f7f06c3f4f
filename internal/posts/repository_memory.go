package posts

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository keeps posts in process. Used by tests and STORE_DRIVER=memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	posts map[string]*Post
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{posts: make(map[string]*Post)}
}

func (r *MemoryRepository) Create(_ context.Context, p *Post) (*Post, error) {
	stored := p.clone()
	stored.ID = uuid.NewString()
	stored.normalize()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[stored.ID] = stored
	return stored.clone(), nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.clone(), nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*Post, error) {
	r.mu.RLock()
	list := make([]*Post, 0, len(r.posts))
	for _, p := range r.posts {
		list = append(list, p.clone())
	}
	r.mu.RUnlock()

	slices.SortStableFunc(list, func(a, b *Post) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return list, nil
}

func (r *MemoryRepository) Update(_ context.Context, id string, u Update) (*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.apply(u)
	return p.clone(), nil
}

func (r *MemoryRepository) Ping(context.Context) error { return nil }
