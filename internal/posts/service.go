package posts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jeremyjsx/quill/internal/events"
	"github.com/rs/zerolog"
)

// Archiver keeps a copy of every published post outside the primary store.
type Archiver interface {
	Archive(ctx context.Context, p *Post) error
}

type noopArchiver struct{}

func (noopArchiver) Archive(context.Context, *Post) error { return nil }

type Service struct {
	repo      Repository
	publisher events.Publisher
	archiver  Archiver
	logger    zerolog.Logger
	now       func() time.Time
}

type Option func(*Service)

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithArchiver(a Archiver) Option {
	return func(s *Service) { s.archiver = a }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l.With().Str("component", "posts").Logger() }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: events.NoopPublisher{},
		archiver:  noopArchiver{},
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveDraft creates a draft when req.ID is empty and otherwise overwrites the
// stored post in place, keeping its status.
func (s *Service) SaveDraft(ctx context.Context, req SaveRequest) (*Post, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := s.timestamp()
	title, content := strings.TrimSpace(req.Title), strings.TrimSpace(req.Content)
	tags := SplitTags(req.Tags)

	if req.ID == "" {
		post, err := s.repo.Create(ctx, &Post{
			Title:     title,
			Content:   content,
			Tags:      tags,
			Status:    Draft,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("create draft: %w", err)
		}
		s.logger.Debug().Str("post_id", post.ID).Msg("draft created")
		return post, nil
	}

	post, err := s.repo.Update(ctx, req.ID, Update{
		Title:     title,
		Content:   content,
		Tags:      tags,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("update draft %s: %w", req.ID, err)
	}
	return post, nil
}

// PublishPost overwrites an existing post and marks it published. It never
// creates a post: a missing or unknown ID is ErrNotFound.
func (s *Service) PublishPost(ctx context.Context, req SaveRequest) (*Post, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, ErrNotFound
	}

	status := Published
	post, err := s.repo.Update(ctx, req.ID, Update{
		Title:     strings.TrimSpace(req.Title),
		Content:   strings.TrimSpace(req.Content),
		Tags:      SplitTags(req.Tags),
		Status:    &status,
		UpdatedAt: s.timestamp(),
	})
	if err != nil {
		return nil, fmt.Errorf("publish %s: %w", req.ID, err)
	}

	s.afterPublish(ctx, post)
	return post, nil
}

func (s *Service) ListPosts(ctx context.Context) ([]*Post, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return list, nil
}

func (s *Service) GetPost(ctx context.Context, id string) (*Post, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Event and snapshot failures are logged only; the post is already stored.
func (s *Service) afterPublish(ctx context.Context, post *Post) {
	if err := s.publisher.PublishPostPublished(ctx, events.NewPostPublished(post.ID, post.Title, post.Tags)); err != nil {
		s.logger.Warn().Err(err).Str("post_id", post.ID).Msg("publish event failed")
	}
	if err := s.archiver.Archive(ctx, post); err != nil {
		s.logger.Warn().Err(err).Str("post_id", post.ID).Msg("snapshot failed")
	}
}

// BSON dates carry milliseconds, so every driver gets the same precision.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func validate(req SaveRequest) error {
	if errs := ValidateFields(req.Title, req.Content); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
