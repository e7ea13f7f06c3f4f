// Package listing builds the home page model: published posts for everyone,
// drafts only for an authenticated session.
package listing

import (
	"context"

	"github.com/jeremyjsx/quill/internal/auth"
	"github.com/jeremyjsx/quill/internal/posts"
	"github.com/rs/zerolog"
)

const MsgFetchFailed = "Failed to fetch posts. Please try again later."

type Lister interface {
	List(ctx context.Context) ([]*posts.Post, error)
}

type View struct {
	Published []*posts.Post
	Drafts    []*posts.Post
	// ShowDrafts is false when the session cannot see drafts.
	ShowDrafts bool
	Error      string
}

// Load fetches the posts once and partitions them by status, keeping the
// server's order. Reloading is another call to Load.
func Load(ctx context.Context, lister Lister, session auth.Session, logger zerolog.Logger) View {
	showDrafts := session != nil && session.IsAuthenticated()
	view := View{
		Published:  []*posts.Post{},
		Drafts:     []*posts.Post{},
		ShowDrafts: showDrafts,
	}

	list, err := lister.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("fetch posts failed")
		view.Error = MsgFetchFailed
		return view
	}

	for _, p := range list {
		switch p.Status {
		case posts.Published:
			view.Published = append(view.Published, p)
		case posts.Draft:
			if showDrafts {
				view.Drafts = append(view.Drafts, p)
			}
		}
	}
	return view
}
