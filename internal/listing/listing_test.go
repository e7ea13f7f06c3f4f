package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/jeremyjsx/quill/internal/auth"
	"github.com/jeremyjsx/quill/internal/posts"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockLister struct {
	mock.Mock
}

func (m *mockLister) List(ctx context.Context) ([]*posts.Post, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*posts.Post)
	return list, args.Error(1)
}

func samplePosts() []*posts.Post {
	return []*posts.Post{
		{ID: "1", Title: "newest draft", Status: posts.Draft},
		{ID: "2", Title: "published", Status: posts.Published},
		{ID: "3", Title: "old draft", Status: posts.Draft},
		{ID: "4", Title: "old published", Status: posts.Published},
	}
}

func ids(list []*posts.Post) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}

func TestLoad_Authenticated(t *testing.T) {
	m := new(mockLister)
	m.On("List", mock.Anything).Return(samplePosts(), nil).Once()

	view := Load(context.Background(), m, auth.NewKeySession("ada", "key"), zerolog.Nop())
	assert.Empty(t, view.Error)
	assert.True(t, view.ShowDrafts)
	assert.Equal(t, []string{"2", "4"}, ids(view.Published))
	assert.Equal(t, []string{"1", "3"}, ids(view.Drafts))
	m.AssertExpectations(t)
}

func TestLoad_AnonymousHidesDrafts(t *testing.T) {
	m := new(mockLister)
	m.On("List", mock.Anything).Return(samplePosts(), nil)

	view := Load(context.Background(), m, auth.Anonymous{}, zerolog.Nop())
	assert.False(t, view.ShowDrafts)
	assert.Equal(t, []string{"2", "4"}, ids(view.Published))
	assert.Empty(t, view.Drafts)
}

func TestLoad_Failure(t *testing.T) {
	m := new(mockLister)
	m.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

	view := Load(context.Background(), m, nil, zerolog.Nop())
	assert.Equal(t, MsgFetchFailed, view.Error)
	assert.Empty(t, view.Published)
	assert.Empty(t, view.Drafts)
}
