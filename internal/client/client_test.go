package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jeremyjsx/quill/internal/auth"
	"github.com/jeremyjsx/quill/internal/handlers"
	"github.com/jeremyjsx/quill/internal/middleware"
	"github.com/jeremyjsx/quill/internal/posts"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	handlers.NewPostsHandler(posts.NewService(posts.NewMemoryRepository()), zerolog.Nop()).Register(mux, apiKey)
	srv := httptest.NewServer(middleware.Chain(mux, middleware.RequestID))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t, "secret")
	c := New(srv.URL, WithKeySource(auth.NewKeySession("ada", "secret")))

	draft, err := c.SaveDraft(ctx, posts.SaveRequest{Title: "Hello", Content: "World", Tags: "go, http"})
	require.NoError(t, err)
	assert.Equal(t, posts.Draft, draft.Status)
	assert.Equal(t, []string{"go", "http"}, draft.Tags)

	got, err := c.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	pub, err := c.Publish(ctx, posts.SaveRequest{ID: draft.ID, Title: "Hello", Content: "World"})
	require.NoError(t, err)
	assert.Equal(t, posts.Published, pub.Status)

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, draft.ID, list[0].ID)
}

func TestClient_NotFound(t *testing.T) {
	ctx := context.Background()
	c := New(newServer(t, "").URL)

	_, err := c.Get(ctx, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, posts.ErrNotFound)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, handlers.CodeNotFound, apiErr.Code)
	assert.NotEmpty(t, apiErr.RequestID)

	_, err = c.Publish(ctx, posts.SaveRequest{Title: "T", Content: "C"})
	assert.ErrorIs(t, err, posts.ErrNotFound)
}

func TestClient_Validation(t *testing.T) {
	c := New(newServer(t, "").URL)

	_, err := c.SaveDraft(context.Background(), posts.SaveRequest{Title: strings.Repeat("x", 130), Content: "c"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, posts.MsgTitleTooLong, apiErr.Details["title"])
	assert.NotErrorIs(t, err, posts.ErrNotFound)
}

func TestClient_Unauthorized(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t, "secret")
	session := auth.NewKeySession("ada", "secret")
	c := New(srv.URL, WithKeySource(session))

	session.Logout()
	_, err := c.SaveDraft(ctx, posts.SaveRequest{Title: "T", Content: "C"})
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)

	_, err = c.List(ctx)
	assert.NoError(t, err)
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).List(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
