package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jeremyjsx/quill/internal/posts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStorage struct {
	existsErr error
}

func (stubStorage) Upload(context.Context, string, io.Reader, string) error { return nil }

func (s stubStorage) Exists(context.Context, string) (bool, error) { return false, s.existsErr }

func runHealth(t *testing.T, deps *HealthDeps) (int, healthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	Health(deps).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var body healthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		code, body := runHealth(t, &HealthDeps{Store: posts.NewMemoryRepository(), Storage: stubStorage{}})
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, map[string]string{"store": "ok", "s3": "ok", "rabbitmq": "skipped"}, body.Checks)
	})

	t.Run("store down", func(t *testing.T) {
		code, body := runHealth(t, &HealthDeps{Store: failingRepo{}})
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", body.Status)
		assert.Equal(t, "skipped", body.Checks["s3"])
	})

	t.Run("s3 down degrades", func(t *testing.T) {
		code, body := runHealth(t, &HealthDeps{Store: posts.NewMemoryRepository(), Storage: stubStorage{existsErr: errors.New("timeout")}})
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, "unhealthy", body.Checks["s3"])
	})
}
