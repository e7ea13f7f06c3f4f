package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jeremyjsx/quill/internal/auth"
	"github.com/jeremyjsx/quill/internal/middleware"
	"github.com/jeremyjsx/quill/internal/posts"
	"github.com/jeremyjsx/quill/internal/routes"
)

// KeySource supplies the API key attached to write requests. *auth.KeySession
// satisfies it.
type KeySource interface {
	Key() string
}

type Client struct {
	baseURL string
	http    *http.Client
	keys    KeySource
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithKeySource(k KeySource) Option {
	return func(c *Client) { c.keys = k }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status    int
	Code      string
	Message   string
	Details   map[string]string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("quill api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("quill api: %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap lets callers test responses with errors.Is against the domain sentinels.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return posts.ErrNotFound
	case http.StatusUnauthorized:
		return auth.ErrUnauthenticated
	}
	return nil
}

func (c *Client) List(ctx context.Context) ([]*posts.Post, error) {
	var list []*posts.Post
	if err := c.do(ctx, http.MethodGet, routes.APIBlogs, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Get(ctx context.Context, id string) (*posts.Post, error) {
	if id == "" {
		return nil, posts.ErrNotFound
	}
	var p posts.Post
	if err := c.do(ctx, http.MethodGet, routes.BlogByID(url.PathEscape(id)), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) SaveDraft(ctx context.Context, req posts.SaveRequest) (*posts.Post, error) {
	var p posts.Post
	if err := c.do(ctx, http.MethodPost, routes.APISaveDraft, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Publish(ctx context.Context, req posts.SaveRequest) (*posts.Post, error) {
	var p posts.Post
	if err := c.do(ctx, http.MethodPost, routes.APIPublishBlog, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(middleware.HeaderRequestID, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && c.keys != nil {
		if key := c.keys.Key(); key != "" {
			req.Header.Set("X-API-Key", key)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{
		Status:    resp.StatusCode,
		Message:   http.StatusText(resp.StatusCode),
		RequestID: resp.Header.Get(middleware.HeaderRequestID),
	}

	var env struct {
		Error struct {
			Code      string            `json:"code"`
			Message   string            `json:"message"`
			Details   map[string]string `json:"details"`
			RequestID string            `json:"request_id"`
		} `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &env) == nil && env.Error.Code != "" {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.Details = env.Error.Details
		if env.Error.RequestID != "" {
			apiErr.RequestID = env.Error.RequestID
		}
	}
	return apiErr
}
