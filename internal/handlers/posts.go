package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jeremyjsx/quill/internal/middleware"
	"github.com/jeremyjsx/quill/internal/posts"
	"github.com/jeremyjsx/quill/internal/routes"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

type PostsHandler struct {
	svc    *posts.Service
	logger zerolog.Logger
}

func NewPostsHandler(svc *posts.Service, logger zerolog.Logger) *PostsHandler {
	return &PostsHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register mounts the blog routes. Writes are wrapped in the API key check;
// reads stay public.
func (h *PostsHandler) Register(mux *http.ServeMux, apiKey string) {
	guard := middleware.APIKey(apiKey)

	mux.HandleFunc("GET "+routes.APIBlogs, h.List())
	mux.HandleFunc("GET "+routes.APIBlogByID, h.GetByID())
	mux.Handle("POST "+routes.APISaveDraft, guard(h.SaveDraft()))
	mux.Handle("POST "+routes.APIPublishBlog, guard(h.Publish()))
}

func (h *PostsHandler) SaveDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.decode(w, r)
		if !ok {
			return
		}

		post, err := h.svc.SaveDraft(r.Context(), req)
		if err != nil {
			h.writeServiceError(w, r, err, "failed to save draft", req.ID)
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

func (h *PostsHandler) Publish() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.decode(w, r)
		if !ok {
			return
		}

		post, err := h.svc.PublishPost(r.Context(), req)
		if err != nil {
			h.writeServiceError(w, r, err, "failed to publish post", req.ID)
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

func (h *PostsHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.svc.ListPosts(r.Context())
		if err != nil {
			h.logger.Error().Err(err).Str("request_id", middleware.GetRequestID(r.Context())).Msg("list posts failed")
			writeError(w, r, http.StatusInternalServerError, CodeInternal, "failed to fetch posts", nil)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (h *PostsHandler) GetByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		post, err := h.svc.GetPost(r.Context(), id)
		if err != nil {
			h.writeServiceError(w, r, err, "failed to fetch post", id)
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

func (h *PostsHandler) decode(w http.ResponseWriter, r *http.Request) (posts.SaveRequest, bool) {
	var req posts.SaveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, CodeBadRequest, "invalid JSON body", nil)
		return req, false
	}
	return req, true
}

func (h *PostsHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, message, postID string) {
	var ve *posts.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, r, http.StatusBadRequest, CodeValidation, "validation failed", ve.Fields)
	case errors.Is(err, posts.ErrNotFound):
		writeError(w, r, http.StatusNotFound, CodeNotFound, "post not found", nil)
	default:
		h.logger.Error().Err(err).
			Str("post_id", postID).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg(message)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, message, nil)
	}
}
