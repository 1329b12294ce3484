package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blog-api/internal/middleware"
	"blog-api/internal/model"
	"blog-api/internal/service"
)

type PostHandler struct {
	service *service.BlogService
}

func NewPostHandler(service *service.BlogService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.NewPost
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.service.Create(r.Context(), caller(r), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// Update answers the access checks before it looks at the body, so a
// malformed patch for a missing post is a 404.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.CheckUpdate(r.Context(), id, caller(r)); err != nil {
		writeError(w, err)
		return
	}

	var patch model.PostPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.service.Update(r.Context(), id, caller(r), patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), caller(r)); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// caller returns the authenticated identity, or nil for anonymous requests.
func caller(r *http.Request) *model.Identity {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return nil
	}
	return identity
}
