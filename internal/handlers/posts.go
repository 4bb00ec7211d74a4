// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"arsysintela/internal/auth"
	"arsysintela/internal/cache"
	"arsysintela/internal/markdown"
	"arsysintela/internal/middleware"
	"arsysintela/internal/models"
	"arsysintela/internal/store"
)

// defaultPostPageSize is the listing page size when the client does not
// pass a limit.
const defaultPostPageSize = 6

// Posts serves the public blog endpoints and the admin post CRUD.
type Posts struct {
	store *store.PostStore
	cache *cache.PostCache
	log   zerolog.Logger
}

// NewPosts creates the posts handler. cache may be nil to disable
// response caching.
func NewPosts(s *store.PostStore, c *cache.PostCache, log zerolog.Logger) *Posts {
	return &Posts{store: s, cache: c, log: log}
}

// List handles GET /api/posts: published posts newest first, optionally
// filtered by tag.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultPostPageSize)
	tag := r.URL.Query().Get("tag")

	key := cache.ListKey(page, limit, tag)
	if body, ok := h.cache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	posts, total, err := h.store.ListPublished(page, limit, tag)
	if err != nil {
		h.log.Error().Err(err).Msg("listing posts")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}

	body := listResponse{
		Data:       posts,
		Pagination: models.NewPagination(page, limit, total),
	}
	respondCached(w, r, h.cache, key, http.StatusOK, body)
}

// Detail handles GET /api/posts/{slug}: the full published post.
func (h *Posts) Detail(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	key := cache.DetailKey(slugParam)
	if body, ok := h.cache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	post, err := h.store.FindPublishedBySlug(slugParam)
	if err != nil {
		h.log.Error().Err(err).Str("slug", slugParam).Msg("fetching post")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Post no encontrado",
			fmt.Sprintf("No se encontró un post publicado con el slug: %s", slugParam))
		return
	}

	respondCached(w, r, h.cache, key, http.StatusOK, post)
}

type postCreateRequest struct {
	Title           string  `json:"title" validate:"required,max=300"`
	Excerpt         string  `json:"excerpt" validate:"required,max=1000"`
	Author          string  `json:"author" validate:"required,max=200"`
	Tag             *string `json:"tag"`
	PublishedAt     string  `json:"published_at" validate:"required"`
	HeaderImageURL  string  `json:"header_image_url" validate:"required"`
	ContentHTML     string  `json:"content_html"`
	ContentMarkdown string  `json:"content_markdown"`
	IsPublished     *bool   `json:"is_published"`
}

// Create handles POST /api/posts (admin). Content may be supplied as
// ready HTML or as Markdown; Markdown takes precedence and is rendered
// before storage.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var req postCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !checkStruct(w, &req) {
		return
	}
	if req.ContentHTML == "" && req.ContentMarkdown == "" {
		respondError(w, http.StatusBadRequest, "Campos requeridos faltantes",
			"Debe proporcionar content_html o content_markdown")
		return
	}

	publishedAt, ok := parsePublishedAt(w, req.PublishedAt)
	if !ok {
		return
	}

	content := req.ContentHTML
	if req.ContentMarkdown != "" {
		rendered, err := markdown.ToHTML(req.ContentMarkdown)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Error de validación",
				"No se pudo procesar el contenido Markdown")
			return
		}
		content = rendered
	}

	post := &models.Post{
		Title:          req.Title,
		Excerpt:        req.Excerpt,
		Author:         req.Author,
		Tag:            req.Tag,
		PublishedAt:    publishedAt,
		HeaderImageURL: req.HeaderImageURL,
		ContentHTML:    content,
		IsPublished:    true,
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	created, err := h.store.CreateWithSlug(post)
	if err != nil {
		h.log.Error().Err(err).Str("title", req.Title).Msg("creating post")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}

	h.cache.InvalidateAll(r.Context())
	h.log.Info().
		Stringer("post_id", created.ID).
		Str("slug", created.Slug).
		Str("user_id", actorID(r)).
		Msg("post created")
	respondJSON(w, http.StatusCreated, created)
}

type postUpdateRequest struct {
	Title           *string `json:"title" validate:"omitempty,max=300"`
	Excerpt         *string `json:"excerpt" validate:"omitempty,max=1000"`
	Author          *string `json:"author" validate:"omitempty,max=200"`
	Tag             *string `json:"tag"`
	PublishedAt     *string `json:"published_at"`
	HeaderImageURL  *string `json:"header_image_url"`
	ContentHTML     *string `json:"content_html"`
	ContentMarkdown *string `json:"content_markdown"`
	IsPublished     *bool   `json:"is_published"`
}

// Update handles PUT /api/posts/{id} (admin). Absent fields keep their
// current values. The slug is regenerated only when the title changes.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req postUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !checkStruct(w, &req) {
		return
	}

	post, err := h.store.FindByID(id)
	if err != nil {
		h.log.Error().Err(err).Stringer("post_id", id).Msg("fetching post")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Post no encontrado",
			fmt.Sprintf("No se encontró un post con el ID: %s", id))
		return
	}

	titleChanged := false
	if req.Title != nil && *req.Title != post.Title {
		post.Title = *req.Title
		titleChanged = true
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Author != nil {
		post.Author = *req.Author
	}
	if req.Tag != nil {
		post.Tag = req.Tag
	}
	if req.PublishedAt != nil {
		publishedAt, ok := parsePublishedAt(w, *req.PublishedAt)
		if !ok {
			return
		}
		post.PublishedAt = publishedAt
	}
	if req.HeaderImageURL != nil {
		post.HeaderImageURL = *req.HeaderImageURL
	}
	if req.ContentMarkdown != nil {
		rendered, err := markdown.ToHTML(*req.ContentMarkdown)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Error de validación",
				"No se pudo procesar el contenido Markdown")
			return
		}
		post.ContentHTML = rendered
	} else if req.ContentHTML != nil {
		post.ContentHTML = *req.ContentHTML
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	var updated *models.Post
	if titleChanged {
		updated, err = h.store.UpdateWithSlug(post)
	} else {
		updated, err = h.store.Update(post)
	}
	if err != nil {
		h.log.Error().Err(err).Stringer("post_id", id).Msg("updating post")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Post no encontrado",
			fmt.Sprintf("No se encontró un post con el ID: %s", id))
		return
	}

	h.cache.InvalidateAll(r.Context())
	h.log.Info().
		Stringer("post_id", updated.ID).
		Str("slug", updated.Slug).
		Str("user_id", actorID(r)).
		Msg("post updated")
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/posts/{id} (admin).
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	deleted, err := h.store.Delete(id)
	if err != nil {
		h.log.Error().Err(err).Stringer("post_id", id).Msg("deleting post")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Post no encontrado",
			fmt.Sprintf("No se encontró un post con el ID: %s", id))
		return
	}

	h.cache.InvalidateAll(r.Context())
	h.log.Info().Stringer("post_id", id).Str("user_id", actorID(r)).Msg("post deleted")
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Post eliminado correctamente",
		"id":      id,
	})
}

// respondCached writes body as JSON and stores the exact bytes in the
// cache so the next hit skips the query and the encoding.
func respondCached(w http.ResponseWriter, r *http.Request, pc *cache.PostCache, key string, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	pc.Set(r.Context(), key, data)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

// parsePublishedAt accepts RFC 3339 timestamps and bare dates.
func parsePublishedAt(w http.ResponseWriter, raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	respondError(w, http.StatusBadRequest, "Error de validación",
		"published_at debe ser una fecha válida (RFC 3339 o YYYY-MM-DD)")
	return time.Time{}, false
}

// actorID returns the authenticated caller's ID for audit logs, or ""
// on public routes.
func actorID(r *http.Request) string {
	if claims := middleware.ClaimsFromCtx(r.Context()); claims != nil {
		return claims.UserID.String()
	}
	return ""
}

// claimsOf is a shorthand for fetching the verified claims.
func claimsOf(r *http.Request) *auth.Claims {
	return middleware.ClaimsFromCtx(r.Context())
}
