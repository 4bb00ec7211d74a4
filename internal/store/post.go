// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"arsysintela/internal/models"
	"arsysintela/internal/slug"
)

const (
	// maxSlugCounter bounds the base, base-1, base-2, … probe sequence.
	// Past this many collisions a random suffix is used instead.
	maxSlugCounter = 50

	// maxCommitAttempts bounds the resolve-then-insert passes when a
	// concurrent writer claims the resolved slug before we commit.
	maxCommitAttempts = 3
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, slug, excerpt, author, tag, published_at,
	       header_image_url, content_html, is_published, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Author, &p.Tag, &p.PublishedAt,
		&p.HeaderImageURL, &p.ContentHTML, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPublished returns one page of published posts (listing projection,
// no body) ordered by publish time descending, plus the total count of
// published posts matching the optional tag filter.
func (s *PostStore) ListPublished(page, limit int, tag string) ([]models.PostSummary, int, error) {
	offset := (page - 1) * limit

	var total int
	countErr := s.db.QueryRow(`
		SELECT COUNT(*) FROM posts
		WHERE is_published AND ($1 = '' OR tag = $1)
	`, tag).Scan(&total)
	if countErr != nil {
		return nil, 0, fmt.Errorf("count published posts: %w", countErr)
	}

	rows, err := s.db.Query(`
		SELECT id, title, slug, excerpt, author, tag, published_at, header_image_url
		FROM posts
		WHERE is_published AND ($1 = '' OR tag = $1)
		ORDER BY published_at DESC
		LIMIT $2 OFFSET $3
	`, tag, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	var items []models.PostSummary
	for rows.Next() {
		var p models.PostSummary
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Author, &p.Tag,
			&p.PublishedAt, &p.HeaderImageURL,
		); err != nil {
			return nil, 0, fmt.Errorf("scan post summary: %w", err)
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

// FindPublishedBySlug retrieves a published post by its slug.
// Returns nil if not found. Used by the public detail endpoint.
func (s *PostStore) FindPublishedBySlug(slugParam string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts WHERE slug = $1 AND is_published
	`, slugParam))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// FindByID retrieves a post by its UUID regardless of publish state.
// Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// SlugTaken reports whether any post other than exclude already owns the
// given slug. Pass exclude = nil when creating a new post.
func (s *PostStore) SlugTaken(candidate string, exclude *uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM posts
			WHERE slug = $1 AND ($2::uuid IS NULL OR id <> $2)
		)
	`, candidate, exclude).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return taken, nil
}

// ResolveSlug derives a slug from the title and probes the store until an
// unused candidate is found: base, base-1, base-2, … When a post is being
// renamed, pass its ID as exclude so its own slug does not count as a
// collision. The probe sequence is capped; past the cap a random suffix
// guarantees termination.
func (s *PostStore) ResolveSlug(title string, exclude *uuid.UUID) (string, error) {
	base := slug.Make(title)
	if base == "" {
		// Title had no alphanumeric characters at all.
		base = "post"
	}

	candidate := base
	for n := 1; n <= maxSlugCounter; n++ {
		taken, err := s.SlugTaken(candidate, exclude)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}

	return randomSlug(base), nil
}

// randomSlug appends a short random suffix, the termination fallback for
// pathological inputs where the whole counter range is taken.
func randomSlug(base string) string {
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
}

// Create inserts a new post. The slug must already be set; a concurrent
// claim of the same slug surfaces as ErrSlugTaken.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	created, err := scanPost(s.db.QueryRow(`
		INSERT INTO posts (title, slug, excerpt, author, tag, published_at,
		                   header_image_url, content_html, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+postColumns+`
	`, p.Title, p.Slug, p.Excerpt, p.Author, p.Tag, p.PublishedAt,
		p.HeaderImageURL, p.ContentHTML, p.IsPublished))
	if err != nil {
		if isUniqueViolation(err, "posts_slug_key") {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// CreateWithSlug resolves a unique slug for the post's title and inserts
// the post. Two concurrent requests can both resolve the same candidate;
// the slug unique constraint is the backstop, and a constraint failure at
// commit time loops back into resolution rather than failing the request.
func (s *PostStore) CreateWithSlug(p *models.Post) (*models.Post, error) {
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		resolved, err := s.ResolveSlug(p.Title, nil)
		if err != nil {
			return nil, err
		}
		p.Slug = resolved

		created, err := s.Create(p)
		if errors.Is(err, ErrSlugTaken) {
			continue
		}
		return created, err
	}

	// Heavily contended title: a random suffix ends the race.
	p.Slug = randomSlug(slug.Make(p.Title))
	return s.Create(p)
}

// Update modifies an existing post. The caller is responsible for slug
// handling; a slug claimed concurrently surfaces as ErrSlugTaken.
func (s *PostStore) Update(p *models.Post) (*models.Post, error) {
	updated, err := scanPost(s.db.QueryRow(`
		UPDATE posts SET
			title = $1, slug = $2, excerpt = $3, author = $4, tag = $5,
			published_at = $6, header_image_url = $7, content_html = $8,
			is_published = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING `+postColumns+`
	`, p.Title, p.Slug, p.Excerpt, p.Author, p.Tag, p.PublishedAt,
		p.HeaderImageURL, p.ContentHTML, p.IsPublished, p.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if isUniqueViolation(err, "posts_slug_key") {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return updated, nil
}

// UpdateWithSlug re-resolves the slug from the (changed) title, excluding
// the post itself from the collision check, and applies the update. Like
// CreateWithSlug it retries through commit-time slug races.
func (s *PostStore) UpdateWithSlug(p *models.Post) (*models.Post, error) {
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		resolved, err := s.ResolveSlug(p.Title, &p.ID)
		if err != nil {
			return nil, err
		}
		p.Slug = resolved

		updated, err := s.Update(p)
		if errors.Is(err, ErrSlugTaken) {
			continue
		}
		return updated, err
	}

	p.Slug = randomSlug(slug.Make(p.Title))
	return s.Update(p)
}

// Delete removes a post by ID. Returns false if no post had that ID.
func (s *PostStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post rows: %w", err)
	}
	return n > 0, nil
}
