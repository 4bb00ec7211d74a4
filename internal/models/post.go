// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Post represents a blog article. The slug is derived from the title on
// creation, is unique across all posts, and stays stable across later
// title edits unless the title itself changes.
type Post struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Excerpt        string     `json:"excerpt"`
	Author         string     `json:"author"`
	Tag            *string    `json:"tag"`
	PublishedAt    time.Time  `json:"published_at"`
	HeaderImageURL string     `json:"header_image_url"`
	ContentHTML    string     `json:"content_html,omitempty"`
	IsPublished    bool       `json:"is_published"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// PostSummary is the listing projection of a post: everything except the
// body and bookkeeping timestamps. Returned by the public listing endpoint.
type PostSummary struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Excerpt        string    `json:"excerpt"`
	Author         string    `json:"author"`
	Tag            *string   `json:"tag"`
	PublishedAt    time.Time `json:"published_at"`
	HeaderImageURL string    `json:"header_image_url"`
}
