// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Client represents a business client of the portal. UserID links the
// client to a portal account; it is set automatically by matching the
// client's email against user emails, never by the caller.
type Client struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     *string    `json:"email"`
	Phone     *string    `json:"phone"`
	Company   *string    `json:"company"`
	Notes     *string    `json:"notes"`
	UserID    *uuid.UUID `json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AssociationStatus is the lifecycle state of a client–product association.
type AssociationStatus string

const (
	AssociationActive    AssociationStatus = "active"
	AssociationSuspended AssociationStatus = "suspended"
	AssociationEnded     AssociationStatus = "ended"
)

// Valid reports whether the status is one of the known values.
func (s AssociationStatus) Valid() bool {
	return s == AssociationActive || s == AssociationSuspended || s == AssociationEnded
}

// ClientProduct links a client to a contracted product. At most one
// association exists per (client, product) pair.
type ClientProduct struct {
	ID        uuid.UUID         `json:"id"`
	ClientID  uuid.UUID         `json:"client_id"`
	ProductID uuid.UUID         `json:"product_id"`
	Status    AssociationStatus `json:"status"`
	StartDate *time.Time        `json:"start_date"`
	EndDate   *time.Time        `json:"end_date"`
	Notes     *string           `json:"notes"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	// Product is populated by joined queries; nil otherwise.
	Product *Product `json:"product,omitempty"`
}

// ClientWithProducts is a client together with its product associations,
// as returned by the client detail endpoint.
type ClientWithProducts struct {
	Client
	Products []ClientProduct `json:"products"`
}
