// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all portal and blog
// entities. Each store struct wraps a *sql.DB and exposes typed query
// methods. Not-found lookups return (nil, nil); constraint violations are
// reported through the sentinel errors below so handlers can map them to
// conflict responses.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors raised when a store-level uniqueness constraint trips.
var (
	ErrSlugTaken            = errors.New("slug already in use")
	ErrEmailTaken           = errors.New("email already in use")
	ErrCodeTaken            = errors.New("product code already in use")
	ErrDuplicateAssociation = errors.New("product already associated with this client")
	ErrUserAlreadyLinked    = errors.New("user already linked to another client")
)

// PostgreSQL error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// isUniqueViolation reports whether err is a unique-constraint violation.
// When constraint is non-empty, the violated constraint must match it.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsForeignKeyViolation reports whether err is a foreign-key violation,
// i.e. a referenced row does not exist.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
