// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"arsysintela/internal/models"
)

// ClientStore handles all business-client database operations, including
// the automatic association of clients to portal accounts by email.
type ClientStore struct {
	db *sql.DB
}

// NewClientStore creates a new ClientStore with the given database connection.
func NewClientStore(db *sql.DB) *ClientStore {
	return &ClientStore{db: db}
}

const clientColumns = `id, name, email, phone, company, notes, user_id, created_at, updated_at`

func scanClient(row interface{ Scan(...any) error }) (*models.Client, error) {
	c := &models.Client{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Notes, &c.UserID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns one page of clients ordered by creation date descending,
// plus the total count.
func (s *ClientStore) List(page, limit int) ([]models.Client, int, error) {
	offset := (page - 1) * limit

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM clients`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT `+clientColumns+`
		FROM clients
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Notes, &c.UserID,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, total, rows.Err()
}

// FindByID retrieves a client by its UUID. Returns nil if not found.
func (s *ClientStore) FindByID(id uuid.UUID) (*models.Client, error) {
	c, err := scanClient(s.db.QueryRow(`
		SELECT `+clientColumns+`
		FROM clients WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find client by id: %w", err)
	}
	return c, nil
}

// FindByUserID retrieves the client associated with a portal account.
// Returns nil if the account has no client record.
func (s *ClientStore) FindByUserID(userID uuid.UUID) (*models.Client, error) {
	c, err := scanClient(s.db.QueryRow(`
		SELECT `+clientColumns+`
		FROM clients WHERE user_id = $1
	`, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find client by user id: %w", err)
	}
	return c, nil
}

// Create inserts a new client. When an email is supplied, the client is
// automatically linked to the portal account with the same email, unless
// that account is already held by another client. Callers never set
// UserID themselves.
func (s *ClientStore) Create(c *models.Client) (*models.Client, error) {
	userID, err := s.matchUserID(c.Email, nil)
	if err != nil {
		return nil, err
	}

	created, err := scanClient(s.db.QueryRow(`
		INSERT INTO clients (name, email, phone, company, notes, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+clientColumns+`
	`, c.Name, c.Email, c.Phone, c.Company, c.Notes, userID))
	if err != nil {
		if isUniqueViolation(err, "idx_clients_user_id") {
			return nil, ErrUserAlreadyLinked
		}
		return nil, fmt.Errorf("create client: %w", err)
	}
	return created, nil
}

// Update modifies an existing client and re-runs the email association:
// a changed email can link the client to a different account or detach
// it entirely.
func (s *ClientStore) Update(c *models.Client) (*models.Client, error) {
	userID, err := s.matchUserID(c.Email, &c.ID)
	if err != nil {
		return nil, err
	}

	updated, err := scanClient(s.db.QueryRow(`
		UPDATE clients SET
			name = $1, email = $2, phone = $3, company = $4, notes = $5,
			user_id = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+clientColumns+`
	`, c.Name, c.Email, c.Phone, c.Company, c.Notes, userID, c.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if isUniqueViolation(err, "idx_clients_user_id") {
			return nil, ErrUserAlreadyLinked
		}
		return nil, fmt.Errorf("update client: %w", err)
	}
	return updated, nil
}

// Delete removes a client by ID.
func (s *ClientStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

// matchUserID finds the portal account whose email matches the client's
// email (case-insensitive). An account already linked to a different
// client is skipped, keeping the one-client-per-account invariant; the
// partial unique index on user_id is the backstop for races.
func (s *ClientStore) matchUserID(email *string, excludeClient *uuid.UUID) (*uuid.UUID, error) {
	if email == nil || *email == "" {
		return nil, nil
	}

	var userID uuid.UUID
	err := s.db.QueryRow(`
		SELECT id FROM users WHERE LOWER(email) = LOWER($1)
	`, *email).Scan(&userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("match user by email: %w", err)
	}

	var linked bool
	err = s.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM clients
			WHERE user_id = $1 AND ($2::uuid IS NULL OR id <> $2)
		)
	`, userID, excludeClient).Scan(&linked)
	if err != nil {
		return nil, fmt.Errorf("check user link: %w", err)
	}
	if linked {
		return nil, nil
	}

	return &userID, nil
}
