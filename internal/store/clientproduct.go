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

// ClientProductStore handles the client–product association table.
type ClientProductStore struct {
	db *sql.DB
}

// NewClientProductStore creates a new ClientProductStore with the given
// database connection.
func NewClientProductStore(db *sql.DB) *ClientProductStore {
	return &ClientProductStore{db: db}
}

const clientProductColumns = `cp.id, cp.client_id, cp.product_id, cp.status,
	       cp.start_date, cp.end_date, cp.notes, cp.created_at, cp.updated_at`

func scanClientProduct(row interface{ Scan(...any) error }) (*models.ClientProduct, error) {
	cp := &models.ClientProduct{Product: &models.Product{}}
	err := row.Scan(
		&cp.ID, &cp.ClientID, &cp.ProductID, &cp.Status,
		&cp.StartDate, &cp.EndDate, &cp.Notes, &cp.CreatedAt, &cp.UpdatedAt,
		&cp.Product.ID, &cp.Product.Code, &cp.Product.Name, &cp.Product.Description,
		&cp.Product.Active, &cp.Product.CreatedAt, &cp.Product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return cp, nil
}

// ListByClient returns all of a client's product associations with the
// product joined in, newest association first.
func (s *ClientProductStore) ListByClient(clientID uuid.UUID) ([]models.ClientProduct, error) {
	rows, err := s.db.Query(`
		SELECT `+clientProductColumns+`,
		       p.id, p.code, p.name, p.description, p.active, p.created_at, p.updated_at
		FROM client_products cp
		JOIN products p ON p.id = cp.product_id
		WHERE cp.client_id = $1
		ORDER BY cp.created_at DESC
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list client products: %w", err)
	}
	defer rows.Close()

	var items []models.ClientProduct
	for rows.Next() {
		cp, err := scanClientProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client product: %w", err)
		}
		items = append(items, *cp)
	}
	return items, rows.Err()
}

// FindByID retrieves an association with its product joined in.
// Returns nil if not found.
func (s *ClientProductStore) FindByID(id uuid.UUID) (*models.ClientProduct, error) {
	cp, err := scanClientProduct(s.db.QueryRow(`
		SELECT `+clientProductColumns+`,
		       p.id, p.code, p.name, p.description, p.active, p.created_at, p.updated_at
		FROM client_products cp
		JOIN products p ON p.id = cp.product_id
		WHERE cp.id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find client product by id: %w", err)
	}
	return cp, nil
}

// Create inserts a new association. A second association for the same
// (client, product) pair surfaces as ErrDuplicateAssociation.
func (s *ClientProductStore) Create(cp *models.ClientProduct) (*models.ClientProduct, error) {
	if !cp.Status.Valid() {
		return nil, fmt.Errorf("invalid association status %q", cp.Status)
	}

	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO client_products (client_id, product_id, status, start_date, end_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, cp.ClientID, cp.ProductID, cp.Status, cp.StartDate, cp.EndDate, cp.Notes).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "client_products_client_id_product_id_key") {
			return nil, ErrDuplicateAssociation
		}
		return nil, fmt.Errorf("create client product: %w", err)
	}
	return s.FindByID(id)
}

// Update modifies an existing association. Returns nil if the ID is absent.
func (s *ClientProductStore) Update(cp *models.ClientProduct) (*models.ClientProduct, error) {
	if !cp.Status.Valid() {
		return nil, fmt.Errorf("invalid association status %q", cp.Status)
	}

	res, err := s.db.Exec(`
		UPDATE client_products SET
			status = $1, start_date = $2, end_date = $3, notes = $4, updated_at = NOW()
		WHERE id = $5
	`, cp.Status, cp.StartDate, cp.EndDate, cp.Notes, cp.ID)
	if err != nil {
		return nil, fmt.Errorf("update client product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update client product rows: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return s.FindByID(cp.ID)
}

// Delete removes an association by ID. Returns false if no row had that ID.
func (s *ClientProductStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM client_products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete client product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete client product rows: %w", err)
	}
	return n > 0, nil
}
