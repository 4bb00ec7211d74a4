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

// ProductStore handles all product-related database operations.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore creates a new ProductStore with the given database connection.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, code, name, description, active, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.Active,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns one page of products ordered by creation date descending,
// plus the total count. A non-nil active filters by the active flag.
func (s *ProductStore) List(page, limit int, active *bool) ([]models.Product, int, error) {
	offset := (page - 1) * limit

	var total int
	countErr := s.db.QueryRow(`
		SELECT COUNT(*) FROM products
		WHERE $1::boolean IS NULL OR active = $1
	`, active).Scan(&total)
	if countErr != nil {
		return nil, 0, fmt.Errorf("count products: %w", countErr)
	}

	rows, err := s.db.Query(`
		SELECT `+productColumns+`
		FROM products
		WHERE $1::boolean IS NULL OR active = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, active, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.Code, &p.Name, &p.Description, &p.Active,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

// FindByID retrieves a product by its UUID. Returns nil if not found.
func (s *ProductStore) FindByID(id uuid.UUID) (*models.Product, error) {
	p, err := scanProduct(s.db.QueryRow(`
		SELECT `+productColumns+`
		FROM products WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return p, nil
}

// Create inserts a new product. A duplicate code surfaces as ErrCodeTaken.
func (s *ProductStore) Create(p *models.Product) (*models.Product, error) {
	created, err := scanProduct(s.db.QueryRow(`
		INSERT INTO products (code, name, description, active)
		VALUES ($1, $2, $3, $4)
		RETURNING `+productColumns+`
	`, p.Code, p.Name, p.Description, p.Active))
	if err != nil {
		if isUniqueViolation(err, "products_code_key") {
			return nil, ErrCodeTaken
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

// Update modifies an existing product. Returns nil if the ID is absent.
func (s *ProductStore) Update(p *models.Product) (*models.Product, error) {
	updated, err := scanProduct(s.db.QueryRow(`
		UPDATE products SET
			code = $1, name = $2, description = $3, active = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+productColumns+`
	`, p.Code, p.Name, p.Description, p.Active, p.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if isUniqueViolation(err, "products_code_key") {
			return nil, ErrCodeTaken
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}
