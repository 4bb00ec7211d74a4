// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"arsysintela/internal/models"
)

func TestProductCreateAndDuplicateCode(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)
	t.Cleanup(func() { cleanProducts(t, db, "TEST-WEB") })

	created, err := s.Create(&models.Product{
		Code:   "TEST-WEB",
		Name:   "Hosting Web",
		Active: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created.Active {
		t.Error("product should be active")
	}

	_, err = s.Create(&models.Product{Code: "TEST-WEB", Name: "Otro", Active: true})
	if !errors.Is(err, ErrCodeTaken) {
		t.Fatalf("duplicate code: got %v, want ErrCodeTaken", err)
	}
}

func TestProductListActiveFilter(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)
	t.Cleanup(func() { cleanProducts(t, db, "TEST-ON", "TEST-OFF") })

	if _, err := s.Create(&models.Product{Code: "TEST-ON", Name: "Activo", Active: true}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create(&models.Product{Code: "TEST-OFF", Name: "Retirado", Active: false}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	inactive := false
	items, total, err := s.List(1, 50, &inactive)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total < 1 {
		t.Errorf("total: got %d, want at least 1", total)
	}
	for _, p := range items {
		if p.Active {
			t.Errorf("active=false filter returned active product %q", p.Code)
		}
	}

	// No filter returns both states.
	_, allTotal, err := s.List(1, 50, nil)
	if err != nil {
		t.Fatalf("List unfiltered: %v", err)
	}
	if allTotal < total {
		t.Errorf("unfiltered total %d should be >= filtered total %d", allTotal, total)
	}
}

func TestProductUpdate(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)
	t.Cleanup(func() { cleanProducts(t, db, "TEST-UPD") })

	created, err := s.Create(&models.Product{Code: "TEST-UPD", Name: "Original", Active: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	created.Name = "Renombrado"
	created.Active = false
	updated, err := s.Update(created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Renombrado" || updated.Active {
		t.Errorf("update not applied: %+v", updated)
	}
}

func TestProductUpdateMissing(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)

	ghost := &models.Product{Code: "TEST-GHOST", Name: "Fantasma", Active: true}
	ghost.ID = uuid.New()
	updated, err := s.Update(ghost)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated != nil {
		t.Error("updating a missing product should yield nil")
	}
}
