// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"arsysintela/internal/models"
)

// associationFixture creates a client and a product and registers their
// cleanup. Associations are removed by the cascading foreign keys.
func associationFixture(t *testing.T, db *sql.DB, clientName, productCode string) (*models.Client, *models.Product) {
	t.Helper()
	t.Cleanup(func() {
		cleanClients(t, db, clientName)
		cleanProducts(t, db, productCode)
	})

	client, err := NewClientStore(db).Create(&models.Client{Name: clientName})
	if err != nil {
		t.Fatalf("create fixture client: %v", err)
	}
	product, err := NewProductStore(db).Create(&models.Product{
		Code:   productCode,
		Name:   "Producto de Prueba",
		Active: true,
	})
	if err != nil {
		t.Fatalf("create fixture product: %v", err)
	}
	return client, product
}

func TestClientProductCreateAndDuplicate(t *testing.T) {
	db := testDB(t)
	s := NewClientProductStore(db)
	client, product := associationFixture(t, db, "Asociación Cliente", "TEST-ASSOC")

	created, err := s.Create(&models.ClientProduct{
		ClientID:  client.ID,
		ProductID: product.ID,
		Status:    models.AssociationActive,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Product == nil || created.Product.Code != "TEST-ASSOC" {
		t.Error("created association should carry the joined product")
	}

	_, err = s.Create(&models.ClientProduct{
		ClientID:  client.ID,
		ProductID: product.ID,
		Status:    models.AssociationActive,
	})
	if !errors.Is(err, ErrDuplicateAssociation) {
		t.Fatalf("duplicate pair: got %v, want ErrDuplicateAssociation", err)
	}
}

func TestClientProductUpdateLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewClientProductStore(db)
	client, product := associationFixture(t, db, "Ciclo de Vida", "TEST-LIFE")

	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	created, err := s.Create(&models.ClientProduct{
		ClientID:  client.ID,
		ProductID: product.ID,
		Status:    models.AssociationActive,
		StartDate: &start,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	created.Status = models.AssociationEnded
	created.EndDate = &end
	updated, err := s.Update(created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != models.AssociationEnded {
		t.Errorf("status: got %q, want ended", updated.Status)
	}
	if updated.EndDate == nil || !updated.EndDate.Equal(end) {
		t.Errorf("end date: got %v, want %v", updated.EndDate, end)
	}
}

func TestClientProductUpdateMissing(t *testing.T) {
	db := testDB(t)
	s := NewClientProductStore(db)

	updated, err := s.Update(&models.ClientProduct{
		ID:     uuid.New(),
		Status: models.AssociationActive,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated != nil {
		t.Error("updating a missing association should yield nil")
	}
}

func TestClientProductListByClient(t *testing.T) {
	db := testDB(t)
	s := NewClientProductStore(db)
	client, product := associationFixture(t, db, "Listado Asociaciones", "TEST-LIST")

	if _, err := s.Create(&models.ClientProduct{
		ClientID:  client.ID,
		ProductID: product.ID,
		Status:    models.AssociationActive,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	items, err := s.ListByClient(client.ID)
	if err != nil {
		t.Fatalf("ListByClient: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d associations, want 1", len(items))
	}
	if items[0].Product == nil || items[0].Product.ID != product.ID {
		t.Error("listing should join the product")
	}
}

func TestClientProductDeleteAndCascade(t *testing.T) {
	db := testDB(t)
	s := NewClientProductStore(db)
	client, product := associationFixture(t, db, "Cascada", "TEST-CASCADE")

	created, err := s.Create(&models.ClientProduct{
		ClientID:  client.ID,
		ProductID: product.ID,
		Status:    models.AssociationActive,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	deleted, err := s.Delete(created.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Error("existing association should report deleted")
	}

	// Deleting the client removes its remaining associations.
	if _, err := s.Create(&models.ClientProduct{
		ClientID:  client.ID,
		ProductID: product.ID,
		Status:    models.AssociationActive,
	}); err != nil {
		t.Fatalf("Create second association: %v", err)
	}
	if err := NewClientStore(db).Delete(client.ID); err != nil {
		t.Fatalf("delete client: %v", err)
	}
	remaining, err := s.ListByClient(client.ID)
	if err != nil {
		t.Fatalf("ListByClient after cascade: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("cascade should remove associations, %d left", len(remaining))
	}
}

func TestClientProductRejectsUnknownStatus(t *testing.T) {
	db := testDB(t)
	s := NewClientProductStore(db)
	client, product := associationFixture(t, db, "Estado Raro", "TEST-STATUS")

	if _, err := s.Create(&models.ClientProduct{
		ClientID:  client.ID,
		ProductID: product.ID,
		Status:    models.AssociationStatus("cancelled"),
	}); err == nil {
		t.Fatal("unknown status should be rejected on create")
	}

	created, err := s.Create(&models.ClientProduct{
		ClientID:  client.ID,
		ProductID: product.ID,
		Status:    models.AssociationActive,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	created.Status = models.AssociationStatus("cancelled")
	if _, err := s.Update(created); err == nil {
		t.Fatal("unknown status should be rejected on update")
	}
}

func TestClientProductCreateMissingTargets(t *testing.T) {
	db := testDB(t)
	s := NewClientProductStore(db)

	// Neither row exists; the foreign keys veto the insert.
	_, err := s.Create(&models.ClientProduct{
		ClientID:  uuid.New(),
		ProductID: uuid.New(),
		Status:    models.AssociationActive,
	})
	if err == nil {
		t.Fatal("missing client and product should fail the insert")
	}
	if !IsForeignKeyViolation(err) {
		t.Errorf("expected a foreign-key violation, got %v", err)
	}
}
