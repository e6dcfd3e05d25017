package patient

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/errors"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/types"
)

func testPatient(lastname, firstname, birthday string) *Patient {
	now := time.Now().UTC()
	return &Patient{
		ID:        types.NewID(),
		Lastname:  lastname,
		Firstname: firstname,
		Birthday:  birthday,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestJSONStorePersistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store := NewJSONStore(dir, zerolog.Nop())
	p := testPatient("Santos", "Maria", "1985-03-15")
	if err := store.Insert(ctx, p); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// A new store over the same directory sees the record
	reopened := NewJSONStore(dir, zerolog.Nop())
	records, err := reopened.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].ID != p.ID {
		t.Errorf("Expected ID '%s', got '%s'", p.ID, records[0].ID)
	}
}

func TestJSONStoreEmptyDir(t *testing.T) {
	store := NewJSONStore(t.TempDir(), zerolog.Nop())

	records, err := store.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected empty collection, got %d records", len(records))
	}
}

func TestJSONStoreInsertDuplicate(t *testing.T) {
	store := NewJSONStore(t.TempDir(), zerolog.Nop())
	ctx := context.Background()

	if err := store.Insert(ctx, testPatient("Santos", "Maria", "1985-03-15")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	err := store.Insert(ctx, testPatient("santos", "MARIA", "1985-03-15"))
	if err == nil {
		t.Fatal("Expected a duplicate error, got nil")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != "DUPLICATE_RECORD" {
		t.Errorf("Expected DUPLICATE_RECORD error, got %v", err)
	}
}

func TestJSONStoreFindByID(t *testing.T) {
	store := NewJSONStore(t.TempDir(), zerolog.Nop())
	ctx := context.Background()

	p := testPatient("Garcia", "Juan", "1990-07-22")
	if err := store.Insert(ctx, p); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	found, err := store.FindByID(ctx, p.ID.String())
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Lastname != "Garcia" {
		t.Errorf("Expected lastname 'Garcia', got '%s'", found.Lastname)
	}

	_, err = store.FindByID(ctx, types.NewID().String())
	if err == nil {
		t.Error("Expected not found for unknown ID, got nil")
	}
}

func TestJSONStoreUpdate(t *testing.T) {
	store := NewJSONStore(t.TempDir(), zerolog.Nop())
	ctx := context.Background()

	p := testPatient("Reyes", "Ana", "1978-11-08")
	if err := store.Insert(ctx, p); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	p.Address = "321 Aguinaldo Hwy., Dasmarinas, Cavite"
	if err := store.Update(ctx, p); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	found, err := store.FindByID(ctx, p.ID.String())
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Address != p.Address {
		t.Errorf("Expected updated address, got '%s'", found.Address)
	}

	unknown := testPatient("Nobody", "Here", "2000-01-01")
	if err := store.Update(ctx, unknown); err == nil {
		t.Error("Expected not found updating an unknown record, got nil")
	}
}
