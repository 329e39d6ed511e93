package store_test

import (
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/boot85/idb/internal/store"
)

func setupTestStore(t *testing.T) *store.CompanionStore {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "companions.sqlite3"))
	if err != nil {
		t.Fatalf("failed to open test registry: %v", err)
	}
	return store.NewCompanionStore(db)
}

func TestCompanionStore_Upsert(t *testing.T) {
	s := setupTestStore(t)

	err := s.Upsert(&store.Companion{UDID: "ABCD", Host: "localhost", Port: 10880, IsLocal: true})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	c, err := s.GetByUDID("ABCD")
	if err != nil {
		t.Fatalf("GetByUDID failed: %v", err)
	}
	if c.Host != "localhost" || c.Port != 10880 {
		t.Errorf("unexpected companion %+v", c)
	}
	if !c.IsLocal {
		t.Error("expected IsLocal")
	}
}

func TestCompanionStore_UpsertReplaces(t *testing.T) {
	s := setupTestStore(t)

	_ = s.Upsert(&store.Companion{UDID: "ABCD", Host: "localhost", Port: 10880, IsLocal: true})
	err := s.Upsert(&store.Companion{UDID: "ABCD", Host: "10.0.0.7", Port: 10881})
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	c, err := s.GetByUDID("ABCD")
	if err != nil {
		t.Fatalf("GetByUDID failed: %v", err)
	}
	if c.Host != "10.0.0.7" || c.Port != 10881 {
		t.Errorf("expected replaced endpoint, got %+v", c)
	}
	if c.IsLocal {
		t.Error("expected IsLocal to be replaced")
	}

	companions, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(companions) != 1 {
		t.Errorf("expected 1 companion, got %d", len(companions))
	}
}

func TestCompanionStore_GetByUDID_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetByUDID("missing")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestCompanionStore_Delete(t *testing.T) {
	s := setupTestStore(t)

	_ = s.Upsert(&store.Companion{UDID: "ABCD", Host: "localhost", Port: 10880})
	if err := s.Delete("ABCD"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.GetByUDID("ABCD"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected entry gone, got %v", err)
	}

	if err := s.Delete("ABCD"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for second delete, got %v", err)
	}
}

func TestCompanionStore_ListOrder(t *testing.T) {
	s := setupTestStore(t)

	_ = s.Upsert(&store.Companion{UDID: "first", Host: "localhost", Port: 1})
	_ = s.Upsert(&store.Companion{UDID: "second", Host: "localhost", Port: 2})

	companions, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(companions) != 2 {
		t.Fatalf("expected 2 companions, got %d", len(companions))
	}
	if companions[0].UDID != "first" {
		t.Errorf("expected oldest first, got %q", companions[0].UDID)
	}
}
