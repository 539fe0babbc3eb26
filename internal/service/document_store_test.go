package service

import (
	"errors"
	"testing"
	"time"

	"github.com/lifehub/internal/db"
	"github.com/lifehub/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupStoreTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.UserDocument{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestGormDocumentStoreLoadNotFound(t *testing.T) {
	gdb, cleanup := setupStoreTestDB(t)
	defer cleanup()

	store := NewGormDocumentStore(gdb)
	if _, err := store.Load(42); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestGormDocumentStoreSaveAndLoad(t *testing.T) {
	gdb, cleanup := setupStoreTestDB(t)
	defer cleanup()

	store := NewGormDocumentStore(gdb)
	doc := domain.UserData{
		Profile: &domain.Profile{FirstName: "Ada", Email: "ada@example.com"},
		Tasks:   []domain.Task{{ID: "t1", Title: "Ship", Status: domain.TaskStatusTodo, Priority: domain.TaskPriorityHigh}},
		Locale:  "en",
	}.Normalized()

	if err := store.Save(1, doc); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := store.Load(1)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Profile == nil || loaded.Profile.FirstName != "Ada" {
		t.Fatalf("unexpected profile %#v", loaded.Profile)
	}
	if len(loaded.Tasks) != 1 || loaded.Tasks[0].Title != "Ship" {
		t.Fatalf("unexpected tasks %#v", loaded.Tasks)
	}
}

func TestGormDocumentStoreSaveOverwrites(t *testing.T) {
	gdb, cleanup := setupStoreTestDB(t)
	defer cleanup()

	store := NewGormDocumentStore(gdb)
	first := domain.UserData{
		Profile: &domain.Profile{Email: "ada@example.com"},
		Notes:   []domain.Note{{ID: "n1", Title: "old"}},
	}.Normalized()
	if err := store.Save(1, first); err != nil {
		t.Fatalf("first Save returned error: %v", err)
	}

	second := first.Clone()
	second.Notes = []domain.Note{{ID: "n2", Title: "new"}}
	if err := store.Save(1, second); err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}

	loaded, err := store.Load(1)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loaded.Notes) != 1 || loaded.Notes[0].ID != "n2" {
		t.Fatalf("expected whole-document overwrite, got %#v", loaded.Notes)
	}

	var count int64
	if err := gdb.Model(&db.UserDocument{}).Where("user_id = ?", 1).Count(&count).Error; err != nil {
		t.Fatalf("failed to count documents: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one document row per user, got %d", count)
	}
}

func TestGormDocumentStoreWatchDeliversSnapshots(t *testing.T) {
	gdb, cleanup := setupStoreTestDB(t)
	defer cleanup()

	store := NewGormDocumentStore(gdb)
	snapshots, cancel := store.Watch(1)
	defer cancel()

	other, cancelOther := store.Watch(2)
	defer cancelOther()

	doc := domain.UserData{Profile: &domain.Profile{Email: "ada@example.com"}}.Normalized()
	if err := store.Save(1, doc); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	select {
	case snap := <-snapshots:
		if snap.Profile == nil || snap.Profile.Email != "ada@example.com" {
			t.Fatalf("unexpected snapshot %#v", snap.Profile)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}

	select {
	case snap := <-other:
		t.Fatalf("watcher for another user received a snapshot: %#v", snap)
	default:
	}
}

func TestGormDocumentStoreWatchCancelClosesChannel(t *testing.T) {
	gdb, cleanup := setupStoreTestDB(t)
	defer cleanup()

	store := NewGormDocumentStore(gdb)
	snapshots, cancel := store.Watch(1)
	cancel()
	// A second cancel must be safe.
	cancel()

	if _, ok := <-snapshots; ok {
		t.Fatal("expected channel to be closed after cancel")
	}

	doc := domain.UserData{Profile: &domain.Profile{Email: "ada@example.com"}}.Normalized()
	if err := store.Save(1, doc); err != nil {
		t.Fatalf("Save after cancel returned error: %v", err)
	}
}
