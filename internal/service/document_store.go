package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/lifehub/internal/db"
	"github.com/lifehub/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDocumentNotFound is returned when a user has no document yet.
var ErrDocumentNotFound = errors.New("user document not found")

// DocumentStore is the storage boundary for per-user documents. The
// whole-document overwrite strategy lives behind this interface so the
// backing technology stays swappable.
type DocumentStore interface {
	// Load returns the stored document, ErrDocumentNotFound for new users.
	Load(userID uint) (domain.UserData, error)
	// Save overwrites the user's document with the given snapshot.
	Save(userID uint, doc domain.UserData) error
	// Watch delivers a snapshot to the channel after every save for the
	// user until the returned cancel function is called. Slow consumers
	// miss intermediate snapshots rather than blocking writers.
	Watch(userID uint) (<-chan domain.UserData, func())
}

type watcher struct {
	userID uint
	ch     chan domain.UserData
}

// GormDocumentStore persists one JSON snapshot row per user and fans out
// save notifications to in-process watchers.
type GormDocumentStore struct {
	db *gorm.DB

	mu       sync.Mutex
	watchers map[*watcher]struct{}
}

// NewGormDocumentStore constructs a GormDocumentStore.
func NewGormDocumentStore(gdb *gorm.DB) *GormDocumentStore {
	return &GormDocumentStore{
		db:       gdb,
		watchers: make(map[*watcher]struct{}),
	}
}

// Load reads and decodes the user's document.
func (s *GormDocumentStore) Load(userID uint) (domain.UserData, error) {
	var record db.UserDocument
	if err := s.db.Where("user_id = ?", userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserData{}, ErrDocumentNotFound
		}
		return domain.UserData{}, fmt.Errorf("load document: %w", err)
	}

	var doc domain.UserData
	if len(record.Data) > 0 {
		if err := json.Unmarshal(record.Data, &doc); err != nil {
			return domain.UserData{}, fmt.Errorf("decode document: %w", err)
		}
	}
	return doc, nil
}

// Save encodes and upserts the document, then notifies watchers.
func (s *GormDocumentStore) Save(userID uint, doc domain.UserData) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	record := db.UserDocument{UserID: userID, Data: data}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return fmt.Errorf("save document: %w", err)
	}

	s.notify(userID, doc)
	return nil
}

// Watch registers a snapshot subscriber for the user.
func (s *GormDocumentStore) Watch(userID uint) (<-chan domain.UserData, func()) {
	w := &watcher{userID: userID, ch: make(chan domain.UserData, 1)}

	s.mu.Lock()
	s.watchers[w] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.watchers[w]; ok {
			delete(s.watchers, w)
			close(w.ch)
		}
		s.mu.Unlock()
	}
	return w.ch, cancel
}

func (s *GormDocumentStore) notify(userID uint, doc domain.UserData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for w := range s.watchers {
		if w.userID != userID {
			continue
		}
		// Replace a pending snapshot instead of blocking the writer.
		select {
		case <-w.ch:
		default:
		}
		select {
		case w.ch <- doc.Clone():
		default:
		}
	}
}
