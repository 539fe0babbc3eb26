package service

import (
	"sync"
	"testing"
	"time"

	"github.com/lifehub/internal/domain"
)

// memoryStore is an in-process DocumentStore double that records saves and
// can push remote snapshots to watchers.
type memoryStore struct {
	mu       sync.Mutex
	docs     map[uint]domain.UserData
	saves    map[uint][]domain.UserData
	watchers map[uint][]chan domain.UserData
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		docs:     make(map[uint]domain.UserData),
		saves:    make(map[uint][]domain.UserData),
		watchers: make(map[uint][]chan domain.UserData),
	}
}

func (s *memoryStore) Load(userID uint) (domain.UserData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[userID]
	if !ok {
		return domain.UserData{}, ErrDocumentNotFound
	}
	return doc.Clone(), nil
}

func (s *memoryStore) Save(userID uint, doc domain.UserData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[userID] = doc.Clone()
	s.saves[userID] = append(s.saves[userID], doc.Clone())
	return nil
}

func (s *memoryStore) Watch(userID uint) (<-chan domain.UserData, func()) {
	ch := make(chan domain.UserData, 8)
	s.mu.Lock()
	s.watchers[userID] = append(s.watchers[userID], ch)
	s.mu.Unlock()
	return ch, func() {}
}

// push simulates a remote update reaching the subscription.
func (s *memoryStore) push(userID uint, doc domain.UserData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.watchers[userID] {
		ch <- doc.Clone()
	}
}

func (s *memoryStore) saveCount(userID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saves[userID])
}

func (s *memoryStore) lastSave(userID uint) (domain.UserData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	saves := s.saves[userID]
	if len(saves) == 0 {
		return domain.UserData{}, false
	}
	return saves[len(saves)-1], true
}

func startTestBridge(t *testing.T, store *memoryStore) *SessionBridge {
	t.Helper()
	bridge := NewSessionBridge(store, 1, "ada@example.com")
	bridge.SetFlushInterval(30 * time.Millisecond)
	if err := bridge.Start(); err != nil {
		t.Fatalf("failed to start bridge: %v", err)
	}
	t.Cleanup(bridge.Close)
	return bridge
}

func waitFor(t *testing.T, timeout time.Duration, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestBridgeFirstTimeUserGetsDefaultDocument(t *testing.T) {
	store := newMemoryStore()
	bridge := startTestBridge(t, store)

	snapshot, loaded := bridge.Snapshot()
	if !loaded {
		t.Fatal("expected bridge to be loaded after Start")
	}
	if snapshot.Profile == nil || snapshot.Profile.Email != "ada@example.com" {
		t.Fatalf("expected default profile with email, got %#v", snapshot.Profile)
	}
	if snapshot.Tasks == nil || len(snapshot.Tasks) != 0 {
		t.Fatalf("expected empty task collection, got %#v", snapshot.Tasks)
	}
}

func TestBridgeDefaultsMissingCollections(t *testing.T) {
	store := newMemoryStore()
	store.docs[1] = domain.UserData{Tasks: []domain.Task{{ID: "t1", Title: "Ship release"}}}

	bridge := startTestBridge(t, store)

	snapshot, _ := bridge.Snapshot()
	if len(snapshot.Tasks) != 1 {
		t.Fatalf("expected stored task to survive load, got %d", len(snapshot.Tasks))
	}
	if snapshot.Notes == nil || snapshot.Habits == nil || snapshot.CompletedHabits == nil {
		t.Fatal("expected missing collections to load as empty slices")
	}
	if snapshot.Profile == nil {
		t.Fatal("expected a default profile for a document without one")
	}
}

func TestBridgeDebounceCoalescesWrites(t *testing.T) {
	store := newMemoryStore()
	bridge := startTestBridge(t, store)

	bridge.SetTasks([]domain.Task{{ID: "t1", Title: "one"}})
	bridge.SetTasks([]domain.Task{{ID: "t1", Title: "one"}, {ID: "t2", Title: "two"}})
	bridge.SetLocale("es")
	bridge.SetTasks([]domain.Task{{ID: "t3", Title: "final"}})

	waitFor(t, time.Second, func() bool { return store.saveCount(1) > 0 })
	// Give a straggling second flush the chance to show up before judging.
	time.Sleep(100 * time.Millisecond)

	if got := store.saveCount(1); got != 1 {
		t.Fatalf("expected a single coalesced write, got %d", got)
	}
	saved, _ := store.lastSave(1)
	if len(saved.Tasks) != 1 || saved.Tasks[0].Title != "final" {
		t.Fatalf("expected the final state to be written, got %#v", saved.Tasks)
	}
	if saved.Locale != "es" {
		t.Fatalf("expected locale from the burst to be written, got %q", saved.Locale)
	}
}

func TestBridgeSeparateBurstsWriteSeparately(t *testing.T) {
	store := newMemoryStore()
	bridge := startTestBridge(t, store)

	bridge.SetLocale("es")
	waitFor(t, time.Second, func() bool { return store.saveCount(1) == 1 })

	bridge.SetLocale("en")
	waitFor(t, time.Second, func() bool { return store.saveCount(1) == 2 })
}

func TestBridgeSkipsWriteWithoutProfile(t *testing.T) {
	store := newMemoryStore()
	bridge := startTestBridge(t, store)

	// A remote snapshot without a profile models the startup window where
	// the document has not settled yet.
	store.push(1, domain.UserData{})
	waitFor(t, time.Second, func() bool {
		snapshot, _ := bridge.Snapshot()
		return snapshot.Profile == nil
	})

	bridge.SetLocale("es")
	time.Sleep(120 * time.Millisecond)

	if got := store.saveCount(1); got != 0 {
		t.Fatalf("expected no write while profile is absent, got %d", got)
	}
}

func TestBridgeRemoteSnapshotReplacesLocalState(t *testing.T) {
	store := newMemoryStore()
	bridge := startTestBridge(t, store)

	remote := domain.UserData{
		Profile: &domain.Profile{Email: "ada@example.com"},
		Notes:   []domain.Note{{ID: "n1", Title: "from another tab"}},
	}
	store.push(1, remote)

	waitFor(t, time.Second, func() bool {
		snapshot, _ := bridge.Snapshot()
		return len(snapshot.Notes) == 1 && snapshot.Notes[0].ID == "n1"
	})
}

func TestBridgeCloseClearsWithoutWrite(t *testing.T) {
	store := newMemoryStore()
	bridge := startTestBridge(t, store)

	bridge.SetLocale("es")
	bridge.Close()
	time.Sleep(120 * time.Millisecond)

	if got := store.saveCount(1); got != 0 {
		t.Fatalf("expected logout to cancel the pending write, got %d saves", got)
	}
	snapshot, loaded := bridge.Snapshot()
	if loaded {
		t.Fatal("expected bridge to report unloaded after Close")
	}
	if snapshot.Profile != nil || len(snapshot.Tasks) != 0 {
		t.Fatal("expected local state to be cleared on Close")
	}

	// Mutations after Close must be ignored, not persisted.
	bridge.SetLocale("en")
	time.Sleep(120 * time.Millisecond)
	if got := store.saveCount(1); got != 0 {
		t.Fatalf("expected no write after Close, got %d", got)
	}
}

func TestToggleHabitCompletionIdempotentUnderDoubleToggle(t *testing.T) {
	store := newMemoryStore()
	bridge := startTestBridge(t, store)

	bridge.SetHabits([]domain.Habit{{ID: "h1", Name: "Stretch", Days: domain.AllWeekdays()}})

	if completed := bridge.ToggleHabitCompletion("2026-03-01", "h1"); !completed {
		t.Fatal("first toggle should complete the habit")
	}
	snapshot, _ := bridge.Snapshot()
	if len(snapshot.CompletedHabits) != 1 {
		t.Fatalf("expected one completion mark, got %d", len(snapshot.CompletedHabits))
	}

	if completed := bridge.ToggleHabitCompletion("2026-03-01", "h1"); completed {
		t.Fatal("second toggle should remove the mark")
	}
	snapshot, _ = bridge.Snapshot()
	if len(snapshot.CompletedHabits) != 0 {
		t.Fatalf("expected completion set restored, got %#v", snapshot.CompletedHabits)
	}

	// Repeated completion never duplicates the (date, habit) pair.
	bridge.ToggleHabitCompletion("2026-03-01", "h1")
	bridge.ToggleHabitCompletion("2026-03-02", "h1")
	bridge.ToggleHabitCompletion("2026-03-01", "h1")
	bridge.ToggleHabitCompletion("2026-03-01", "h1")
	snapshot, _ = bridge.Snapshot()
	seen := make(map[string]int)
	for _, mark := range snapshot.CompletedHabits {
		seen[mark.Date+"|"+mark.HabitID]++
	}
	for key, count := range seen {
		if count > 1 {
			t.Fatalf("duplicate completion mark for %s", key)
		}
	}
}

func TestLogMoodReplacesEntryForDate(t *testing.T) {
	store := newMemoryStore()
	bridge := startTestBridge(t, store)

	bridge.LogMood("2026-03-01", "good")
	bridge.LogMood("2026-03-01", "great")
	bridge.LogMood("2026-03-02", "tired")

	snapshot, _ := bridge.Snapshot()
	if len(snapshot.MoodLogs) != 2 {
		t.Fatalf("expected one entry per date, got %#v", snapshot.MoodLogs)
	}
	for _, entry := range snapshot.MoodLogs {
		if entry.Date == "2026-03-01" && entry.Mood != "great" {
			t.Fatalf("expected the later mood to win, got %q", entry.Mood)
		}
	}
}

func TestBridgeRegistrySharesBridgePerUser(t *testing.T) {
	store := newMemoryStore()
	registry := NewBridgeRegistry(store, 30*time.Millisecond)
	defer registry.CloseAll()

	first, err := registry.Acquire(7, "ada@example.com")
	if err != nil {
		t.Fatalf("failed to acquire bridge: %v", err)
	}
	second, err := registry.Acquire(7, "ada@example.com")
	if err != nil {
		t.Fatalf("failed to acquire bridge twice: %v", err)
	}
	if first != second {
		t.Fatal("expected the same bridge for the same user")
	}

	registry.Release(7)
	if _, ok := registry.Get(7); ok {
		t.Fatal("expected bridge to be gone after Release")
	}
}
