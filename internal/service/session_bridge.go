package service

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/lifehub/internal/domain"
)

const defaultFlushInterval = time.Second

// SessionBridge keeps an in-memory mirror of one user's document and
// synchronizes it, in both directions, with the DocumentStore. Local
// mutations are applied synchronously and persisted after a quiet period;
// remote snapshots replace the local collections wholesale. Last writer
// wins at the document level, there is no conflict resolution.
type SessionBridge struct {
	store  DocumentStore
	userID uint
	email  string

	mu            sync.Mutex
	data          domain.UserData
	loaded        bool
	closed        bool
	flushInterval time.Duration
	timer         *time.Timer
	cancelWatch   func()
}

// NewSessionBridge constructs a bridge for one authenticated user. Call
// Start before using it and Close when the session ends.
func NewSessionBridge(store DocumentStore, userID uint, email string) *SessionBridge {
	return &SessionBridge{
		store:         store,
		userID:        userID,
		email:         email,
		flushInterval: defaultFlushInterval,
	}
}

// SetFlushInterval overrides the write debounce quiet period, mainly for
// tests.
func (b *SessionBridge) SetFlushInterval(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if d > 0 {
		b.flushInterval = d
	}
}

// Start loads the initial snapshot, defaulting a fresh document for
// first-time users, and subscribes to remote updates.
func (b *SessionBridge) Start() error {
	doc, err := b.store.Load(b.userID)
	if err != nil {
		if !errors.Is(err, ErrDocumentNotFound) {
			return err
		}
		doc = domain.UserData{Profile: domain.DefaultProfile(b.email)}
	}
	if doc.Profile == nil {
		doc.Profile = domain.DefaultProfile(b.email)
	}

	snapshots, cancel := b.store.Watch(b.userID)

	b.mu.Lock()
	b.data = doc.Normalized()
	b.loaded = true
	b.cancelWatch = cancel
	b.mu.Unlock()

	go b.consumeSnapshots(snapshots)
	return nil
}

func (b *SessionBridge) consumeSnapshots(snapshots <-chan domain.UserData) {
	for snap := range snapshots {
		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			return
		}
		b.data = snap.Normalized()
		b.loaded = true
		b.mu.Unlock()
	}
}

// Snapshot returns a deep copy of the current state and whether the
// initial load has completed.
func (b *SessionBridge) Snapshot() (domain.UserData, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data.Clone(), b.loaded
}

// Close stops the debounce timer, unsubscribes and clears the local
// collections synchronously. The logged-out state is never written back.
func (b *SessionBridge) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	cancel := b.cancelWatch
	b.cancelWatch = nil
	b.data = domain.UserData{}
	b.loaded = false
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// mutate applies fn under the lock and schedules a debounced flush.
func (b *SessionBridge) mutate(fn func(*domain.UserData)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	fn(&b.data)
	b.scheduleFlushLocked()
}

func (b *SessionBridge) scheduleFlushLocked() {
	if !b.loaded {
		return
	}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.flushInterval, b.flush)
}

func (b *SessionBridge) flush() {
	b.mu.Lock()
	b.timer = nil
	// Never clobber a real profile with a transient empty one while the
	// session is still settling.
	if b.closed || !b.loaded || b.data.Profile == nil {
		b.mu.Unlock()
		return
	}
	snapshot := b.data.Clone()
	b.mu.Unlock()

	if err := b.store.Save(b.userID, snapshot); err != nil {
		log.Printf("failed to persist document for user %d: %v", b.userID, err)
	}
}

// SetProfile replaces the profile record.
func (b *SessionBridge) SetProfile(profile domain.Profile) {
	b.mutate(func(d *domain.UserData) {
		d.Profile = &profile
	})
}

// SetLocale replaces the stored locale.
func (b *SessionBridge) SetLocale(localeCode string) {
	b.mutate(func(d *domain.UserData) {
		d.Locale = localeCode
	})
}

// SetFeedback replaces the single feedback record.
func (b *SessionBridge) SetFeedback(feedback domain.Feedback) {
	b.mutate(func(d *domain.UserData) {
		d.Feedback = &feedback
	})
}

// SetTasks replaces the task collection.
func (b *SessionBridge) SetTasks(tasks []domain.Task) {
	b.mutate(func(d *domain.UserData) {
		d.Tasks = tasks
	})
}

// SetNotes replaces the note collection.
func (b *SessionBridge) SetNotes(notes []domain.Note) {
	b.mutate(func(d *domain.UserData) {
		d.Notes = notes
	})
}

// SetEvents replaces the event collection.
func (b *SessionBridge) SetEvents(events []domain.Event) {
	b.mutate(func(d *domain.UserData) {
		d.Events = events
	})
}

// SetScheduleItems replaces the weekly schedule collection.
func (b *SessionBridge) SetScheduleItems(items []domain.ScheduleItem) {
	b.mutate(func(d *domain.UserData) {
		d.ScheduleItems = items
	})
}

// SetTransactions replaces the transaction collection.
func (b *SessionBridge) SetTransactions(transactions []domain.Transaction) {
	b.mutate(func(d *domain.UserData) {
		d.Transactions = transactions
	})
}

// SetHabits replaces the habit collection.
func (b *SessionBridge) SetHabits(habits []domain.Habit) {
	b.mutate(func(d *domain.UserData) {
		d.Habits = habits
	})
}

// AppendTasks adds tasks, used when materializing AI creation requests.
func (b *SessionBridge) AppendTasks(tasks []domain.Task) {
	if len(tasks) == 0 {
		return
	}
	b.mutate(func(d *domain.UserData) {
		d.Tasks = append(d.Tasks, tasks...)
	})
}

// AppendNotes adds notes, used when materializing AI creation requests.
func (b *SessionBridge) AppendNotes(notes []domain.Note) {
	if len(notes) == 0 {
		return
	}
	b.mutate(func(d *domain.UserData) {
		d.Notes = append(d.Notes, notes...)
	})
}

// AppendHabits adds habits, used when materializing AI creation requests.
func (b *SessionBridge) AppendHabits(habits []domain.Habit) {
	if len(habits) == 0 {
		return
	}
	b.mutate(func(d *domain.UserData) {
		d.Habits = append(d.Habits, habits...)
	})
}

// AddTransactions appends extracted transactions to the collection.
func (b *SessionBridge) AddTransactions(transactions []domain.Transaction) {
	if len(transactions) == 0 {
		return
	}
	b.mutate(func(d *domain.UserData) {
		d.Transactions = append(d.Transactions, transactions...)
	})
}

// ToggleHabitCompletion flips the completion mark for (date, habitID) and
// reports whether the habit ended up completed. A (date, habitID) pair is
// never duplicated: toggling twice restores the original set.
func (b *SessionBridge) ToggleHabitCompletion(date, habitID string) bool {
	completed := false
	b.mutate(func(d *domain.UserData) {
		for i, mark := range d.CompletedHabits {
			if mark.Date == date && mark.HabitID == habitID {
				d.CompletedHabits = append(d.CompletedHabits[:i], d.CompletedHabits[i+1:]...)
				return
			}
		}
		d.CompletedHabits = append(d.CompletedHabits, domain.CompletedHabit{Date: date, HabitID: habitID})
		completed = true
	})
	return completed
}

// LogMood records the mood for a calendar date, replacing any existing
// entry for that date.
func (b *SessionBridge) LogMood(date, mood string) {
	b.mutate(func(d *domain.UserData) {
		for i, entry := range d.MoodLogs {
			if entry.Date == date {
				d.MoodLogs[i].Mood = mood
				return
			}
		}
		d.MoodLogs = append(d.MoodLogs, domain.MoodLog{Date: date, Mood: mood})
	})
}
