package domain

import "time"

// DateKeyFormat is the calendar-date key used by completed habits and mood logs.
const DateKeyFormat = "2006-01-02"

// DateKey formats a point in time as the calendar-date key for that day.
func DateKey(t time.Time) string {
	return t.Format(DateKeyFormat)
}

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

// ValidTaskStatus reports whether the value is one of the known statuses.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// TaskPriority enumerates task priorities.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// ValidTaskPriority reports whether the value is one of the known priorities.
func ValidTaskPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// ValidTransactionType reports whether the value is income or expense.
func ValidTransactionType(t TransactionType) bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Weekday names a day of the week for habits and schedule items.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// AllWeekdays returns the seven weekdays in calendar order.
func AllWeekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// ValidWeekday reports whether the value names a day of the week.
func ValidWeekday(d Weekday) bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// Profile is the per-user identity record, one per document.
type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Subtask is embedded in its parent task and not separately owned.
type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Task is a to-do item with optional due date, project grouping and subtasks.
type Task struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Status   TaskStatus   `json:"status"`
	Priority TaskPriority `json:"priority"`
	DueDate  string       `json:"dueDate,omitempty"`
	Project  string       `json:"project,omitempty"`
	Subtasks []Subtask    `json:"subtasks"`
}

// Note is a free-form markdown note.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// Event is a dated calendar entry.
type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	StartTime   string   `json:"startTime,omitempty"`
	EndTime     string   `json:"endTime,omitempty"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Guests      []string `json:"guests"`
}

// ScheduleItem is a recurring weekly time slot.
type ScheduleItem struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	DayOfWeek Weekday `json:"dayOfWeek"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Location  string  `json:"location,omitempty"`
}

// Transaction records a single income or expense entry.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
}

// Habit is a recurring practice scoped to a subset of weekdays.
type Habit struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Days []Weekday `json:"days"`
}

// CompletedHabit marks a habit done on one calendar date.
// Uniqueness per (Date, HabitID) is maintained by the toggle logic.
type CompletedHabit struct {
	Date    string `json:"date"`
	HabitID string `json:"habitId"`
}

// MoodLog records the mood for one calendar date, one entry per date.
type MoodLog struct {
	Date string `json:"date"`
	Mood string `json:"mood"`
}

// Feedback is the single optional feedback record of a user.
type Feedback struct {
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	SubmittedAt string `json:"submittedAt"`
}

// UserData is the whole per-user document. It is persisted as one JSON
// snapshot; there is no per-entity versioning or partial update.
type UserData struct {
	Profile         *Profile         `json:"profile"`
	Tasks           []Task           `json:"tasks"`
	Notes           []Note           `json:"notes"`
	Events          []Event          `json:"events"`
	ScheduleItems   []ScheduleItem   `json:"scheduleItems"`
	Transactions    []Transaction    `json:"transactions"`
	MoodLogs        []MoodLog        `json:"moodLogs"`
	Habits          []Habit          `json:"habits"`
	CompletedHabits []CompletedHabit `json:"completedHabits"`
	Feedback        *Feedback        `json:"feedback"`
	Locale          string           `json:"locale"`
}

// DefaultProfile builds the profile for a first-time user.
func DefaultProfile(email string) *Profile {
	return &Profile{Email: email}
}

// Normalized returns a copy with every nil collection replaced by an empty
// one and an empty locale defaulted, so loaders never hand out nil slices
// for fields missing from an older document.
func (d UserData) Normalized() UserData {
	out := d
	if out.Tasks == nil {
		out.Tasks = []Task{}
	}
	if out.Notes == nil {
		out.Notes = []Note{}
	}
	if out.Events == nil {
		out.Events = []Event{}
	}
	if out.ScheduleItems == nil {
		out.ScheduleItems = []ScheduleItem{}
	}
	if out.Transactions == nil {
		out.Transactions = []Transaction{}
	}
	if out.MoodLogs == nil {
		out.MoodLogs = []MoodLog{}
	}
	if out.Habits == nil {
		out.Habits = []Habit{}
	}
	if out.CompletedHabits == nil {
		out.CompletedHabits = []CompletedHabit{}
	}
	if out.Locale == "" {
		out.Locale = "en"
	}
	return out
}

// Clone returns a deep copy so callers can hand out snapshots without
// sharing slice backing arrays with the live document.
func (d UserData) Clone() UserData {
	out := d
	if d.Profile != nil {
		profile := *d.Profile
		out.Profile = &profile
	}
	if d.Feedback != nil {
		feedback := *d.Feedback
		out.Feedback = &feedback
	}
	out.Tasks = make([]Task, len(d.Tasks))
	for i, task := range d.Tasks {
		copied := task
		copied.Subtasks = append([]Subtask(nil), task.Subtasks...)
		out.Tasks[i] = copied
	}
	out.Notes = append([]Note(nil), d.Notes...)
	out.Events = make([]Event, len(d.Events))
	for i, event := range d.Events {
		copied := event
		copied.Guests = append([]string(nil), event.Guests...)
		out.Events[i] = copied
	}
	out.ScheduleItems = append([]ScheduleItem(nil), d.ScheduleItems...)
	out.Transactions = append([]Transaction(nil), d.Transactions...)
	out.MoodLogs = append([]MoodLog(nil), d.MoodLogs...)
	out.Habits = make([]Habit, len(d.Habits))
	for i, habit := range d.Habits {
		copied := habit
		copied.Days = append([]Weekday(nil), habit.Days...)
		out.Habits[i] = copied
	}
	out.CompletedHabits = append([]CompletedHabit(nil), d.CompletedHabits...)
	return out
}
