package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lifehub/internal/domain"
	"github.com/lifehub/internal/locale"
)

// GetState returns the caller's full document snapshot and whether the
// initial load has completed.
func (a *API) GetState(c *gin.Context) {
	bridge, ok := a.currentBridge(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.T(a.requestLanguage(c), locale.MsgUnauthorized))
		return
	}

	snapshot, loaded := bridge.Snapshot()
	c.JSON(http.StatusOK, gin.H{"loading": !loaded, "state": snapshot})
}

type tasksPayload struct {
	Tasks []domain.Task `json:"tasks"`
}

// PutTasks replaces the task collection.
func (a *API) PutTasks(c *gin.Context) {
	language := a.requestLanguage(c)
	bridge, ok := a.currentBridge(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.T(language, locale.MsgUnauthorized))
		return
	}

	var payload tasksPayload
	if !bindJSON(c, &payload, locale.T(language, locale.MsgInvalidRequest)) {
		return
	}

	tasks := payload.Tasks
	for i := range tasks {
		if strings.TrimSpace(tasks[i].Title) == "" {
			respondError(c, http.StatusBadRequest, locale.T(language, locale.MsgInvalidRequest))
			return
		}
		if tasks[i].Status == "" {
			tasks[i].Status = domain.TaskStatusTodo
		}
		if tasks[i].Priority == "" {
			tasks[i].Priority = domain.TaskPriorityMedium
		}
		if !domain.ValidTaskStatus(tasks[i].Status) || !domain.ValidTaskPriority(tasks[i].Priority) {
			respondError(c, http.StatusBadRequest, locale.T(language, locale.MsgInvalidRequest))
			return
		}
		if tasks[i].ID == "" {
			tasks[i].ID = uuid.NewString()
		}
		if tasks[i].Subtasks == nil {
			tasks[i].Subtasks = []domain.Subtask{}
		}
		for j := range tasks[i].Subtasks {
			if tasks[i].Subtasks[j].ID == "" {
				tasks[i].Subtasks[j].ID = uuid.NewString()
			}
		}
	}

	bridge.SetTasks(tasks)
	snapshot, _ := bridge.Snapshot()
	c.JSON(http.StatusOK, gin.H{"tasks": snapshot.Tasks})
}

type notesPayload struct {
	Notes []domain.Note `json:"notes"`
}

// PutNotes replaces the note collection.
func (a *API) PutNotes(c *gin.Context) {
	language := a.requestLanguage(c)
	bridge, ok := a.currentBridge(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.T(language, locale.MsgUnauthorized))
		return
	}

	var payload notesPayload
	if !bindJSON(c, &payload, locale.T(language, locale.MsgInvalidRequest)) {
		return
	}

	notes := payload.Notes
	now := time.Now().UTC().Format(time.RFC3339)
	for i := range notes {
		if notes[i].ID == "" {
			notes[i].ID = uuid.NewString()
		}
		if notes[i].CreatedAt == "" {
			notes[i].CreatedAt = now
		}
	}

	bridge.SetNotes(notes)
	snapshot, _ := bridge.Snapshot()
	c.JSON(http.StatusOK, gin.H{"notes": snapshot.Notes})
}

type eventsPayload struct {
	Events []domain.Event `json:"events"`
}

// PutEvents replaces the event collection.
func (a *API) PutEvents(c *gin.Context) {
	language := a.requestLanguage(c)
	bridge, ok := a.currentBridge(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.T(language, locale.MsgUnauthorized))
		return
	}

	var payload eventsPayload
	if !bindJSON(c, &payload, locale.T(language, locale.MsgInvalidRequest)) {
		return
	}

	events := payload.Events
	for i := range events {
		if strings.TrimSpace(events[i].Title) == "" || strings.TrimSpace(events[i].Date) == "" {
			respondError(c, http.StatusBadRequest, locale.T(language, locale.MsgInvalidRequest))
			return
		}
		if events[i].ID == "" {
			events[i].ID = uuid.NewString()
		}
		if events[i].Guests == nil {
			events[i].Guests = []string{}
		}
	}

	bridge.SetEvents(events)
	snapshot, _ := bridge.Snapshot()
	c.JSON(http.StatusOK, gin.H{"events": snapshot.Events})
}

type scheduleItemsPayload struct {
	ScheduleItems []domain.ScheduleItem `json:"scheduleItems"`
}

// PutScheduleItems replaces the weekly schedule.
func (a *API) PutScheduleItems(c *gin.Context) {
	language := a.requestLanguage(c)
	bridge, ok := a.currentBridge(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.T(language, locale.MsgUnauthorized))
		return
	}

	var payload scheduleItemsPayload
	if !bindJSON(c, &payload, locale.T(language, locale.MsgInvalidRequest)) {
		return
	}

	items := payload.ScheduleItems
	for i := range items {
		if !domain.ValidWeekday(items[i].DayOfWeek) {
			respondError(c, http.StatusBadRequest, locale.T(language, locale.MsgInvalidRequest))
			return
		}
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}

	bridge.SetScheduleItems(items)
	snapshot, _ := bridge.Snapshot()
	c.JSON(http.StatusOK, gin.H{"scheduleItems": snapshot.ScheduleItems})
}

type transactionsPayload struct {
	Transactions []domain.Transaction `json:"transactions"`
}

// PutTransactions replaces the transaction collection.
func (a *API) PutTransactions(c *gin.Context) {
	language := a.requestLanguage(c)
	bridge, ok := a.currentBridge(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.T(language, locale.MsgUnauthorized))
		return
	}

	var payload transactionsPayload
	if !bindJSON(c, &payload, locale.T(language, locale.MsgInvalidRequest)) {
		return
	}

	transactions := payload.Transactions
	for i := range transactions {
		if !domain.ValidTransactionType(transactions[i].Type) {
			respondError(c, http.StatusBadRequest, locale.T(language, locale.MsgInvalidRequest))
			return
		}
		if transactions[i].ID == "" {
			transactions[i].ID = uuid.NewString()
		}
	}

	bridge.SetTransactions(transactions)
	snapshot, _ := bridge.Snapshot()
	c.JSON(http.StatusOK, gin.H{"transactions": snapshot.Transactions})
}

type habitsPayload struct {
	Habits []domain.Habit `json:"habits"`
}

// PutHabits replaces the habit collection.
func (a *API) PutHabits(c *gin.Context) {
	language := a.requestLanguage(c)
	bridge, ok := a.currentBridge(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.T(language, locale.MsgUnauthorized))
		return
	}

	var payload habitsPayload
	if !bindJSON(c, &payload, locale.T(language, locale.MsgInvalidRequest)) {
		return
	}

	habits := payload.Habits
	for i := range habits {
		if strings.TrimSpace(habits[i].Name) == "" {
			respondError(c, http.StatusBadRequest, locale.T(language, locale.MsgInvalidRequest))
			return
		}
		for _, day := range habits[i].Days {
			if !domain.ValidWeekday(day) {
				respondError(c, http.StatusBadRequest, locale.T(language, locale.MsgInvalidRequest))
				return
			}
		}
		if habits[i].ID == "" {
			habits[i].ID = uuid.NewString()
		}
		if habits[i].Days == nil {
			habits[i].Days = domain.AllWeekdays()
		}
	}

	bridge.SetHabits(habits)
	snapshot, _ := bridge.Snapshot()
	c.JSON(http.StatusOK, gin.H{"habits": snapshot.Habits})
}

type profilePayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// PutProfile replaces the profile record.
func (a *API) PutProfile(c *gin.Context) {
	language := a.requestLanguage(c)
	bridge, ok := a.currentBridge(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.T(language, locale.MsgUnauthorized))
		return
	}

	var payload profilePayload
	if !bindJSON(c, &payload, locale.T(language, locale.MsgInvalidRequest)) {
		return
	}

	profile := domain.Profile{
		FirstName: strings.TrimSpace(payload.FirstName),
		LastName:  strings.TrimSpace(payload.LastName),
		Email:     strings.TrimSpace(payload.Email),
	}
	bridge.SetProfile(profile)
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

type localePayload struct {
	Locale string `json:"locale"`
}

// PutLocale stores the user's language preference.
func (a *API) PutLocale(c *gin.Context) {
	language := a.requestLanguage(c)
	bridge, ok := a.currentBridge(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.T(language, locale.MsgUnauthorized))
		return
	}

	var payload localePayload
	if !bindJSON(c, &payload, locale.T(language, locale.MsgInvalidRequest)) {
		return
	}

	normalized := locale.NormalizeLanguage(payload.Locale)
	if normalized == "" {
		respondError(c, http.StatusBadRequest, locale.T(language, locale.MsgInvalidRequest))
		return
	}

	bridge.SetLocale(normalized)
	c.JSON(http.StatusOK, gin.H{"locale": normalized})
}

type feedbackPayload struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// PostFeedback stores the user's single feedback record.
func (a *API) PostFeedback(c *gin.Context) {
	language := a.requestLanguage(c)
	bridge, ok := a.currentBridge(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.T(language, locale.MsgUnauthorized))
		return
	}

	var payload feedbackPayload
	if !bindJSON(c, &payload, locale.T(language, locale.MsgInvalidRequest)) {
		return
	}
	if payload.Rating < 1 || payload.Rating > 5 {
		respondError(c, http.StatusBadRequest, locale.T(language, locale.MsgInvalidRequest))
		return
	}

	feedback := domain.Feedback{
		Rating:      payload.Rating,
		Comment:     strings.TrimSpace(payload.Comment),
		SubmittedAt: time.Now().UTC().Format(time.RFC3339),
	}
	bridge.SetFeedback(feedback)
	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}
