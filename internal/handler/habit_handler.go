package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifehub/internal/domain"
	"github.com/lifehub/internal/locale"
)

type toggleHabitPayload struct {
	Date string `json:"date"`
}

// ToggleHabitCompletion flips the completion mark of a habit for one
// calendar date, defaulting to the server's local date.
func (a *API) ToggleHabitCompletion(c *gin.Context) {
	language := a.requestLanguage(c)
	bridge, ok := a.currentBridge(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.T(language, locale.MsgUnauthorized))
		return
	}

	habitID := c.Param("id")
	snapshot, _ := bridge.Snapshot()
	known := false
	for _, habit := range snapshot.Habits {
		if habit.ID == habitID {
			known = true
			break
		}
	}
	if !known {
		respondError(c, http.StatusNotFound, locale.T(language, locale.MsgHabitNotFound))
		return
	}

	date := domain.DateKey(time.Now().In(time.Local))
	if c.Request.ContentLength > 0 {
		var payload toggleHabitPayload
		if !bindJSON(c, &payload, locale.T(language, locale.MsgInvalidRequest)) {
			return
		}
		if trimmed := strings.TrimSpace(payload.Date); trimmed != "" {
			if _, err := time.Parse(domain.DateKeyFormat, trimmed); err != nil {
				respondError(c, http.StatusBadRequest, locale.T(language, locale.MsgInvalidRequest))
				return
			}
			date = trimmed
		}
	}

	completed := bridge.ToggleHabitCompletion(date, habitID)
	snapshot, _ = bridge.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"date":            date,
		"habitId":         habitID,
		"completed":       completed,
		"completedHabits": snapshot.CompletedHabits,
	})
}

type moodPayload struct {
	Mood string `json:"mood"`
	Date string `json:"date"`
}

// LogMood records the mood for a calendar date, one entry per date.
func (a *API) LogMood(c *gin.Context) {
	language := a.requestLanguage(c)
	bridge, ok := a.currentBridge(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.T(language, locale.MsgUnauthorized))
		return
	}

	var payload moodPayload
	if !bindJSON(c, &payload, locale.T(language, locale.MsgInvalidRequest)) {
		return
	}

	mood := strings.TrimSpace(payload.Mood)
	if mood == "" {
		respondError(c, http.StatusBadRequest, locale.T(language, locale.MsgInvalidRequest))
		return
	}

	date := domain.DateKey(time.Now().In(time.Local))
	if trimmed := strings.TrimSpace(payload.Date); trimmed != "" {
		if _, err := time.Parse(domain.DateKeyFormat, trimmed); err != nil {
			respondError(c, http.StatusBadRequest, locale.T(language, locale.MsgInvalidRequest))
			return
		}
		date = trimmed
	}

	bridge.LogMood(date, mood)
	snapshot, _ := bridge.Snapshot()
	c.JSON(http.StatusOK, gin.H{"date": date, "mood": mood, "moodLogs": snapshot.MoodLogs})
}
