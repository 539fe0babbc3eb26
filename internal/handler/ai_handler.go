package handler

import (
	"bytes"
	"image"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/gin-gonic/gin"
	"github.com/lifehub/internal/domain"
	"github.com/lifehub/internal/locale"
	"github.com/lifehub/internal/service"
)

const maxExtractDocumentBytes = 10 << 20

// SuggestOrganization feeds the user's task and note titles to the model
// and returns its organization suggestions.
func (a *API) SuggestOrganization(c *gin.Context) {
	language := a.requestLanguage(c)
	bridge, ok := a.currentBridge(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.T(language, locale.MsgUnauthorized))
		return
	}

	snapshot, loaded := bridge.Snapshot()
	if !loaded {
		respondError(c, http.StatusServiceUnavailable, locale.T(language, locale.MsgStateUnavailable))
		return
	}

	tasks := make([]string, 0, len(snapshot.Tasks))
	for _, task := range snapshot.Tasks {
		tasks = append(tasks, task.Title)
	}
	notes := make([]string, 0, len(snapshot.Notes))
	for _, note := range snapshot.Notes {
		notes = append(notes, note.Title)
	}

	suggestions, err := a.organize.SuggestOrganization(c.Request.Context(), tasks, notes)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, locale.T(language, locale.MsgSuggestionsFailed))
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

type routinePayload struct {
	Description string `json:"description"`
}

// SuggestRoutine returns a free-text routine suggestion for the user's
// description.
func (a *API) SuggestRoutine(c *gin.Context) {
	language := a.requestLanguage(c)
	if _, ok := a.currentBridge(c); !ok {
		respondError(c, http.StatusUnauthorized, locale.T(language, locale.MsgUnauthorized))
		return
	}

	var payload routinePayload
	if !bindJSON(c, &payload, locale.T(language, locale.MsgInvalidRequest)) {
		return
	}
	if strings.TrimSpace(payload.Description) == "" {
		respondError(c, http.StatusBadRequest, locale.T(language, locale.MsgInvalidRequest))
		return
	}

	suggestion, err := a.routine.SuggestRoutine(c.Request.Context(), payload.Description)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, locale.T(language, locale.MsgRoutineFailed))
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
}

type smartPayload struct {
	Description string `json:"description"`
	// Apply materializes the returned creation requests into the user's
	// collections; the flow itself only proposes.
	Apply bool `json:"apply"`
}

// SmartSuggest returns a suggestion plus optional task/habit/note creation
// requests, materializing them when asked to.
func (a *API) SmartSuggest(c *gin.Context) {
	language := a.requestLanguage(c)
	bridge, ok := a.currentBridge(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.T(language, locale.MsgUnauthorized))
		return
	}

	var payload smartPayload
	if !bindJSON(c, &payload, locale.T(language, locale.MsgInvalidRequest)) {
		return
	}
	if strings.TrimSpace(payload.Description) == "" {
		respondError(c, http.StatusBadRequest, locale.T(language, locale.MsgInvalidRequest))
		return
	}

	suggestion, err := a.smart.Suggest(c.Request.Context(), payload.Description)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, locale.T(language, locale.MsgSmartSuggestFailed))
		return
	}

	tasks := service.MaterializeTasks(suggestion.CreatedTasks)
	habits := service.MaterializeHabits(suggestion.CreatedHabits)
	notes := service.MaterializeNotes(suggestion.CreatedNotes, time.Now())
	if payload.Apply {
		bridge.AppendTasks(tasks)
		bridge.AppendHabits(habits)
		bridge.AppendNotes(notes)
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestion":    suggestion.Suggestion,
		"createdTasks":  tasks,
		"createdHabits": habits,
		"createdNotes":  notes,
		"applied":       payload.Apply,
	})
}

// ExtractTransactions reads an uploaded financial document and returns the
// transactions the model finds in it. A non-financial document yields an
// empty list.
func (a *API) ExtractTransactions(c *gin.Context) {
	language := a.requestLanguage(c)
	bridge, ok := a.currentBridge(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.T(language, locale.MsgUnauthorized))
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		respondError(c, http.StatusBadRequest, locale.T(language, locale.MsgDocumentMissing))
		return
	}
	if fileHeader.Size > maxExtractDocumentBytes {
		respondError(c, http.StatusRequestEntityTooLarge, locale.T(language, locale.MsgDocumentTooLarge))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, locale.T(language, locale.MsgExtractionFailed))
		return
	}
	defer file.Close()

	document, err := io.ReadAll(io.LimitReader(file, maxExtractDocumentBytes+1))
	if err != nil || len(document) == 0 {
		respondError(c, http.StatusBadRequest, locale.T(language, locale.MsgDocumentMissing))
		return
	}
	if len(document) > maxExtractDocumentBytes {
		respondError(c, http.StatusRequestEntityTooLarge, locale.T(language, locale.MsgDocumentTooLarge))
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(document)
	}
	if strings.HasPrefix(mimeType, "image/") {
		// Probe image dimensions so oversized or corrupt uploads show up
		// in the log next to the extraction result.
		if cfg, format, err := image.DecodeConfig(bytes.NewReader(document)); err == nil {
			log.Printf("extract upload: %s %dx%d (%d bytes)", format, cfg.Width, cfg.Height, len(document))
		}
	}

	transactions, err := a.extract.ExtractTransactions(c.Request.Context(), document, mimeType)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, locale.T(language, locale.MsgExtractionFailed))
		return
	}
	if transactions == nil {
		transactions = []domain.Transaction{}
	}

	if strings.EqualFold(c.PostForm("apply"), "true") {
		bridge.AddTransactions(transactions)
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
