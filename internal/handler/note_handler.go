package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifehub/internal/locale"
)

// GetNoteHTML renders one note's markdown content as sanitized HTML.
func (a *API) GetNoteHTML(c *gin.Context) {
	language := a.requestLanguage(c)
	bridge, ok := a.currentBridge(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.T(language, locale.MsgUnauthorized))
		return
	}

	noteID := c.Param("id")
	snapshot, _ := bridge.Snapshot()
	for _, note := range snapshot.Notes {
		if note.ID != noteID {
			continue
		}
		html, err := a.markdown.Render(note.Content)
		if err != nil {
			c.Error(err)
			respondError(c, http.StatusInternalServerError, locale.T(language, locale.MsgNoteNotFound))
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": note.ID, "title": note.Title, "html": html})
		return
	}

	respondError(c, http.StatusNotFound, locale.T(language, locale.MsgNoteNotFound))
}
