package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lifehub/internal/locale"
	"github.com/lifehub/internal/service"
)

type checkoutPayload struct {
	PriceID   string `json:"priceId"`
	UserEmail string `json:"userEmail"`
}

// CreateCheckoutSession creates a hosted checkout session for a
// subscription price. Missing fields are a 400; a missing site base URL or
// provider failure is a 500.
func (a *API) CreateCheckoutSession(c *gin.Context) {
	language := a.requestLanguage(c)

	var payload checkoutPayload
	if !bindJSON(c, &payload, locale.T(language, locale.MsgCheckoutMissingFields)) {
		return
	}

	priceID := strings.TrimSpace(payload.PriceID)
	userEmail := strings.TrimSpace(payload.UserEmail)
	if priceID == "" || userEmail == "" {
		respondError(c, http.StatusBadRequest, locale.T(language, locale.MsgCheckoutMissingFields))
		return
	}

	sessionID, err := a.checkout.CreateSession(c.Request.Context(), priceID, userEmail)
	if err != nil {
		if errors.Is(err, service.ErrCheckoutNotConfigured) {
			respondError(c, http.StatusInternalServerError, locale.T(language, locale.MsgCheckoutNotConfigured))
			return
		}
		c.Error(err)
		respondError(c, http.StatusInternalServerError, locale.T(language, locale.MsgCheckoutFailed))
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID})
}
