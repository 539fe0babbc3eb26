package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/lifehub/internal/locale"
	"github.com/lifehub/internal/service"
)

type registerPayload struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and signs the new user in.
func (a *API) Register(c *gin.Context) {
	language := a.requestLanguage(c)

	var payload registerPayload
	if !bindJSON(c, &payload, locale.T(language, locale.MsgInvalidRequest)) {
		return
	}

	user, err := a.accounts.Register(payload.Email, payload.Password, payload.FirstName, payload.LastName)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondError(c, http.StatusConflict, locale.T(language, locale.MsgEmailTaken))
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if !a.openSession(c, user.ID, user.Email, language) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
}

// Login authenticates and starts the user's session bridge.
func (a *API) Login(c *gin.Context) {
	language := a.requestLanguage(c)

	var payload loginPayload
	if !bindJSON(c, &payload, locale.T(language, locale.MsgInvalidRequest)) {
		return
	}

	user, err := a.accounts.Authenticate(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, locale.T(language, locale.MsgInvalidCredentials))
			return
		}
		c.Error(err)
		respondError(c, http.StatusInternalServerError, locale.T(language, locale.MsgInvalidCredentials))
		return
	}

	if !a.openSession(c, user.ID, user.Email, language) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "email": user.Email})
}

func (a *API) openSession(c *gin.Context, userID uint, email, language string) bool {
	if _, err := a.bridges.Acquire(userID, email); err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, locale.T(language, locale.MsgStateUnavailable))
		return false
	}

	session := sessions.Default(c)
	session.Set(sessionKeyUserID, userID)
	session.Set(sessionKeyEmail, email)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, locale.T(language, locale.MsgSessionSaveFailed))
		return false
	}
	return true
}

// Logout closes the session bridge, clearing local state without a write,
// and drops the cookie session.
func (a *API) Logout(c *gin.Context) {
	if userID, _, ok := sessionUser(c); ok {
		a.bridges.Release(userID)
	}

	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me reports the signed-in identity.
func (a *API) Me(c *gin.Context) {
	userID, email, ok := sessionUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.T(a.requestLanguage(c), locale.MsgUnauthorized))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": userID, "email": email})
}

// AuthRequired gates the API routes behind an active session.
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := sessionUser(c); !ok {
			respondError(c, http.StatusUnauthorized, locale.T(a.requestLanguage(c), locale.MsgUnauthorized))
			c.Abort()
			return
		}
		c.Next()
	}
}
