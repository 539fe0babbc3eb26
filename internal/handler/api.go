package handler

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/lifehub/internal/config"
	"github.com/lifehub/internal/locale"
	"github.com/lifehub/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	accounts *service.AccountService
	store    service.DocumentStore
	bridges  *service.BridgeRegistry
	organize service.OrganizationSuggester
	routine  service.RoutineSuggester
	smart    service.SmartSuggester
	extract  service.TransactionExtractor
	checkout service.CheckoutCreator
	markdown *service.MarkdownRenderer
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig) *API {
	store := service.NewGormDocumentStore(gdb)
	ai := service.AISettings{
		Provider:       cfg.AIProvider,
		OpenAIAPIKey:   cfg.OpenAIAPIKey,
		DeepSeekAPIKey: cfg.DeepSeekAPIKey,
	}

	return &API{
		db:       gdb,
		accounts: service.NewAccountService(gdb, store),
		store:    store,
		bridges:  service.NewBridgeRegistry(store, cfg.FlushInterval),
		organize: service.NewAIOrganizeService(ai),
		routine:  service.NewAIRoutineService(ai),
		smart:    service.NewAISmartService(ai),
		extract:  service.NewAIExtractService(ai),
		checkout: service.NewCheckoutService(cfg.StripeSecretKey, cfg.SiteBaseURL),
		markdown: service.NewMarkdownRenderer(),
	}
}

// Bridges exposes the registry so the server can close sessions on
// shutdown.
func (a *API) Bridges() *service.BridgeRegistry {
	return a.bridges
}

const (
	sessionKeyUserID = "user_id"
	sessionKeyEmail  = "email"
)

// sessionUser returns the signed-in user's id and email, if any.
func sessionUser(c *gin.Context) (uint, string, bool) {
	session := sessions.Default(c)
	rawID := session.Get(sessionKeyUserID)
	userID, ok := rawID.(uint)
	if !ok {
		return 0, "", false
	}
	email, _ := session.Get(sessionKeyEmail).(string)
	return userID, email, true
}

// currentBridge returns the caller's session bridge, starting one when the
// process restarted underneath a still-valid cookie.
func (a *API) currentBridge(c *gin.Context) (*service.SessionBridge, bool) {
	userID, email, ok := sessionUser(c)
	if !ok {
		return nil, false
	}
	if bridge, ok := a.bridges.Get(userID); ok {
		return bridge, true
	}
	bridge, err := a.bridges.Acquire(userID, email)
	if err != nil {
		c.Error(err)
		return nil, false
	}
	return bridge, true
}

// requestLanguage picks the language for user-facing messages: the stored
// locale when a session is active, the Accept-Language header otherwise.
func (a *API) requestLanguage(c *gin.Context) string {
	if bridge, ok := a.currentBridge(c); ok {
		if snapshot, loaded := bridge.Snapshot(); loaded {
			if normalized := locale.NormalizeLanguage(snapshot.Locale); normalized != "" {
				return normalized
			}
		}
	}
	if fromHeader := locale.LanguageFromAcceptLanguage(c.GetHeader("Accept-Language")); fromHeader != "" {
		return fromHeader
	}
	return locale.LanguageEnglish
}
