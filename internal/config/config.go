package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// AppConfig gathers everything the server needs from the environment.
type AppConfig struct {
	ListenAddr      string
	Port            string
	DatabasePath    string
	SessionSecret   string
	GinMode         string
	AIProvider      string
	OpenAIAPIKey    string
	DeepSeekAPIKey  string
	StripeSecretKey string
	// SiteBaseURL has no default on purpose: checkout redirects must point
	// at a real deployment, and its absence is a hard error for the
	// checkout endpoint only.
	SiteBaseURL   string
	FlushInterval time.Duration
}

// Load reads the application configuration from environment variables,
// providing safe defaults for anything optional.
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "lifehub.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "lifehub-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	aiProvider := strings.TrimSpace(os.Getenv("AI_PROVIDER"))
	if aiProvider == "" {
		aiProvider = "openai"
	}

	flushInterval := time.Second
	if raw := strings.TrimSpace(os.Getenv("FLUSH_INTERVAL")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			flushInterval = parsed
		}
	}

	return AppConfig{
		ListenAddr:      listenAddr,
		Port:            port,
		DatabasePath:    databasePath,
		SessionSecret:   sessionSecret,
		GinMode:         ginMode,
		AIProvider:      aiProvider,
		OpenAIAPIKey:    strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		DeepSeekAPIKey:  strings.TrimSpace(os.Getenv("DEEPSEEK_API_KEY")),
		StripeSecretKey: strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY")),
		SiteBaseURL:     strings.TrimSpace(os.Getenv("SITE_BASE_URL")),
		FlushInterval:   flushInterval,
	}
}
