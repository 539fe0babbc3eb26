package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/lifehub/internal/config"
	"github.com/lifehub/internal/db"
	"github.com/lifehub/internal/handler"
	"github.com/lifehub/internal/router"
)

func main() {
	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	api := handler.NewAPI(db.DB, cfg)
	defer api.Bridges().CloseAll()

	r := router.SetupRouter(api, cfg.SessionSecret)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
