package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/lifehub/internal/handler"
)

// SetupRouter configures the Gin engine and the route table.
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("lifehub_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Checkout happens from the public pricing page, before sign-in.
	r.POST("/api/create-checkout-session", api.CreateCheckoutSession)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", api.Register)
		auth.POST("/login", api.Login)
		auth.POST("/logout", api.Logout)
		auth.GET("/me", api.Me)
	}

	app := r.Group("/api")
	app.Use(api.AuthRequired())
	{
		app.GET("/state", api.GetState)
		app.PUT("/state/tasks", api.PutTasks)
		app.PUT("/state/notes", api.PutNotes)
		app.PUT("/state/events", api.PutEvents)
		app.PUT("/state/schedule-items", api.PutScheduleItems)
		app.PUT("/state/transactions", api.PutTransactions)
		app.PUT("/state/habits", api.PutHabits)
		app.PUT("/profile", api.PutProfile)
		app.PUT("/locale", api.PutLocale)
		app.POST("/feedback", api.PostFeedback)

		app.POST("/habits/:id/toggle", api.ToggleHabitCompletion)
		app.POST("/mood", api.LogMood)
		app.GET("/notes/:id/html", api.GetNoteHTML)

		ai := app.Group("/ai")
		{
			ai.POST("/organize", api.SuggestOrganization)
			ai.POST("/routine", api.SuggestRoutine)
			ai.POST("/smart", api.SmartSuggest)
			ai.POST("/extract", api.ExtractTransactions)
		}
	}

	return r
}
