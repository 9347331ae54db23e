package routes

import (
	"github.com/dmarins/bingo-live/controllers"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, api *controllers.API) {
	a := r.Group("/api")

	// Users
	a.POST("/users", api.RegisterUser)
	a.GET("/users/:id", api.GetUser)
	a.POST("/presence", api.Heartbeat)
	a.GET("/presence", api.OnlinePlayers)

	// Round
	a.GET("/round", api.GetRound)
	a.POST("/round/start", api.StartRound)
	a.POST("/round/pause", api.PauseRound)
	a.POST("/round/resume", api.ResumeRound)
	a.POST("/round/reset", api.ResetRound)
	a.PATCH("/round/settings", api.UpdateSettings)

	// Cards
	a.POST("/cards", api.BuyCard)
	a.GET("/cards/:player_id", api.GetCards)

	// Admin
	a.POST("/admin/wipe-cards", api.WipePlayerCards)
	a.POST("/admin/balance", api.AdjustBalance)
	a.GET("/admin/audit", api.ListAudit)

	// History
	a.GET("/history", api.ListHistory)
}
