package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connectfour/internal/transport/http/middleware"
)

type RouterConfig struct {
	Games          *GameHandler
	History        *HistoryHandler
	WebSocket      gin.HandlerFunc
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/healthz", cfg.Games.Healthz)

	api := router.Group("/api")
	{
		api.POST("/games", cfg.Games.CreateGame)
		api.GET("/games", cfg.Games.ListGames)
		api.GET("/games/:id", cfg.Games.GetGame)
		api.GET("/games/:id/qr", cfg.Games.JoinQR)

		seated := api.Group("/games/:id")
		seated.Use(middleware.SeatAuthMiddleware(cfg.Games.Tokens))
		seated.POST("/moves", cfg.Games.PlayMove)
		seated.POST("/reset", cfg.Games.ResetGame)

		api.GET("/history", cfg.History.GetHistory)
		api.GET("/history/:id", cfg.History.GetGameDetails)
	}

	if cfg.WebSocket != nil {
		router.GET("/ws/games/:id", cfg.WebSocket)
	}
	return router
}
