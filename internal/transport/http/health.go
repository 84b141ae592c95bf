package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Healthz reports liveness plus how many games are currently being played
func (h *GameHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"activeGames": len(h.Manager.ActiveGames()),
	})
}
