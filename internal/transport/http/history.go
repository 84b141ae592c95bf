package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connectfour/internal/repository/postgres"
)

type HistoryStore interface {
	ListGames(ctx context.Context, limit int) ([]postgres.GameResult, error)
	GetGameByID(ctx context.Context, gameID string) (*postgres.GameResult, error)
}

// HistoryHandler serves finished games. A nil Store means no database was
// configured and every request answers 503.
type HistoryHandler struct {
	Store HistoryStore
}

func NewHistoryHandler(store HistoryStore) *HistoryHandler {
	return &HistoryHandler{Store: store}
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history is disabled"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	games, err := h.Store.ListGames(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history is disabled"})
		return
	}

	result, err := h.Store.GetGameByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	c.JSON(http.StatusOK, result)
}
