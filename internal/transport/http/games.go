package http

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connectfour/internal/service/game"
	"github.com/iamasit07/connectfour/internal/transport/http/middleware"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

type GameHandler struct {
	Manager     *game.Manager
	Tokens      middleware.SeatValidator
	FrontendURL string
}

func NewGameHandler(manager *game.Manager, tokens middleware.SeatValidator, frontendURL string) *GameHandler {
	return &GameHandler{Manager: manager, Tokens: tokens, FrontendURL: frontendURL}
}

type createGameRequest struct {
	Mode string `json:"mode"`
}

type createGameResponse struct {
	Game   game.Snapshot `json:"game"`
	Tokens game.Seats    `json:"tokens"`
}

type moveRequest struct {
	Column *int `json:"column" binding:"required"`
}

// CreateGame starts a new session. An empty body defaults to hotseat.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	mode, err := game.ParseMode(req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}

	snap, seats, err := h.Manager.CreateSession(c.Request.Context(), mode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createGameResponse{Game: snap, Tokens: seats})
}

// ListGames returns the in-progress sessions available for watching
func (h *GameHandler) ListGames(c *gin.Context) {
	c.JSON(http.StatusOK, h.Manager.ActiveGames())
}

func (h *GameHandler) GetGame(c *gin.Context) {
	snap, err := h.Manager.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// PlayMove expects SeatAuthMiddleware to have run
func (h *GameHandler) PlayMove(c *gin.Context) {
	claims, ok := middleware.SeatClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	snap, err := h.Manager.PlayMove(c.Request.Context(), c.Param("id"), claims.Player, *req.Column)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *GameHandler) ResetGame(c *gin.Context) {
	snap, err := h.Manager.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// JoinQR renders a PNG QR code linking to the frontend play page. With a
// token the link seats the scanner; without one it opens a spectator view.
func (h *GameHandler) JoinQR(c *gin.Context) {
	gameID := c.Param("id")
	if _, err := h.Manager.Snapshot(c.Request.Context(), gameID); err != nil {
		respondError(c, err)
		return
	}

	token := c.Query("token")
	if token != "" {
		claims, err := h.Tokens.ValidateSeatToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		if claims.GameID != gameID {
			respondError(c, game.ErrSeatMismatch)
			return
		}
	}

	png, err := qrcode.Encode(h.joinURL(gameID, token), qrcode.Medium, qrSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *GameHandler) joinURL(gameID, token string) string {
	link := h.FrontendURL + "/play/" + url.PathEscape(gameID)
	if token != "" {
		link += "?token=" + url.QueryEscape(token)
	}
	return link
}
