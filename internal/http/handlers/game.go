package handlers

import (
	"net/http"

	"tab_server/internal/domain"

	"github.com/gin-gonic/gin"
)

type JoinRequest struct {
	Nick     string `json:"nick"`
	Password string `json:"password"`
	Size     int    `json:"size"`
	Group    int    `json:"group"`
}

type GameRequest struct {
	Nick     string `json:"nick"`
	Password string `json:"password"`
	GameID   string `json:"game_id"`
}

type NotifyRequest struct {
	Nick     string `json:"nick"`
	Password string `json:"password"`
	GameID   string `json:"game_id"`
	Cell     *int   `json:"cell"`
}

// Join places the player into a waiting slot, pairing with a
// compatible opponent when one is already queued.
func (h *Handler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if req.Group == 0 {
		req.Group = 1
	}

	id, err := h.Games.Join(c.Request.Context(), req.Nick, req.Password, req.Size, req.Group)
	if err != nil {
		c.JSON(gameErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"game_id": id})
}

func (h *Handler) Leave(c *gin.Context) {
	var req GameRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Games.Leave(c.Request.Context(), req.Nick, req.Password, req.GameID); err != nil {
		c.JSON(gameErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Roll(c *gin.Context) {
	var req GameRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	dice, err := h.Games.Roll(c.Request.Context(), req.Nick, req.Password, req.GameID)
	if err != nil {
		c.JSON(gameErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dice": dice})
}

func (h *Handler) Pass(c *gin.Context) {
	var req GameRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Games.Pass(c.Request.Context(), req.Nick, req.Password, req.GameID); err != nil {
		c.JSON(gameErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Notify reports a board click: first the piece to move, then the
// capture choice when a sweep offers several victims.
func (h *Handler) Notify(c *gin.Context) {
	var req NotifyRequest
	if err := c.BindJSON(&req); err != nil || req.Cell == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Games.Notify(c.Request.Context(), req.Nick, req.Password, req.GameID, *req.Cell); err != nil {
		c.JSON(gameErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) State(c *gin.Context) {
	var req GameRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	g, err := h.Games.GetGame(c.Request.Context(), req.Nick, req.Password, req.GameID)
	if err != nil {
		c.JSON(gameErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": g})
}

func gameErrorStatus(err error) int {
	switch err {
	case domain.ErrInvalidCredentials:
		return http.StatusUnauthorized
	case domain.ErrGameNotFound:
		return http.StatusNotFound
	case domain.ErrNotYourTurn:
		return http.StatusForbidden
	case domain.ErrGameNotInProgress, domain.ErrRepeatRollPending, domain.ErrCannotPass:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
