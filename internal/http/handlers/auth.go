package handlers

import (
	"net/http"

	"tab_server/internal/domain"
	"tab_server/internal/service"

	"github.com/gin-gonic/gin"
)

type CredentialsRequest struct {
	Nick     string `json:"nick"`
	Password string `json:"password"`
}

// Register creates the account, or signs in when the nick already
// exists and the password matches.
func (h *Handler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user, err := h.Games.Register(c.Request.Context(), req.Nick, req.Password)
	if err != nil {
		c.JSON(gameErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	token, err := service.GenerateJWT(user.Nick)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userView(user),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user, err := h.Games.Login(c.Request.Context(), req.Nick, req.Password)
	if err != nil {
		c.JSON(gameErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	token, err := service.GenerateJWT(user.Nick)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userView(user),
	})
}

// Me returns the profile of the JWT's owner.
func (h *Handler) Me(c *gin.Context) {
	nick, ok := getNick(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user := h.Games.GetUser(nick)
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, userView(user))
}

func userView(u *domain.User) gin.H {
	return gin.H{
		"nick":         u.Nick,
		"created_at":   u.CreatedAt,
		"last_login":   u.LastLogin,
		"games_played": u.GamesPlayed,
		"victories":    u.Victories,
	}
}
