package handlers

import (
	"log"
	"net/http"
	"os"

	"tab_server/internal/service"
	"tab_server/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS upgrades the connection and streams state snapshots of one game.
// The caller must be a player of that game; token and game id come in
// the query string because browsers cannot set headers on sockets.
func (h *Handler) WS() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		nick, err := service.ParseJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		gameID := c.Query("game")
		if gameID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "game required"})
			return
		}

		// membership check before the upgrade
		if _, err := h.Games.Snapshot(gameID, nick); err != nil {
			c.JSON(gameErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("ws upgrade error:", err)
			return
		}

		client := ws.NewClient(nick, gameID, conn, h.Hub)
		go client.Run()
	}
}
