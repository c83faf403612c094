package handlers

import (
	"tab_server/internal/service"
	"tab_server/internal/ws"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Games *service.GameService
	Hub   *ws.Hub
}

func NewHandler(games *service.GameService, hub *ws.Hub) *Handler {
	return &Handler{Games: games, Hub: hub}
}

// getNick извлекает nick из контекста Gin
func getNick(c *gin.Context) (string, bool) {
	v, ok := c.Get("nick")
	if !ok {
		return "", false
	}
	nick, ok := v.(string)
	return nick, ok && nick != ""
}
