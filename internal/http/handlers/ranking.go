package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Ranking returns the top players for one (group, size) table.
func (h *Handler) Ranking(c *gin.Context) {
	group, err := strconv.Atoi(c.DefaultQuery("group", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group"})
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "3"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid size"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"group":   group,
		"size":    size,
		"entries": h.Games.GetRanking(group, size),
	})
}
