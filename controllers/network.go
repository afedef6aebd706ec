package controllers

import (
	"Morris/services/session"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// @Summary Endpoint just pings the server
// @Description Returns a basic message
// @Tags test
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// @Summary Liveness and current session counters
// @Tags test
// @Produce json
// @Success 200 {object} object{status=string,activeRooms=int,matchmakingQueue=int,connectedUsers=int,timestamp=string}
// @Router /health [get]
func Health(coordinator *session.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := coordinator.Stats()
		c.JSON(http.StatusOK, gin.H{
			"status":           "ok",
			"activeRooms":      stats.ActiveRooms,
			"matchmakingQueue": stats.MatchmakingQueue,
			"connectedUsers":   stats.ConnectedUsers,
			"timestamp":        time.Now().UTC().Format(time.RFC3339),
		})
	}
}
