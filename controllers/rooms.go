package controllers

import (
	models "Morris/models/postgres"
	"Morris/services/redis"
	"Morris/services/session"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RoomController struct {
	DB          *gorm.DB
	RedisClient *redis.RedisClient
	Coordinator *session.Coordinator
}

// Rooms lists the rooms held by this server
func (rc *RoomController) Rooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": rc.Coordinator.LiveRooms()})
}

// @Summary Totals over every stored room
// @Tags rooms
// @Produce json
// @Success 200 {object} models.RoomStats
// @Failure 500 {object} object{error=string}
// @Router /stats [get]
func (rc *RoomController) Stats(c *gin.Context) {
	var stats models.RoomStats
	err := rc.DB.Model(&models.Room{}).
		Select("COUNT(*) AS total_games, " +
			"COALESCE(SUM(CASE WHEN status = 'finished' THEN 1 ELSE 0 END), 0) AS completed_games, " +
			"COALESCE(SUM(CASE WHEN status = 'abandoned' THEN 1 ELSE 0 END), 0) AS abandoned_games, " +
			"COALESCE(SUM(CASE WHEN winner = 'X' THEN 1 ELSE 0 END), 0) AS x_wins, " +
			"COALESCE(SUM(CASE WHEN winner = 'O' THEN 1 ELSE 0 END), 0) AS o_wins").
		Scan(&stats).Error
	if err != nil {
		log.Printf("[ROOM-ERROR] Error computing stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Move log of a room
// @Tags rooms
// @Produce json
// @Param roomId path string true "Room code"
// @Success 200 {object} object{roomId=string,moves=[]models.GameMove}
// @Failure 500 {object} object{error=string}
// @Router /room/{roomId}/history [get]
func (rc *RoomController) History(c *gin.Context) {
	roomID := session.NormalizeRoomID(c.Param("roomId"))

	moves := []models.GameMove{}
	if err := rc.DB.Where("room_id = ?", roomID).Order("move_number ASC").Find(&moves).Error; err != nil {
		log.Printf("[ROOM-ERROR] Error reading history of %s: %v", roomID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roomId": roomID, "moves": moves})
}

// @Summary Live mirror of an in-progress room
// @Tags rooms
// @Produce json
// @Param roomId path string true "Room code"
// @Success 200 {object} redis_models.LiveRoom
// @Failure 404 {object} object{error=string}
// @Router /room/{roomId}/live [get]
func (rc *RoomController) Live(c *gin.Context) {
	if rc.RedisClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live state unavailable"})
		return
	}
	roomID := session.NormalizeRoomID(c.Param("roomId"))

	room, err := rc.RedisClient.GetLiveRoom(roomID)
	if err != nil {
		log.Printf("[ROOM-ERROR] Error reading live room %s: %v", roomID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if room == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}
	c.JSON(http.StatusOK, room)
}
