package routes

import (
	"Morris/controllers"
	"Morris/middleware"
	"Morris/services/redis"
	"Morris/services/session"
	utils "Morris/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient, coordinator *session.Coordinator) {
	// Create controllers
	roomController := &controllers.RoomController{DB: db, RedisClient: redisClient, Coordinator: coordinator}

	// utils global
	router.Use(utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/ping", controllers.Ping)

	router.GET("/health", controllers.Health(coordinator))

	router.GET("/rooms", roomController.Rooms)

	router.GET("/stats", roomController.Stats)

	room := router.Group("/room/:roomId")
	{
		room.GET("/history", roomController.History)
		room.GET("/live", roomController.Live)
	}

	// API routes group
	api := router.Group("/api")

	api.POST("/auth/login", controllers.Login(db))

	api.GET("/users/:firebaseUid", controllers.GetUserByFirebaseUID(db))

	api.PUT("/users/:userId/username", controllers.UpdateUsername(db))

	api.POST("/user/setup", controllers.SetupUser(db))

	api.POST("/update_win", controllers.UpdateWin(db))

	api.POST("/update_lost", controllers.UpdateLost(db))

	api.GET("/leaderboard", controllers.Leaderboard(db))

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired)
	{
		authentication.DELETE("/logout", controllers.Logout)

		authentication.GET("/me", controllers.Me(db))
	}
}
