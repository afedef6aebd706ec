package main

import (
	"Morris/config"
	_ "Morris/config/swagger"
	"Morris/middleware"
	"Morris/routes"
	"Morris/services/redis"
	"Morris/services/session"
	"Morris/services/socket_io"
	"Morris/sync"
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// @title Morris API
// @version 1.0
// @description Gin-Gonic server for the Three Men's Morris game
// @BasePath /
func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	settings, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if settings.Prod {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := config.ConnectGORM()
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	log.Println("GORM Connected")

	// Only migrate in development or during deployment
	if settings.MigratePostgres {
		log.Println("Migrating PostgreSQL database...")
		if err := config.MigrateDatabase(gormDB); err != nil {
			log.Printf("Warning: Database migration failed: %v", err)
			// Continue execution even if migration fails
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	redisClient, err := config.Connect_redis()
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redis.CloseRedis(redisClient)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := sync.NewDBStore(gormDB, redisClient)
	syncManager := sync.NewSyncManager(store, sync.WithQueueSize(settings.SyncQueueSize))
	syncManager.Start(context.Background())

	scheduler, err := sync.StartCleanupScheduler(store, settings.CleanupInterval, settings.RoomRetention)
	if err != nil {
		log.Fatalf("Error starting cleanup scheduler: %v", err)
	}

	coordinator := session.NewCoordinator(syncManager, session.WithValidation(settings.MoveValidation))
	log.Printf("Move validation: %s", settings.MoveValidation)

	r := gin.Default()

	middleware.SetUpMiddleware(r, settings.SessionKey, settings.AllowedOrigins)

	routes.SetupRoutes(r, gormDB, redisClient, coordinator)

	sio := socket_io.NewServer()
	sio.Start(r, coordinator, settings.AllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + settings.Port,
		Handler: r,
	}
	go func() {
		log.Printf("Server started on port %s", settings.Port)
		var serveErr error
		if settings.UseHTTPS {
			serveErr = srv.ListenAndServeTLS(settings.CertFile, settings.KeyFile)
		} else {
			serveErr = srv.ListenAndServe()
		}
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", serveErr)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down gracefully...")

	sio.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}
	if err := scheduler.Shutdown(); err != nil {
		log.Printf("Error stopping cleanup scheduler: %v", err)
	}
	// queued writes are flushed before the connections close
	syncManager.Stop()
}
