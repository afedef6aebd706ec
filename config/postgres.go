package config

import (
	"Morris/models/postgres"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresDSN builds the connection string from DATABASE_URL or the
// POSTGRES_* variables
func PostgresDSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	dsn := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DATABASE"))
	if mode := os.Getenv("POSTGRES_SSLMODE"); mode != "" {
		dsn += "?sslmode=" + mode
	}
	return dsn
}

// ConnectGORM returns a GORM DB instance connected to PostgreSQL
func ConnectGORM() (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", PostgresDSN())
	if err != nil {
		log.Printf("Error connecting to PostgreSQL: %v", err)
		return nil, err
	}

	db, err := OpenGORM(sqlDB, os.Getenv("VERBOSE_POSTGRES") == "true")
	if err != nil {
		log.Printf("Error connecting to PostgreSQL with GORM: %v", err)
		return nil, err
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		log.Printf("Error pinging PostgreSQL: %v", err)
		return nil, err
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL with GORM")
	return db, nil
}

// OpenGORM wraps an open *sql.DB with GORM
func OpenGORM(sqlDB *sql.DB, verbose bool) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		// every write is a single statement
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Warn),
	}
	if verbose {
		gormConfig.Logger = logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
			logger.Config{
				SlowThreshold:             time.Second, // Slow SQL threshold
				LogLevel:                  logger.Info, // Log level (Silent, Error, Warn, Info)
				IgnoreRecordNotFoundError: false,       // Ignore ErrRecordNotFound error for logger
				Colorful:                  true,        // Enable color
			},
		)
	}

	// NOTE: the simple protocol avoids prepared statement caching, see
	// https://github.com/go-gorm/gorm/issues/5409
	return gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), gormConfig)
}

// MigrateDatabase migrates the GORM models to the PostgreSQL database
func MigrateDatabase(db *gorm.DB) error {
	// NOTE: postgres driver v1.4.0 is required for AutoMigrate to create the
	// tables, see https://github.com/pilinux/gorest/issues/167
	err := db.AutoMigrate(
		postgres.User{},
		postgres.Room{},
		postgres.Player{},
		postgres.GameMove{})

	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	log.Println("PostgreSQL database migrated successfully")

	return nil
}
