package database

import (
	"fmt"
	"log"
	"strings"

	"telepipe/internal/config"
	"telepipe/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector picks the gorm driver for a DATABASE_URL value.
// PostgreSQL URLs and keyword DSNs select postgres, everything else is a SQLite path.
func Dialector(dsn string) gorm.Dialector {
	if IsPostgres(dsn) {
		return postgres.Open(dsn)
	}
	return sqlite.Open(SQLitePath(dsn))
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// SQLitePath strips the sqlite:/// prefix used by SQLAlchemy-style URLs.
func SQLitePath(dsn string) string {
	return strings.TrimPrefix(dsn, "sqlite:///")
}

func LogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Open connects to the configured database and migrates the schema.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(LogLevel(cfg.DBLogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if !IsPostgres(cfg.DatabaseURL) {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// SQLite serialises writers anyway; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database initialized successfully (videos)")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Video{}); err != nil {
		return fmt.Errorf("auto-migration: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}
