package main

import (
	"log"

	"telepipe/internal/config"
	"telepipe/internal/database"
	"telepipe/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Copies the videos table from a SQLite file (SQLITE_PATH) into the
// PostgreSQL database named by DATABASE_URL. Stored files are not touched.
func main() {
	cfg := config.LoadConfig()
	if !database.IsPostgres(cfg.DatabaseURL) {
		log.Fatalf("DATABASE_URL must point at PostgreSQL, got %q", cfg.DatabaseURL)
	}

	// 1. Connect to SQLite (Source)
	sqliteDB, err := gorm.Open(sqlite.Open(database.SQLitePath(cfg.SQLitePath)), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to SQLite: %v", err)
	}
	log.Printf("Connected to SQLite at %s", cfg.SQLitePath)

	// 2. Connect to PostgreSQL (Destination)
	pgDB, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer database.Close(pgDB)

	var videos []models.Video
	if err := sqliteDB.Order("id").Find(&videos).Error; err != nil {
		log.Fatalf("Error reading videos from SQLite: %v", err)
	}
	if len(videos) == 0 {
		log.Println("No videos to migrate")
		return
	}

	// IDs are kept so existing file_url links stay valid; rows already present are skipped.
	err = pgDB.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&videos, 500).Error
	})
	if err != nil {
		log.Fatalf("Error writing videos to PostgreSQL: %v", err)
	}

	log.Printf("Migrated %d videos. Run sync_sequences next.", len(videos))
}
