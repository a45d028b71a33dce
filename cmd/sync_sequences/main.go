package main

import (
	"log"

	"telepipe/internal/config"
	"telepipe/internal/database"
)

// Realigns the videos.id sequence after migrate_data inserted explicit IDs.
func main() {
	cfg := config.LoadConfig()
	if !database.IsPostgres(cfg.DatabaseURL) {
		log.Fatalf("DATABASE_URL must point at PostgreSQL, got %q", cfg.DatabaseURL)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer database.Close(db)

	query := "SELECT setval(pg_get_serial_sequence('videos', 'id'), coalesce(max(id), 0) + 1, false) FROM videos"
	if err := db.Exec(query).Error; err != nil {
		log.Fatalf("Error syncing sequence for videos: %v", err)
	}
	log.Println("Successfully synced sequence for videos")
}
