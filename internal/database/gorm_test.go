package database

import (
	"path/filepath"
	"testing"

	"telepipe/internal/config"
	"telepipe/internal/models"

	"gorm.io/gorm/logger"
)

func TestIsPostgres(t *testing.T) {
	cases := map[string]bool{
		"postgres://u:p@localhost:5432/videos": true,
		"postgresql://localhost/videos":        true,
		"host=localhost user=u dbname=videos":  true,
		"./videos.db":                          false,
		"sqlite:///./videos.db":                false,
		"/var/lib/telepipe/videos.db":          false,
	}
	for dsn, want := range cases {
		if got := IsPostgres(dsn); got != want {
			t.Errorf("IsPostgres(%q) = %v, want %v", dsn, got, want)
		}
	}
}

func TestSQLitePath(t *testing.T) {
	if got := SQLitePath("sqlite:///./videos.db"); got != "./videos.db" {
		t.Fatalf("unexpected path %q", got)
	}
	if got := SQLitePath("videos.db"); got != "videos.db" {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestLogLevel(t *testing.T) {
	if LogLevel("INFO") != logger.Info {
		t.Fatalf("expected info level")
	}
	if LogLevel("bogus") != logger.Warn {
		t.Fatalf("expected warn fallback")
	}
}

func TestOpenMigratesSQLite(t *testing.T) {
	cfg := &config.Config{
		DatabaseURL: "sqlite:///" + filepath.Join(t.TempDir(), "videos.db"),
		DBLogLevel:  "silent",
	}
	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer Close(db)

	if !db.Migrator().HasTable(&models.Video{}) {
		t.Fatalf("expected videos table")
	}
	if !db.Migrator().HasIndex(&models.Video{}, "idx_videos_stored_name") {
		t.Fatalf("expected unique index on stored_name")
	}
}
