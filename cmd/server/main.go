package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"telepipe/internal/api"
	"telepipe/internal/config"
	"telepipe/internal/database"
	"telepipe/internal/storage"
	"telepipe/internal/videos"
	"telepipe/internal/ws"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	store, err := storage.NewStore(cfg.StoragePath)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	log.Printf("Storing files in %s", store.Dir())

	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()

	videoService := videos.NewService(db, store, cfg.BaseURL)
	videoService.Notifier = hub

	videoHandler := api.NewVideoHandler(videoService)
	healthHandler := api.NewHealthHandler(db)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewRouter(videoHandler, healthHandler, hub),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
