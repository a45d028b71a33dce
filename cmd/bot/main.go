package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"telepipe/internal/config"
	"telepipe/internal/relay"
	"telepipe/internal/telegram"
)

func main() {
	cfg, err := config.LoadBotConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	telegramClient := telegram.NewClient(cfg)
	backend := relay.NewBackend(cfg.BackendURL)
	r := relay.New(telegramClient, backend)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Relay bot polling, forwarding to %s", cfg.BackendURL)
	if err := r.Run(ctx); err != nil {
		log.Fatalf("Relay stopped: %v", err)
	}
	log.Println("Relay bot stopped")
}
