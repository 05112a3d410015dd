package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tunebard/internal/comments"
	"tunebard/internal/config"
	"tunebard/internal/discord"
	"tunebard/internal/player"
	"tunebard/internal/resolver"
	"tunebard/internal/storage"
)

func main() {
	log.Println("[INFO] Starting tunebard bot...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	engine := player.NewEngine(resolver.New())
	commentStore := comments.NewStore()

	errCh := make(chan error, 1)
	go func() {
		if err := discord.StartBot(ctx, cfg, store, engine, commentStore); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	case <-ctx.Done():
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
