package main

import (
	"context"
	"log"

	"docguard-backend/internal/shared/config"
	"docguard-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()
	r, previews := server.NewRouter(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go previews.RunSweeper(ctx, cfg.PreviewSweepEvery)

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
