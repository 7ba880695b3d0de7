package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/louisbranch/almanac/internal/auth"
	"github.com/louisbranch/almanac/internal/platform/config"
	"github.com/louisbranch/almanac/internal/server"
	"github.com/louisbranch/almanac/internal/storage/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		config.Exitf("load .env: %v", err)
	}
	log.SetPrefix("[ALMANAC] ")

	cfg, err := server.LoadConfigFromEnv()
	if err != nil {
		config.Exitf("load config: %v", err)
	}
	tokens, err := auth.LoadTokenConfigFromEnv(time.Now)
	if err != nil {
		config.Exitf("load token config: %v", err)
	}

	store, err := openStore(cfg.DBPath)
	if err != nil {
		config.Exitf("open store: %v", err)
	}
	defer store.Close()

	srv, err := server.New(cfg, tokens, store, store, store)
	if err != nil {
		config.Exitf("build server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil {
		config.Exitf("serve: %v", err)
	}
}

func openStore(path string) (*sqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	return sqlite.Open(path)
}
