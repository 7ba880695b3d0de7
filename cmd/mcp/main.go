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
	"github.com/louisbranch/almanac/internal/mcp"
	"github.com/louisbranch/almanac/internal/platform/config"
	"github.com/louisbranch/almanac/internal/storage/sqlite"
)

// mcpConfig holds the MCP entrypoint settings. The access token names the
// user the server acts for; tools never reach outside that user's events.
type mcpConfig struct {
	DBPath string `env:"ALMANAC_DB_PATH" envDefault:"data/almanac.db"`
	Token  string `env:"ALMANAC_MCP_TOKEN"`
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		config.Exitf("load .env: %v", err)
	}
	log.SetPrefix("[ALMANAC MCP] ")

	var cfg mcpConfig
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("load config: %v", err)
	}
	if cfg.Token == "" {
		config.Exitf("ALMANAC_MCP_TOKEN is required")
	}

	tokens, err := auth.LoadTokenConfigFromEnv(time.Now)
	if err != nil {
		config.Exitf("load token config: %v", err)
	}
	claims, err := auth.VerifyToken(cfg.Token, tokens)
	if err != nil {
		config.Exitf("verify access token: %v", err)
	}

	store, err := openStore(cfg.DBPath)
	if err != nil {
		config.Exitf("open store: %v", err)
	}
	defer store.Close()

	srv, err := mcp.New(store, claims.UserID)
	if err != nil {
		config.Exitf("build server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil {
		config.Exitf("serve MCP: %v", err)
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
