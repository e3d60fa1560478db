package main

import (
	"log"

	"github.com/alkime/promo/internal/config"
	"github.com/alkime/promo/internal/logger"
	"github.com/alkime/promo/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	lg := logger.SetupLogger(cfg)

	// Log startup information
	lg.Info("Starting promo server",
		"env", cfg.Env,
		"port", cfg.Port,
		"public_url", cfg.PublicURL,
		"session_ttl", cfg.SessionTTL,
	)

	srv, err := server.New(cfg, lg)
	if err != nil {
		lg.Error("Failed to build server", "error", err)
		log.Fatalf("Fatal: %v", err)
	}

	if err := server.Run(srv); err != nil {
		lg.Error("Failed to start server", "error", err)
		log.Fatalf("Fatal: %v", err)
	}
}
