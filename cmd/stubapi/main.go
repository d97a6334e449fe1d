package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/safina-app/safina/internal/config"
	"github.com/safina-app/safina/internal/stub"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	server := stub.New()
	if cfg.Stub.Seed {
		server.Seed()
	}

	port := fmt.Sprintf(":%d", cfg.Stub.Port)
	slog.Info("starting stub backend", "port", port)

	if err := http.ListenAndServe(port, server.Handler()); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
