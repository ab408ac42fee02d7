package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/leca/dt-pokeapi/internal/config"
	"github.com/leca/dt-pokeapi/internal/database"
	"github.com/leca/dt-pokeapi/internal/router"
	"github.com/leca/dt-pokeapi/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := database.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Seed(db, cfg.SeedCount); err != nil {
		slog.Error("failed to seed catalog", "error", err)
		os.Exit(1)
	}

	store := storage.NewFileSystem(cfg.SpritePath)

	srv := router.New(db, store, cfg)

	slog.Info("starting server", "addr", cfg.ListenAddr, "seed_count", cfg.SeedCount, "rate_limit", cfg.RateLimit)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
