package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/conorfennell/memorizer/internal/config"
	"github.com/conorfennell/memorizer/internal/decksync"
	"github.com/conorfennell/memorizer/internal/server"
	"github.com/conorfennell/memorizer/internal/storage"
)

func main() {
	defaults := config.DefaultServer()
	flags := pflag.NewFlagSet("memorizerd", pflag.ExitOnError)
	flags.String("listen", defaults.Listen, "Address to listen on")
	flags.String("db", defaults.DB, "Path to the SQLite database file")
	flags.String("repos", defaults.ReposDir, "Directory for git deck checkouts")
	configPath := flags.String("config", "", "Path to the YAML config file listing users and decks")
	syncOnly := flags.Bool("sync-only", false, "Sync deck sources and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}
	if *configPath == "" {
		log.Fatal("--config is required")
	}

	cfg, err := config.LoadServer(*configPath, flags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := storage.Open(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	decksync.Run(db, cfg)
	if *syncOnly {
		return
	}

	s := server.New(db, cfg)
	slog.Info("listening", "addr", cfg.Listen)
	if err := http.ListenAndServe(cfg.Listen, s); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
