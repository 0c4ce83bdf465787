package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"leaseintake/internal/api"
	"leaseintake/internal/config"
	"leaseintake/internal/logging"
	"leaseintake/internal/storage"

	"github.com/joho/godotenv"
	tclient "go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
)

func main() {
	_ = godotenv.Load(".env")
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Error("api.config.failed", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	journal, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Error("api.journal.failed", "error", err)
		os.Exit(1)
	}
	defer journal.Close()

	tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress, Logger: tlog.NewStructuredLogger(log)})
	if err != nil {
		log.Error("api.temporal.failed", "address", cfg.TemporalAddress, "error", err)
		os.Exit(1)
	}
	defer tc.Close()

	h := api.NewServer(cfg, tc, journal, log)
	log.Info("api.listening", "addr", cfg.APIAddr, "queue", cfg.TemporalTaskQueue, "journal", cfg.JournalBackend)
	if err := http.ListenAndServe(cfg.APIAddr, h.Routes()); err != nil {
		log.Error("api.serve.failed", "error", err)
		os.Exit(1)
	}
}
