package main

import (
	"context"
	"os"
	"time"

	"leaseintake/internal/activities"
	"leaseintake/internal/config"
	"leaseintake/internal/logging"
	"leaseintake/internal/pipeline"
	"leaseintake/internal/workflows"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
)

func main() {
	_ = godotenv.Load(".env")
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Error("worker.config.failed", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress, Logger: tlog.NewStructuredLogger(log)})
	if err != nil {
		log.Error("worker.temporal.failed", "address", cfg.TemporalAddress, "error", err)
		os.Exit(1)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	runner, journal, err := pipeline.FromConfig(ctx, cfg, log)
	if err != nil {
		log.Error("worker.pipeline.failed", "error", err)
		os.Exit(1)
	}
	defer journal.Close()

	w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{MaxConcurrentActivityExecutionSize: 1})
	workflows.Register(w)
	activities.Register(w, activities.New(runner, log))

	log.Info("worker.listening", "address", cfg.TemporalAddress, "queue", cfg.TemporalTaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Error("worker.run.failed", "error", err)
		os.Exit(1)
	}
}
