package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/saisaravanan/judgeboard/internal/analytics"
	"github.com/saisaravanan/judgeboard/internal/config"
	"github.com/saisaravanan/judgeboard/internal/queue"
	"github.com/saisaravanan/judgeboard/internal/storage"
	"github.com/saisaravanan/judgeboard/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := storage.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	q, err := queue.NewRedisQueue(&cfg.Redis, &cfg.Worker)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer q.Close()

	store := storage.NewStore(db)
	service := analytics.NewService(store, cfg.Analytics.CacheTTL, cfg.Analytics.MetricsPeriod)

	w := worker.New(
		q,
		store.Evaluations,
		service,
		cfg.Worker.Concurrency,
		cfg.Worker.BatchSize,
	)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down worker...")
		cancel()
	}()

	log.Println("Worker starting...")
	if err := w.Start(ctx); err != nil {
		log.Fatalf("Worker error: %v", err)
	}

	log.Println("Worker stopped")
}
