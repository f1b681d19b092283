package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"expensewise/internal/config"
	"expensewise/internal/events"
	"expensewise/internal/gamify"
	apphttp "expensewise/internal/http"
	applog "expensewise/internal/log"
	"expensewise/internal/notify"
	"expensewise/internal/services"
	"expensewise/internal/storage"
	"expensewise/internal/store"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Choose the persistence backend (default: memory).
	var kv store.KV
	switch cfg.DataBackend {
	case "sqlite":
		db, err := storage.Open(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite storage", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer db.Close()
		kv = db
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		kv = store.NewMemoryKV()
		logger.Info("Initialized memory backend")
	}

	records, err := store.NewRecordStore(ctx, kv)
	if err != nil {
		logger.Error("Failed to load record store", "error", err)
		os.Exit(1)
	}
	goals, err := store.NewGoalStore(ctx, kv)
	if err != nil {
		logger.Error("Failed to load goal store", "error", err)
		os.Exit(1)
	}
	engine, err := gamify.NewEngine(ctx, kv)
	if err != nil {
		logger.Error("Failed to load gamification state", "error", err)
		os.Exit(1)
	}
	alerts := notify.NewCenter()

	// Optional AMQP event stream.
	var eventsClient *events.Client
	if cfg.AMQPURL != "" {
		eventsClient, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect event stream", "error", err, "url", cfg.AMQPURL)
			os.Exit(1)
		}
		logger.Info("Connected event stream", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	expenseService := services.NewExpenseService(records, goals, engine, alerts, eventsClient)
	goalService := services.NewGoalService(goals, records, engine, eventsClient)
	defer expenseService.Close()

	srv := apphttp.NewServer(":"+cfg.Port, logger, expenseService, goalService, records, goals, engine, alerts)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting expensewise server",
			"operation", applog.OpStartup, "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received",
				"operation", applog.OpShutdown, "signal", sig.String())
		case <-gctx.Done():
			return gctx.Err()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
