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

	"github.com/GeX90/gestorapp-backend/internal/amqp"
	"github.com/GeX90/gestorapp-backend/internal/config"
	apphttp "github.com/GeX90/gestorapp-backend/internal/http"
	applog "github.com/GeX90/gestorapp-backend/internal/log"
	"github.com/GeX90/gestorapp-backend/internal/services"
	"github.com/GeX90/gestorapp-backend/internal/storage"
	"github.com/GeX90/gestorapp-backend/internal/store"
	"github.com/GeX90/gestorapp-backend/internal/store/memory"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: "api"})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var (
		txnStore store.TransactionStore
		budStore store.BudgetStore
		catStore store.CategoryStore
	)

	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		txnStore, budStore, catStore = repo, repo, repo
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		mem := memory.New()
		txnStore, budStore, catStore = mem, mem, mem
		logger.Info("Initialized memory backend")
	}

	// AMQP is optional: without it, budget alerts are only produced by
	// the worker's periodic scan.
	var alerts services.AlertPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without alert publishing", "error", err)
		} else {
			defer client.Close()
			alerts = client
			logger.Info("AMQP alert publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	budgets := services.NewBudgetService(budStore, txnStore)
	svc := apphttp.Services{
		Transactions: services.NewTransactionService(txnStore, catStore, budgets, alerts),
		Budgets:      budgets,
		Categories:   services.NewCategoryService(catStore),
		Stats:        services.NewStatsService(txnStore),
		Export:       services.NewExportService(txnStore),
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting gestorapp server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
