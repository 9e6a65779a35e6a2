package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carepool/screening-matching-service/internal/app/background"
	"github.com/carepool/screening-matching-service/internal/config"
	httpdelivery "github.com/carepool/screening-matching-service/internal/delivery/http"
	"github.com/carepool/screening-matching-service/internal/delivery/http/handlers"
	"github.com/carepool/screening-matching-service/internal/infrastructure/kafka"
	"github.com/carepool/screening-matching-service/internal/infrastructure/logger"
	"github.com/carepool/screening-matching-service/internal/infrastructure/metrics"
	"github.com/carepool/screening-matching-service/internal/infrastructure/migrate"
	"github.com/carepool/screening-matching-service/internal/infrastructure/notifier"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres/repository"
	"github.com/carepool/screening-matching-service/internal/usecase/matching"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.Migrations.Enabled {
		if err := migrate.RunMigrations(db, cfg.Migrations.Path); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Init kafka notifier
	brokers := []string{fmt.Sprintf("%s:%s", cfg.Kafka.Host, cfg.Kafka.Port)}
	kafkaPublisher := kafka.NewKafkaPublisher(brokers, cfg.Kafka.NotificationTopic)
	defer kafkaPublisher.Close()
	kafkaNotifier := notifier.NewKafkaNotifier(kafkaPublisher)

	// Init repositories
	waitlistRepo := repository.NewDefaultWaitlistRepository(db)
	campaignRepo := repository.NewDefaultCampaignRepository(db)
	allocationRepo := repository.NewDefaultAllocationRepository(db)
	matchingRepo := repository.NewDefaultMatchingRepository(db)
	executionRepo := repository.NewDefaultExecutionRepository(db)
	execLogger := logger.NewPGExecutionLogger(db)

	// Init matching usecase
	matchingUsecase := matching.NewDefaultMatchingUsecase(
		waitlistRepo,
		campaignRepo,
		allocationRepo,
		matchingRepo,
		executionRepo,
		execLogger,
		kafkaNotifier,
	)
	matchingUsecase.Metrics = metrics.NewMatchingMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Scheduled runs
	if cfg.Scheduler.Enabled {
		tasks := background.NewBackgroundTasks(
			matchingUsecase,
			time.Duration(cfg.Scheduler.IntervalMinutes)*time.Minute,
		)
		tasks.StartAll(ctx)
	}

	// HTTP server
	matchingHandler := handlers.NewMatchingHandler(matchingUsecase)
	router := httpdelivery.NewRouter(matchingHandler)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("matching service listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "error", err.Error())
	}
}
