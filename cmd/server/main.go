package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"vatour/internal/audit"
	"vatour/internal/directory"
	"vatour/internal/jwtauth"
	"vatour/internal/platform/config"
	"vatour/internal/platform/httpserver"
	"vatour/internal/platform/logger"
	"vatour/internal/platform/metrics"
	platformredis "vatour/internal/platform/redis"
	"vatour/internal/report"
	reporthandler "vatour/internal/report/handler"
	reportmetrics "vatour/internal/report/metrics"
	"vatour/internal/tour"
	tourhandler "vatour/internal/tour/handler"
	httptransport "vatour/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores: Postgres when configured, in-memory otherwise (local dev).
	var (
		tourStore       tour.Store
		enrollmentStore tour.EnrollmentStore
		reportStore     report.Store
		auditStore      audit.OutboxStore
	)
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("postgres pool init failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		auditDB, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("audit db init failed", "error", err)
			os.Exit(1)
		}
		defer auditDB.Close()

		tourStore = tour.NewPostgresStore(pool)
		enrollmentStore = tour.NewPostgresEnrollmentStore(pool)
		reportStore = report.NewPostgresStore(pool)
		auditStore = audit.NewPostgresStore(auditDB)
	} else {
		log.Warn("VATOUR_POSTGRES_URL not set, using in-memory stores")
		tourStore = tour.NewInMemoryStore()
		enrollmentStore = tour.NewInMemoryEnrollmentStore()
		reportStore = report.NewInMemoryStore()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	liveCache := directory.NewLiveCache(redisClient, cfg.Directory.LiveCacheTTL, log)
	dirClient := directory.NewClient(cfg.Directory, liveCache, log)

	sharedMetrics := metrics.New()
	repMetrics := reportmetrics.New()

	var auditor *audit.Publisher
	if auditStore != nil {
		auditor = audit.NewPublisher(auditStore)
	} else {
		auditor = audit.NewPublisher(audit.NewInMemoryStore())
	}

	matcher := report.NewMatcher(dirClient, log, repMetrics)
	reportService := report.NewService(tourStore, enrollmentStore, reportStore, matcher, auditor, log, repMetrics)
	tourService := tour.NewService(tourStore, enrollmentStore, log, sharedMetrics)

	validator := jwtauth.NewValidator(cfg.JWTSigningKey)
	router := httptransport.NewRouter(log,
		validator,
		tourhandler.New(tourService, log),
		reporthandler.New(reportService, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting vatour server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Audit outbox worker runs only with both Postgres and Kafka configured.
	if auditStore != nil && len(cfg.Audit.Brokers) > 0 {
		producer, err := audit.NewKafkaProducer(cfg.Audit.Brokers, cfg.Audit.Topic)
		if err != nil {
			log.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()

		worker := audit.NewWorker(auditStore, producer, log)
		g.Go(func() error {
			err := worker.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
