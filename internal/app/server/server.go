package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/audit"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/auth"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/directory"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/hours"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/payroll"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/schedule"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/platform/config"
	cryptoutil "github.com/teamworkfission/timebuddyv1-sub000/internal/platform/crypto"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/platform/db"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/platform/metrics"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/platform/workers"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/api"
	audithandler "github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/handlers/audit"
	authhandler "github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/handlers/auth"
	directoryhandler "github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/handlers/directory"
	hourshandler "github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/handlers/hours"
	payrollhandler "github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/handlers/payroll"
	schedulehandler "github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/handlers/schedule"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/middleware"
)

const (
	bulkWorkers   = 4
	bulkQueueSize = 64
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Metrics *metrics.Collector

	workerPool *workers.Pool
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, locateMigrations("migrations")); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("encryption key: %w", err)
	}

	collector := metrics.New()
	workerPool := workers.New(bulkWorkers, bulkQueueSize)

	authService := auth.NewService(auth.NewStore(pool))
	directoryService := directory.NewService(directory.NewStore(pool, crypto))
	scheduleService := schedule.NewService(schedule.NewStore(pool))
	hoursService := hours.NewService(hours.NewStore(pool))
	payrollService := payroll.NewService(payroll.NewStore(pool), workerPool)
	auditService := audit.New(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.Logger)
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metricz", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService, directoryService, cfg.JWTSecret).RegisterRoutes(r)
		directoryhandler.NewHandler(directoryService).RegisterRoutes(r)
		schedulehandler.NewHandler(scheduleService, directoryService, auditService).RegisterRoutes(r)
		hourshandler.NewHandler(hoursService, directoryService, auditService).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollService, directoryService, auditService, pool).RegisterRoutes(r)
		audithandler.NewHandler(auditService, directoryService).RegisterRoutes(r)
	})

	return &App{
		Config:     cfg,
		DB:         pool,
		Router:     router,
		Metrics:    collector,
		workerPool: workerPool,
	}, nil
}

func (a *App) Run() error {
	log.Printf("timebuddy server listening on %s", a.Config.Addr)
	return http.ListenAndServe(a.Config.Addr, a.Router)
}

func (a *App) Close() {
	if a.workerPool != nil {
		a.workerPool.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// locateMigrations resolves the migrations directory by walking up from
// the working directory, so tests run from nested packages find it too.
func locateMigrations(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	base, err := os.Getwd()
	if err != nil {
		return dir
	}
	for {
		candidate := filepath.Join(base, dir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(base)
		if parent == base {
			return dir
		}
		base = parent
	}
}
