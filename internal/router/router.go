// Package router wires middleware, storage and the domain modules into one
// chi handler.
package router

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fever-tracker/internal/adapters/ai/gemini"
	"fever-tracker/internal/adapters/storage/memory"
	pg "fever-tracker/internal/adapters/storage/postgres"
	sqlitestore "fever-tracker/internal/adapters/storage/sqlite"
	"fever-tracker/internal/config"
	"fever-tracker/internal/domain/assistant"
	"fever-tracker/internal/domain/dosing"
	"fever-tracker/internal/domain/formulary"
	"fever-tracker/internal/domain/insights"
	"fever-tracker/internal/domain/profiles"
	"fever-tracker/internal/metrics"
	"fever-tracker/internal/middleware"
	"fever-tracker/internal/platform/logger"
	"fever-tracker/internal/share"
	"fever-tracker/internal/voice"
)

type Options struct {
	Config *config.Config
	Logger logger.Logger

	// Optional: pre-opened DB (tests). Otherwise the store is opened from
	// Config.StoreDriver.
	DB *sql.DB
}

// New builds the full handler plus the services main needs to hold on to.
type Router struct {
	Handler     http.Handler
	ProfilesSvc *profiles.Service

	db *sql.DB // owned when opened here; closed by Close
}

func New(opts Options) (*Router, error) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	repo, db, err := openRepository(cfg, opts.DB)
	if err != nil {
		return nil, err
	}

	profilesSvc := profiles.NewService(repo)

	aiClient := gemini.NewClient(gemini.Config{
		BaseURL: cfg.GeminiBaseURL,
		APIKey:  cfg.GeminiAPIKey,
		Timeout: time.Duration(cfg.AITimeoutSeconds) * time.Second,
	})
	assistantSvc := assistant.NewService(aiClient, time.Duration(cfg.AITimeoutSeconds)*time.Second, log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log.Zerolog()))
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	formulary.RegisterRoutes(r)
	profiles.RegisterRoutes(r, profilesSvc)
	dosing.RegisterRoutes(r, profilesSvc)
	insights.RegisterRoutes(r, profilesSvc)
	assistant.RegisterRoutes(r, assistantSvc, profilesSvc)
	share.RegisterRoutes(r, profilesSvc)
	voice.RegisterRoutes(r)

	return &Router{Handler: r, ProfilesSvc: profilesSvc, db: db}, nil
}

func (rt *Router) Close() error {
	if rt.db != nil {
		return rt.db.Close()
	}
	return nil
}

// openRepository picks the storage adapter from config. The returned db is
// non-nil only when this function opened it.
func openRepository(cfg *config.Config, preopened *sql.DB) (profiles.Repository, *sql.DB, error) {
	if preopened != nil {
		return sqlitestore.NewProfilesRepo(preopened), nil, nil
	}

	switch cfg.StoreDriver {
	case config.DriverMemory:
		return memory.NewProfilesRepo(), nil, nil

	case config.DriverSQLite:
		db, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return sqlitestore.NewProfilesRepo(db), db, nil

	case config.DriverPostgres:
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pg.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("postgres schema: %w", err)
		}
		return pg.NewProfilesRepo(db), db, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
