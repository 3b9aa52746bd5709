package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fueldesk/internal/db"
	"fueldesk/internal/domain/accounting"
	"fueldesk/internal/domain/audit"
	"fueldesk/internal/domain/ledger"
	"fueldesk/internal/domain/station"
	"fueldesk/internal/platform/config"
	accountinghandler "fueldesk/internal/transport/http/handlers/accounting"
	audithandler "fueldesk/internal/transport/http/handlers/audit"
	authhandler "fueldesk/internal/transport/http/handlers/auth"
	ledgerhandler "fueldesk/internal/transport/http/handlers/ledger"
	stationhandler "fueldesk/internal/transport/http/handlers/station"
	"fueldesk/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	stationService := station.NewService(station.NewStore(pool))
	accountingService := accounting.NewService(accounting.NewStore(pool), stationService)
	ledgerService := ledger.NewService(ledger.NewStore(pool))
	auditService := audit.New(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

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

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(pool, cfg.JWTSecret).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))

			stationhandler.NewHandler(stationService, auditService).RegisterRoutes(r)
			accountinghandler.NewHandler(accountingService, auditService).RegisterRoutes(r)
			ledgerhandler.NewHandler(ledgerService, auditService).RegisterRoutes(r)
			audithandler.NewHandler(auditService).RegisterRoutes(r)
		})
	})

	log.Printf("fueldesk server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
