package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"nomina/internal/domain/adjustment"
	"nomina/internal/domain/attendance"
	"nomina/internal/domain/audit"
	"nomina/internal/domain/employee"
	"nomina/internal/domain/payroll"
	"nomina/internal/platform/config"
	"nomina/internal/platform/db"
	"nomina/internal/platform/metrics"
	adjustmenthandler "nomina/internal/transport/http/handlers/adjustments"
	audithandler "nomina/internal/transport/http/handlers/audit"
	payrollhandler "nomina/internal/transport/http/handlers/payroll"
	"nomina/internal/transport/http/middleware"
)

func Run() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

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

	collector := metrics.New()

	recordStore := payroll.NewStore(pool)
	ledger := adjustment.NewStore(pool)
	trail := audit.NewStore(pool)
	employees := employee.NewStore(pool)
	attendanceStore := attendance.NewStore(pool)

	payrollService := payroll.NewService(recordStore, ledger, trail, employees, attendanceStore)
	payrollService.Runs = recordStore

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.Auth(cfg.JWTSecret))

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
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(collector.Snapshot()); err != nil {
				log.Printf("metrics encode failed: %v", err)
			}
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		payrollHandler := payrollhandler.NewHandler(payrollService, recordStore, collector, cfg.BulkWorkers)
		payrollHandler.ListEmployees = func(req *http.Request) ([]string, error) {
			return employees.List(req.Context())
		}
		payrollHandler.RegisterRoutes(r)

		adjustmentHandler := adjustmenthandler.NewHandler(ledger, trail)
		adjustmentHandler.RegisterRoutes(r)

		auditHandler := audithandler.NewHandler(trail)
		auditHandler.RegisterRoutes(r)
	})

	log.Printf("payroll server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
