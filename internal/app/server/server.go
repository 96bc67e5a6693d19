package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"hradmin/internal/domain/attendance"
	"hradmin/internal/domain/audit"
	"hradmin/internal/domain/auth"
	"hradmin/internal/domain/core"
	"hradmin/internal/domain/documents"
	"hradmin/internal/domain/finance"
	"hradmin/internal/domain/leave"
	"hradmin/internal/domain/performance"
	"hradmin/internal/domain/reports"
	"hradmin/internal/platform/config"
	"hradmin/internal/platform/db"
	"hradmin/internal/platform/metrics"
	attendancehandler "hradmin/internal/transport/http/handlers/attendance"
	audithandler "hradmin/internal/transport/http/handlers/audit"
	authhandler "hradmin/internal/transport/http/handlers/auth"
	corehandler "hradmin/internal/transport/http/handlers/core"
	documentshandler "hradmin/internal/transport/http/handlers/documents"
	financehandler "hradmin/internal/transport/http/handlers/finance"
	leavehandler "hradmin/internal/transport/http/handlers/leave"
	performancehandler "hradmin/internal/transport/http/handlers/performance"
	reportshandler "hradmin/internal/transport/http/handlers/reports"
	"hradmin/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Metrics *metrics.Collector
}

// New wires the full application: database, domain stores and the HTTP
// router. Callers own the returned pool via Close.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, findMigrationsDir()); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	app := &App{Config: cfg, DB: pool, Metrics: metrics.New()}
	app.Router = app.buildRouter()
	return app, nil
}

// findMigrationsDir walks up from the working directory so tests started
// inside a package directory still find the repository's migrations.
func findMigrationsDir() string {
	dir := "migrations"
	probe := dir
	for range [6]int{} {
		if info, err := os.Stat(probe); err == nil && info.IsDir() {
			return probe
		}
		probe = filepath.Join("..", probe)
	}
	return dir
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

func (a *App) buildRouter() http.Handler {
	cfg := a.Config
	pool := a.DB

	authStore := auth.NewStore(pool)
	coreStore := core.NewStore(pool)
	attendanceStore := attendance.NewStore(pool)
	leaveStore := leave.NewStore(pool)
	financeStore := finance.NewStore(pool)
	documentsStore := documents.NewStore(pool)
	performanceStore := performance.NewStore(pool)
	reportsStore := reports.NewStore(pool)
	auditSvc := audit.New(pool)

	attendanceSvc := attendance.NewService(attendanceStore)
	leaveSvc := leave.NewService(leaveStore)

	isProd := cfg.Environment == "production"

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(isProd))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Metrics(a.Metrics))
	router.Use(middleware.Auth(cfg.JWTSecret, cfg.SessionCookieName))
	if cfg.RateLimitPerMinute > 0 {
		router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		router.Use(middleware.AuthRateLimit(cfg.RateLimitPerMinute, time.Minute))
	}

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
		router.Get("/metrics", a.handleMetrics)
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, auditSvc, cfg.JWTSecret, cfg.SessionCookieName, cfg.SessionTTL, isProd).RegisterRoutes(r)
		corehandler.NewHandler(coreStore, authStore, auditSvc).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceSvc, attendanceStore, authStore, auditSvc).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc, leaveStore, coreStore, authStore, auditSvc).RegisterRoutes(r)
		financehandler.NewHandler(financeStore, authStore, auditSvc).RegisterRoutes(r)
		documentshandler.NewHandler(documentsStore, authStore, auditSvc).RegisterRoutes(r)
		performancehandler.NewHandler(performanceStore, authStore, auditSvc).RegisterRoutes(r)
		reportshandler.NewHandler(reportsStore, authStore, auditSvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, authStore).RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	return router
}

func (a *App) handleMetrics(w http.ResponseWriter, r *http.Request) {
	stats := a.Metrics.Snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "requests_total %d\n", stats.RequestsTotal)
	fmt.Fprintf(w, "errors_total %d\n", stats.ErrorsTotal)
	fmt.Fprintf(w, "rate_limited_total %d\n", stats.RateLimitedTotal)
	fmt.Fprintf(w, "avg_duration_ms %.2f\n", stats.AvgDurationMs)
	fmt.Fprintf(w, "total_duration_ms %d\n", stats.TotalDurationMs)
}

// Run blocks serving HTTP until the listener fails.
func Run() {
	cfg := config.Load()

	ctx := context.Background()
	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	if _, err := os.Stat(path); err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	} else if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
