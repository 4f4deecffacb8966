package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	api "github.com/jarawa/josaa-predictor/internal/api/http"
	"github.com/jarawa/josaa-predictor/internal/auth"
	"github.com/jarawa/josaa-predictor/internal/config"
	"github.com/jarawa/josaa-predictor/internal/cutoff"
	"github.com/jarawa/josaa-predictor/internal/db"
	"github.com/jarawa/josaa-predictor/internal/eventlog"
	"github.com/jarawa/josaa-predictor/internal/logging"
	"github.com/jarawa/josaa-predictor/internal/predict"
	"github.com/jarawa/josaa-predictor/internal/rbac"
	"github.com/jarawa/josaa-predictor/internal/users"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()
	log := logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Error("db open failed", "error", err)
		os.Exit(1)
	}

	userStore := users.NewStore(dbh)
	if err := userStore.EnsureAdmin(ctx, cfg.AdminUser, cfg.AdminPass); err != nil {
		log.Error("admin seed failed", "error", err)
		os.Exit(1)
	}

	// --- Cutoff data: DB-backed or CSV-over-HTTP, behind a TTL cache ---
	cutoffStore := cutoff.NewSQLStore(dbh)
	var upstream cutoff.Source = cutoffStore
	if !cfg.CutoffFromDB {
		upstream = cutoff.NewHTTPSource(cfg.CutoffCSVURL, nil)
	}
	source := cutoff.NewCache(upstream, cfg.CutoffCacheTTL)

	builder := predict.NewBuilder()
	events := eventlog.NewRepo(dbh)

	authSvc := auth.NewAuthService(cfg.AuthSecret)
	resets := auth.NewResetStore()
	var mailer auth.Mailer = auth.LogMailer{Log: log}
	if cfg.SMTPHost != "" {
		mailer = auth.SMTPMailer{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, userStore))
	r.Post("/auth/register", auth.RegisterHandler(userStore))
	r.Post("/auth/reset/request", auth.RequestResetHandler(userStore, resets, mailer, log))
	r.Post("/auth/reset/confirm", auth.ConfirmResetHandler(userStore, resets))

	// Protected API (JWT -> role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("predict:run")).
			Post("/api/predict", api.PredictHandler(source, builder, events, log))
		pr.With(rbac.Require("branches:list")).
			Get("/api/branches", api.BranchesHandler(source, log))

		pr.With(rbac.Require("dataset:import")).
			Post("/api/admin/import", api.ImportHandler(cutoffStore, source, log))
		pr.With(rbac.Require("users:list")).
			Get("/api/admin/users", api.ListUsersHandler(userStore))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Info("listening", "addr", cfg.HTTPAddr, "mode", string(cfg.Mode), "db", cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
