package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/admin"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/appointment"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/importer"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/patient"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/auth"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/config"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/database"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/events"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/logging"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/metrics"
	secmiddleware "github.com/gabzy-works/Ospital-ng-Imus/internal/shared/middleware"
)

// App holds all application dependencies
type App struct {
	Config *config.Config
	Log    zerolog.Logger
	DB     *database.DB
	Bus    *events.Bus
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log.Level)
	app := &App{Config: cfg, Log: log}

	// Storage backend selection: the patient collection moved from flat
	// JSON files to a relational store over time; all three backends
	// remain supported.
	var (
		patientStore     patient.Store
		appointmentStore appointment.Store
		historyStore     importer.HistoryStore
	)
	switch cfg.Storage.Backend {
	case "postgres":
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		app.DB = db
		defer db.Close()

		if err := database.Migrate(ctx, db.Pool); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}

		patientStore = patient.NewPostgresStore(db.Pool)
		appointmentStore = appointment.NewPostgresStore(db.Pool)
		historyStore = importer.NewPostgresHistoryStore(db.Pool)
		log.Info().Msg("using PostgreSQL storage")

	case "mssql":
		// Patient records live in the hospital information system's SQL
		// Server; appointments and import history stay on local files.
		store, err := patient.NewMSSQLStore(ctx, cfg.MSSQL.DSN())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to SQL Server")
		}
		defer store.Close()

		patientStore = store
		appointmentStore = appointment.NewJSONStore(cfg.Storage.DataDir)
		historyStore = importer.NewJSONHistoryStore(cfg.Storage.DataDir)
		log.Info().Msg("using SQL Server patient storage")

	default:
		patientStore = patient.NewJSONStore(cfg.Storage.DataDir, log)
		appointmentStore = appointment.NewJSONStore(cfg.Storage.DataDir)
		historyStore = importer.NewJSONHistoryStore(cfg.Storage.DataDir)
		log.Info().Str("dir", cfg.Storage.DataDir).Msg("using JSON file storage")
	}

	// Event streaming is optional; without it events are discarded
	if cfg.EventStore.Enabled {
		bus, err := events.NewBus(ctx, cfg.EventStore)
		if err != nil {
			log.Warn().Err(err).Msg("EventStoreDB not available, running without event streaming")
		} else {
			app.Bus = bus
			defer bus.Close()
			log.Info().Msg("event bus initialized")
		}
	}

	patientSvc := patient.NewService(patientStore, app.Bus, log)
	patientHandler := patient.NewHandler(patientSvc)

	importSvc := importer.NewService(patientStore, historyStore, app.Bus, log)
	importHandler := importer.NewHandler(importSvc)

	appointmentSvc := appointment.NewService(appointmentStore, patientSvc, app.Bus, log)
	appointmentHandler := appointment.NewHandler(appointmentSvc)

	adminHandler := admin.NewHandler(cfg.Auth, log)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(secmiddleware.InputSanitizer)
	r.Use(metrics.Middleware)

	// Health checks (unauthenticated)
	r.Get("/health", healthHandler(app))
	r.Get("/ready", readyHandler(app))
	r.Handle("/metrics", metrics.Handler())

	// Public surface: search form submission, patient lookup
	r.Mount("/", patientHandler.PublicRoutes())

	// Admin surface: login is open (rate-limited); everything else sits
	// behind the session token
	r.Route("/admin", func(r chi.Router) {
		r.Mount("/login", adminHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(cfg.Auth))
			r.Use(auth.RequireAdmin)

			r.Mount("/", patientHandler.AdminRoutes())
			r.Mount("/imports", importHandler.Routes())
			r.Mount("/appointments", appointmentHandler.Routes())
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
		close(done)
	}()

	log.Info().
		Str("env", cfg.Server.Env).
		Int("port", cfg.Server.Port).
		Str("backend", cfg.Storage.Backend).
		Msg("Ospital ng Imus front desk listening")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}

	<-done
	log.Info().Msg("server stopped")
}

func healthHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

func readyHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if app.DB != nil {
			if err := app.DB.Health(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]any{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
