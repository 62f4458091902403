package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/mikelabs-llc/schoolgate-pass/internal/attendance"
	"github.com/mikelabs-llc/schoolgate-pass/internal/auth"
	"github.com/mikelabs-llc/schoolgate-pass/internal/changerequest"
	"github.com/mikelabs-llc/schoolgate-pass/internal/config"
	"github.com/mikelabs-llc/schoolgate-pass/internal/db"
	"github.com/mikelabs-llc/schoolgate-pass/internal/fee"
	"github.com/mikelabs-llc/schoolgate-pass/internal/health"
	"github.com/mikelabs-llc/schoolgate-pass/internal/logger"
	"github.com/mikelabs-llc/schoolgate-pass/internal/metrics"
	"github.com/mikelabs-llc/schoolgate-pass/internal/middleware"
	"github.com/mikelabs-llc/schoolgate-pass/internal/notify"
	"github.com/mikelabs-llc/schoolgate-pass/internal/storage"
	"github.com/mikelabs-llc/schoolgate-pass/internal/student"
	"github.com/mikelabs-llc/schoolgate-pass/internal/telemetry"
	"github.com/mikelabs-llc/schoolgate-pass/internal/term"

	"github.com/go-chi/chi/v5"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type App struct {
	config        *config.Config
	router        chi.Router
	server        *http.Server
	logger        *slog.Logger
	notifier      *notify.Service
	meterProvider *sdkmetric.MeterProvider
}

func New() *App {
	slogLogger := logger.NewWithService("schoolgate-pass", "1.0.0")

	// Set as default logger so slog.Info() uses JSON format
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	ctx := context.Background()

	// Export metrics only outside local development; the global no-op
	// provider is fine on a laptop.
	if cfg.Env != "local" {
		meterProvider, err := telemetry.InitMeterProvider(ctx, "schoolgate-pass", "1.0.0", slogLogger)
		if err != nil {
			slogLogger.Warn("failed to initialize OTel exporter, metrics stay local", "error", err)
		} else {
			app.meterProvider = meterProvider
		}
	}

	m, err := metrics.New(ctx, "schoolgate-pass", slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize metrics, continuing without", "error", err)
		m = metrics.NewMock()
	}

	database := db.New(cfg.Database)

	if err := db.RunMigrations(ctx, database,
		(*student.Student)(nil),
		(*attendance.Record)(nil),
		(*fee.Payment)(nil),
		(*term.Term)(nil),
		(*changerequest.Request)(nil),
		(*auth.Profile)(nil),
		(*auth.RefreshToken)(nil),
	); err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints (no auth required)
	healthHandler := health.NewHandler(database)
	healthHandler.RegisterRoutes(app.router)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret)

	// Repositories
	studentRepo := student.NewRepository(database, m)
	attendanceRepo := attendance.NewRepository(database, m)
	feeRepo := fee.NewRepository(database, m)
	termRepo := term.NewRepository(database, m)
	requestRepo := changerequest.NewRepository(database, m)
	authRepo := auth.NewRepository(database, m)

	// Event producer; nop when no broker is configured.
	producer, err := notify.NewProducer(cfg.Notify, slogLogger)
	if err != nil {
		log.Fatal("failed to initialize event producer:", err)
	}
	app.notifier = notify.NewService(producer, m.Portal, slogLogger)

	// Passport photo store is optional; photo uploads return 503 without it.
	var photos student.PhotoStore
	if cfg.Storage.Endpoint != "" {
		ossStore, err := storage.NewOSSStore(cfg.Storage, slogLogger)
		if err != nil {
			slogLogger.Warn("failed to initialize OSS store, photo uploads disabled", "error", err)
		} else {
			photos = ossStore
		}
	}

	// Services
	studentService := student.NewService(studentRepo, cfg.Portal.BaseURL, app.notifier)
	attendanceService := attendance.NewService(attendanceRepo)
	feeService := fee.NewService(feeRepo, termRepo)
	requestService := changerequest.NewService(requestRepo, studentRepo, app.notifier, slogLogger, m)
	authService := auth.NewService(authRepo, studentRepo, tokens)

	// Handlers
	studentHandler := student.NewHandler(studentService, photos, slogLogger, m)
	attendanceHandler := attendance.NewHandler(attendanceService, slogLogger, m)
	feeHandler := fee.NewHandler(feeService, slogLogger, m)
	termHandler := term.NewHandler(termRepo, slogLogger)
	requestHandler := changerequest.NewHandler(requestService, slogLogger)
	authHandler := auth.NewHandler(authService, slogLogger)
	shareHandler := notify.NewHandler(studentService, slogLogger)

	// Login, refresh and parent login are public.
	authHandler.RegisterRoutes(app.router)

	// Staff endpoints
	app.router.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(tokens, auth.RoleStaff, slogLogger))
		studentHandler.RegisterRoutes(r)
		attendanceHandler.RegisterStaffRoutes(r)
		feeHandler.RegisterStaffRoutes(r)
		termHandler.RegisterStaffRoutes(r)
		requestHandler.RegisterStaffRoutes(r)
		shareHandler.RegisterStaffRoutes(r)
	})

	// Parent endpoints, scoped to the student bound to the session token.
	app.router.Route("/parent", func(r chi.Router) {
		r.Use(auth.Middleware(tokens, auth.RoleParent, slogLogger))
		attendanceHandler.RegisterParentRoutes(r)
		feeHandler.RegisterParentRoutes(r)
		requestHandler.RegisterParentRoutes(r)
	})

	slogLogger.Info("application initialized successfully")

	return app
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")
	if a.notifier != nil {
		if err := a.notifier.Close(); err != nil {
			a.logger.Warn("failed to close event producer", "error", err)
		}
	}
	if a.meterProvider != nil {
		if err := telemetry.Shutdown(ctx, a.meterProvider, a.logger); err != nil {
			a.logger.Warn("failed to shut down meter provider", "error", err)
		}
	}
	return a.server.Shutdown(ctx)
}
