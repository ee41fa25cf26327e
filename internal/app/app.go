// Package app assembles the HTTP server: configuration, logging,
// metrics, services, router, and graceful shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/config"
	apierrors "github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/errors"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/infrastructure"
	custommw "github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/middleware"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/services"
	handlers "github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/transport/http"
)

const (
	AppName = "Stellest Myopia Prediction Service"
	Version = "1.0.0"
)

// Application is the dependency container for the server binary.
type Application struct {
	Config  *config.Config
	Router  *chi.Mux
	Server  *http.Server
	Logger  *slog.Logger
	Metrics *infrastructure.Metrics

	PredictionService *services.PredictionService
	TrainingService   *services.TrainingService
	HealthService     *services.HealthService
}

// NewApplication loads configuration and wires every service together.
// The prediction model is loaded (or trained) during construction; a
// missing model is not fatal, the API serves 503 until one is available.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Metrics: infrastructure.NewMetrics(),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

func (a *Application) initializeServices() {
	a.PredictionService = services.NewPredictionService(a.Logger, a.Metrics)
	a.TrainingService = services.NewTrainingService(a.Config, a.Metrics, a.Logger)
	a.HealthService = services.NewHealthService(Version, a.PredictionService)

	ctx := context.Background()

	if a.Config.Model.TrainOnStart {
		trained, summary, trainErr := a.TrainingService.Train(ctx)
		if trainErr != nil {
			a.Logger.Error("Training on startup failed",
				slog.String("error", trainErr.Error()))
			return
		}
		a.Logger.Info("Model trained on startup",
			slog.Int("patients", summary.Patients),
			slog.String("model_path", summary.ModelPath),
			slog.Duration("duration", summary.Duration))
		a.PredictionService.SetModel(trained)
		return
	}

	loaded, err := a.TrainingService.LoadOrTrain(ctx)
	if err != nil {
		a.Logger.Warn("No prediction model available, serving degraded",
			slog.String("error", err.Error()))
		return
	}
	a.PredictionService.SetModel(loaded)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)

	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	r.Group(func(r chi.Router) {
		r.Use(custommw.StructuredLogger(a.Logger))
		r.Use(custommw.Recoverer(a.Logger))
		r.Use(custommw.Metrics(a.Metrics))
		r.Use(custommw.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(custommw.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(custommw.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		r.Route("/api", func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Use(custommw.Timeout(a.Config.Server.RequestTimeout, a.Logger))

			healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
			r.Mount("/health", healthHandler.Routes())
			r.Get("/version", healthHandler.Version)

			predictionHandler := handlers.NewPredictionHandler(a.PredictionService, a.Logger, errorHandler)
			r.Mount("/", predictionHandler.Routes())
		})
	})

	// Prometheus scrape endpoint stays outside the middleware group.
	r.Handle("/metrics", a.Metrics.Handler())

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	a.Router = r
}

func (a *Application) getCORSConfig() custommw.CORSConfig {
	return custommw.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run serves HTTP until the context is cancelled or the listener fails,
// then shuts down gracefully within the configured timeout.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(ctx, "Server listening",
			slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.Logger.Info("Shutting down application")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if closeErr := infrastructure.CloseLogFile(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err == nil {
		a.Logger.Info("Application shutdown complete")
	}
	return err
}
