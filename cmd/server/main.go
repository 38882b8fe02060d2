package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prepdeck/prepdeck/internal"
	"github.com/prepdeck/prepdeck/internal/ai"
	"github.com/prepdeck/prepdeck/internal/ai/anthropic"
	"github.com/prepdeck/prepdeck/internal/ai/mock"
	"github.com/prepdeck/prepdeck/internal/billing"
	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/handler"
	"github.com/prepdeck/prepdeck/internal/jobs"
	"github.com/prepdeck/prepdeck/internal/metrics"
	"github.com/prepdeck/prepdeck/internal/middleware"
	"github.com/prepdeck/prepdeck/internal/repository"
	"github.com/prepdeck/prepdeck/internal/service"
	"github.com/prepdeck/prepdeck/internal/storage"
	"github.com/prepdeck/prepdeck/internal/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// sessionCleanupInterval is how often expired sessions are purged.
const sessionCleanupInterval = 1 * time.Hour

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository
	repo := repository.New(db)

	// Plan catalog (free / pro / pro_max limits)
	catalog := domain.DefaultCatalog()

	// Initialize object storage
	store, err := newStorage(cfg, logger)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}
	logger.Info("Storage ready", "provider", cfg.StorageProvider)

	// Initialize AI provider
	provider, err := newAIProvider(cfg, repo, logger)
	if err != nil {
		return fmt.Errorf("AI provider initialization failed: %w", err)
	}
	logger.Info("AI provider ready", "provider", cfg.AIProvider)

	// Initialize billing (optional)
	var billingService billing.Service
	if cfg.StripeSecretKey != "" {
		billingService = billing.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret, billing.PriceConfig{
			ProMonthlyPriceID:    cfg.StripeProMonthlyPriceID,
			ProMaxMonthlyPriceID: cfg.StripeProMaxMonthlyPriceID,
		})
		logger.Info("Stripe billing enabled")
	} else {
		logger.Warn("Stripe billing disabled: STRIPE_SECRET_KEY not set")
	}

	// Initialize services
	userService := service.NewUserService(repo, logger)
	usageService := service.NewUsageService(repo, catalog, logger)
	profileService := service.NewJobProfileService(repo, logger)
	questionService := service.NewQuestionService(repo, profileService, usageService, provider, logger)
	interviewService := service.NewInterviewService(repo, profileService, usageService, logger)
	resumeService := service.NewResumeService(repo, profileService, usageService, provider, store, logger)

	// Initialize background worker
	var w *worker.Worker
	if cfg.WorkerEnabled {
		workerCfg := worker.DefaultConfig()
		workerCfg.Concurrency = cfg.WorkerConcurrency
		workerCfg.PollInterval = cfg.WorkerPollInterval
		workerCfg.JobTimeout = cfg.WorkerJobTimeout
		workerCfg.RetryBaseDelay = cfg.WorkerRetryBaseDelay

		w, err = worker.New(repo, workerCfg, logger)
		if err != nil {
			return fmt.Errorf("worker initialization failed: %w", err)
		}
		w.Register(jobs.NewAnalyzeResumeHandler(resumeService, logger))
		w.Register(jobs.NewResetUsageHandler(usageService, logger))
		w.Start(ctx)
		defer w.Stop()
		logger.Info("Worker started", "concurrency", cfg.WorkerConcurrency)
	}

	// Periodic session cleanup
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(sessionCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := userService.DeleteExpiredSessions(ctx); err != nil {
					logger.Error("session cleanup failed", "error", err)
				}
			case <-cleanupDone:
				return
			}
		}
	}()
	defer close(cleanupDone)

	// Initialize middleware
	isSecure := cfg.Env != "development"
	authMw := middleware.NewAuthMiddleware(userService, logger, isSecure)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	authLimiter := middleware.NewAuthRateLimiter(logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService, authLimiter, logger, isSecure)
	profileHandler := handler.NewJobProfileHandler(profileService, logger)
	questionHandler := handler.NewQuestionHandler(questionService, logger)
	interviewHandler := handler.NewInterviewHandler(interviewService, logger)
	resumeHandler := handler.NewResumeHandler(resumeService, logger)
	usageHandler := handler.NewUsageHandler(usageService, catalog, logger)
	billingHandler := handler.NewBillingHandler(billingService, userService, cfg.BaseURL, logger)
	webhookHandler := handler.NewWebhookHandler(billingService, userService, repo, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics (basic auth when configured)
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	requireUser := authMw.RequireUser

	authHandler.RegisterRoutes(mux, requireUser, authLimiter.LimitLogin, authLimiter.LimitRegister)
	profileHandler.RegisterRoutes(mux, requireUser)
	questionHandler.RegisterRoutes(mux, requireUser)
	interviewHandler.RegisterRoutes(mux, requireUser)
	resumeHandler.RegisterRoutes(mux, requireUser)
	usageHandler.RegisterRoutes(mux, requireUser)
	billingHandler.RegisterRoutes(mux, requireUser)
	webhookHandler.RegisterRoutes(mux)

	// Outer middleware stack: metrics -> logging -> security headers -> session
	root := middleware.Stack(
		metrics.Middleware,
		loggingMw.Handler,
		securityMw.Handler,
		authMw.WithUser,
	)(mux)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

// newStorage builds the object storage backend from config.
func newStorage(cfg *internal.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.StorageProvider {
	case "r2":
		return storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		}, logger)
	default:
		return storage.NewLocalStorage(storage.LocalConfig{
			BasePath: cfg.LocalStoragePath,
			BaseURL:  cfg.LocalStorageURL,
		}, logger)
	}
}

// newAIProvider builds the AI provider from config.
func newAIProvider(cfg *internal.Config, repo *repository.Queries, logger *slog.Logger) (ai.Provider, error) {
	switch cfg.AIProvider {
	case "anthropic":
		return anthropic.New(anthropic.Config{
			APIKey: cfg.AnthropicAPIKey,
			Model:  cfg.AnthropicModel,
			ProviderConfig: ai.ProviderConfig{
				MaxRetries:     cfg.AIMaxRetries,
				RetryBaseDelay: cfg.AIRetryBaseDelay,
				RequestTimeout: cfg.AIRequestTimeout,
			},
		}, repo, logger)
	default:
		return mock.New(logger), nil
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
