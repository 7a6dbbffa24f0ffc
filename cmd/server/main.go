package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/cadencehq/cadence/internal/achievement"
	"github.com/cadencehq/cadence/internal/config"
	"github.com/cadencehq/cadence/internal/database"
	"github.com/cadencehq/cadence/internal/handlers"
	"github.com/cadencehq/cadence/internal/logger"
	"github.com/cadencehq/cadence/internal/middleware"
	"github.com/cadencehq/cadence/internal/queue"
	"github.com/cadencehq/cadence/internal/services/oidc"
	"github.com/cadencehq/cadence/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewProductionLogger(cfg.ServerDebugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", cfg.ServerDebugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "cadence-api", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Connect to database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	// Connect to Redis for rate limiting
	redisLimiter, err := middleware.NewRedisRateLimiter(cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
	}
	defer func() {
		if err := redisLimiter.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_redis")

	// Connect to RabbitMQ with retries to ride out broker startup delays
	jobQueue, err := connectQueue(cfg.RabbitMQURL, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries", zap.Error(err))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_rabbitmq")

	// Initialize repositories
	activityRepo := database.NewActivityLogRepository(db)
	streakRepo := database.NewStreakStateRepository(db)
	taskRepo := database.NewTaskRepository(db)
	ratelimitConfigRepo := database.NewRatelimitConfigRepository(db)

	// Badge catalog: file override or built-in defaults
	catalog := achievement.DefaultCatalog()
	if cfg.BadgeCatalogPath != "" {
		catalog, err = achievement.LoadCatalog(cfg.BadgeCatalogPath)
		if err != nil {
			zapLogger.Fatal("failed_to_load_badge_catalog",
				zap.String("path", cfg.BadgeCatalogPath),
				zap.Error(err))
		}
		zapLogger.Info("loaded_badge_catalog",
			zap.String("path", cfg.BadgeCatalogPath),
			zap.Int("badges", len(catalog)))
	}

	// Initialize auth services
	oidcProvider := oidc.NewProvider(oidc.Config{
		Issuer:       cfg.OIDCIssuer,
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		RedirectURL:  cfg.OIDCRedirectURL,
		JWKSURL:      cfg.OIDCJWKSURL,
	})
	jwksManager := oidc.NewJWKSManager()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(oidcProvider)
	calendarHandler := handlers.NewCalendarHandler(taskRepo, zapLogger)
	feedHandler := handlers.NewFeedHandler(taskRepo, zapLogger)
	streakHandler := handlers.NewStreakHandler(streakRepo, activityRepo, zapLogger, cfg.StreakLookbackDays)
	activityHandler := handlers.NewActivityHandler(activityRepo, streakRepo, jobQueue, zapLogger)
	badgeHandler := handlers.NewBadgeHandler(catalog, streakRepo, zapLogger)
	healthChecker := handlers.NewHealthChecker(db, jobQueue, redisLimiter.Client())

	// Setup router
	r := mux.NewRouter()

	if cfg.OTELEnabled {
		r.Use(otelmux.Middleware("cadence-api"))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS([]string{cfg.FrontendURL}))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Audit(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	// Rate limit middleware, applied per subrouter rather than globally
	rateLimitMW, err := middleware.RateLimitFromDB(redisLimiter.Client(), ratelimitConfigRepo, "5-S")
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}

	// Public routes
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	// API v1 routes
	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	authMW := middleware.Auth(db, oidcProvider, jwksManager, zapLogger)

	// Auth routes
	authRouter := apiRouter.PathPrefix("/auth").Subrouter()

	loginRouter := authRouter.PathPrefix("/oidc").Subrouter()
	loginRouter.Use(rateLimitMW)
	loginRouter.HandleFunc("/login", authHandler.GetOIDCLogin).Methods("GET")

	protectedAuthRouter := authRouter.PathPrefix("").Subrouter()
	protectedAuthRouter.Use(authMW)
	protectedAuthRouter.Use(rateLimitMW)
	protectedAuthRouter.HandleFunc("/me", authHandler.GetMe).Methods("GET")

	// Calendar routes (protected)
	calendarRouter := apiRouter.PathPrefix("/calendar").Subrouter()
	calendarRouter.Use(authMW)
	calendarRouter.Use(rateLimitMW)
	calendarHandler.RegisterRoutes(calendarRouter)
	feedHandler.RegisterRoutes(calendarRouter)

	// Streak routes (protected)
	streaksRouter := apiRouter.PathPrefix("/streaks").Subrouter()
	streaksRouter.Use(authMW)
	streaksRouter.Use(rateLimitMW)
	streakHandler.RegisterRoutes(streaksRouter)

	// Activity routes (protected)
	activityRouter := apiRouter.PathPrefix("/activity").Subrouter()
	activityRouter.Use(authMW)
	activityRouter.Use(rateLimitMW)
	activityHandler.RegisterRoutes(activityRouter)

	// Badge routes (protected)
	badgesRouter := apiRouter.PathPrefix("/badges").Subrouter()
	badgesRouter.Use(authMW)
	badgesRouter.Use(rateLimitMW)
	badgeHandler.RegisterRoutes(badgesRouter)

	// Catch-all OPTIONS handler for preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Background DLQ cleanup
	gcCtx, gcCancel := context.WithCancel(context.Background())
	defer gcCancel()
	if dlqPurger, ok := jobQueue.(queue.DLQPurger); ok {
		retention := time.Duration(cfg.DLQRetentionHours) * time.Hour
		dlqGC := queue.NewDLQGarbageCollector(dlqPurger, zapLogger, retention, queue.DefaultGCInterval)
		go dlqGC.Run(gcCtx)
		zapLogger.Info("started_dlq_garbage_collector",
			zap.Duration("retention", retention))
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	gcCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// connectQueue dials RabbitMQ with exponential backoff.
func connectQueue(amqpURL string, zapLogger *zap.Logger) (queue.JobQueue, error) {
	const maxRetries = 10
	const initialDelay = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		jobQueue, err := queue.NewRabbitMQQueue(amqpURL)
		if err == nil {
			return jobQueue, nil
		}

		lastErr = err
		delay := initialDelay * time.Duration(1<<uint(attempt))
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}
		zapLogger.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
			zap.Duration("retry_delay", delay),
		)
		time.Sleep(delay)
	}
	return nil, lastErr
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprintf(w, `{"version":"1.0.0","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339)); err != nil {
		_ = err
	}
}
