package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vetordigital/leadfunnel/internal/adapters/cache"
	"github.com/vetordigital/leadfunnel/internal/adapters/database"
	"github.com/vetordigital/leadfunnel/internal/adapters/events"
	"github.com/vetordigital/leadfunnel/internal/adapters/providers/calendar"
	"github.com/vetordigital/leadfunnel/internal/adapters/providers/crm"
	"github.com/vetordigital/leadfunnel/internal/adapters/providers/sheets"
	"github.com/vetordigital/leadfunnel/internal/api/handlers"
	"github.com/vetordigital/leadfunnel/internal/api/routes"
	"github.com/vetordigital/leadfunnel/internal/application/services"
	"github.com/vetordigital/leadfunnel/internal/domain/providers"
	"github.com/vetordigital/leadfunnel/internal/infrastructure/clients/postgres"
	"github.com/vetordigital/leadfunnel/internal/infrastructure/clients/redis"
	"github.com/vetordigital/leadfunnel/internal/infrastructure/notifications"
	"github.com/vetordigital/leadfunnel/internal/infrastructure/observability"
	"github.com/vetordigital/leadfunnel/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize structured logging
	env := os.Getenv("ENV")
	if env == "" {
		env = "production"
	}
	observability.InitLogger(cfg.OTEL.ServiceName, env)

	log.Info().
		Str("service", cfg.OTEL.ServiceName).
		Str("version", cfg.OTEL.ServiceVersion).
		Str("env", env).
		Msg("Starting API server")

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized successfully")

	// Initialize Redis client. The availability cache itself is in-process;
	// Redis only carries cross-instance invalidation events, so a missing
	// Redis just means each instance clears on its own.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis client, cache invalidation will be local only")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized successfully")
	}

	// Initialize adapters
	bookingAdapter := database.NewBookingAdapter(pgClient)
	availabilityCache := cache.NewMemoryCache(time.Duration(cfg.Booking.CacheTTLSeconds) * time.Second)
	calendarProvider := calendar.NewCalendarProvider(cfg.Calendar)

	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		defer eventBus.Close()
	}

	var crmSink providers.CRMSink
	if cfg.CRM.APIKey != "" {
		crmSink = crm.NewHighLevelAdapter(cfg.CRM)
		log.Info().Msg("CRM sink initialized")
	} else {
		log.Warn().Msg("CRM sink disabled (no API key configured)")
	}

	var leadLogSink providers.LeadLogSink
	if cfg.Sheets.SpreadsheetID != "" {
		leadLogSink = sheets.NewGoogleSheetsAdapter(cfg.Sheets)
		log.Info().Msg("Lead log sink initialized")
	} else {
		log.Warn().Msg("Lead log sink disabled (no spreadsheet configured)")
	}

	var notificationService *services.NotificationService
	if cfg.Email.SendGridAPIKey != "" {
		sender, err := notifications.NewSendGridSender(&cfg.Email)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize email sender")
		} else {
			notificationService = services.NewNotificationService(sender)
			log.Info().Msg("Email notifications initialized")
		}
	} else {
		log.Warn().Msg("Email notifications disabled (no SendGrid key configured)")
	}

	// Initialize services
	availabilityService := services.NewAvailabilityService(
		calendarProvider,
		availabilityCache,
		eventBus,
		metrics,
	)
	bookingService := services.NewBookingService(
		bookingAdapter,
		calendarProvider,
		crmSink,
		leadLogSink,
		notificationService,
		time.Duration(cfg.Booking.DefaultDurationMinutes)*time.Minute,
	)

	// Start the invalidation listener so cache clears propagate across instances
	if eventBus != nil {
		invalidationService := services.NewCacheInvalidationService(availabilityCache, eventBus)
		if err := invalidationService.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start cache invalidation listener")
		} else {
			defer invalidationService.Stop()
			log.Info().Msg("Cache invalidation listener started")
		}
	}

	// Initialize handlers
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	adminHandler := handlers.NewAdminHandler(availabilityService, bookingService)

	// Set up routes
	router := routes.NewRouter(
		availabilityHandler,
		bookingHandler,
		adminHandler,
		cfg.Server.AllowedOrigins,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("address", serverAddr).Msg("API server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("API server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("API server stopped")
}
