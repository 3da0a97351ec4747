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
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/tenderintel/backend/internal/adapters/cache"
	"github.com/tenderintel/backend/internal/adapters/database"
	"github.com/tenderintel/backend/internal/adapters/search"
	"github.com/tenderintel/backend/internal/api/handlers"
	"github.com/tenderintel/backend/internal/api/routes"
	"github.com/tenderintel/backend/internal/application/services"
	"github.com/tenderintel/backend/internal/domain/providers"
	"github.com/tenderintel/backend/internal/domain/repositories"
	"github.com/tenderintel/backend/internal/infrastructure/clients/openai"
	"github.com/tenderintel/backend/internal/infrastructure/clients/postgres"
	"github.com/tenderintel/backend/internal/infrastructure/clients/redis"
	"github.com/tenderintel/backend/internal/infrastructure/clients/typesense"
	"github.com/tenderintel/backend/internal/infrastructure/observability"
	"github.com/tenderintel/backend/pkg/config"
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
		Msg("Starting API Server")

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
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			if err := runtime.Start(); err != nil {
				log.Warn().Err(err).Msg("Failed to start runtime instrumentation")
			}
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized successfully")

	// Initialize Redis client. The service runs without it, analyses
	// just skip the read-through layer.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized successfully")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Typesense client")
		typesenseClient = nil
	} else {
		log.Info().Msg("Typesense client initialized successfully")
	}

	// Initialize adapters

	tenderAdapter := database.NewTenderAdapter(pgClient)
	capabilityAdapter := database.NewCapabilityAdapter(pgClient)
	questionAdapter := database.NewQuestionAdapter(pgClient)

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Wrap the analysis store with caching if Redis is available
	analysisAdapter := database.NewAnalysisAdapter(pgClient)
	if cacheProvider != nil {
		analysisAdapter = database.NewCachedAnalysisAdapter(analysisAdapter, cacheProvider, cfg.Analysis.CacheTTL, metrics)
		log.Info().Msg("Analysis adapter wrapped with caching layer")
	} else {
		log.Warn().Msg("Analysis adapter running without cache (Redis unavailable)")
	}

	var searchRepo repositories.CapabilitySearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)

		// Ensure both partition collections exist
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to init Typesense schema")
		}

		searchRepo = adapter
	}

	// Initialize generation backend
	var generator providers.TextGenerator
	if cfg.OpenAI.APIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set; tender analysis disabled")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize OpenAI client")
		} else {
			generator = openaiClient
		}
	}

	// Initialize services

	retrievalService := services.NewCapabilityRetrievalService(searchRepo)

	analysisService := services.NewTenderAnalysisService(
		tenderAdapter,
		capabilityAdapter,
		analysisAdapter,
		retrievalService,
		generator,
		cfg.Analysis.RetrievalLimit,
		cfg.Analysis.TaskTimeout,
	)

	questionService := services.NewTenderQuestionService(
		tenderAdapter,
		capabilityAdapter,
		questionAdapter,
		retrievalService,
		generator,
		cfg.Analysis.RetrievalLimit,
		cfg.Analysis.TaskTimeout,
	)

	// Initialize handlers

	tenderHandler := handlers.NewTenderHandler(tenderAdapter)
	capabilityHandler := handlers.NewCapabilityHandler(capabilityAdapter, searchRepo)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	questionHandler := handlers.NewQuestionHandler(questionService)

	// Set up router

	router := routes.NewRouter(
		tenderHandler,
		capabilityHandler,
		analysisHandler,
		questionHandler,
		metrics,
	)

	handler := router.Setup()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
