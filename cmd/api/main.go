package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/warehouse-ops/dashboard-service/pkg/logging"
	"github.com/warehouse-ops/dashboard-service/pkg/metrics"
	"github.com/warehouse-ops/dashboard-service/pkg/middleware"
	"github.com/warehouse-ops/dashboard-service/pkg/mongodb"
	"github.com/warehouse-ops/dashboard-service/pkg/tracing"

	"github.com/warehouse-ops/dashboard-service/internal/application"
	mongoRepo "github.com/warehouse-ops/dashboard-service/internal/infrastructure/mongodb"
)

const serviceName = "dashboard-service"

type appConfig struct {
	HTTPAddr        string        `env:"HTTP_ADDR" env-default:":8084"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
	Environment     string        `env:"ENVIRONMENT" env-default:"development"`
	MongoURI        string        `env:"MONGODB_URI" env-default:"mongodb://localhost:27017"`
	MongoDatabase   string        `env:"MONGODB_DATABASE" env-default:"dashboard"`
	ReportTimezone  string        `env:"REPORT_TIMEZONE" env-default:"Europe/Berlin"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4317"`
	TracingEnabled  bool          `env:"TRACING_ENABLED" env-default:"true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"15s"`
}

func main() {
	var cfg appConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("failed to read configuration: " + err.Error())
	}

	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(cfg.LogLevel)
	logConfig.Environment = cfg.Environment
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting dashboard-service API")

	ctx := context.Background()

	// OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = cfg.OTLPEndpoint
	tracingConfig.Environment = cfg.Environment
	tracingConfig.Enabled = cfg.TracingEnabled

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
		// Continue without tracing - don't exit
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("OpenTelemetry tracing initialized", "endpoint", cfg.OTLPEndpoint)
	}

	m := metrics.New(metrics.DefaultConfig(serviceName))

	// Reporting timezone drives day, shift and month boundaries
	loc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		logger.WithError(err).Error("Invalid report timezone, falling back to UTC", "timezone", cfg.ReportTimezone)
		loc = time.UTC
	}

	// MongoDB with instrumentation and circuit breaker
	mongoConfig := mongodb.DefaultConfig()
	mongoConfig.URI = cfg.MongoURI
	mongoConfig.Database = cfg.MongoDatabase

	mongoClient, err := mongodb.NewProductionClient(ctx, mongoConfig, m, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Close(context.Background()); err != nil {
			logger.WithError(err).Error("Failed to close MongoDB connection")
		}
	}()

	taskRepo := mongoRepo.NewTaskRepository(mongoClient)
	metalRepo := mongoRepo.NewScrapMetalRepository(mongoClient)
	priceRepo := mongoRepo.NewScrapPriceRepository(mongoClient)
	binRepo := mongoRepo.NewScrapBinRepository(mongoClient)
	archiveRepo := mongoRepo.NewScrapArchiveRepository(mongoClient)
	userRepo := mongoRepo.NewUserRepository(mongoClient)
	breakRepo := mongoRepo.NewBreakRepository(mongoClient)

	taskService := application.NewTaskApplicationService(taskRepo, m, logger)
	scrapService := application.NewScrapApplicationService(metalRepo, priceRepo, binRepo, archiveRepo, m, logger)
	settingsService := application.NewSettingsApplicationService(breakRepo, userRepo, logger)
	analyticsService := application.NewAnalyticsService(taskRepo, userRepo, breakRepo, archiveRepo, priceRepo, metalRepo, loc, m, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middleware.Setup(router, middlewareConfig)
	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.SimpleTracingMiddleware(serviceName))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return mongoClient.HealthCheck(checkCtx)
	}))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		tasks := apiV1.Group("/tasks")
		{
			tasks.POST("", createTaskHandler(taskService, logger))
			tasks.GET("", listTasksHandler(taskService, logger))
			tasks.GET("/:taskId", getTaskHandler(taskService, logger))
			tasks.POST("/:taskId/start", startProgressHandler(taskService, logger))
			tasks.POST("/:taskId/stop", stopProgressHandler(taskService, logger))
			tasks.POST("/:taskId/complete", completeTaskHandler(taskService, logger))
			tasks.POST("/:taskId/missing", reportMissingHandler(taskService, logger))
			tasks.POST("/:taskId/block", blockTaskHandler(taskService, logger))
			tasks.POST("/:taskId/unblock", unblockTaskHandler(taskService, logger))
			tasks.POST("/:taskId/audit/start", startAuditHandler(taskService, logger))
			tasks.POST("/:taskId/audit/complete", completeAuditHandler(taskService, logger))
		}

		analytics := apiV1.Group("/analytics")
		{
			analytics.GET("/tasks", taskAnalyticsHandler(analyticsService, logger))
			analytics.GET("/tasks/export", exportTaskReportHandler(analyticsService, logger))
			analytics.GET("/workers/:userId", workerDetailHandler(analyticsService, logger))
			analytics.GET("/scrap", scrapAnalyticsHandler(analyticsService, logger))
			analytics.GET("/scrap/export", exportScrapReportHandler(analyticsService, logger))
		}

		scrap := apiV1.Group("/scrap")
		{
			scrap.POST("/metals", saveMetalHandler(scrapService, logger))
			scrap.GET("/metals", listMetalsHandler(scrapService, logger))
			scrap.DELETE("/metals/:metalId", deleteMetalHandler(scrapService, logger))
			scrap.PUT("/prices", upsertPriceHandler(scrapService, logger))
			scrap.GET("/prices", listPricesHandler(scrapService, logger))
			scrap.POST("/bins", saveBinHandler(scrapService, logger))
			scrap.GET("/bins", listBinsHandler(scrapService, logger))
			scrap.DELETE("/bins/:name", deleteBinHandler(scrapService, logger))
			scrap.POST("/weigh", weighScrapHandler(scrapService, logger))
			scrap.POST("/archives", createArchiveHandler(scrapService, logger))
			scrap.GET("/archives", listArchivesHandler(scrapService, logger))
			scrap.GET("/archives/:archiveId", getArchiveHandler(scrapService, logger))
		}

		settings := apiV1.Group("/settings")
		{
			settings.POST("/breaks", saveBreakHandler(settingsService, logger))
			settings.GET("/breaks", listBreaksHandler(settingsService, logger))
			settings.DELETE("/breaks/:id", deleteBreakHandler(settingsService, logger))
			settings.GET("/users", listUsersHandler(settingsService, logger))
		}
	}

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down dashboard-service API")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
