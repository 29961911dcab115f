package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/lojista/backoffice-service/config"
	"github.com/lojista/backoffice-service/internal/database"
	"github.com/lojista/backoffice-service/internal/handlers"
	"github.com/lojista/backoffice-service/internal/middleware"
	"github.com/lojista/backoffice-service/internal/storage"
	"github.com/lojista/backoffice-service/internal/sweepers"
	"github.com/lojista/backoffice-service/internal/telemetry"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply the database schema on startup")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting backoffice service")

	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL not set")
	}

	ctx := context.Background()
	if err := database.Connect(
		ctx,
		dbURL,
		cfg.Database.MaxConnections,
		cfg.Database.MinConnections,
		cfg.Database.MaxConnLifetime,
		cfg.Database.MaxConnIdleTime,
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("Database connected")

	if *migrate {
		if err := database.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to apply schema")
		}
		logger.Info().Msg("Schema applied")
	}

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.GetConfigFromEnv())
	if err != nil {
		logger.Warn().Err(err).Msg("Telemetry init failed, continuing without it")
		shutdownTelemetry = func(context.Context) error { return nil }
	}

	archive, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Storage.BasePath).Msg("Failed to open archive storage")
	}
	handlers.SetArchive(archive)

	retentionSweeper := sweepers.NewRetentionSweeper(database.Pool(), logger, 6*time.Hour, 90*24*time.Hour)
	go retentionSweeper.Start(ctx)

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware())
	internal.Use(middleware.RateLimitMiddleware())
	{
		internal.GET("/health", handlers.HealthCheck)
		internal.GET("/channels", handlers.ListChannels)

		imports := internal.Group("/imports")
		{
			imports.POST("/:channel", handlers.ImportChannel)
			imports.POST("/:channel/items", handlers.ImportSiteItems)
			imports.GET("/runs", handlers.ListImportRuns)
		}

		orders := internal.Group("/orders")
		{
			orders.GET("", handlers.ListOrders)
			orders.DELETE("/:channel", handlers.PurgeChannelOrders)
		}

		products := internal.Group("/products")
		{
			products.GET("", handlers.ListProducts)
			products.PATCH("/:productId/cost", handlers.UpdateProductCost)
		}

		groups := internal.Group("/product-groups")
		{
			groups.GET("", handlers.ListProductGroups)
			groups.POST("", handlers.CreateProductGroup)
			groups.PUT("/:groupId", handlers.UpdateProductGroup)
			groups.DELETE("/:groupId", handlers.DeleteProductGroup)
		}

		stock := internal.Group("/stock")
		{
			stock.PUT("/config", handlers.SetStockConfig)
			stock.PUT("/products/:productId", handlers.SetProductOpeningQty)
			stock.PUT("/groups/:groupId", handlers.SetGroupOpeningQty)
		}

		reports := internal.Group("/reports")
		{
			reports.GET("/stock", handlers.GetStockReport)
			reports.GET("/projection", handlers.GetProjectionReport)
			reports.GET("/ads", handlers.GetAdsDashboard)
			reports.POST("/simulation", handlers.SimulateProfit)
		}

		internal.PUT("/ad-spends", handlers.UpsertAdSpend)
		internal.PUT("/payment-fees", handlers.UpsertPaymentTypeFee)

		bills := internal.Group("/bills")
		{
			bills.GET("", handlers.ListBills)
			bills.POST("", handlers.CreateBill)
			bills.GET("/:billId", handlers.GetBill)
			bills.PUT("/:billId", handlers.UpdateBill)
			bills.DELETE("/:billId", handlers.DeleteBill)
			bills.POST("/:billId/payments", handlers.CreateBillPayment)
			bills.PUT("/:billId/payments/:paymentId", handlers.UpdateBillPayment)
			bills.DELETE("/:billId/payments/:paymentId", handlers.DeleteBillPayment)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	retentionSweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Telemetry shutdown failed")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "backoffice-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
