package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hoteleria/reservation-engine/internal/di"
	"github.com/hoteleria/reservation-engine/internal/service"
	"github.com/hoteleria/reservation-engine/internal/worker"
	"github.com/hoteleria/reservation-engine/pkg/config"
	"github.com/hoteleria/reservation-engine/pkg/database"
	"github.com/hoteleria/reservation-engine/pkg/logger"
	"github.com/hoteleria/reservation-engine/pkg/middleware"
	pkgredis "github.com/hoteleria/reservation-engine/pkg/redis"
	"github.com/hoteleria/reservation-engine/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.App.Environment,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("starting reservation engine", zap.String("version", cfg.App.Version))

	ctx := context.Background()

	// Initialize tracing
	if err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Warn("tracing disabled", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			appLog.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()
	appLog.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName))

	// Initialize Redis connection; the engine degrades to uncached reads
	// without it
	var redisClient *pkgredis.Client
	redisCfg := &pkgredis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}
	redisClient, err = pkgredis.NewClient(ctx, redisCfg)
	if err != nil {
		appLog.Warn("redis connection failed, running without cache", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		appLog.Info("redis connected", zap.String("addr", redisCfg.Addr()))
	}

	// Initialize Kafka event publisher
	var eventPublisher service.EventPublisher = service.NewNoOpEventPublisher()
	if cfg.Kafka.Enabled {
		publisher, err := service.NewKafkaEventPublisher(ctx, &service.EventPublisherConfig{
			Brokers:     cfg.Kafka.Brokers,
			Topic:       cfg.Kafka.Topic,
			ServiceName: cfg.App.Name,
			ClientID:    cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Warn("kafka connection failed, using no-op publisher", zap.Error(err))
		} else {
			eventPublisher = publisher
			defer publisher.Close()
			appLog.Info("kafka event publisher connected", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	}

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		DB:             db,
		Redis:          redisClient,
		EventPublisher: eventPublisher,
		ServiceConfig: &service.ReservationServiceConfig{
			ConflictRetries: cfg.Booking.ConflictRetries,
		},
	})

	// Start the completion worker
	completionWorker := worker.NewCompletionWorker(container.ReservationService, &worker.CompletionWorkerConfig{
		SweepInterval: cfg.Booking.CompletionInterval,
		BatchSize:     cfg.Booking.CompletionBatchSize,
	})
	if err := completionWorker.Start(ctx); err != nil {
		appLog.Fatal("completion worker failed to start", zap.Error(err))
	}
	defer completionWorker.Stop()

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DisableConsoleColor()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(appLog))
	router.Use(telemetry.TracingMiddleware(cfg.App.Name))

	// Health check endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	// Pool stats for monitoring
	router.GET("/metrics", func(c *gin.Context) {
		stats := db.Stats()
		c.JSON(http.StatusOK, gin.H{
			"db_pool": gin.H{
				"total_conns":    stats.TotalConns(),
				"acquired_conns": stats.AcquiredConns(),
				"idle_conns":     stats.IdleConns(),
				"max_conns":      stats.MaxConns(),
			},
			"completion_worker": completionWorker.Stats(),
		})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		guests := v1.Group("/guests")
		{
			guests.POST("", container.GuestHandler.Register)
			guests.GET("", container.GuestHandler.List)
			guests.GET("/:id", container.GuestHandler.Get)
			guests.PUT("/:id", container.GuestHandler.Update)
			guests.DELETE("/:id", container.GuestHandler.Delete)
			guests.GET("/:id/reservations", container.GuestHandler.Reservations)
		}

		rooms := v1.Group("/rooms")
		{
			rooms.POST("", container.RoomHandler.Create)
			rooms.GET("", container.RoomHandler.List)
			rooms.GET("/available", container.RoomHandler.FindAvailable)
			rooms.GET("/:id", container.RoomHandler.Get)
			rooms.PATCH("/:id", container.RoomHandler.Update)
			rooms.DELETE("/:id", container.RoomHandler.Delete)
			rooms.GET("/:id/reservations", container.RoomHandler.Reservations)
		}

		reservations := v1.Group("/reservations")
		if redisClient != nil {
			// Idempotent retries on booking writes
			idempotencyConfig := middleware.DefaultIdempotencyConfig(redisClient)
			reservations.Use(middleware.Idempotency(idempotencyConfig))
		}
		{
			reservations.POST("", container.ReservationHandler.Create)
			reservations.GET("", container.ReservationHandler.ListActive)
			reservations.GET("/:id", container.ReservationHandler.Get)
			reservations.PATCH("/:id", container.ReservationHandler.Update)
			reservations.POST("/:id/cancel", container.ReservationHandler.Cancel)
		}
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// pprof on a separate port
	go func() {
		pprofAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port+1000)
		appLog.Info("pprof server listening", zap.String("addr", pprofAddr))
		if err := http.ListenAndServe(pprofAddr, nil); err != nil {
			appLog.Error("pprof server error", zap.Error(err))
		}
	}()

	// Start server
	go func() {
		appLog.Info("reservation engine listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal("server forced to shutdown", zap.Error(err))
	}

	appLog.Info("server exited gracefully")
}
