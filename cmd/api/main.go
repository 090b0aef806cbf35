package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/adapters/device"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/adapters/handler"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/adapters/messaging"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/adapters/middleware"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/adapters/repository"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/config"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/services"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/logging"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

// App holds the process-wide dependencies shared by the commands
type App struct {
	cfg    *config.Config
	logger *zap.Logger
}

var app *App

func main() {
	rootCmd := &cobra.Command{
		Use:   "emergency-api",
		Short: "Emergency request intake API",
		Long:  `Accepts emergency assistance requests, tracks their status and relays locations to the field transmitter.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				_ = app.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	rootCmd.AddCommand(migrateCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func initApp() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}

	app = &App{cfg: cfg, logger: logger}
	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.DatabaseURL == "" {
				return errors.New("DB_CONNECTION_STRING is not set")
			}
			db, err := sql.Open("postgres", app.cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			if err := repository.NewSQLRepository(db).Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
			app.logger.Info("schema applied")
			return nil
		},
	}
}

func serve(ctx context.Context) error {
	cfg, logger := app.cfg, app.logger

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	var (
		requests ports.EmergencyRequestRepository
		users    ports.UserRepository
		db       *sql.DB
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		sqlRepo := repository.NewSQLRepository(db)
		requests, users = sqlRepo, sqlRepo
		logger.Info("using postgres store")
	} else {
		memRepo := repository.NewMemoryRepository()
		requests, users = memRepo, memRepo
		logger.Info("using in-memory store; requests are lost on restart")
	}

	var redisClient *redis.Client
	if cfg.RedisAddress != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
	}

	notifier, closeNotifier, err := buildNotifier(cfg, redisClient, logger)
	if err != nil {
		// keep serving without the relay
		logger.Warn("location relay disabled", zap.String("backend", cfg.NotifierBackend), zap.Error(err))
	}
	defer closeNotifier()

	emergencyService := services.NewEmergencyService(requests, notifier, m, logger)
	userService := services.NewUserService(users)

	var createLimiter *middleware.RateLimiter
	if cfg.CreateRateLimit != "" {
		createLimiter, err = middleware.NewRateLimiter(cfg.CreateRateLimit, logger)
		if err != nil {
			return err
		}
	}

	router := handler.NewRouter(handler.RouterConfig{
		Emergency:      handler.NewEmergencyHandler(emergencyService, logger),
		Users:          handler.NewUserHandler(userService, logger),
		Catalog:        handler.NewCatalogHandler(logger),
		Positioning:    handler.NewPositioningHandler(services.NewStaticPositioningService(), logger),
		Health:         handler.NewHealthHandler(db, redisClient, logger),
		CreateLimiter:  createLimiter,
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        m,
		Gatherer:       registry,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("could not start server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("error shutting down server", zap.Error(err))
	}
	emergencyService.Wait()

	logger.Info("shutdown complete")
	return nil
}

// buildNotifier selects the location relay backend. The returned close func is
// never nil.
func buildNotifier(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (ports.LocationNotifier, func(), error) {
	noop := func() {}

	switch cfg.NotifierBackend {
	case config.NotifierSerial:
		dev := device.NewSerialDevice(cfg.SerialDevice, cfg.SerialBaudRate, logger)
		return dev, func() { _ = dev.Close() }, nil
	case config.NotifierRedis:
		return messaging.NewRedisLocationQueue(redisClient, cfg.LocationQueueName, logger), noop, nil
	case config.NotifierRabbitMQ:
		publisher, err := messaging.NewRabbitLocationPublisher(cfg.RabbitMQURL, cfg.LocationQueueName, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		return publisher, func() { _ = publisher.Close() }, nil
	default:
		return nil, noop, nil
	}
}
