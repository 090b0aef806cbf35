package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/adapters/device"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/adapters/messaging"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/adapters/relay"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/config"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/logging"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/metrics"
)

func main() {
	cfg, err := config.LoadRelayConfig()
	if err != nil {
		// logger is not built yet
		os.Stderr.WriteString("relay: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		os.Stderr.WriteString("relay: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting device relay",
		zap.String("queue", cfg.LocationQueueName),
		zap.String("device", cfg.SerialDevice),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	serialDevice := device.NewSerialDevice(cfg.SerialDevice, cfg.SerialBaudRate, logger)
	defer serialDevice.Close()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	queue := messaging.NewRedisLocationQueue(redisClient, cfg.LocationQueueName, logger)
	relayWorker := relay.NewRelay(queue, serialDevice, m, logger)

	// Start health check HTTP server
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		status := "UP"
		httpStatus := http.StatusOK

		if !relayWorker.IsHealthy() {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(httpStatus)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":    status,
			"ready":     relayWorker.IsReady(),
			"component": "device-relay",
		})
	})
	healthMux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	healthServer := &http.Server{
		Addr:              ":" + cfg.HealthPort,
		Handler:           healthMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("relay: starting health check server", zap.String("port", cfg.HealthPort))
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("relay: health server error", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)

	go func() {
		if err := relayWorker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("relay: received signal, initiating shutdown", zap.String("signal", sig.String()))
		cancel()
	case err := <-errChan:
		logger.Error("relay: fatal error, shutting down", zap.Error(err))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("relay: error shutting down health server", zap.Error(err))
	}

	logger.Info("relay: shutdown complete")
}
