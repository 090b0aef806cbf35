package relay

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/metrics"
)

const (
	// BRPOP blocks for this long before the loop checks for shutdown again
	pollTimeout = 5 * time.Second

	// Event delivery timeout
	deliverTimeout = 10 * time.Second

	// Wait after a queue error before polling again
	errorBackoff = 2 * time.Second

	// Health check configuration
	healthCheckStaleThreshold = 2 * time.Minute
)

// Device receives the locations taken off the queue.
type Device interface {
	ports.LocationNotifier
	Ready() bool
}

// Relay drains the location queue into the field device.
type Relay struct {
	queue   ports.LocationQueue
	device  Device
	metrics *metrics.Metrics
	logger  *zap.Logger

	pollTimeout  time.Duration
	errorBackoff time.Duration

	lastPolled atomic.Int64
	isHealthy  atomic.Bool
}

func NewRelay(queue ports.LocationQueue, device Device, m *metrics.Metrics, logger *zap.Logger) *Relay {
	r := &Relay{
		queue:        queue,
		device:       device,
		metrics:      m,
		logger:       logger,
		pollTimeout:  pollTimeout,
		errorBackoff: errorBackoff,
	}
	r.lastPolled.Store(time.Now().UnixNano())
	r.isHealthy.Store(true)
	return r
}

// IsHealthy returns true if the relay loop can reach the queue.
// It is meant for liveness probes and ignores the device breaker.
func (r *Relay) IsHealthy() bool {
	return r.isHealthy.Load()
}

// IsReady returns true if the relay can deliver locations (readiness probe).
func (r *Relay) IsReady() bool {
	if !r.device.Ready() {
		return false
	}

	// Check if the loop has polled recently (not stuck)
	if time.Since(time.Unix(0, r.lastPolled.Load())) > healthCheckStaleThreshold {
		return false
	}

	return r.IsHealthy()
}

// Start consumes the queue until ctx is cancelled. This is a blocking call.
func (r *Relay) Start(ctx context.Context) error {
	r.logger.Info("relay: waiting for emergency locations")

	for {
		if err := ctx.Err(); err != nil {
			r.logger.Info("relay: shutting down")
			return err
		}

		msg, err := r.queue.DequeueEmergencyLocation(ctx, r.pollTimeout)
		r.lastPolled.Store(time.Now().UnixNano())

		switch {
		case errors.Is(err, ports.ErrQueueEmpty):
			r.isHealthy.Store(true)
			continue
		case err != nil:
			if ctx.Err() != nil {
				continue
			}
			r.isHealthy.Store(false)
			r.logger.Warn("relay: queue unavailable", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(r.errorBackoff):
			}
			continue
		}

		r.isHealthy.Store(true)
		r.process(ctx, msg)
	}
}

// process delivers one queue entry. Malformed entries are dropped; delivery
// failures are logged and the entry is not retried.
func (r *Relay) process(ctx context.Context, msg []byte) {
	var evt ports.EmergencyLocationEvent
	if err := json.Unmarshal(msg, &evt); err != nil || evt.Latitude == "" || evt.Longitude == "" {
		r.metrics.RelayDropped()
		r.logger.Warn("relay: dropping malformed location message", zap.ByteString("payload", msg), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, deliverTimeout)
	defer cancel()

	if err := r.device.NotifyEmergencyLocation(ctx, evt); err != nil {
		r.metrics.RelayFailed()
		r.logger.Error("relay: failed to deliver location",
			zap.Int64("request_id", evt.RequestID),
			zap.String("message_id", evt.MessageID),
			zap.Error(err),
		)
		return
	}

	r.metrics.RelayDelivered()
	r.logger.Info("relay: location delivered",
		zap.Int64("request_id", evt.RequestID),
		zap.String("message_id", evt.MessageID),
	)
}
