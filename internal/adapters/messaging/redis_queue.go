package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/config"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
)

// RedisLocationQueue is a Redis list used as a work queue between the API
// (LPUSH) and the device relay (BRPOP).
type RedisLocationQueue struct {
	client    *redis.Client
	queueName string
	cb        *gobreaker.CircuitBreaker
}

var (
	_ ports.LocationNotifier = (*RedisLocationQueue)(nil)
	_ ports.LocationQueue    = (*RedisLocationQueue)(nil)
)

func NewRedisLocationQueue(client *redis.Client, queueName string, logger *zap.Logger) *RedisLocationQueue {
	return &RedisLocationQueue{
		client:    client,
		queueName: queueName,
		cb:        config.NewCircuitBreaker(config.BreakerRedisQueue, logger),
	}
}

func (q *RedisLocationQueue) NotifyEmergencyLocation(ctx context.Context, evt ports.EmergencyLocationEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	_, err = q.cb.Execute(func() (interface{}, error) {
		return nil, q.client.LPush(ctx, q.queueName, body).Err()
	})
	if err != nil {
		return fmt.Errorf("enqueue emergency location: %w", err)
	}
	return nil
}

func (q *RedisLocationQueue) DequeueEmergencyLocation(ctx context.Context, timeout time.Duration) ([]byte, error) {
	res, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrQueueEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("dequeue emergency location: %w", err)
	}
	// BRPOP replies with [key, value]
	if len(res) != 2 {
		return nil, fmt.Errorf("dequeue emergency location: unexpected reply of %d elements", len(res))
	}
	return []byte(res[1]), nil
}
