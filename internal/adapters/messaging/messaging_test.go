package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
)

func testEvent() ports.EmergencyLocationEvent {
	return ports.EmergencyLocationEvent{
		MessageID:     "3f0c2a1e-1111-4b7a-9c55-0a8d1f2e3b4c",
		RequestID:     17,
		EmergencyType: 5,
		Latitude:      "46.5",
		Longitude:     "7.9",
		OccurredAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRedisLocationQueue_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_ADDRESS not set; skipping Redis integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	queueName := fmt.Sprintf("test_locations_%d", time.Now().UnixNano())
	t.Cleanup(func() { client.Del(context.Background(), queueName) })

	queue := NewRedisLocationQueue(client, queueName, zap.NewNop())

	_, err := queue.DequeueEmergencyLocation(ctx, time.Second)
	assert.ErrorIs(t, err, ports.ErrQueueEmpty)

	first, second := testEvent(), testEvent()
	second.RequestID = 18
	require.NoError(t, queue.NotifyEmergencyLocation(ctx, first))
	require.NoError(t, queue.NotifyEmergencyLocation(ctx, second))

	// FIFO: LPUSH on one end, BRPOP from the other
	for _, want := range []int64{17, 18} {
		raw, err := queue.DequeueEmergencyLocation(ctx, time.Second)
		require.NoError(t, err)

		var got ports.EmergencyLocationEvent
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, want, got.RequestID)
		assert.Equal(t, "46.5", got.Latitude)
	}
}

func TestRabbitLocationPublisher_PublishesLocation(t *testing.T) {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		t.Skip("RABBITMQ_URL not set; skipping RabbitMQ integration test")
	}

	queueName := fmt.Sprintf("test_locations_%d", time.Now().UnixNano())
	publisher, err := NewRabbitLocationPublisher(url, queueName, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = publisher.ch.QueueDelete(queueName, false, false, false)
		publisher.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, publisher.NotifyEmergencyLocation(ctx, testEvent()))

	var msg amqp.Delivery
	require.Eventually(t, func() bool {
		var ok bool
		msg, ok, err = publisher.ch.Get(queueName, true)
		return err == nil && ok
	}, 5*time.Second, 50*time.Millisecond)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, testEvent().MessageID, msg.MessageId)

	var got ports.EmergencyLocationEvent
	require.NoError(t, json.Unmarshal(msg.Body, &got))
	assert.Equal(t, testEvent(), got)
}

func TestNotifyHonoursExpiredDeadline(t *testing.T) {
	publisher := &RabbitLocationPublisher{queue: "unused"}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	err := publisher.NotifyEmergencyLocation(ctx, testEvent())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
