package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/config"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
)

// ErrPublishNacked is returned when the broker refuses a location message.
var ErrPublishNacked = errors.New("location message not confirmed by broker")

// RabbitLocationPublisher puts emergency locations on a durable queue for
// whichever dispatcher consumes it. Publishes are confirmed by the broker.
type RabbitLocationPublisher struct {
	conn   *amqp.Connection
	queue  string
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger

	// amqp channels are not safe for concurrent publishing
	mu sync.Mutex
	ch *amqp.Channel
}

var _ ports.LocationNotifier = (*RabbitLocationPublisher)(nil)

func NewRabbitLocationPublisher(amqpURL, queue string, logger *zap.Logger) (*RabbitLocationPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := openLocationChannel(conn, queue)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Info("location queue declared", zap.String("queue", queue))
	return &RabbitLocationPublisher{
		conn:   conn,
		ch:     ch,
		queue:  queue,
		cb:     config.NewCircuitBreaker(config.BreakerRabbitPublisher, logger),
		logger: logger,
	}, nil
}

// openLocationChannel opens a channel in confirm mode with the location
// queue declared on it.
func openLocationChannel(conn *amqp.Connection, queue string) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return ch, nil
}

func (p *RabbitLocationPublisher) NotifyEmergencyLocation(ctx context.Context, evt ports.EmergencyLocationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode location event: %w", err)
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.publish(ctx, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    evt.MessageID,
			Timestamp:    evt.OccurredAt,
			Body:         body,
		})
	})
	if err != nil {
		return fmt.Errorf("publish location for request %d: %w", evt.RequestID, err)
	}
	return nil
}

func (p *RabbitLocationPublisher) publish(ctx context.Context, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		ch, err := openLocationChannel(p.conn, p.queue)
		if err != nil {
			return err
		}
		p.logger.Warn("reopened rabbitmq channel", zap.String("queue", p.queue))
		p.ch = ch
	}

	confirm, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, "", p.queue, false, false, msg)
	if err != nil {
		return err
	}
	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return ErrPublishNacked
	}
	return nil
}

func (p *RabbitLocationPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
