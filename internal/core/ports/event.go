package ports

import (
	"context"
	"errors"
	"time"
)

var ErrQueueEmpty = errors.New("queue empty")

// EmergencyLocationEvent is relayed to the field device when a request with
// coordinates has been stored.
type EmergencyLocationEvent struct {
	MessageID     string    `json:"message_id"`
	RequestID     int64     `json:"request_id"`
	EmergencyType int       `json:"emergency_type"`
	Latitude      string    `json:"latitude"`
	Longitude     string    `json:"longitude"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// LocationNotifier forwards an emergency location outside the request
// transaction. Callers treat it as best effort.
type LocationNotifier interface {
	NotifyEmergencyLocation(ctx context.Context, evt EmergencyLocationEvent) error
}

// LocationQueue is the consuming side of a queued LocationNotifier.
// Dequeue blocks up to the given timeout and returns ErrQueueEmpty when
// nothing arrived.
type LocationQueue interface {
	DequeueEmergencyLocation(ctx context.Context, timeout time.Duration) ([]byte, error)
}
