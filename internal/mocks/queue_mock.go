package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
)

// MockLocationQueue implements ports.LocationQueue over a buffered channel.
type MockLocationQueue struct {
	messages chan []byte

	mu           sync.Mutex
	DequeueError error
}

var _ ports.LocationQueue = (*MockLocationQueue)(nil)

func NewMockLocationQueue(messages ...[]byte) *MockLocationQueue {
	q := &MockLocationQueue{messages: make(chan []byte, len(messages)+16)}
	for _, msg := range messages {
		q.messages <- msg
	}
	return q
}

func (q *MockLocationQueue) Push(msg []byte) {
	q.messages <- msg
}

func (q *MockLocationQueue) SetDequeueError(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.DequeueError = err
}

// Len reports the number of undelivered messages.
func (q *MockLocationQueue) Len() int {
	return len(q.messages)
}

func (q *MockLocationQueue) DequeueEmergencyLocation(ctx context.Context, timeout time.Duration) ([]byte, error) {
	q.mu.Lock()
	err := q.DequeueError
	q.mu.Unlock()
	if err != nil {
		return nil, err
	}

	select {
	case msg := <-q.messages:
		return msg, nil
	case <-time.After(timeout):
		return nil, ports.ErrQueueEmpty
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
