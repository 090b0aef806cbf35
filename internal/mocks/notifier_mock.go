package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
)

// MockLocationNotifier implements ports.LocationNotifier for testing. It also
// satisfies the relay's Device interface.
type MockLocationNotifier struct {
	mu sync.Mutex

	Events []ports.EmergencyLocationEvent

	// Error injection and behaviour knobs
	NotifyError error
	Delay       time.Duration
	Panic       bool
	NotReady    bool

	calls int
}

var _ ports.LocationNotifier = (*MockLocationNotifier)(nil)

func NewMockLocationNotifier() *MockLocationNotifier {
	return &MockLocationNotifier{}
}

func (m *MockLocationNotifier) NotifyEmergencyLocation(ctx context.Context, evt ports.EmergencyLocationEvent) error {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.Panic {
		panic("notifier exploded")
	}
	if m.NotifyError != nil {
		return m.NotifyError
	}
	m.Events = append(m.Events, evt)
	return nil
}

func (m *MockLocationNotifier) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.NotReady
}

// CallCount returns how many times NotifyEmergencyLocation was invoked.
func (m *MockLocationNotifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Delivered returns a copy of the successfully delivered events.
func (m *MockLocationNotifier) Delivered() []ports.EmergencyLocationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.EmergencyLocationEvent, len(m.Events))
	copy(out, m.Events)
	return out
}
