// Package mocks provides mock implementations of port interfaces for testing.
// Services depend on the port interfaces, so tests inject these in place of
// the Postgres adapter, the queues and the serial device.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/domain"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
)

// MockEmergencyRepository implements ports.EmergencyRequestRepository for testing.
type MockEmergencyRepository struct {
	mu sync.Mutex

	requests map[int64]*domain.EmergencyRequest
	nextID   int64

	// Call tracking for verification
	CreateCalls []domain.NewEmergencyRequest
	UpdateCalls []domain.Status

	// Error injection for testing error scenarios
	CreateError error
	GetError    error
	UpdateError error
	ListError   error
}

var _ ports.EmergencyRequestRepository = (*MockEmergencyRepository)(nil)

func NewMockEmergencyRepository() *MockEmergencyRepository {
	return &MockEmergencyRepository{
		requests: make(map[int64]*domain.EmergencyRequest),
		nextID:   1,
	}
}

// Seed stores req as-is, keeping its id and status.
func (m *MockEmergencyRepository) Seed(req domain.EmergencyRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = &req
	if req.ID >= m.nextID {
		m.nextID = req.ID + 1
	}
}

func (m *MockEmergencyRepository) CreateEmergencyRequest(ctx context.Context, req domain.NewEmergencyRequest) (*domain.EmergencyRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, req)
	if m.CreateError != nil {
		return nil, m.CreateError
	}

	record := &domain.EmergencyRequest{
		ID:                  m.nextID,
		UserID:              req.UserID,
		EmergencyType:       req.EmergencyType,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		LocationDescription: req.LocationDescription,
		Symptoms:            req.Symptoms,
		Details:             req.Details,
		Status:              domain.StatusPending,
		CreatedAt:           time.Now().UTC(),
	}
	m.nextID++
	m.requests[record.ID] = record

	out := *record
	return &out, nil
}

func (m *MockEmergencyRepository) GetEmergencyRequest(ctx context.Context, id int64) (*domain.EmergencyRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	req, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("emergency request %d: %w", id, domain.ErrNotFound)
	}
	out := *req
	return &out, nil
}

func (m *MockEmergencyRepository) UpdateEmergencyRequestStatus(ctx context.Context, id int64, status domain.Status) (*domain.EmergencyRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls = append(m.UpdateCalls, status)
	if m.UpdateError != nil {
		return nil, m.UpdateError
	}
	req, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("emergency request %d: %w", id, domain.ErrNotFound)
	}
	req.Status = status
	out := *req
	return &out, nil
}

func (m *MockEmergencyRepository) GetEmergencyRequestsByUserID(ctx context.Context, userID int64) ([]domain.EmergencyRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []domain.EmergencyRequest
	for id := int64(1); id < m.nextID; id++ {
		req, ok := m.requests[id]
		if ok && req.UserID != nil && *req.UserID == userID {
			out = append(out, *req)
		}
	}
	return out, nil
}

// UpdateCallCount returns how many status writes reached the repository.
func (m *MockEmergencyRepository) UpdateCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.UpdateCalls)
}

// MockUserRepository implements ports.UserRepository for testing.
type MockUserRepository struct {
	mu sync.Mutex

	users  map[int64]*domain.User
	nextID int64

	CreateCalls []domain.NewUser
	CreateError error
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[int64]*domain.User), nextID: 1}
}

func (m *MockUserRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	out := *u
	return &out, nil
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user domain.NewUser) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, user)
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return nil, fmt.Errorf("username %q: %w", user.Username, domain.ErrConflict)
		}
	}
	created := &domain.User{ID: m.nextID, Username: user.Username, Password: user.Password}
	m.users[created.ID] = created
	m.nextID++
	out := *created
	return &out, nil
}
