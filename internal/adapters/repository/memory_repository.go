package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/domain"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
)

// MemoryRepository keeps requests and users for the lifetime of the process.
// A single mutex covers id assignment and insert.
type MemoryRepository struct {
	mu sync.RWMutex

	requests      map[int64]domain.EmergencyRequest
	requestOrder  []int64
	nextRequestID int64

	users      map[int64]domain.User
	nextUserID int64

	now func() time.Time
}

var (
	_ ports.EmergencyRequestRepository = (*MemoryRepository)(nil)
	_ ports.UserRepository             = (*MemoryRepository)(nil)
)

func NewMemoryRepository() *MemoryRepository {
	return NewMemoryRepositoryWithClock(time.Now)
}

func NewMemoryRepositoryWithClock(now func() time.Time) *MemoryRepository {
	return &MemoryRepository{
		requests:      make(map[int64]domain.EmergencyRequest),
		nextRequestID: 1,
		users:         make(map[int64]domain.User),
		nextUserID:    1,
		now:           now,
	}
}

func (r *MemoryRepository) CreateEmergencyRequest(ctx context.Context, req domain.NewEmergencyRequest) (*domain.EmergencyRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	details := cloneDetails(req.Details)
	if details == nil {
		details = map[string]any{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextRequestID
	r.nextRequestID++

	record := domain.EmergencyRequest{
		ID:                  id,
		UserID:              clonePtr(req.UserID),
		EmergencyType:       req.EmergencyType,
		Latitude:            clonePtr(req.Latitude),
		Longitude:           clonePtr(req.Longitude),
		LocationDescription: clonePtr(req.LocationDescription),
		Symptoms:            clonePtr(req.Symptoms),
		Details:             details,
		Status:              domain.StatusPending,
		CreatedAt:           r.now(),
	}
	r.requests[id] = record
	r.requestOrder = append(r.requestOrder, id)

	return cloneRequest(record), nil
}

func (r *MemoryRepository) GetEmergencyRequest(ctx context.Context, id int64) (*domain.EmergencyRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.requests[id]
	if !ok {
		return nil, fmt.Errorf("emergency request %d: %w", id, domain.ErrNotFound)
	}
	return cloneRequest(record), nil
}

func (r *MemoryRepository) UpdateEmergencyRequestStatus(ctx context.Context, id int64, status domain.Status) (*domain.EmergencyRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.requests[id]
	if !ok {
		return nil, fmt.Errorf("emergency request %d: %w", id, domain.ErrNotFound)
	}
	record.Status = status
	r.requests[id] = record
	return cloneRequest(record), nil
}

func (r *MemoryRepository) GetEmergencyRequestsByUserID(ctx context.Context, userID int64) ([]domain.EmergencyRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]domain.EmergencyRequest, 0)
	for _, id := range r.requestOrder {
		record := r.requests[id]
		if record.UserID != nil && *record.UserID == userID {
			matches = append(matches, *cloneRequest(record))
		}
	}
	return matches, nil
}

func (r *MemoryRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return &user, nil
}

func (r *MemoryRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
}

func (r *MemoryRepository) CreateUser(ctx context.Context, user domain.NewUser) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return nil, fmt.Errorf("username %q: %w", user.Username, domain.ErrConflict)
		}
	}

	created := domain.User{
		ID:       r.nextUserID,
		Username: user.Username,
		Password: user.Password,
	}
	r.nextUserID++
	r.users[created.ID] = created
	return &created, nil
}

// cloneRequest returns a copy sharing no memory with the stored record.
func cloneRequest(r domain.EmergencyRequest) *domain.EmergencyRequest {
	r.UserID = clonePtr(r.UserID)
	r.Latitude = clonePtr(r.Latitude)
	r.Longitude = clonePtr(r.Longitude)
	r.LocationDescription = clonePtr(r.LocationDescription)
	r.Symptoms = clonePtr(r.Symptoms)
	r.Details = cloneDetails(r.Details)
	return &r
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneDetails(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneDetails(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
