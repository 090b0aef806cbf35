package ports

import (
	"context"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/domain"
)

// EmergencyRequestRepository persists emergency requests. Implementations assign
// ids atomically with the insert, so two concurrent creates never share an id.
// Lookups of unknown ids return domain.ErrNotFound.
type EmergencyRequestRepository interface {
	CreateEmergencyRequest(ctx context.Context, req domain.NewEmergencyRequest) (*domain.EmergencyRequest, error)
	GetEmergencyRequest(ctx context.Context, id int64) (*domain.EmergencyRequest, error)
	UpdateEmergencyRequestStatus(ctx context.Context, id int64, status domain.Status) (*domain.EmergencyRequest, error)
	GetEmergencyRequestsByUserID(ctx context.Context, userID int64) ([]domain.EmergencyRequest, error)
}

// UserRepository persists users. CreateUser returns domain.ErrConflict when the
// username is taken.
type UserRepository interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, user domain.NewUser) (*domain.User, error)
}
