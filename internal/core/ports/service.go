package ports

import (
	"context"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/domain"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/validation"
)

type EmergencyService interface {
	CreateEmergencyRequest(ctx context.Context, sub *validation.Submission) (*domain.EmergencyRequest, error)
	GetEmergencyRequest(ctx context.Context, id int64) (*domain.EmergencyRequest, error)
	UpdateEmergencyRequestStatus(ctx context.Context, id int64, status string) (*domain.EmergencyRequest, error)
	ListEmergencyRequestsByUser(ctx context.Context, userID int64) ([]domain.EmergencyRequest, error)
}

type UserService interface {
	RegisterUser(ctx context.Context, user domain.NewUser) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

type PositioningService interface {
	SatelliteStatus(ctx context.Context) domain.SatelliteStatus
}
