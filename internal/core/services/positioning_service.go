package services

import (
	"context"
	"time"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/domain"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
)

// StaticPositioningService reports a fixed, healthy satellite constellation.
// There is no receiver integration yet; the endpoint exists for clients that
// show positioning availability next to the SOS button.
type StaticPositioningService struct {
	now func() time.Time
}

var _ ports.PositioningService = (*StaticPositioningService)(nil)

func NewStaticPositioningService() *StaticPositioningService {
	return &StaticPositioningService{now: time.Now}
}

func (s *StaticPositioningService) SatelliteStatus(ctx context.Context) domain.SatelliteStatus {
	return domain.SatelliteStatus{
		Status: "operational",
		Satellites: domain.SatelliteCount{
			Available: 24,
			Total:     30,
		},
		SignalStrength: 0.85,
		LastUpdated:    s.now().UTC(),
	}
}
