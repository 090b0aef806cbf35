package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/domain"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/validation"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/metrics"
)

const notifyTimeout = 10 * time.Second

// EmergencyService runs the request lifecycle: validate and store new requests,
// read them back and move them from pending to processed or cancelled.
type EmergencyService struct {
	repo      ports.EmergencyRequestRepository
	notifier  ports.LocationNotifier
	validator *validation.Validator
	metrics   *metrics.Metrics
	logger    *zap.Logger

	// transitionMu serializes the read-check-write of a status change.
	transitionMu sync.Mutex
	inflight     sync.WaitGroup
}

var _ ports.EmergencyService = (*EmergencyService)(nil)

// NewEmergencyService wires the lifecycle. notifier may be nil, in which case
// locations are not relayed.
func NewEmergencyService(
	repo ports.EmergencyRequestRepository,
	notifier ports.LocationNotifier,
	m *metrics.Metrics,
	logger *zap.Logger,
) *EmergencyService {
	return &EmergencyService{
		repo:      repo,
		notifier:  notifier,
		validator: validation.New(),
		metrics:   m,
		logger:    logger,
	}
}

func (s *EmergencyService) CreateEmergencyRequest(ctx context.Context, sub *validation.Submission) (*domain.EmergencyRequest, error) {
	req, err := s.validator.Validate(sub)
	if err != nil {
		emergencyType := 0
		if sub.EmergencyType != nil {
			emergencyType = *sub.EmergencyType
		}
		s.metrics.ValidationFailed(emergencyType)
		return nil, err
	}

	record, err := s.repo.CreateEmergencyRequest(ctx, *req)
	if err != nil {
		return nil, fmt.Errorf("store emergency request: %w", err)
	}
	s.metrics.RequestCreated(int(record.EmergencyType))
	s.logger.Info("emergency request created",
		zap.Int64("id", record.ID),
		zap.Int("type", int(record.EmergencyType)),
		zap.Bool("has_coordinates", record.HasCoordinates()),
	)

	if record.HasCoordinates() {
		s.relayLocation(*record)
	}
	return record, nil
}

// relayLocation hands the stored coordinates to the notifier in the background.
// It runs after the insert has committed and its outcome never reaches the caller.
func (s *EmergencyService) relayLocation(record domain.EmergencyRequest) {
	if s.notifier == nil {
		return
	}

	evt := ports.EmergencyLocationEvent{
		MessageID:     uuid.NewString(),
		RequestID:     record.ID,
		EmergencyType: int(record.EmergencyType),
		Latitude:      *record.Latitude,
		Longitude:     *record.Longitude,
		OccurredAt:    record.CreatedAt,
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				s.metrics.NotificationFailed()
				s.logger.Error("location notifier panicked", zap.Int64("id", evt.RequestID), zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.notifier.NotifyEmergencyLocation(ctx, evt); err != nil {
			s.metrics.NotificationFailed()
			s.logger.Warn("failed to relay emergency location",
				zap.Int64("id", evt.RequestID),
				zap.String("message_id", evt.MessageID),
				zap.Error(err),
			)
			return
		}
		s.metrics.NotificationSent()
		s.logger.Debug("emergency location relayed", zap.Int64("id", evt.RequestID), zap.String("message_id", evt.MessageID))
	}()
}

// Wait blocks until every background location relay has finished.
func (s *EmergencyService) Wait() {
	s.inflight.Wait()
}

func (s *EmergencyService) GetEmergencyRequest(ctx context.Context, id int64) (*domain.EmergencyRequest, error) {
	return s.repo.GetEmergencyRequest(ctx, id)
}

// UpdateEmergencyRequestStatus applies a status change. Unknown statuses fail
// validation, repeating the current status is a no-op and leaving a terminal
// state returns domain.ErrInvalidTransition.
func (s *EmergencyService) UpdateEmergencyRequestStatus(ctx context.Context, id int64, raw string) (*domain.EmergencyRequest, error) {
	next, ok := domain.ParseStatus(raw)
	if !ok {
		verr := &domain.ValidationError{}
		verr.Add("status", fmt.Sprintf("Status must be one of %s, %s, %s", domain.StatusPending, domain.StatusProcessed, domain.StatusCancelled))
		return nil, verr
	}

	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	current, err := s.repo.GetEmergencyRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == next {
		return current, nil
	}
	if err := current.Status.CheckTransition(next); err != nil {
		s.metrics.TransitionRejected(string(current.Status), string(next))
		return nil, fmt.Errorf("emergency request %d: %w", id, err)
	}

	updated, err := s.repo.UpdateEmergencyRequestStatus(ctx, id, next)
	if err != nil {
		return nil, err
	}
	s.metrics.StatusChanged(string(current.Status), string(next))
	s.logger.Info("emergency request status changed",
		zap.Int64("id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(next)),
	)
	return updated, nil
}

func (s *EmergencyService) ListEmergencyRequestsByUser(ctx context.Context, userID int64) ([]domain.EmergencyRequest, error) {
	return s.repo.GetEmergencyRequestsByUserID(ctx, userID)
}
