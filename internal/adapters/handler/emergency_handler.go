package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/domain"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/validation"
)

const maxBodyBytes = 1 << 20

const (
	msgInvalidID        = "Invalid ID format"
	msgInvalidPayload   = "Invalid request payload"
	msgRequestNotFound  = "Emergency request not found"
	msgStatusIsRequired = "Status is required and must be a string"
)

type EmergencyHandler struct {
	emergencyService ports.EmergencyService
	logger           *zap.Logger
}

func NewEmergencyHandler(emergency ports.EmergencyService, logger *zap.Logger) *EmergencyHandler {
	return &EmergencyHandler{emergencyService: emergency, logger: logger}
}

type StatusUpdateRequest struct {
	Status any `json:"status"`
}

func (h *EmergencyHandler) Create(w http.ResponseWriter, r *http.Request) {
	sub, err := validation.DecodeSubmission(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeMessage(w, h.logger, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	created, err := h.emergencyService.CreateEmergencyRequest(r.Context(), sub)
	if err != nil {
		writeError(w, r, h.logger, err, msgRequestNotFound)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, created)
}

func (h *EmergencyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, h.logger, http.StatusBadRequest, msgInvalidID)
		return
	}

	req, err := h.emergencyService.GetEmergencyRequest(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err, msgRequestNotFound)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, req)
}

func (h *EmergencyHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, h.logger, http.StatusBadRequest, msgInvalidID)
		return
	}

	var body StatusUpdateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeMessage(w, h.logger, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	status, isString := body.Status.(string)
	if !isString || status == "" {
		writeMessage(w, h.logger, http.StatusBadRequest, msgStatusIsRequired)
		return
	}

	updated, err := h.emergencyService.UpdateEmergencyRequestStatus(r.Context(), id, status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			h.logger.Info("status change rejected", zap.Int64("id", id), zap.String("status", status))
		}
		writeError(w, r, h.logger, err, msgRequestNotFound)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, updated)
}

// ListByUser returns the requests a user submitted, oldest first.
func (h *EmergencyHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, h.logger, http.StatusBadRequest, msgInvalidID)
		return
	}

	requests, err := h.emergencyService.ListEmergencyRequestsByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err, msgRequestNotFound)
		return
	}
	if requests == nil {
		requests = []domain.EmergencyRequest{}
	}
	writeJSON(w, h.logger, http.StatusOK, requests)
}
