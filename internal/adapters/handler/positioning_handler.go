package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
)

type PositioningHandler struct {
	positioning ports.PositioningService
	logger      *zap.Logger
}

func NewPositioningHandler(positioning ports.PositioningService, logger *zap.Logger) *PositioningHandler {
	return &PositioningHandler{positioning: positioning, logger: logger}
}

func (h *PositioningHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.positioning.SatelliteStatus(r.Context()))
}
