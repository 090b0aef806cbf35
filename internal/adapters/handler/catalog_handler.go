package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/domain"
)

// CatalogHandler serves the fixed list of emergency types clients pick from.
type CatalogHandler struct {
	logger *zap.Logger
}

func NewCatalogHandler(logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{logger: logger}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, domain.EmergencyTypes())
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, h.logger, http.StatusBadRequest, msgInvalidID)
		return
	}

	info, found := domain.LookupEmergencyType(domain.EmergencyType(id))
	if !found {
		writeMessage(w, h.logger, http.StatusNotFound, "Emergency type not found")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, info)
}
