package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/domain"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Message string                  `json:"message"`
	Errors  []domain.FieldViolation `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("failed to write response", zap.Error(err))
	}
}

func writeMessage(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	writeJSON(w, logger, status, ErrorResponse{Message: message})
}

// writeError maps a service error onto a status code. notFound is the message
// used for domain.ErrNotFound.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, notFound string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, logger, http.StatusBadRequest, ErrorResponse{
			Message: verr.Error(),
			Errors:  verr.Violations,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, logger, http.StatusNotFound, notFound)
	case errors.Is(err, domain.ErrInvalidTransition):
		writeMessage(w, logger, http.StatusConflict, "Emergency request is already closed")
	case errors.Is(err, domain.ErrConflict):
		writeMessage(w, logger, http.StatusConflict, "Resource already exists")
	default:
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeMessage(w, logger, http.StatusInternalServerError, "Internal server error")
	}
}

// pathID parses a numeric path value. Ids are positive.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
