package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/domain"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
)

const msgUserNotFound = "User not found"

type UserHandler struct {
	userService ports.UserService
	logger      *zap.Logger
}

func NewUserHandler(users ports.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: users, logger: logger}
}

type RegistrationRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeMessage(w, h.logger, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	user, err := h.userService.RegisterUser(r.Context(), domain.NewUser{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, h.logger, err, msgUserNotFound)
		return
	}

	h.logger.Info("user registered", zap.Int64("id", user.ID), zap.String("username", user.Username))
	writeJSON(w, h.logger, http.StatusCreated, user)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, h.logger, http.StatusBadRequest, msgInvalidID)
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err, msgUserNotFound)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, user)
}
