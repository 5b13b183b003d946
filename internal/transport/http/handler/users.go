package handler

import (
	"encoding/json"
	"net/http"

	"github.com/helpinghand-api/internal/application/auth"
	"github.com/helpinghand-api/internal/config"
	"github.com/helpinghand-api/internal/domain"
	"github.com/helpinghand-api/internal/pkg/validate"
	"github.com/helpinghand-api/internal/transport/http/middleware"
)

// UserHandler handles account creation and self-service account endpoints.
type UserHandler struct {
	svc      auth.Service
	features config.Features
}

func NewUserHandler(svc auth.Service, features config.Features) *UserHandler {
	return &UserHandler{svc: svc, features: features}
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := h.svc.Signup(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, h.features.ExposeErrorInfo)
		return
	}
	writeJSON(w, http.StatusCreated, AuthEnvelope{Bearer: sess.Token, User: sess.User})
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeDomainError(w, domain.ErrUnauthorizedAccess, h.features.ExposeErrorInfo)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeDomainError(w, domain.ErrUnauthorizedAccess, h.features.ExposeErrorInfo)
		return
	}
	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.UpdateProfile(r.Context(), u, &req); err != nil {
		writeDomainError(w, err, h.features.ExposeErrorInfo)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeDomainError(w, domain.ErrUnauthorizedAccess, h.features.ExposeErrorInfo)
		return
	}
	var req domain.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.ChangePassword(r.Context(), u, &req); err != nil {
		writeDomainError(w, err, h.features.ExposeErrorInfo)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "password changed"})
}
