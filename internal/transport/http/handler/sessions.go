package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/helpinghand-api/internal/application/auth"
	"github.com/helpinghand-api/internal/config"
	"github.com/helpinghand-api/internal/domain"
	"github.com/helpinghand-api/internal/pkg/validate"
	"github.com/helpinghand-api/internal/transport/http/middleware"
)

// SessionHandler handles login, logout and current-session endpoints.
type SessionHandler struct {
	svc      auth.Service
	features config.Features
}

func NewSessionHandler(svc auth.Service, features config.Features) *SessionHandler {
	return &SessionHandler{svc: svc, features: features}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := h.svc.Login(r.Context(), &req)
	if err != nil {
		// Unknown account and wrong password answer identically so the
		// endpoint cannot be used to probe which emails are registered.
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrPasswordMismatch) {
			writeDomainError(w, domain.ErrInvalidCredentials, h.features.ExposeErrorInfo)
			return
		}
		writeDomainError(w, err, h.features.ExposeErrorInfo)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{Bearer: sess.Token, User: sess.User})
}

func (h *SessionHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeDomainError(w, domain.ErrUnauthorizedAccess, h.features.ExposeErrorInfo)
		return
	}
	tok, _ := middleware.TokenFromContext(r.Context())
	writeJSON(w, http.StatusOK, AuthEnvelope{Bearer: tok, User: u})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeDomainError(w, domain.ErrUnauthorizedAccess, h.features.ExposeErrorInfo)
		return
	}
	if err := h.svc.Logout(r.Context(), u); err != nil {
		writeDomainError(w, err, h.features.ExposeErrorInfo)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}
