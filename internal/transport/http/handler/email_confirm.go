package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helpinghand-api/internal/application/auth"
	"github.com/helpinghand-api/internal/config"
	"github.com/helpinghand-api/internal/domain"
	"github.com/helpinghand-api/internal/transport/http/middleware"
)

// EmailConfirmHandler drives email ownership confirmation for the
// authenticated account.
type EmailConfirmHandler struct {
	svc      auth.Service
	features config.Features
}

func NewEmailConfirmHandler(svc auth.Service, features config.Features) *EmailConfirmHandler {
	return &EmailConfirmHandler{svc: svc, features: features}
}

func (h *EmailConfirmHandler) Action(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeDomainError(w, domain.ErrUnauthorizedAccess, h.features.ExposeErrorInfo)
		return
	}
	switch chi.URLParam(r, "action") {
	case "request":
		if err := h.svc.RequestEmailConfirmation(r.Context(), u); err != nil {
			writeDomainError(w, err, h.features.ExposeErrorInfo)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "confirmation email sent"})
	case "validate-code":
		var req struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
			writeError(w, http.StatusBadRequest, "code required")
			return
		}
		if err := h.svc.ConfirmEmail(r.Context(), u, req.Code); err != nil {
			writeDomainError(w, err, h.features.ExposeErrorInfo)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "email confirmed"})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
