package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helpinghand-api/internal/application/otp"
	"github.com/helpinghand-api/internal/config"
	"github.com/helpinghand-api/internal/domain"
	"github.com/helpinghand-api/internal/pkg/validate"
)

// PhoneVerificationHandler drives the pre-signup phone ownership proof:
// request a code, then exchange the received code for a signup token.
type PhoneVerificationHandler struct {
	svc      otp.Service
	features config.Features
}

func NewPhoneVerificationHandler(svc otp.Service, features config.Features) *PhoneVerificationHandler {
	return &PhoneVerificationHandler{svc: svc, features: features}
}

func (h *PhoneVerificationHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "request":
		h.request(w, r)
	case "verify-code":
		h.verify(w, r)
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

func (h *PhoneVerificationHandler) request(w http.ResponseWriter, r *http.Request) {
	var req domain.RequestPhoneCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	phone, err := domain.ParsePhone(req.PhoneNumber)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid phone number")
		return
	}
	res, err := h.svc.RequestCode(r.Context(), phone)
	if err != nil {
		writeDomainError(w, err, h.features.ExposeErrorInfo)
		return
	}
	env := OTPEnvelope{Message: "code sent", ExpiresAt: res.ExpiresAt}
	if h.features.EchoOTPCode {
		env.Code = res.Code
	}
	writeJSON(w, http.StatusOK, env)
}

func (h *PhoneVerificationHandler) verify(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyPhoneCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	phone, err := domain.ParsePhone(req.PhoneNumber)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid phone number")
		return
	}
	proof, err := h.svc.VerifyCode(r.Context(), phone, req.Code)
	if err != nil {
		writeDomainError(w, err, h.features.ExposeErrorInfo)
		return
	}
	writeJSON(w, http.StatusOK, OTPEnvelope{Message: "phone verified", OTPToken: proof})
}
