package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/helpinghand-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper. Info carries internal
// diagnostic detail and is only populated outside production.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
	Info      string `json:"info,omitempty"`
}

// AuthEnvelope wraps login and signup responses.
type AuthEnvelope struct {
	Bearer string       `json:"Bearer,omitempty"`
	User   *domain.User `json:"user,omitempty"`
}

// OTPEnvelope wraps phone-verification responses. Code is echoed back
// outside production so flows remain testable without an SMS provider.
type OTPEnvelope struct {
	Message   string `json:"message,omitempty"`
	Code      string `json:"code,omitempty"`
	OTPToken  string `json:"otp_token,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeDomainError maps a service error to its catalogue status, code and
// message. Errors wrapping only a bare sentinel get the sentinel's status
// with a generic message; anything else is reported as an internal error.
func writeDomainError(w http.ResponseWriter, err error, exposeInfo bool) {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		env := MessageEnvelope{Error: apiErr.Message, ErrorCode: apiErr.Code}
		if exposeInfo {
			env.Info = apiErr.Info
		}
		writeJSON(w, apiErr.HTTPStatus, env)
		return
	}
	status := http.StatusInternalServerError
	msg := domain.ErrInternalServer.Message
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		status, msg = http.StatusBadRequest, "ERROR.BAD_REQUEST"
	case errors.Is(err, domain.ErrNotFound):
		status, msg = http.StatusNotFound, "ERROR.NOT_FOUND"
	case errors.Is(err, domain.ErrUnauthorized):
		status, msg = http.StatusUnauthorized, domain.ErrUnauthorizedAccess.Message
	case errors.Is(err, domain.ErrForbidden):
		status, msg = http.StatusForbidden, "ERROR.FORBIDDEN"
	case errors.Is(err, domain.ErrConflict):
		status, msg = http.StatusConflict, "ERROR.CONFLICT"
	case errors.Is(err, domain.ErrUnprocessable):
		status, msg = http.StatusUnprocessableEntity, "ERROR.UNPROCESSABLE"
	}
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
