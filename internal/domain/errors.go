package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrBadRequest    = errors.New("bad request")
	ErrUnprocessable = errors.New("unprocessable entity")
	ErrInternal      = errors.New("internal server error")
)

// APIError carries the stable numeric code and HTTP status a failure maps to
// at the transport boundary. Info holds internal diagnostic detail that is
// only surfaced outside production.
type APIError struct {
	HTTPStatus int
	Code       int
	Message    string
	Info       string
	kind       error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.kind }

// WithInfo returns a copy of the error with diagnostic detail attached.
func (e *APIError) WithInfo(info string) *APIError {
	cp := *e
	cp.Info = info
	return &cp
}

// The error catalogue. Codes are stable and part of the API contract.
var (
	ErrInternalServer     = &APIError{HTTPStatus: 500, Code: 0, Message: "ERROR.INTERNAL_SERVER_ERROR", kind: ErrInternal}
	ErrUnauthorizedAccess = &APIError{HTTPStatus: 401, Code: 3, Message: "ERROR.UNAUTHORIZED", kind: ErrUnauthorized}
	ErrInvalidCredentials = &APIError{HTTPStatus: 404, Code: 100, Message: "ERROR.INVALID_CREDENTIALS", kind: ErrUnauthorized}
	ErrInvalidToken       = &APIError{HTTPStatus: 401, Code: 101, Message: "ERROR.INVALID_TOKEN", kind: ErrUnauthorized}
	ErrExpiredToken       = &APIError{HTTPStatus: 401, Code: 102, Message: "ERROR.EXPIRED_TOKEN", kind: ErrUnauthorized}
	ErrUserBlocked        = &APIError{HTTPStatus: 401, Code: 103, Message: "ERROR.USER_BLOCKED", kind: ErrUnauthorized}
	ErrLoggedInElsewhere  = &APIError{HTTPStatus: 401, Code: 104, Message: "ERROR.LOGGED_IN_WITH_OTHER_DEVICE", kind: ErrUnauthorized}
	ErrUserNotFound       = &APIError{HTTPStatus: 404, Code: 106, Message: "ERROR.USER_NOT_FOUND", kind: ErrNotFound}
	ErrPasswordMismatch   = &APIError{HTTPStatus: 404, Code: 107, Message: "ERROR.PASSWORD_MISMATCH", kind: ErrUnauthorized}
	ErrOTPTokenInvalid    = &APIError{HTTPStatus: 401, Code: 109, Message: "USER.OTP_TOKEN_EXPIRED_OR_INVALID", kind: ErrUnauthorized}
	ErrOTPNotFound        = &APIError{HTTPStatus: 404, Code: 112, Message: "USER.OTP_EXPIRED_OR_INVALID", kind: ErrNotFound}
	ErrOTPExpired         = &APIError{HTTPStatus: 422, Code: 12, Message: "USER.OTP_EXPIRED", kind: ErrUnprocessable}
	ErrEmailExists        = &APIError{HTTPStatus: 409, Code: 204, Message: "USER.EMAIL_ALREADY_EXISTS", kind: ErrConflict}
	ErrPhoneExists        = &APIError{HTTPStatus: 409, Code: 204, Message: "USER.PHONE_ALREADY_EXISTS", kind: ErrConflict}
	ErrEmailCodeInvalid   = &APIError{HTTPStatus: 404, Code: 113, Message: "USER.EMAIL_CODE_EXPIRED_OR_INVALID", kind: ErrNotFound}
)
