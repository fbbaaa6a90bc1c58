package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/addwise/authapi/middlewares"
	"github.com/addwise/authapi/models"
	"github.com/addwise/authapi/utils"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type SessionResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
	Token   string       `json:"token,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{Message: message})
}

// errorStatus maps a service error to a status and client message. Anything
// unrecognised is a 500 with the route's fallback message.
func errorStatus(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, utils.ErrValidation):
		return http.StatusBadRequest, utils.INVALID_REQUEST_ERROR
	case errors.Is(err, utils.ErrDuplicateIdentity):
		return http.StatusBadRequest, utils.EMAIL_TAKEN_SIGNUP_ERROR
	case errors.Is(err, utils.ErrInvalidCredentials):
		return http.StatusUnauthorized, utils.GENERIC_LOGIN_ERROR
	case errors.Is(err, utils.ErrUnauthorized):
		return http.StatusUnauthorized, utils.NOT_AUTHORIZED_ERROR
	case errors.Is(err, utils.ErrNotFound):
		return http.StatusNotFound, utils.USER_NOT_FOUND_ERROR
	case errors.Is(err, utils.ErrNoOtpPending):
		return http.StatusBadRequest, utils.NO_OTP_ERROR
	case errors.Is(err, utils.ErrOtpExpired):
		return http.StatusBadRequest, utils.OTP_EXPIRED_ERROR
	case errors.Is(err, utils.ErrOtpMismatch):
		return http.StatusBadRequest, utils.OTP_MISMATCH_ERROR
	case errors.Is(err, utils.ErrEmailNotVerified):
		return http.StatusBadRequest, utils.GOOGLE_EMAIL_NOT_VERIFIED_ERROR
	case errors.Is(err, utils.ErrInvalidAssertion):
		return http.StatusBadRequest, utils.GOOGLE_LOGIN_ERROR
	default:
		return http.StatusInternalServerError, fallback
	}
}

// GenericAuthError logs err and writes the mapped response.
func (h *Handler) GenericAuthError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, message := errorStatus(err, fallback)
	h.writeError(w, r, err, status, message)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, status int, message string) {
	attrs := []any{
		"request_id", middlewares.RequestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"status", status,
		"error", err,
	}
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), message, attrs...)
	} else {
		h.logger.InfoContext(r.Context(), message, attrs...)
	}
	writeMessage(w, status, message)
}

func (h *Handler) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	h.GenericAuthError(w, r, err, utils.GENERIC_PROFILE_ERROR)
}

// Unauthorized is the Guard's rejection writer.
func (h *Handler) Unauthorized() middlewares.UnauthorizedFunc {
	return h.unauthorized
}
