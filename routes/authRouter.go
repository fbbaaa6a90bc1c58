package routes

import (
	"errors"
	"net/http"

	"github.com/addwise/authapi/utils"
	"github.com/gorilla/mux"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type GoogleRequest struct {
	Credential string `json:"credential" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,max=72"`
}

func AuthRouter(s *mux.Router, h *Handler) {
	s.HandleFunc("/register", h.Register).Methods("POST")
	s.HandleFunc("/login", h.Login).Methods("POST")
	s.HandleFunc("/google", h.Google).Methods("POST")
	s.HandleFunc("/forgot-password", h.ForgotPassword).Methods("POST")
	s.HandleFunc("/verify-otp", h.VerifyOTP).Methods("POST")
	s.HandleFunc("/reset-password", h.ResetPassword).Methods("POST")
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req, msg, err := DecodeValidBody[RegisterRequest](r)
	if err != nil {
		h.writeError(w, r, err, http.StatusBadRequest, msg)
		return
	}
	session, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.GenericAuthError(w, r, err, utils.GENERIC_SIGNUP_ERROR)
		return
	}
	writeJSON(w, http.StatusCreated, SessionResponse{
		Message: utils.SIGNUP_SUCCESS,
		User:    session.User,
		Token:   session.Token,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, msg, err := DecodeValidBody[LoginRequest](r)
	if err != nil {
		h.writeError(w, r, err, http.StatusBadRequest, msg)
		return
	}
	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.GenericAuthError(w, r, err, utils.GENERIC_LOGIN_ERROR)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{
		Message: utils.LOGIN_SUCCESS,
		User:    session.User,
		Token:   session.Token,
	})
}

func (h *Handler) Google(w http.ResponseWriter, r *http.Request) {
	req, msg, err := DecodeValidBody[GoogleRequest](r)
	if err != nil {
		h.writeError(w, r, err, http.StatusBadRequest, msg)
		return
	}
	session, err := h.auth.GoogleLogin(r.Context(), req.Credential)
	if err != nil {
		h.GenericAuthError(w, r, err, utils.GOOGLE_LOGIN_ERROR)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{
		Message: utils.GOOGLE_LOGIN_SUCCESS,
		User:    session.User,
		Token:   session.Token,
	})
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	req, msg, err := DecodeValidBody[ForgotPasswordRequest](r)
	if err != nil {
		h.writeError(w, r, err, http.StatusBadRequest, msg)
		return
	}
	if err := h.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		h.GenericAuthError(w, r, err, utils.GENERIC_PASSWORD_RESET_REQUEST_ERROR)
		return
	}
	writeMessage(w, http.StatusOK, utils.OTP_SENT_SUCCESS)
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	req, msg, err := DecodeValidBody[VerifyOTPRequest](r)
	if err != nil {
		h.writeError(w, r, err, http.StatusBadRequest, msg)
		return
	}
	if err := h.auth.VerifyOTP(r.Context(), req.Email, req.OTP); err != nil {
		h.GenericAuthError(w, r, err, utils.GENERIC_OTP_VERIFY_ERROR)
		return
	}
	writeMessage(w, http.StatusOK, utils.OTP_VERIFIED_SUCCESS)
}

// ResetPassword answers every OTP failure with the same message; the
// specific reason was already shown at the verify step.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	req, msg, err := DecodeValidBody[ResetPasswordRequest](r)
	if err != nil {
		h.writeError(w, r, err, http.StatusBadRequest, msg)
		return
	}
	err = h.auth.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword)
	if isOTPError(err) {
		h.writeError(w, r, err, http.StatusBadRequest, utils.INVALID_OTP_RESET_ERROR)
		return
	}
	if err != nil {
		h.GenericAuthError(w, r, err, utils.GENERIC_PASSWORD_RESET_ERROR)
		return
	}
	writeMessage(w, http.StatusOK, utils.PASSWORD_RESET_SUCCESS)
}

func isOTPError(err error) bool {
	return errors.Is(err, utils.ErrNoOtpPending) ||
		errors.Is(err, utils.ErrOtpExpired) ||
		errors.Is(err, utils.ErrOtpMismatch)
}
