package routes

import (
	"net/http"

	"github.com/addwise/authapi/middlewares"
	"github.com/addwise/authapi/models"
	"github.com/addwise/authapi/utils"
	"github.com/gorilla/mux"
)

type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"omitempty,max=120"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,max=72"`
}

func UserRouter(s *mux.Router, h *Handler) {
	s.HandleFunc("/profile", h.GetProfile).Methods("GET")
	s.HandleFunc("/profile", h.UpdateProfile).Methods("PUT")
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		h.GenericAuthError(w, r, utils.ErrUnauthorized, utils.GENERIC_PROFILE_ERROR)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		h.GenericAuthError(w, r, utils.ErrUnauthorized, utils.GENERIC_PROFILE_UPDATE_ERROR)
		return
	}
	req, msg, err := DecodeValidBody[UpdateProfileRequest](r)
	if err != nil {
		h.writeError(w, r, err, http.StatusBadRequest, msg)
		return
	}
	updated, err := h.auth.UpdateProfile(r.Context(), user.ID, models.UserPatch{
		Name:     &req.Name,
		Email:    &req.Email,
		Password: &req.Password,
	})
	if err != nil {
		h.GenericAuthError(w, r, err, utils.GENERIC_PROFILE_UPDATE_ERROR)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{
		Message: utils.PROFILE_UPDATE_SUCCESS,
		User:    updated,
	})
}
