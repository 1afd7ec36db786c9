package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mindmesh/mindmesh-api/internal/api/middleware"
	"github.com/mindmesh/mindmesh-api/internal/api/response"
	"github.com/mindmesh/mindmesh-api/internal/domain"
	"github.com/mindmesh/mindmesh-api/internal/service"
)

// UserHandler handles user profile and settings endpoints
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Settings handles fetching the caller's profile and settings
func (h *UserHandler) Settings(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	user, err := h.userService.Settings(r.Context(), actor)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, user)
}

// UpdateProfile handles editing display fields
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), actor, input)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, user)
}

// UpdatePrivacy handles replacing privacy settings
func (h *UserHandler) UpdatePrivacy(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var settings domain.PrivacySettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(settings); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	user, err := h.userService.UpdatePrivacy(r.Context(), actor, settings)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, user)
}

// UpdateSecurity handles replacing security settings
func (h *UserHandler) UpdateSecurity(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var settings domain.SecuritySettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(settings); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	user, err := h.userService.UpdateSecurity(r.Context(), actor, settings)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, user)
}

// UpdateNotifications handles replacing notification settings
func (h *UserHandler) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var settings domain.NotificationSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	user, err := h.userService.UpdateNotifications(r.Context(), actor, settings)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, user)
}
