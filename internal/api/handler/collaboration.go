package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mindmesh/mindmesh-api/internal/api/middleware"
	"github.com/mindmesh/mindmesh-api/internal/api/response"
	"github.com/mindmesh/mindmesh-api/internal/domain"
	"github.com/mindmesh/mindmesh-api/internal/service"
)

// CollaborationHandler handles invitation and collaborator endpoints
type CollaborationHandler struct {
	collabService *service.CollaborationService
}

// NewCollaborationHandler creates a new collaboration handler
func NewCollaborationHandler(collabService *service.CollaborationService) *CollaborationHandler {
	return &CollaborationHandler{collabService: collabService}
}

// Invite handles sending a collaboration invitation
func (h *CollaborationHandler) Invite(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.InvitationCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	inv, err := h.collabService.Invite(r.Context(), actor, input)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Created(w, inv)
}

// MyInvitations handles listing the caller's pending invitations
func (h *CollaborationHandler) MyInvitations(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	invitations, err := h.collabService.MyInvitations(r.Context(), actor)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, invitations)
}

// Accept handles accepting an invitation, returning the joined project
func (h *CollaborationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	project, err := h.collabService.Accept(r.Context(), actor, chi.URLParam(r, "invitationID"))
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, project)
}

// Reject handles rejecting an invitation
func (h *CollaborationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	if err := h.collabService.Reject(r.Context(), actor, chi.URLParam(r, "invitationID")); err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "invitation rejected"})
}

// Collaborators handles listing a project's collaborators
func (h *CollaborationHandler) Collaborators(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	project, err := h.collabService.Collaborators(r.Context(), actor, chi.URLParam(r, "projectID"))
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"owner": map[string]string{
			"userId": project.OwnerID,
			"email":  project.OwnerEmail,
		},
		"collaborators": project.Collaborators,
	})
}

// RemoveCollaborator handles removing a collaborator from a project
func (h *CollaborationHandler) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	err := h.collabService.RemoveCollaborator(
		r.Context(), actor,
		chi.URLParam(r, "projectID"),
		chi.URLParam(r, "collaboratorID"),
	)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "collaborator removed successfully"})
}

type roleUpdateRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member viewer"`
}

// UpdateCollaboratorRole handles changing a collaborator's role
func (h *CollaborationHandler) UpdateCollaboratorRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input roleUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	collab, err := h.collabService.UpdateCollaboratorRole(
		r.Context(), actor,
		chi.URLParam(r, "projectID"),
		chi.URLParam(r, "collaboratorID"),
		input.Role,
	)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, collab)
}
