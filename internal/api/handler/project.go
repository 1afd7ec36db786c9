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

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	projectService *service.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create handles project creation
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.ProjectCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	project, err := h.projectService.Create(r.Context(), actor, input)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Created(w, project)
}

// List handles listing the caller's projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	projects, err := h.projectService.List(r.Context(), actor)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, projects)
}

// Get handles getting a project by ID
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	project, err := h.projectService.Get(r.Context(), actor, chi.URLParam(r, "projectID"))
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, project)
}

// Update handles editing project metadata
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.ProjectUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	project, err := h.projectService.Update(r.Context(), actor, chi.URLParam(r, "projectID"), input)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, project)
}

// Delete handles deleting a project
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	if err := h.projectService.Delete(r.Context(), actor, chi.URLParam(r, "projectID")); err != nil {
		respondError(w, err)
		return
	}

	response.NoContent(w)
}
