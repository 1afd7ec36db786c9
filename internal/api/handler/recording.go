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

// RecordingHandler handles recording endpoints
type RecordingHandler struct {
	recordingService *service.RecordingService
}

// NewRecordingHandler creates a new recording handler
func NewRecordingHandler(recordingService *service.RecordingService) *RecordingHandler {
	return &RecordingHandler{recordingService: recordingService}
}

// Save handles saving a recording with its attached artifacts
func (h *RecordingHandler) Save(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.RecordingCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	rec, err := h.recordingService.Save(r.Context(), actor, input)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Created(w, rec)
}

// ListByProject handles listing a project's recordings
func (h *RecordingHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	recordings, err := h.recordingService.ListByProject(r.Context(), actor, chi.URLParam(r, "projectID"))
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, recordings)
}

// Get handles getting a recording by ID
func (h *RecordingHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	rec, err := h.recordingService.Get(r.Context(), actor, chi.URLParam(r, "recordingID"))
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, rec)
}

// Delete handles deleting a recording
func (h *RecordingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	if err := h.recordingService.Delete(r.Context(), actor, chi.URLParam(r, "recordingID")); err != nil {
		respondError(w, err)
		return
	}

	response.NoContent(w)
}
