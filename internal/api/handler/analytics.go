package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mindmesh/mindmesh-api/internal/analytics"
	"github.com/mindmesh/mindmesh-api/internal/api/middleware"
	"github.com/mindmesh/mindmesh-api/internal/api/response"
	"github.com/mindmesh/mindmesh-api/internal/service"
)

// AnalyticsHandler handles warehouse analytics endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
	projectService   *service.ProjectService
	recordingService *service.RecordingService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *analytics.Service, projectService *service.ProjectService, recordingService *service.RecordingService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		projectService:   projectService,
		recordingService: recordingService,
	}
}

// Get handles running a predefined analytics query
func (h *AnalyticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	queryType := r.URL.Query().Get("type")
	if queryType == "" {
		queryType = analytics.QueryRecordingsCount
	}

	rows, err := h.analyticsService.GetAnalytics(r.Context(), queryType)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, rows)
}

type logEventRequest struct {
	EventType   string         `json:"eventType" validate:"required,max=64"`
	ProjectID   string         `json:"projectId,omitempty"`
	RecordingID string         `json:"recordingId,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// LogEvent handles recording a client-side analytics event
func (h *AnalyticsHandler) LogEvent(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req logEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	h.analyticsService.LogEvent(r.Context(), req.EventType, actor.UserID, req.ProjectID, req.RecordingID, req.Metadata)

	response.JSON(w, http.StatusAccepted, map[string]string{"message": "event recorded"})
}

type syncRequest struct {
	ProjectID string `json:"projectId" validate:"required"`
}

// Sync handles an on-demand warehouse sync of a project and its recordings
func (h *AnalyticsHandler) Sync(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	project, err := h.projectService.Get(r.Context(), actor, req.ProjectID)
	if err != nil {
		respondError(w, err)
		return
	}

	recordings, err := h.recordingService.ListByProject(r.Context(), actor, req.ProjectID)
	if err != nil {
		respondError(w, err)
		return
	}

	h.analyticsService.SyncProject(r.Context(), project)
	for i := range recordings {
		h.analyticsService.SyncRecording(r.Context(), &recordings[i])
	}

	response.OK(w, map[string]any{
		"project":    1,
		"recordings": len(recordings),
	})
}
