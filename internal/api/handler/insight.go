package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/mindmesh/mindmesh-api/internal/api/response"
	"github.com/mindmesh/mindmesh-api/internal/repository/redis"
	"github.com/mindmesh/mindmesh-api/internal/service"
)

// InsightHandler handles AI artifact generation endpoints
type InsightHandler struct {
	insightService *service.InsightService
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(insightService *service.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

type transcriptRequest struct {
	Transcript string `json:"transcript"`
	Text       string `json:"text,omitempty"`
	Provider   string `json:"provider,omitempty"`
}

// transcript accepts either field name; older clients send "text".
func (req transcriptRequest) transcript() string {
	if req.Transcript != "" {
		return req.Transcript
	}
	return req.Text
}

func decodeTranscriptRequest(w http.ResponseWriter, r *http.Request) (transcriptRequest, bool) {
	var req transcriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return req, false
	}
	return req, true
}

// Analyze handles transcript analysis into conversation insights
func (h *InsightHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTranscriptRequest(w, r)
	if !ok {
		return
	}

	insights, err := h.insightService.AnalyzeTranscript(r.Context(), req.transcript(), req.Provider)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, insights)
}

// MindMap handles structured mind map generation
func (h *InsightHandler) MindMap(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTranscriptRequest(w, r)
	if !ok {
		return
	}

	mm, err := h.insightService.GenerateMindMap(r.Context(), req.transcript(), req.Provider)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, mm)
}

// MermaidMindmap handles Mermaid mindmap source generation
func (h *InsightHandler) MermaidMindmap(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTranscriptRequest(w, r)
	if !ok {
		return
	}

	mm, err := h.insightService.GenerateMermaidMindmap(r.Context(), req.transcript(), req.Provider)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, mm)
}

// MeetingNotes handles meeting notes generation
func (h *InsightHandler) MeetingNotes(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTranscriptRequest(w, r)
	if !ok {
		return
	}

	notes, err := h.insightService.GenerateMeetingNotes(r.Context(), req.transcript(), req.Provider)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, notes)
}

// Brainstorm handles brainstorm visualization generation
func (h *InsightHandler) Brainstorm(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTranscriptRequest(w, r)
	if !ok {
		return
	}

	b, err := h.insightService.GenerateBrainstorm(r.Context(), req.transcript(), req.Provider)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, b)
}

type transcribeRequest struct {
	Audio    string `json:"audio" validate:"required"`
	MimeType string `json:"mimeType,omitempty"`
}

// TranscribeAudio handles base64 audio transcription
func (h *InsightHandler) TranscribeAudio(w http.ResponseWriter, r *http.Request) {
	var req transcribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		response.BadRequest(w, "audio must be base64 encoded")
		return
	}

	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = "audio/webm"
	}

	transcription, err := h.insightService.TranscribeAudio(r.Context(), audio, mimeType)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, transcription)
}

// Providers handles listing registered AI providers
func (h *InsightHandler) Providers(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.insightService.Providers())
}

// FlushCache returns a handler that clears all cached artifacts
func FlushCache(cache *redis.ArtifactCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := cache.FlushAll(r.Context())
		if err != nil {
			response.InternalError(w, "failed to flush cache")
			return
		}
		response.OK(w, map[string]int64{"deleted": deleted})
	}
}
