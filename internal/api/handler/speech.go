package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mindmesh/mindmesh-api/internal/api/response"
	"github.com/mindmesh/mindmesh-api/internal/speech"
)

// SpeechHandler handles text-to-speech endpoints
type SpeechHandler struct {
	speechClient *speech.Client
}

// NewSpeechHandler creates a new speech handler
func NewSpeechHandler(speechClient *speech.Client) *SpeechHandler {
	return &SpeechHandler{speechClient: speechClient}
}

// Voices handles listing available voices
func (h *SpeechHandler) Voices(w http.ResponseWriter, r *http.Request) {
	voices, err := h.speechClient.Voices(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, voices)
}

type synthesizeRequest struct {
	Text    string `json:"text" validate:"required"`
	VoiceID string `json:"voiceId,omitempty"`
}

// Synthesize handles single-shot speech synthesis
func (h *SpeechHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	var req synthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	audio, err := h.speechClient.Synthesize(r.Context(), req.Text, req.VoiceID, speech.DefaultOptions())
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, audio)
}

type narrateRequest struct {
	Transcript string `json:"transcript" validate:"required"`
	VoiceID    string `json:"voiceId,omitempty"`
}

// Narrate handles chunked narration of long transcripts
func (h *SpeechHandler) Narrate(w http.ResponseWriter, r *http.Request) {
	var req narrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	narration, err := h.speechClient.Narrate(r.Context(), req.Transcript, req.VoiceID)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, narration)
}
