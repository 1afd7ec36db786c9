package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mindmesh/mindmesh-api/internal/ai"
	"github.com/mindmesh/mindmesh-api/internal/api/handler"
	"github.com/mindmesh/mindmesh-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to make JSON request
func makeJSONRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, true, response["success"])

	data, ok := response["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "healthy", data["status"])
}

func newInsightHandler() *handler.InsightHandler {
	svc := service.NewInsightService(ai.NewRouter("gemini"), nil, zerolog.Nop())
	return handler.NewInsightHandler(svc)
}

func TestAnalyze_InvalidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/analyze", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()

	newInsightHandler().Analyze(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_EmptyTranscript(t *testing.T) {
	req := makeJSONRequest(http.MethodPost, "/api/v1/ai/analyze", map[string]string{"transcript": "   "})
	rec := httptest.NewRecorder()

	newInsightHandler().Analyze(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_NoProviderConfigured(t *testing.T) {
	req := makeJSONRequest(http.MethodPost, "/api/v1/ai/analyze", map[string]string{"transcript": "Speaker 1: hello"})
	rec := httptest.NewRecorder()

	newInsightHandler().Analyze(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestTranscribeAudio_NotBase64(t *testing.T) {
	req := makeJSONRequest(http.MethodPost, "/api/v1/ai/transcribe-audio", map[string]string{"audio": "not base64!!"})
	rec := httptest.NewRecorder()

	newInsightHandler().TranscribeAudio(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranscribeAudio_MissingAudio(t *testing.T) {
	req := makeJSONRequest(http.MethodPost, "/api/v1/ai/transcribe-audio", map[string]string{})
	rec := httptest.NewRecorder()

	newInsightHandler().TranscribeAudio(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
