package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mindmesh/mindmesh-api/internal/config"
	"github.com/mindmesh/mindmesh-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.ElevenLabsConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})
}

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		size     int
		expected []string
	}{
		{"short text single chunk", "hello", 10, []string{"hello"}},
		{"exact boundary", "abcde", 5, []string{"abcde"}},
		{"two chunks", "abcdefgh", 5, []string{"abcde", "fgh"}},
		{"empty string", "", 5, []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitChunks(tt.input, tt.size))
		})
	}
}

func TestSynthesize(t *testing.T) {
	audio := []byte("fake-mp3-bytes")

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("xi-api-key"))
		assert.True(t, strings.HasPrefix(r.URL.Path, "/text-to-speech/"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "hello world", payload["text"])
		assert.Equal(t, "eleven_multilingual_v2", payload["model_id"])

		w.Write(audio)
	})

	result, err := client.Synthesize(context.Background(), "hello world", "", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(audio), result.Audio)
	assert.Equal(t, "mp3", result.Format)
}

func TestSynthesize_EmptyText(t *testing.T) {
	client := NewClient(config.ElevenLabsConfig{APIKey: "test-key"})

	_, err := client.Synthesize(context.Background(), "   ", "", DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSynthesize_NotConfigured(t *testing.T) {
	client := NewClient(config.ElevenLabsConfig{})

	_, err := client.Synthesize(context.Background(), "hello", "", DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestSynthesize_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Synthesize(context.Background(), "hello", "", DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestNarrate_ChunksLongTranscript(t *testing.T) {
	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("chunk-audio"))
	})

	// 2.5 chunks worth of text
	transcript := strings.Repeat("a", maxChunkLength*2+100)

	narration, err := client.Narrate(context.Background(), transcript, "")
	require.NoError(t, err)
	assert.Equal(t, 3, requests)
	assert.Equal(t, 3, narration.TotalChunks)
	assert.Len(t, narration.AudioChunks, 3)
	assert.Equal(t, "mp3", narration.Format)
}

func TestVoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/voices", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"voices": []Voice{
				{VoiceID: "v1", Name: "Rachel"},
				{VoiceID: "v2", Name: "Adam"},
			},
		})
	})

	voices, err := client.Voices(context.Background())
	require.NoError(t, err)
	require.Len(t, voices, 2)
	assert.Equal(t, "Rachel", voices[0].Name)
}
