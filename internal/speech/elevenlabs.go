package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/config"
	"github.com/mindmesh/mindmesh-api/internal/domain"
)

const (
	defaultVoiceID = "21m00Tcm4TlvDq8ikWAM"
	modelID        = "eleven_multilingual_v2"

	// ElevenLabs caps request size, so long transcripts are synthesized
	// in chunks and returned as an ordered playlist.
	maxChunkLength = 5000
)

// Voice is a single ElevenLabs voice.
type Voice struct {
	VoiceID  string `json:"voice_id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// Options tunes voice rendering for a synthesis request.
type Options struct {
	Stability       float64
	SimilarityBoost float64
	Style           float64
	UseSpeakerBoost bool
}

// DefaultOptions returns the rendering defaults.
func DefaultOptions() Options {
	return Options{
		Stability:       0.5,
		SimilarityBoost: 0.75,
		Style:           0.0,
		UseSpeakerBoost: true,
	}
}

// Audio is one synthesized result, base64-encoded mp3.
type Audio struct {
	Audio     string    `json:"audio"`
	Format    string    `json:"format"`
	Timestamp time.Time `json:"timestamp"`
}

// Narration is a chunked synthesis of a long transcript.
type Narration struct {
	AudioChunks []string  `json:"audioChunks"`
	Format      string    `json:"format"`
	TotalChunks int       `json:"totalChunks"`
	Timestamp   time.Time `json:"timestamp"`
}

// Client calls the ElevenLabs text-to-speech API.
type Client struct {
	apiKey       string
	baseURL      string
	defaultVoice string
	http         *http.Client
}

// NewClient creates a new ElevenLabs client.
func NewClient(cfg config.ElevenLabsConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.elevenlabs.io/v1"
	}
	voice := cfg.DefaultVoiceID
	if voice == "" {
		voice = defaultVoiceID
	}
	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		defaultVoice: voice,
		http:         &http.Client{Timeout: 120 * time.Second},
	}
}

// IsConfigured checks if the client has credentials.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Voices lists the available voices.
func (c *Client) Voices(ctx context.Context) ([]Voice, error) {
	if !c.IsConfigured() {
		return nil, domain.Upstreamf("text-to-speech is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.Upstreamf("failed to fetch voices: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.Upstreamf("voice listing returned status %d", resp.StatusCode)
	}

	var body struct {
		Voices []Voice `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode voices: %w", err)
	}
	return body.Voices, nil
}

// Synthesize converts text to speech with the given voice.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string, opts Options) (*Audio, error) {
	if !c.IsConfigured() {
		return nil, domain.Upstreamf("text-to-speech is not configured")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.Validationf("text is required for text-to-speech")
	}
	if voiceID == "" {
		voiceID = c.defaultVoice
	}

	payload := map[string]any{
		"text":     text,
		"model_id": modelID,
		"voice_settings": map[string]any{
			"stability":         opts.Stability,
			"similarity_boost":  opts.SimilarityBoost,
			"style":             opts.Style,
			"use_speaker_boost": opts.UseSpeakerBoost,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/text-to-speech/"+voiceID, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.Upstreamf("speech synthesis failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.Upstreamf("speech synthesis returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}

	return &Audio{
		Audio:     base64.StdEncoding.EncodeToString(audio),
		Format:    "mp3",
		Timestamp: time.Now().UTC(),
	}, nil
}

// Narrate synthesizes a long transcript chunk by chunk, preserving order.
func (c *Client) Narrate(ctx context.Context, transcript, voiceID string) (*Narration, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, domain.Validationf("transcript is required for narration")
	}

	chunks := splitChunks(transcript, maxChunkLength)

	audioChunks := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		audio, err := c.Synthesize(ctx, chunk, voiceID, DefaultOptions())
		if err != nil {
			return nil, err
		}
		audioChunks = append(audioChunks, audio.Audio)
	}

	return &Narration{
		AudioChunks: audioChunks,
		Format:      "mp3",
		TotalChunks: len(audioChunks),
		Timestamp:   time.Now().UTC(),
	}, nil
}

func splitChunks(s string, size int) []string {
	var chunks []string
	for len(s) > size {
		chunks = append(chunks, s[:size])
		s = s[size:]
	}
	return append(chunks, s)
}
