package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/ai"
	"github.com/mindmesh/mindmesh-api/internal/domain"
	"github.com/rs/zerolog"
)

// ArtifactCache caches serialized artifacts keyed by kind and transcript.
// A nil Get result is a miss; cache failures must not surface.
type ArtifactCache interface {
	Get(ctx context.Context, kind domain.ArtifactKind, transcript string) []byte
	Set(ctx context.Context, kind domain.ArtifactKind, transcript string, data []byte) error
}

// InsightService orchestrates AI artifact generation: provider selection
// with automatic fallback to the default vendor, response parsing into the
// fixed artifact schemas, and transcript-keyed caching.
type InsightService struct {
	router *ai.Router
	cache  ArtifactCache
	logger zerolog.Logger
}

// NewInsightService creates a new insight service. cache may be nil.
func NewInsightService(router *ai.Router, cache ArtifactCache, logger zerolog.Logger) *InsightService {
	return &InsightService{
		router: router,
		cache:  cache,
		logger: logger.With().Str("component", "insights").Logger(),
	}
}

// Providers reports the registered providers and their configuration state.
func (s *InsightService) Providers() []ai.ProviderInfo {
	return s.router.GetProvidersInfo()
}

// complete runs the request on the named provider, falling back to the
// default vendor when the requested one fails or is unavailable.
func (s *InsightService) complete(ctx context.Context, providerName string, req ai.Request) (*ai.Completion, error) {
	provider, err := s.router.GetProvider(providerName)
	if err != nil {
		if providerName == "" || providerName == s.router.DefaultProvider() {
			return nil, domain.Upstreamf("no AI provider available: %v", err)
		}
		s.logger.Warn().Err(err).Str("provider", providerName).Msg("requested provider unavailable, using default")
		provider, err = s.router.GetProvider("")
		if err != nil {
			return nil, domain.Upstreamf("no AI provider available: %v", err)
		}
	}

	completion, err := provider.Complete(ctx, req, "")
	if err == nil {
		return completion, nil
	}

	if provider.Name() == s.router.DefaultProvider() {
		return nil, domain.Upstreamf("generation failed: %v", err)
	}

	s.logger.Warn().Err(err).Str("provider", provider.Name()).Msg("provider failed, retrying with default")
	fallback, ferr := s.router.GetProvider("")
	if ferr != nil {
		return nil, domain.Upstreamf("generation failed: %v", err)
	}
	completion, err = fallback.Complete(ctx, req, "")
	if err != nil {
		return nil, domain.Upstreamf("generation failed: %v", err)
	}
	return completion, nil
}

func requireTranscript(transcript string) (string, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", domain.Validationf("transcript is required")
	}
	return transcript, nil
}

// AnalyzeTranscript produces conversation insights for a transcript.
func (s *InsightService) AnalyzeTranscript(ctx context.Context, transcript, provider string) (*domain.ConversationInsights, error) {
	transcript, err := requireTranscript(transcript)
	if err != nil {
		return nil, err
	}

	if cached := s.fromCache(ctx, domain.ArtifactInsights, transcript); cached != nil {
		var insights domain.ConversationInsights
		if json.Unmarshal(cached, &insights) == nil {
			return &insights, nil
		}
	}

	completion, err := s.complete(ctx, provider, ai.Request{
		Prompt:      ai.BuildInsightsPrompt(transcript),
		Temperature: 0.7,
		MaxTokens:   2048,
		JSONMode:    true,
	})
	if err != nil {
		return nil, err
	}

	var insights domain.ConversationInsights
	if err := json.Unmarshal([]byte(ai.ExtractJSON(completion.Text)), &insights); err != nil {
		// Degrade to a minimal artifact rather than failing the request;
		// the summary is the first slice of the raw output.
		s.logger.Warn().Err(err).Str("model", completion.Model).Msg("insights response was not valid JSON")
		insights = domain.ConversationInsights{
			Summary:   truncate(completion.Text, 200),
			Sentiment: "neutral",
		}
	}
	insights.Model = completion.Model
	insights.Timestamp = time.Now().UTC()

	s.toCache(ctx, domain.ArtifactInsights, transcript, &insights)
	return &insights, nil
}

// GenerateMindMap produces the structured node/edge mind map.
func (s *InsightService) GenerateMindMap(ctx context.Context, transcript, provider string) (*domain.MindMap, error) {
	transcript, err := requireTranscript(transcript)
	if err != nil {
		return nil, err
	}

	if cached := s.fromCache(ctx, domain.ArtifactMindMap, transcript); cached != nil {
		var mm domain.MindMap
		if json.Unmarshal(cached, &mm) == nil {
			return &mm, nil
		}
	}

	completion, err := s.complete(ctx, provider, ai.Request{
		Prompt:      ai.BuildMindMapPrompt(transcript),
		Temperature: 0.3,
		MaxTokens:   4096,
		JSONMode:    true,
	})
	if err != nil {
		return nil, err
	}

	var mm domain.MindMap
	if err := json.Unmarshal([]byte(ai.ExtractJSON(completion.Text)), &mm); err != nil || len(mm.Nodes) == 0 {
		s.logger.Warn().Str("model", completion.Model).Msg("mind map response was not a valid structure")
		mm = domain.MindMap{
			Nodes: []domain.MindMapNode{
				{ID: "1", Label: "Main Topic", Level: 0, Children: []string{}, Description: "Generated from text"},
			},
			Connections: []domain.MindMapConnection{},
		}
	}
	mm.Model = completion.Model
	mm.Timestamp = time.Now().UTC()

	s.toCache(ctx, domain.ArtifactMindMap, transcript, &mm)
	return &mm, nil
}

// GenerateMermaidMindmap produces Mermaid mindmap source.
func (s *InsightService) GenerateMermaidMindmap(ctx context.Context, transcript, provider string) (*domain.MermaidMindmap, error) {
	transcript, err := requireTranscript(transcript)
	if err != nil {
		return nil, err
	}

	if cached := s.fromCache(ctx, domain.ArtifactMermaidMindmap, transcript); cached != nil {
		var mm domain.MermaidMindmap
		if json.Unmarshal(cached, &mm) == nil {
			return &mm, nil
		}
	}

	completion, err := s.complete(ctx, provider, ai.Request{
		Prompt:      ai.BuildMermaidMindmapPrompt(transcript),
		Temperature: 0.7,
		MaxTokens:   2048,
	})
	if err != nil {
		return nil, err
	}

	mm := domain.MermaidMindmap{
		Mindmap:   ai.ExtractMermaid(completion.Text, "mindmap"),
		Model:     completion.Model,
		Timestamp: time.Now().UTC(),
	}

	s.toCache(ctx, domain.ArtifactMermaidMindmap, transcript, &mm)
	return &mm, nil
}

// GenerateMeetingNotes produces formatted meeting notes.
func (s *InsightService) GenerateMeetingNotes(ctx context.Context, transcript, provider string) (*domain.MeetingNotes, error) {
	transcript, err := requireTranscript(transcript)
	if err != nil {
		return nil, err
	}

	if cached := s.fromCache(ctx, domain.ArtifactMeetingNotes, transcript); cached != nil {
		var notes domain.MeetingNotes
		if json.Unmarshal(cached, &notes) == nil {
			return &notes, nil
		}
	}

	completion, err := s.complete(ctx, provider, ai.Request{
		Prompt:      ai.BuildMeetingNotesPrompt(transcript),
		Temperature: 0.7,
		MaxTokens:   2048,
	})
	if err != nil {
		return nil, err
	}

	notes := domain.MeetingNotes{
		Notes:     strings.TrimSpace(completion.Text),
		Model:     completion.Model,
		Timestamp: time.Now().UTC(),
	}

	s.toCache(ctx, domain.ArtifactMeetingNotes, transcript, &notes)
	return &notes, nil
}

// GenerateBrainstorm produces the brainstorming visualization bundle.
func (s *InsightService) GenerateBrainstorm(ctx context.Context, transcript, provider string) (*domain.Brainstorm, error) {
	transcript, err := requireTranscript(transcript)
	if err != nil {
		return nil, err
	}

	if cached := s.fromCache(ctx, domain.ArtifactBrainstorm, transcript); cached != nil {
		var b domain.Brainstorm
		if json.Unmarshal(cached, &b) == nil {
			return &b, nil
		}
	}

	completion, err := s.complete(ctx, provider, ai.Request{
		Prompt:      ai.BuildBrainstormPrompt(transcript),
		Temperature: 0.8,
		MaxTokens:   4096,
		JSONMode:    true,
	})
	if err != nil {
		return nil, err
	}

	var b domain.Brainstorm
	if err := json.Unmarshal([]byte(ai.ExtractJSON(completion.Text)), &b); err != nil {
		return nil, domain.Upstreamf("brainstorm response was not valid JSON")
	}
	b.Flowchart = ai.ExtractMermaid(b.Flowchart, "flowchart")
	if b.Mindmap != "" {
		b.Mindmap = ai.ExtractMermaid(b.Mindmap, "mindmap")
	}
	b.Model = completion.Model
	b.Timestamp = time.Now().UTC()

	s.toCache(ctx, domain.ArtifactBrainstorm, transcript, &b)
	return &b, nil
}

// TranscribeAudio converts inline audio to text. Only providers with
// native audio input can serve this; currently that is the default vendor.
func (s *InsightService) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (*domain.Transcription, error) {
	if len(audio) == 0 {
		return nil, domain.Validationf("audio data is required")
	}

	provider, err := s.router.GetProvider("")
	if err != nil {
		return nil, domain.Upstreamf("no AI provider available: %v", err)
	}

	transcriber, ok := provider.(ai.Transcriber)
	if !ok {
		return nil, domain.Upstreamf("provider %s does not support audio transcription", provider.Name())
	}

	completion, err := transcriber.Transcribe(ctx, audio, mimeType)
	if err != nil {
		return nil, domain.Upstreamf("transcription failed: %v", err)
	}

	return &domain.Transcription{
		Transcript: strings.TrimSpace(completion.Text),
		Model:      completion.Model,
		Timestamp:  time.Now().UTC(),
	}, nil
}

func (s *InsightService) fromCache(ctx context.Context, kind domain.ArtifactKind, transcript string) []byte {
	if s.cache == nil {
		return nil
	}
	return s.cache.Get(ctx, kind, transcript)
}

func (s *InsightService) toCache(ctx context.Context, kind domain.ArtifactKind, transcript string, artifact any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(artifact)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, kind, transcript, data); err != nil {
		s.logger.Debug().Err(err).Str("kind", string(kind)).Msg("failed to cache artifact")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
