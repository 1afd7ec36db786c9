package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mindmesh/mindmesh-api/internal/ai"
	"github.com/mindmesh/mindmesh-api/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func configuredProvider(name string) *MockProvider {
	p := &MockProvider{name: name}
	p.On("IsConfigured").Return(true)
	return p
}

func newInsightService(cache ArtifactCache, providers ...ai.Provider) *InsightService {
	router := ai.NewRouter("gemini")
	for _, p := range providers {
		router.RegisterProvider(p)
	}
	return NewInsightService(router, cache, zerolog.Nop())
}

func TestAnalyzeTranscript_ParsesFencedJSON(t *testing.T) {
	gemini := configuredProvider("gemini")
	gemini.On("Complete", mock.Anything, mock.Anything, "").Return(&ai.Completion{
		Text:  "```json\n{\"summary\": \"a productive standup\", \"keyPoints\": [\"ship friday\"], \"sentiment\": \"positive\"}\n```",
		Model: "gemini-1.5-pro",
	}, nil)

	svc := newInsightService(nil, gemini)
	insights, err := svc.AnalyzeTranscript(context.Background(), "Speaker 1: let's ship", "")

	require.NoError(t, err)
	assert.Equal(t, "a productive standup", insights.Summary)
	assert.Equal(t, []string{"ship friday"}, insights.KeyPoints)
	assert.Equal(t, "positive", insights.Sentiment)
	assert.Equal(t, "gemini-1.5-pro", insights.Model)
	assert.False(t, insights.Timestamp.IsZero())
}

func TestAnalyzeTranscript_MalformedJSONDegrades(t *testing.T) {
	gemini := configuredProvider("gemini")
	gemini.On("Complete", mock.Anything, mock.Anything, "").Return(&ai.Completion{
		Text:  "The conversation covered quarterly planning.",
		Model: "gemini-1.5-pro",
	}, nil)

	svc := newInsightService(nil, gemini)
	insights, err := svc.AnalyzeTranscript(context.Background(), "some transcript", "")

	require.NoError(t, err)
	assert.Equal(t, "The conversation covered quarterly planning.", insights.Summary)
	assert.Equal(t, "neutral", insights.Sentiment)
}

func TestAnalyzeTranscript_EmptyTranscript(t *testing.T) {
	svc := newInsightService(nil, configuredProvider("gemini"))
	_, err := svc.AnalyzeTranscript(context.Background(), "   ", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestComplete_FallbackToDefaultVendor(t *testing.T) {
	gemini := configuredProvider("gemini")
	gemini.On("Complete", mock.Anything, mock.Anything, "").Return(&ai.Completion{
		Text:  `{"summary": "from fallback", "sentiment": "neutral"}`,
		Model: "gemini-1.5-pro",
	}, nil)

	openai := configuredProvider("openai")
	openai.On("Complete", mock.Anything, mock.Anything, "").Return(nil, assert.AnError)

	svc := newInsightService(nil, gemini, openai)
	insights, err := svc.AnalyzeTranscript(context.Background(), "some transcript", "openai")

	require.NoError(t, err)
	assert.Equal(t, "from fallback", insights.Summary)
	openai.AssertNumberOfCalls(t, "Complete", 1)
	gemini.AssertNumberOfCalls(t, "Complete", 1)
}

func TestComplete_DefaultFailureIsUpstream(t *testing.T) {
	gemini := configuredProvider("gemini")
	gemini.On("Complete", mock.Anything, mock.Anything, "").Return(nil, assert.AnError)

	svc := newInsightService(nil, gemini)
	_, err := svc.AnalyzeTranscript(context.Background(), "some transcript", "")

	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestAnalyzeTranscript_CacheHitSkipsProvider(t *testing.T) {
	gemini := configuredProvider("gemini")

	cached, _ := json.Marshal(domain.ConversationInsights{Summary: "cached summary"})
	cache := new(MockArtifactCache)
	cache.On("Get", mock.Anything, domain.ArtifactInsights, "some transcript").Return(cached)

	svc := newInsightService(cache, gemini)
	insights, err := svc.AnalyzeTranscript(context.Background(), "some transcript", "")

	require.NoError(t, err)
	assert.Equal(t, "cached summary", insights.Summary)
	gemini.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeTranscript_CachesResult(t *testing.T) {
	gemini := configuredProvider("gemini")
	gemini.On("Complete", mock.Anything, mock.Anything, "").Return(&ai.Completion{
		Text:  `{"summary": "fresh", "sentiment": "neutral"}`,
		Model: "gemini-1.5-pro",
	}, nil)

	cache := new(MockArtifactCache)
	cache.On("Get", mock.Anything, domain.ArtifactInsights, "some transcript").Return(nil)
	cache.On("Set", mock.Anything, domain.ArtifactInsights, "some transcript", mock.Anything).Return(nil)

	svc := newInsightService(cache, gemini)
	_, err := svc.AnalyzeTranscript(context.Background(), "some transcript", "")

	require.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestGenerateMermaidMindmap_CleansFences(t *testing.T) {
	gemini := configuredProvider("gemini")
	gemini.On("Complete", mock.Anything, mock.Anything, "").Return(&ai.Completion{
		Text:  "```mermaid\nmindmap\n  root((Planning))\n```",
		Model: "gemini-1.5-pro",
	}, nil)

	svc := newInsightService(nil, gemini)
	mm, err := svc.GenerateMermaidMindmap(context.Background(), "some transcript", "")

	require.NoError(t, err)
	assert.Equal(t, "mindmap\n  root((Planning))", mm.Mindmap)
}

func TestGenerateMindMap_InvalidStructureFallsBack(t *testing.T) {
	gemini := configuredProvider("gemini")
	gemini.On("Complete", mock.Anything, mock.Anything, "").Return(&ai.Completion{
		Text:  `{"nodes": []}`,
		Model: "gemini-1.5-pro",
	}, nil)

	svc := newInsightService(nil, gemini)
	mm, err := svc.GenerateMindMap(context.Background(), "some transcript", "")

	require.NoError(t, err)
	require.Len(t, mm.Nodes, 1)
	assert.Equal(t, 0, mm.Nodes[0].Level)
}

func TestGenerateBrainstorm_NormalizesMermaid(t *testing.T) {
	gemini := configuredProvider("gemini")
	gemini.On("Complete", mock.Anything, mock.Anything, "").Return(&ai.Completion{
		Text:  `{"flowchart": "A --> B", "ideas": "idea list", "mindmap": "mindmap\n  root((X))"}`,
		Model: "gemini-1.5-pro",
	}, nil)

	svc := newInsightService(nil, gemini)
	b, err := svc.GenerateBrainstorm(context.Background(), "some transcript", "")

	require.NoError(t, err)
	assert.Equal(t, "flowchart\nA --> B", b.Flowchart)
	assert.Equal(t, "idea list", b.Ideas)
}

func TestTranscribeAudio_UnsupportedProvider(t *testing.T) {
	svc := newInsightService(nil, configuredProvider("gemini"))
	_, err := svc.TranscribeAudio(context.Background(), []byte("audio"), "audio/webm")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestTranscribeAudio_EmptyAudio(t *testing.T) {
	svc := newInsightService(nil, configuredProvider("gemini"))
	_, err := svc.TranscribeAudio(context.Background(), nil, "audio/webm")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
