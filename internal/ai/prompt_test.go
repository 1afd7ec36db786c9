package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "json code block",
			content:  "```json\n{\"summary\": \"test\"}\n```",
			expected: `{"summary": "test"}`,
		},
		{
			name:     "generic code block",
			content:  "Here you go:\n```\n{\"summary\": \"test\"}\n```",
			expected: `{"summary": "test"}`,
		},
		{
			name:     "bare json",
			content:  `{"summary": "test"}`,
			expected: `{"summary": "test"}`,
		},
		{
			name:     "json with surrounding prose",
			content:  "Sure, here is the analysis: {\"summary\": \"test\"} hope it helps",
			expected: `{"summary": "test"}`,
		},
		{
			name:     "no json at all",
			content:  "  plain text  ",
			expected: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSON(tt.content))
		})
	}
}

func TestExtractMermaid(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		keyword  string
		expected string
	}{
		{
			name:     "mermaid code block",
			content:  "```mermaid\nmindmap\n  root((Topic))\n```",
			keyword:  "mindmap",
			expected: "mindmap\n  root((Topic))",
		},
		{
			name:     "bare mindmap",
			content:  "mindmap\n  root((Topic))",
			keyword:  "mindmap",
			expected: "mindmap\n  root((Topic))",
		},
		{
			name:     "missing keyword gets prepended",
			content:  "  root((Topic))",
			keyword:  "mindmap",
			expected: "mindmap\nroot((Topic))",
		},
		{
			name:     "flowchart keyword",
			content:  "flowchart TD\n  A --> B",
			keyword:  "flowchart",
			expected: "flowchart TD\n  A --> B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractMermaid(tt.content, tt.keyword))
		})
	}
}

func TestBuildPromptsIncludeTranscript(t *testing.T) {
	transcript := "Speaker 1: let's ship it on Friday"

	builders := map[string]func(string) string{
		"insights":        BuildInsightsPrompt,
		"mindmap":         BuildMindMapPrompt,
		"mermaid mindmap": BuildMermaidMindmapPrompt,
		"meeting notes":   BuildMeetingNotesPrompt,
		"brainstorm":      BuildBrainstormPrompt,
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, build(transcript), transcript)
		})
	}
}
