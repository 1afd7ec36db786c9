package domain

import "time"

// ArtifactKind tags each AI-derived artifact with its fixed schema. The
// providers all emit the same shape for a given kind regardless of vendor.
type ArtifactKind string

const (
	ArtifactInsights       ArtifactKind = "insights"
	ArtifactMindMap        ArtifactKind = "mindmap"
	ArtifactMermaidMindmap ArtifactKind = "mermaid_mindmap"
	ArtifactMeetingNotes   ArtifactKind = "meeting_notes"
	ArtifactBrainstorm     ArtifactKind = "brainstorm"
)

// ConversationInsights is the analysis artifact for a transcript.
type ConversationInsights struct {
	Summary     string   `json:"summary" bson:"summary"`
	KeyPoints   []string `json:"keyPoints" bson:"keyPoints"`
	Topics      []string `json:"topics" bson:"topics"`
	Sentiment   string   `json:"sentiment" bson:"sentiment"`
	ActionItems []string `json:"actionItems" bson:"actionItems"`
	Decisions   []string `json:"decisions" bson:"decisions"`
	Questions   []string `json:"questions" bson:"questions"`

	Model     string    `json:"model,omitempty" bson:"model,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// MindMapNode is one node in a hierarchical mind map.
type MindMapNode struct {
	ID          string   `json:"id" bson:"id"`
	Label       string   `json:"label" bson:"label"`
	Level       int      `json:"level" bson:"level"`
	Children    []string `json:"children" bson:"children"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
}

// MindMapConnection is a directed edge between two mind map nodes.
type MindMapConnection struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// MindMap is the structured (node/edge) mind map artifact.
type MindMap struct {
	Nodes       []MindMapNode       `json:"nodes" bson:"nodes"`
	Connections []MindMapConnection `json:"connections" bson:"connections"`

	Model     string    `json:"model,omitempty" bson:"model,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// MermaidMindmap carries rendered Mermaid mindmap source.
type MermaidMindmap struct {
	Mindmap   string    `json:"mindmap" bson:"mindmap"`
	Model     string    `json:"model,omitempty" bson:"model,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// MeetingNotes is the formatted meeting notes artifact.
type MeetingNotes struct {
	Notes     string    `json:"notes" bson:"notes"`
	Model     string    `json:"model,omitempty" bson:"model,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Brainstorm bundles the brainstorming visualizations: a Mermaid flowchart,
// free-text ideas and a Mermaid mindmap.
type Brainstorm struct {
	Flowchart string `json:"flowchart" bson:"flowchart"`
	Ideas     string `json:"ideas" bson:"ideas"`
	Mindmap   string `json:"mindmap" bson:"mindmap"`

	Model     string    `json:"model,omitempty" bson:"model,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Transcription is the result of audio transcription.
type Transcription struct {
	Transcript string    `json:"transcript"`
	Model      string    `json:"model,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
