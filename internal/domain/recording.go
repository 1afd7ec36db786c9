package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recording statuses
const (
	RecordingStatusRecording  = "recording"
	RecordingStatusProcessing = "processing"
	RecordingStatusCompleted  = "completed"
	RecordingStatusArchived   = "archived"
)

// Recording is a captured conversation under a project, with its transcript
// and any AI-derived artifacts attached at save time.
type Recording struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID     primitive.ObjectID `json:"projectId" bson:"projectId"`
	UserID        string             `json:"userId" bson:"userId"`
	UserEmail     string             `json:"userEmail" bson:"userEmail"`
	Title         string             `json:"title" bson:"title"`
	Transcript    string             `json:"transcript" bson:"transcript"`
	AudioURL      string             `json:"audioUrl,omitempty" bson:"audioUrl,omitempty"`
	RecordingTime int                `json:"recordingTime" bson:"recordingTime"`

	Insights   *ConversationInsights `json:"insights,omitempty" bson:"insights,omitempty"`
	Notes      *MeetingNotes         `json:"notes,omitempty" bson:"notes,omitempty"`
	Brainstorm *Brainstorm           `json:"brainstorm,omitempty" bson:"brainstorm,omitempty"`
	Mindmap    string                `json:"mindmap,omitempty" bson:"mindmap,omitempty"`

	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// RecordingCreate is the payload for saving a recording.
type RecordingCreate struct {
	ProjectID     string                `json:"projectId" validate:"required"`
	Title         string                `json:"title,omitempty" validate:"omitempty,max=255"`
	Transcript    string                `json:"transcript,omitempty"`
	AudioURL      string                `json:"audioUrl,omitempty"`
	RecordingTime int                   `json:"recordingTime,omitempty" validate:"omitempty,min=0"`
	Insights      *ConversationInsights `json:"insights,omitempty"`
	Notes         *MeetingNotes         `json:"notes,omitempty"`
	Brainstorm    *Brainstorm           `json:"brainstorm,omitempty"`
	Mindmap       string                `json:"mindmap,omitempty"`
}

// RecordingRepository defines recording document storage.
type RecordingRepository interface {
	Create(ctx context.Context, rec *Recording) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Recording, error)
	// ListByProject returns recordings newest first with AudioURL elided to
	// keep listing payloads small.
	ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]Recording, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
