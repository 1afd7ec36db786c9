package service

import (
	"context"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/domain"
	"github.com/mindmesh/mindmesh-api/internal/identity"
	"github.com/mindmesh/mindmesh-api/internal/security"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecordingService handles recording persistence under projects.
type RecordingService struct {
	recordings domain.RecordingRepository
	projects   domain.ProjectRepository
	analytics  AnalyticsSink
	logger     zerolog.Logger
}

// NewRecordingService creates a new recording service
func NewRecordingService(recordings domain.RecordingRepository, projects domain.ProjectRepository, analytics AnalyticsSink, logger zerolog.Logger) *RecordingService {
	return &RecordingService{
		recordings: recordings,
		projects:   projects,
		analytics:  analytics,
		logger:     logger.With().Str("component", "recordings").Logger(),
	}
}

// Save stores a recording with any AI artifacts already attached. Any
// project member may save.
func (s *RecordingService) Save(ctx context.Context, actor identity.Identity, input domain.RecordingCreate) (*domain.Recording, error) {
	projectID, err := primitive.ObjectIDFromHex(input.ProjectID)
	if err != nil {
		return nil, domain.Validationf("invalid project id")
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.NotFoundf("project not found")
	}
	if !security.CanPerform(actor.UserID, project, security.ActionAccessRecordings) {
		return nil, domain.Forbiddenf("you do not have access to this project")
	}

	now := time.Now().UTC()
	title := input.Title
	if title == "" {
		title = "Recording " + now.Format("2006-01-02 15:04")
	}

	rec := &domain.Recording{
		ProjectID:     projectID,
		UserID:        actor.UserID,
		UserEmail:     actor.Email,
		Title:         title,
		Transcript:    input.Transcript,
		AudioURL:      input.AudioURL,
		RecordingTime: input.RecordingTime,
		Insights:      input.Insights,
		Notes:         input.Notes,
		Brainstorm:    input.Brainstorm,
		Mindmap:       input.Mindmap,
		Status:        domain.RecordingStatusCompleted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.recordings.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.syncInBackground(rec, actor.UserID)

	return rec, nil
}

// ListByProject returns a project's recordings, newest first, for members.
func (s *RecordingService) ListByProject(ctx context.Context, actor identity.Identity, projectID string) ([]domain.Recording, error) {
	id, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, domain.Validationf("invalid project id")
	}

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.NotFoundf("project not found")
	}
	if !security.CanPerform(actor.UserID, project, security.ActionAccessRecordings) {
		return nil, domain.Forbiddenf("you do not have access to this project")
	}

	return s.recordings.ListByProject(ctx, id)
}

// Get returns one recording for project members.
func (s *RecordingService) Get(ctx context.Context, actor identity.Identity, recordingID string) (*domain.Recording, error) {
	rec, _, err := s.loadWithProject(ctx, actor, recordingID)
	return rec, err
}

// Delete removes a recording. Allowed for its creator or the project owner.
func (s *RecordingService) Delete(ctx context.Context, actor identity.Identity, recordingID string) error {
	rec, project, err := s.loadWithProject(ctx, actor, recordingID)
	if err != nil {
		return err
	}

	if rec.UserID != actor.UserID && !security.IsOwner(actor.UserID, project) {
		return domain.Forbiddenf("only the recording creator or the project owner can delete it")
	}

	if err := s.recordings.Delete(ctx, rec.ID); err != nil {
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.analytics.LogEvent(ctx, "recording_deleted", actor.UserID, rec.ProjectID.Hex(), recordingID, nil)
	}()

	return nil
}

func (s *RecordingService) loadWithProject(ctx context.Context, actor identity.Identity, recordingID string) (*domain.Recording, *domain.Project, error) {
	id, err := primitive.ObjectIDFromHex(recordingID)
	if err != nil {
		return nil, nil, domain.Validationf("invalid recording id")
	}

	rec, err := s.recordings.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, domain.NotFoundf("recording not found")
	}

	project, err := s.projects.GetByID(ctx, rec.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if project == nil {
		return nil, nil, domain.NotFoundf("project not found")
	}
	if !security.CanPerform(actor.UserID, project, security.ActionAccessRecordings) {
		return nil, nil, domain.Forbiddenf("you do not have access to this project")
	}

	return rec, project, nil
}

func (s *RecordingService) syncInBackground(rec *domain.Recording, userID string) {
	r := *rec
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.analytics.SyncRecording(ctx, &r)
		s.analytics.LogEvent(ctx, "recording_saved", userID, r.ProjectID.Hex(), r.ID.Hex(), map[string]any{
			"transcript_length": len(r.Transcript),
		})
	}()
}
