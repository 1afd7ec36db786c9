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

// AnalyticsSink receives best-effort warehouse sync calls. Implementations
// must never fail the caller; see analytics.Service.
type AnalyticsSink interface {
	SyncProject(ctx context.Context, p *domain.Project)
	SyncRecording(ctx context.Context, rec *domain.Recording)
	LogEvent(ctx context.Context, eventType, userID, projectID, recordingID string, metadata map[string]any)
}

// ProjectService handles project CRUD.
type ProjectService struct {
	projects  domain.ProjectRepository
	analytics AnalyticsSink
	logger    zerolog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(projects domain.ProjectRepository, analytics AnalyticsSink, logger zerolog.Logger) *ProjectService {
	return &ProjectService{
		projects:  projects,
		analytics: analytics,
		logger:    logger.With().Str("component", "projects").Logger(),
	}
}

// Create creates a new project owned by the actor. The owner email may be
// unresolvable; the project is still created with it empty.
func (s *ProjectService) Create(ctx context.Context, actor identity.Identity, input domain.ProjectCreate) (*domain.Project, error) {
	now := time.Now().UTC()
	project := &domain.Project{
		Title:         input.Title,
		Description:   input.Description,
		OwnerID:       actor.UserID,
		OwnerEmail:    actor.Email,
		Collaborators: []domain.Collaborator{},
		Tags:          input.Tags,
		Status:        domain.ProjectStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if project.Tags == nil {
		project.Tags = []string{}
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	s.syncInBackground(project, actor.UserID, "project_created")

	return project, nil
}

// List returns the projects the actor owns or collaborates on, newest first.
func (s *ProjectService) List(ctx context.Context, actor identity.Identity) ([]domain.Project, error) {
	return s.projects.ListForUser(ctx, actor.UserID, actor.Email)
}

// Get returns a project the actor is a member of.
func (s *ProjectService) Get(ctx context.Context, actor identity.Identity, projectID string) (*domain.Project, error) {
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
	if !security.IsCollaborator(actor.UserID, project) {
		return nil, domain.Forbiddenf("you do not have access to this project")
	}
	return project, nil
}

// Update edits project metadata. Owner or admin collaborator.
func (s *ProjectService) Update(ctx context.Context, actor identity.Identity, projectID string, input domain.ProjectUpdate) (*domain.Project, error) {
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
	if !security.CanPerform(actor.UserID, project, security.ActionUpdateProject) {
		return nil, domain.Forbiddenf("only the project owner or an admin can update the project")
	}

	updated, err := s.projects.Update(ctx, id, &input)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NotFoundf("project not found")
	}

	s.syncInBackground(updated, actor.UserID, "project_updated")

	return updated, nil
}

// Delete removes a project. Owner only.
func (s *ProjectService) Delete(ctx context.Context, actor identity.Identity, projectID string) error {
	id, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return domain.Validationf("invalid project id")
	}

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return domain.NotFoundf("project not found")
	}
	if !security.CanPerform(actor.UserID, project, security.ActionDeleteProject) {
		return domain.Forbiddenf("only the project owner can delete the project")
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.analytics.LogEvent(ctx, "project_deleted", actor.UserID, projectID, "", nil)
	}()

	return nil
}

func (s *ProjectService) syncInBackground(project *domain.Project, userID, event string) {
	p := *project
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.analytics.SyncProject(ctx, &p)
		s.analytics.LogEvent(ctx, event, userID, p.ID.Hex(), "", nil)
	}()
}
