package service

import (
	"context"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/ai"
	"github.com/mindmesh/mindmesh-api/internal/domain"
	"github.com/mindmesh/mindmesh-api/internal/notify"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockProjectRepository mocks the ProjectRepository interface
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListForUser(ctx context.Context, userID, email string) ([]domain.Project, error) {
	args := m.Called(ctx, userID, email)
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, id primitive.ObjectID, update *domain.ProjectUpdate) (*domain.Project, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepository) AddCollaborator(ctx context.Context, id primitive.ObjectID, collab domain.Collaborator) (bool, error) {
	args := m.Called(ctx, id, collab)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepository) RemoveCollaborator(ctx context.Context, id primitive.ObjectID, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockProjectRepository) UpdateCollaboratorRole(ctx context.Context, id primitive.ObjectID, userID, role string) error {
	args := m.Called(ctx, id, userID, role)
	return args.Error(0)
}

// MockInvitationRepository mocks the InvitationRepository interface
type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvitationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindPending(ctx context.Context, projectID primitive.ObjectID, inviteeEmail string) (*domain.Invitation, error) {
	args := m.Called(ctx, projectID, inviteeEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) ListPendingForEmail(ctx context.Context, email string) ([]domain.Invitation, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) MarkResponded(ctx context.Context, id primitive.ObjectID, status, inviteeUserID string, respondedAt time.Time) (*domain.Invitation, error) {
	args := m.Called(ctx, id, status, inviteeUserID, respondedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByUserID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, userID, email, name, picture string) (*domain.User, error) {
	args := m.Called(ctx, userID, email, name, picture)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, userID string, update *domain.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePrivacy(ctx context.Context, userID string, settings domain.PrivacySettings) (*domain.User, error) {
	args := m.Called(ctx, userID, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateSecurity(ctx context.Context, userID string, settings domain.SecuritySettings) (*domain.User, error) {
	args := m.Called(ctx, userID, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateNotifications(ctx context.Context, userID string, settings domain.NotificationSettings) (*domain.User, error) {
	args := m.Called(ctx, userID, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockRecordingRepository mocks the RecordingRepository interface
type MockRecordingRepository struct {
	mock.Mock
}

func (m *MockRecordingRepository) Create(ctx context.Context, rec *domain.Recording) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecordingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Recording, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recording), args.Error(1)
}

func (m *MockRecordingRepository) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]domain.Recording, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]domain.Recording), args.Error(1)
}

func (m *MockRecordingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMailer mocks the InvitationMailer interface
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendInvitation(ctx context.Context, inv *domain.Invitation, project *domain.Project, inviterName string) notify.Result {
	args := m.Called(ctx, inv, project, inviterName)
	return args.Get(0).(notify.Result)
}

// MockAnalyticsSink mocks the AnalyticsSink interface
type MockAnalyticsSink struct {
	mock.Mock
}

func (m *MockAnalyticsSink) SyncProject(ctx context.Context, p *domain.Project) {
	m.Called(ctx, p)
}

func (m *MockAnalyticsSink) SyncRecording(ctx context.Context, rec *domain.Recording) {
	m.Called(ctx, rec)
}

func (m *MockAnalyticsSink) LogEvent(ctx context.Context, eventType, userID, projectID, recordingID string, metadata map[string]any) {
	m.Called(ctx, eventType, userID, projectID, recordingID, metadata)
}

// MockProvider mocks ai.Provider
type MockProvider struct {
	mock.Mock
	name string
}

func (m *MockProvider) Name() string {
	if m.name != "" {
		return m.name
	}
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) AvailableModels() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockProvider) DefaultModel() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockProvider) Complete(ctx context.Context, req ai.Request, model string) (*ai.Completion, error) {
	args := m.Called(ctx, req, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.Completion), args.Error(1)
}

// MockArtifactCache mocks the ArtifactCache interface
type MockArtifactCache struct {
	mock.Mock
}

func (m *MockArtifactCache) Get(ctx context.Context, kind domain.ArtifactKind, transcript string) []byte {
	args := m.Called(ctx, kind, transcript)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]byte)
}

func (m *MockArtifactCache) Set(ctx context.Context, kind domain.ArtifactKind, transcript string, data []byte) error {
	args := m.Called(ctx, kind, transcript, data)
	return args.Error(0)
}
