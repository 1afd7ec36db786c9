package service

import (
	"context"
	"strings"
	"testing"

	"github.com/mindmesh/mindmesh-api/internal/domain"
	"github.com/mindmesh/mindmesh-api/internal/identity"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testRecordingID = primitive.NewObjectID()

func testRecording() *domain.Recording {
	return &domain.Recording{
		ID:         testRecordingID,
		ProjectID:  testProjectID,
		UserID:     "um",
		UserEmail:  "member@example.com",
		Title:      "Standup",
		Transcript: "Speaker 1: hello",
		Status:     domain.RecordingStatusCompleted,
	}
}

func newRecordingService(recordings *MockRecordingRepository, projects *MockProjectRepository) *RecordingService {
	return NewRecordingService(recordings, projects, quietAnalytics(), zerolog.Nop())
}

func TestRecordingSave_MemberSucceeds(t *testing.T) {
	recordings := new(MockRecordingRepository)
	projects := new(MockProjectRepository)
	projects.On("GetByID", mock.Anything, testProjectID).Return(testCollabProject(), nil)
	recordings.On("Create", mock.Anything, mock.AnythingOfType("*domain.Recording")).Return(nil)

	svc := newRecordingService(recordings, projects)
	rec, err := svc.Save(context.Background(), identity.Identity{UserID: "um", Email: "member@example.com"}, domain.RecordingCreate{
		ProjectID:  testProjectID.Hex(),
		Title:      "Standup",
		Transcript: "Speaker 1: hello",
	})

	require.NoError(t, err)
	assert.Equal(t, "um", rec.UserID)
	assert.Equal(t, domain.RecordingStatusCompleted, rec.Status)
	recordings.AssertExpectations(t)
}

func TestRecordingSave_DefaultTitle(t *testing.T) {
	recordings := new(MockRecordingRepository)
	projects := new(MockProjectRepository)
	projects.On("GetByID", mock.Anything, testProjectID).Return(testCollabProject(), nil)
	recordings.On("Create", mock.Anything, mock.AnythingOfType("*domain.Recording")).Return(nil)

	svc := newRecordingService(recordings, projects)
	rec, err := svc.Save(context.Background(), testOwner(), domain.RecordingCreate{
		ProjectID: testProjectID.Hex(),
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rec.Title, "Recording "))
}

func TestRecordingSave_OutsiderForbidden(t *testing.T) {
	recordings := new(MockRecordingRepository)
	projects := new(MockProjectRepository)
	projects.On("GetByID", mock.Anything, testProjectID).Return(testCollabProject(), nil)

	svc := newRecordingService(recordings, projects)
	_, err := svc.Save(context.Background(), identity.Identity{UserID: "outsider"}, domain.RecordingCreate{
		ProjectID: testProjectID.Hex(),
	})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	recordings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRecordingDelete_CreatorSucceeds(t *testing.T) {
	recordings := new(MockRecordingRepository)
	projects := new(MockProjectRepository)
	recordings.On("GetByID", mock.Anything, testRecordingID).Return(testRecording(), nil)
	projects.On("GetByID", mock.Anything, testProjectID).Return(testCollabProject(), nil)
	recordings.On("Delete", mock.Anything, testRecordingID).Return(nil)

	svc := newRecordingService(recordings, projects)
	err := svc.Delete(context.Background(), identity.Identity{UserID: "um"}, testRecordingID.Hex())

	require.NoError(t, err)
	recordings.AssertExpectations(t)
}

func TestRecordingDelete_OwnerMaySucceed(t *testing.T) {
	recordings := new(MockRecordingRepository)
	projects := new(MockProjectRepository)
	recordings.On("GetByID", mock.Anything, testRecordingID).Return(testRecording(), nil)
	projects.On("GetByID", mock.Anything, testProjectID).Return(testCollabProject(), nil)
	recordings.On("Delete", mock.Anything, testRecordingID).Return(nil)

	svc := newRecordingService(recordings, projects)
	err := svc.Delete(context.Background(), testOwner(), testRecordingID.Hex())

	require.NoError(t, err)
}

func TestRecordingDelete_OtherMemberForbidden(t *testing.T) {
	recordings := new(MockRecordingRepository)
	projects := new(MockProjectRepository)
	recordings.On("GetByID", mock.Anything, testRecordingID).Return(testRecording(), nil)
	projects.On("GetByID", mock.Anything, testProjectID).Return(testCollabProject(), nil)

	svc := newRecordingService(recordings, projects)
	err := svc.Delete(context.Background(), identity.Identity{UserID: "ua"}, testRecordingID.Hex())

	assert.ErrorIs(t, err, domain.ErrForbidden)
	recordings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRecordingGet_NotFound(t *testing.T) {
	recordings := new(MockRecordingRepository)
	projects := new(MockProjectRepository)
	recordings.On("GetByID", mock.Anything, testRecordingID).Return(nil, nil)

	svc := newRecordingService(recordings, projects)
	_, err := svc.Get(context.Background(), testOwner(), testRecordingID.Hex())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
