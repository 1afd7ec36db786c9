package service

import (
	"context"
	"testing"

	"github.com/mindmesh/mindmesh-api/internal/domain"
	"github.com/mindmesh/mindmesh-api/internal/identity"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quietAnalytics() *MockAnalyticsSink {
	analytics := new(MockAnalyticsSink)
	analytics.On("SyncProject", mock.Anything, mock.Anything).Maybe()
	analytics.On("SyncRecording", mock.Anything, mock.Anything).Maybe()
	analytics.On("LogEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	return analytics
}

func TestProjectCreate_Defaults(t *testing.T) {
	projects := new(MockProjectRepository)
	projects.On("Create", mock.Anything, mock.AnythingOfType("*domain.Project")).Return(nil)

	svc := NewProjectService(projects, quietAnalytics(), zerolog.Nop())
	project, err := svc.Create(context.Background(), testOwner(), domain.ProjectCreate{
		Title:       "Q1 planning",
		Description: "quarterly planning sessions",
	})

	require.NoError(t, err)
	assert.Equal(t, "u1", project.OwnerID)
	assert.Equal(t, "owner@example.com", project.OwnerEmail)
	assert.Equal(t, domain.ProjectStatusActive, project.Status)
	assert.NotNil(t, project.Collaborators)
	assert.Empty(t, project.Collaborators)
	assert.NotNil(t, project.Tags)
	projects.AssertExpectations(t)
}

func TestProjectCreate_EmptyOwnerEmailAllowed(t *testing.T) {
	projects := new(MockProjectRepository)
	projects.On("Create", mock.Anything, mock.AnythingOfType("*domain.Project")).Return(nil)

	svc := NewProjectService(projects, quietAnalytics(), zerolog.Nop())
	project, err := svc.Create(context.Background(), identity.Identity{UserID: "u9"}, domain.ProjectCreate{
		Title:       "No email",
		Description: "owner token carried no email claim",
	})

	require.NoError(t, err)
	assert.Empty(t, project.OwnerEmail)
}

func TestProjectGet_NonMemberForbidden(t *testing.T) {
	projects := new(MockProjectRepository)
	projects.On("GetByID", mock.Anything, testProjectID).Return(testCollabProject(), nil)

	svc := NewProjectService(projects, quietAnalytics(), zerolog.Nop())
	_, err := svc.Get(context.Background(), identity.Identity{UserID: "outsider"}, testProjectID.Hex())

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestProjectGet_InvalidID(t *testing.T) {
	svc := NewProjectService(new(MockProjectRepository), quietAnalytics(), zerolog.Nop())
	_, err := svc.Get(context.Background(), testOwner(), "not-an-object-id")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProjectUpdate_MemberForbidden(t *testing.T) {
	projects := new(MockProjectRepository)
	projects.On("GetByID", mock.Anything, testProjectID).Return(testCollabProject(), nil)

	svc := NewProjectService(projects, quietAnalytics(), zerolog.Nop())
	title := "renamed"
	_, err := svc.Update(context.Background(), identity.Identity{UserID: "um"}, testProjectID.Hex(), domain.ProjectUpdate{Title: &title})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	projects.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestProjectUpdate_AdminAllowed(t *testing.T) {
	projects := new(MockProjectRepository)
	updated := testCollabProject()
	updated.Title = "renamed"
	projects.On("GetByID", mock.Anything, testProjectID).Return(testCollabProject(), nil)
	projects.On("Update", mock.Anything, testProjectID, mock.AnythingOfType("*domain.ProjectUpdate")).Return(updated, nil)

	svc := NewProjectService(projects, quietAnalytics(), zerolog.Nop())
	title := "renamed"
	project, err := svc.Update(context.Background(), identity.Identity{UserID: "ua"}, testProjectID.Hex(), domain.ProjectUpdate{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, "renamed", project.Title)
}

func TestProjectDelete_AdminForbidden(t *testing.T) {
	projects := new(MockProjectRepository)
	projects.On("GetByID", mock.Anything, testProjectID).Return(testCollabProject(), nil)

	svc := NewProjectService(projects, quietAnalytics(), zerolog.Nop())
	err := svc.Delete(context.Background(), identity.Identity{UserID: "ua"}, testProjectID.Hex())

	assert.ErrorIs(t, err, domain.ErrForbidden)
	projects.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestProjectDelete_OwnerSucceeds(t *testing.T) {
	projects := new(MockProjectRepository)
	projects.On("GetByID", mock.Anything, testProjectID).Return(testCollabProject(), nil)
	projects.On("Delete", mock.Anything, testProjectID).Return(nil)

	svc := NewProjectService(projects, quietAnalytics(), zerolog.Nop())
	err := svc.Delete(context.Background(), testOwner(), testProjectID.Hex())

	require.NoError(t, err)
	projects.AssertExpectations(t)
}
