package project_service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatat123/studioo-backend/internal/dtos/project_dto"
	"github.com/gatat123/studioo-backend/internal/entity"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
)

type fakeProjectRepo struct {
	projects     map[string]*entity.Project
	participants []entity.ProjectParticipant
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]*entity.Project)}
}

func (f *fakeProjectRepo) CreateProject(_ context.Context, project *entity.Project) *app_error.AppError {
	f.projects[project.ID.String()] = project
	return nil
}

func (f *fakeProjectRepo) FindProjectByID(_ context.Context, projectId string) (*entity.Project, *app_error.AppError) {
	project, ok := f.projects[projectId]
	if !ok {
		return nil, app_error.NewAppError(http.StatusNotFound, "cannot find project", "project-id")
	}
	return project, nil
}

func (f *fakeProjectRepo) ListProjectsByUser(_ context.Context, userId string) ([]entity.Project, *app_error.AppError) {
	var out []entity.Project
	for _, p := range f.projects {
		if p.CreatedBy == userId {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) UpdateProject(_ context.Context, project *entity.Project) *app_error.AppError {
	f.projects[project.ID.String()] = project
	return nil
}

func (f *fakeProjectRepo) AddParticipant(_ context.Context, participant *entity.ProjectParticipant) *app_error.AppError {
	f.participants = append(f.participants, *participant)
	return nil
}

func (f *fakeProjectRepo) FindParticipant(_ context.Context, projectId, userId string) (*entity.ProjectParticipant, *app_error.AppError) {
	for i := range f.participants {
		if f.participants[i].ProjectID == projectId && f.participants[i].UserID == userId {
			return &f.participants[i], nil
		}
	}
	return nil, app_error.NewAppError(http.StatusNotFound, "user is not a participant", "participant")
}

func (f *fakeProjectRepo) ListParticipants(_ context.Context, projectId string) ([]entity.ProjectParticipant, *app_error.AppError) {
	var out []entity.ProjectParticipant
	for _, p := range f.participants {
		if p.ProjectID == projectId {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeUserRepo struct{}

func (fakeUserRepo) CountUser(_ context.Context, _ entity.UserFilter) (int64, *app_error.AppError) {
	return 0, nil
}

func (fakeUserRepo) SaveUser(_ context.Context, _ entity.User) *app_error.AppError { return nil }

func (fakeUserRepo) UpdateUser(_ context.Context, _ *entity.User) *app_error.AppError { return nil }

func (fakeUserRepo) FindUserByID(_ context.Context, userId string) (*entity.User, *app_error.AppError) {
	return &entity.User{ID: userId}, nil
}

func (fakeUserRepo) FindUserByCredential(_ context.Context, _ string) (*entity.User, *app_error.AppError) {
	return nil, app_error.NewAppError(http.StatusNotFound, "cannot find user", "credential")
}

func (fakeUserRepo) DisplayInfo(_ context.Context, _ string) (string, string, error) {
	return "", "", nil
}

func TestCreateProjectSeedsOwnerParticipant(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := &ProjectService{ProjectRepo: repo}

	resp, err := svc.CreateProject(context.Background(), "user-1", project_dto.CreateProjectRequest{Name: "storyboard"})
	require.Nil(t, err)

	participants, err := svc.ListParticipants(context.Background(), resp.ID)
	require.Nil(t, err)
	require.Len(t, participants, 1, "a fresh project lists its creator")
	assert.Equal(t, "user-1", participants[0].UserID)
	assert.Equal(t, "owner", participants[0].Role)
}

func TestInvitedParticipantListedWithOwner(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := &ProjectService{ProjectRepo: repo, UserRepo: fakeUserRepo{}}

	resp, err := svc.CreateProject(context.Background(), "user-1", project_dto.CreateProjectRequest{Name: "storyboard"})
	require.Nil(t, err)

	err = svc.InviteParticipant(context.Background(), resp.ID, "user-1", project_dto.InviteParticipantRequest{
		UserID: "user-2",
		Role:   "member",
	})
	require.Nil(t, err)

	participants, err := svc.ListParticipants(context.Background(), resp.ID)
	require.Nil(t, err)
	require.Len(t, participants, 2)
	assert.Equal(t, "user-1", participants[0].UserID)
	assert.Equal(t, "user-2", participants[1].UserID)
}

func TestInviteRejectsNonParticipant(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := &ProjectService{ProjectRepo: repo, UserRepo: fakeUserRepo{}}

	resp, err := svc.CreateProject(context.Background(), "user-1", project_dto.CreateProjectRequest{Name: "storyboard"})
	require.Nil(t, err)

	err = svc.InviteParticipant(context.Background(), resp.ID, "outsider", project_dto.InviteParticipantRequest{
		UserID: "user-2",
		Role:   "member",
	})
	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.Code)
}
