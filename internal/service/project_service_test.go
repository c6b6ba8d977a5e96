package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crew-hub/internal/dto"
	"crew-hub/internal/model"
	"crew-hub/pkg/constants"
	pkgErrors "crew-hub/pkg/errors"
)

func seedProject(t *testing.T, s *testServices, name string, chiefID int64) *model.Project {
	t.Helper()
	project := &model.Project{
		Name:       name,
		Type:       constants.ProjectTypeConstruction,
		Complexity: constants.ProjectComplexityMedium,
		StartDate:  time.Now(),
		ChiefID:    chiefID,
		Active:     true,
	}
	require.NoError(t, s.db.Create(project).Error)
	return project
}

func TestFinalize_ReleasesCrewsAndArchivesChats(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, u1 := seedWorkerUser(t, s.db, "111111111", constants.WorkerStatusAvailable)
	_, u2 := seedWorkerUser(t, s.db, "222222222", constants.WorkerStatusAvailable)
	chief := &model.User{AuthProvider: constants.AuthTypeLocal, Username: "chief"}
	require.NoError(t, s.db.Create(chief).Error)

	project := seedProject(t, s, "Terminal", chief.ID)
	crew, err := s.crews.Create(ctx, &dto.CreateCrewRequest{
		Name:      "Faena",
		ProjectID: &project.ID,
		Members: []dto.CrewMemberInput{
			{WorkerUserID: u1.ID},
			{WorkerUserID: u2.ID},
		},
	})
	require.NoError(t, err)

	var conv model.Conversation
	require.NoError(t, s.db.Where("crew_id = ? AND is_group = ?", crew.ID, true).
		First(&conv).Error)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.db.Create(&model.Message{
			ConversationID: conv.ID,
			SenderID:       &u1.ID,
			Content:        "avance",
			Type:           constants.MessageTypeText,
		}).Error)
	}

	require.NoError(t, s.projects.Finalize(ctx, project.ID, chief.ID))

	var reloaded model.Project
	require.NoError(t, s.db.First(&reloaded, project.ID).Error)
	assert.False(t, reloaded.Active)
	assert.NotNil(t, reloaded.EndDate)

	// 班组释放但不解散, 花名册保留
	var freedCrew model.Crew
	require.NoError(t, s.db.First(&freedCrew, crew.ID).Error)
	assert.Nil(t, freedCrew.ProjectID)
	var assignments int64
	require.NoError(t, s.db.Model(&model.Assignment{}).
		Where("crew_id = ?", crew.ID).Count(&assignments).Error)
	assert.EqualValues(t, 2, assignments)

	var chat model.ArchivedChat
	require.NoError(t, s.db.Where("conversation_id = ?", conv.ID).First(&chat).Error)
	assert.Equal(t, constants.ArchiveReasonProjectFinalized, chat.Reason)

	// 再次终结报错
	assert.ErrorIs(t, s.projects.Finalize(ctx, project.ID, chief.ID),
		pkgErrors.ErrProjectFinalized)
}

func TestFinalize_FreesWorkersForAssignment(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, u1 := seedWorkerUser(t, s.db, "111111111", constants.WorkerStatusAvailable)
	chief := &model.User{AuthProvider: constants.AuthTypeLocal, Username: "chief"}
	require.NoError(t, s.db.Create(chief).Error)

	project := seedProject(t, s, "Primera", chief.ID)
	crew := &model.Crew{Name: "Fija", ProjectID: &project.ID}
	require.NoError(t, s.db.Create(crew).Error)
	require.NoError(t, s.db.Create(&model.Assignment{
		CrewID: crew.ID, WorkerUserID: u1.ID,
	}).Error)

	panel, err := s.projects.Panel()
	require.NoError(t, err)
	assert.EqualValues(t, 1, panel.CommittedWorkers)

	require.NoError(t, s.projects.Finalize(ctx, project.ID, chief.ID))

	panel, err = s.projects.Panel()
	require.NoError(t, err)
	assert.Zero(t, panel.CommittedWorkers)
	assert.EqualValues(t, 1, panel.AvailableWorkers)

	// 项目占用解除后可再派工, 老班组的派工记录仍在
	other, err := s.crews.Create(ctx, &dto.CreateCrewRequest{Name: "Nueva"})
	require.NoError(t, err)
	result, err := s.crews.BatchAssign(ctx, other.ID, &dto.BatchAssignRequest{
		Members: []dto.CrewMemberInput{{WorkerUserID: u1.ID}},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{u1.ID}, result.Assigned)
}

func TestPanel_Counts(t *testing.T) {
	s := newTestServices(t)

	seedWorkerUser(t, s.db, "111111111", constants.WorkerStatusAvailable)
	seedWorkerUser(t, s.db, "222222222", constants.WorkerStatusVacation)
	chief := &model.User{AuthProvider: constants.AuthTypeLocal, Username: "chief"}
	require.NoError(t, s.db.Create(chief).Error)
	seedProject(t, s, "Unica", chief.ID)

	require.NoError(t, s.db.Create(&model.WorkerRequest{
		WorkerUserID: chief.ID, Subject: "permiso",
		State: constants.RequestStatePending,
	}).Error)
	require.NoError(t, s.db.Create(&model.IncidentNotice{
		Description: "caida", Severity: constants.IncidentSeverityLow,
	}).Error)

	panel, err := s.projects.Panel()
	require.NoError(t, err)
	assert.EqualValues(t, 2, panel.TotalWorkers)
	assert.EqualValues(t, 2, panel.AvailableWorkers)
	assert.EqualValues(t, 1, panel.ActiveProjects)
	assert.EqualValues(t, 1, panel.PendingRequests)
	assert.EqualValues(t, 1, panel.OpenIncidents)
}

func TestAssignCrew_AttachAndRelease(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	chief := &model.User{AuthProvider: constants.AuthTypeLocal, Username: "chief"}
	require.NoError(t, s.db.Create(chief).Error)
	p1 := seedProject(t, s, "Obra Uno", chief.ID)
	p2 := seedProject(t, s, "Obra Dos", chief.ID)

	crew, err := s.crews.Create(ctx, &dto.CreateCrewRequest{Name: "Libre"})
	require.NoError(t, err)

	require.NoError(t, s.projects.AssignCrew(p1.ID, &dto.AssignCrewRequest{CrewID: crew.ID}))
	var attached model.Crew
	require.NoError(t, s.db.First(&attached, crew.ID).Error)
	require.NotNil(t, attached.ProjectID)
	assert.Equal(t, p1.ID, *attached.ProjectID)

	// 重复挂靠同一项目是空操作
	require.NoError(t, s.projects.AssignCrew(p1.ID, &dto.AssignCrewRequest{CrewID: crew.ID}))

	// 已挂靠的班组不能被其他项目抢走
	err = s.projects.AssignCrew(p2.ID, &dto.AssignCrewRequest{CrewID: crew.ID})
	require.Error(t, err)
	appErr, ok := err.(*pkgErrors.AppError)
	require.True(t, ok)
	assert.Equal(t, pkgErrors.CodeConflict, appErr.Code)

	require.NoError(t, s.projects.ReleaseCrew(p1.ID, crew.ID))
	var released model.Crew
	require.NoError(t, s.db.First(&released, crew.ID).Error)
	assert.Nil(t, released.ProjectID)

	// 未挂靠该项目时释放报错
	err = s.projects.ReleaseCrew(p1.ID, crew.ID)
	require.Error(t, err)
	appErr, ok = err.(*pkgErrors.AppError)
	require.True(t, ok)
	assert.Equal(t, pkgErrors.CodeBadRequest, appErr.Code)
}

func TestAssignCrew_RejectsFinalizedProjectAndBusyLeader(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, leader := seedWorkerUser(t, s.db, "111111111", constants.WorkerStatusAvailable)
	chief := &model.User{AuthProvider: constants.AuthTypeLocal, Username: "chief"}
	require.NoError(t, s.db.Create(chief).Error)

	p1 := seedProject(t, s, "Ocupado", chief.ID)
	_, err := s.crews.Create(ctx, &dto.CreateCrewRequest{
		Name: "Titular", ProjectID: &p1.ID, LeaderID: &leader.ID,
	})
	require.NoError(t, err)

	second, err := s.crews.Create(ctx, &dto.CreateCrewRequest{
		Name: "Reserva", LeaderID: &leader.ID,
	})
	require.NoError(t, err)

	// 班组长已带着挂靠项目的班组, 再挂项目冲突
	p2 := seedProject(t, s, "Nuevo", chief.ID)
	err = s.projects.AssignCrew(p2.ID, &dto.AssignCrewRequest{CrewID: second.ID})
	assert.ErrorIs(t, err, pkgErrors.ErrLeaderConflict)

	// 终结的项目不能再挂班组
	done := seedProject(t, s, "Cerrado", chief.ID)
	require.NoError(t, s.db.Model(done).Update("active", false).Error)
	free, err := s.crews.Create(ctx, &dto.CreateCrewRequest{Name: "Suelta"})
	require.NoError(t, err)
	err = s.projects.AssignCrew(done.ID, &dto.AssignCrewRequest{CrewID: free.ID})
	assert.ErrorIs(t, err, pkgErrors.ErrProjectFinalized)
}
