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

func TestBatchAssign_SkipsIneligible(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, u1 := seedWorkerUser(t, s.db, "111111111", constants.WorkerStatusAvailable)
	_, u2 := seedWorkerUser(t, s.db, "222222222", constants.WorkerStatusAvailable)
	_, u3 := seedWorkerUser(t, s.db, "333333333", constants.WorkerStatusVacation)

	crew, err := s.crews.Create(ctx, &dto.CreateCrewRequest{Name: "Cuadrilla Norte"})
	require.NoError(t, err)

	result, err := s.crews.BatchAssign(ctx, crew.ID, &dto.BatchAssignRequest{
		Members: []dto.CrewMemberInput{
			{WorkerUserID: u1.ID},
			{WorkerUserID: u2.ID},
			{WorkerUserID: u3.ID},
		},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{u1.ID, u2.ID}, result.Assigned)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, u3.ID, result.Skipped[0].WorkerUserID)
	assert.Contains(t, result.Skipped[0].Reason, constants.WorkerStatusVacation)
	assert.Len(t, result.Members, 2)

	var count int64
	require.NoError(t, s.db.Model(&model.Assignment{}).
		Where("crew_id = ?", crew.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	// 两名成员达到群聊下限, 群聊同步建立
	var conv model.Conversation
	require.NoError(t, s.db.Where("crew_id = ? AND is_group = ?", crew.ID, true).
		First(&conv).Error)
}

func TestBatchAssign_ProjectCommittedWorkerSkipped(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, busy := seedWorkerUser(t, s.db, "444444444", constants.WorkerStatusAvailable)
	chief := &model.User{AuthProvider: constants.AuthTypeLocal, Username: "chief"}
	require.NoError(t, s.db.Create(chief).Error)

	project := &model.Project{
		Name: "Planta Sur", Type: constants.ProjectTypeConstruction,
		Complexity: constants.ProjectComplexityLow,
		StartDate:  time.Now(), ChiefID: chief.ID, Active: true,
	}
	require.NoError(t, s.db.Create(project).Error)
	committed := &model.Crew{Name: "Ocupada", ProjectID: &project.ID}
	require.NoError(t, s.db.Create(committed).Error)
	require.NoError(t, s.db.Create(&model.Assignment{
		CrewID: committed.ID, WorkerUserID: busy.ID,
	}).Error)

	other, err := s.crews.Create(ctx, &dto.CreateCrewRequest{Name: "Otra"})
	require.NoError(t, err)

	result, err := s.crews.BatchAssign(ctx, other.ID, &dto.BatchAssignRequest{
		Members: []dto.CrewMemberInput{{WorkerUserID: busy.ID}},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Assigned)
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0].Reason, "项目")
}

func TestUpdateCrew_ReconcilesMembers(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, u1 := seedWorkerUser(t, s.db, "111111111", constants.WorkerStatusAvailable)
	_, u2 := seedWorkerUser(t, s.db, "222222222", constants.WorkerStatusAvailable)
	_, u3 := seedWorkerUser(t, s.db, "333333333", constants.WorkerStatusAvailable)

	crew, err := s.crews.Create(ctx, &dto.CreateCrewRequest{
		Name: "Cuadrilla",
		Members: []dto.CrewMemberInput{
			{WorkerUserID: u1.ID},
			{WorkerUserID: u2.ID},
		},
	})
	require.NoError(t, err)
	require.Len(t, crew.Members, 2)

	// u2 移出, u3 加入
	updated, err := s.crews.Update(ctx, crew.ID, &dto.UpdateCrewRequest{
		Members: []dto.CrewMemberInput{
			{WorkerUserID: u1.ID},
			{WorkerUserID: u3.ID},
		},
	})
	require.NoError(t, err)

	got := make([]int64, 0, len(updated.Members))
	for _, m := range updated.Members {
		got = append(got, m.WorkerUserID)
	}
	assert.ElementsMatch(t, []int64{u1.ID, u3.ID}, got)

	var ids []int64
	require.NoError(t, s.db.Model(&model.ConversationParticipant{}).
		Joins("JOIN conversations ON conversations.id = conversation_participants.conversation_id").
		Where("conversations.crew_id = ?", crew.ID).
		Pluck("conversation_participants.user_id", &ids).Error)
	assert.ElementsMatch(t, []int64{u1.ID, u3.ID}, ids)
}

func TestDissolve_RejectsProjectCrew(t *testing.T) {
	s := newTestServices(t)

	chief := &model.User{AuthProvider: constants.AuthTypeLocal, Username: "chief"}
	require.NoError(t, s.db.Create(chief).Error)
	project := &model.Project{
		Name: "Activo", Type: constants.ProjectTypeOther,
		Complexity: constants.ProjectComplexityMedium,
		StartDate:  time.Now(), ChiefID: chief.ID, Active: true,
	}
	require.NoError(t, s.db.Create(project).Error)
	crew := &model.Crew{Name: "Atada", ProjectID: &project.ID}
	require.NoError(t, s.db.Create(crew).Error)

	err := s.crews.Dissolve(context.Background(), crew.ID, chief.ID)
	assert.ErrorIs(t, err, pkgErrors.ErrCrewHasProject)
}

func TestDissolve_ArchivesChatAndNotifies(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, u1 := seedWorkerUser(t, s.db, "111111111", constants.WorkerStatusAvailable)
	_, u2 := seedWorkerUser(t, s.db, "222222222", constants.WorkerStatusAvailable)

	crew, err := s.crews.Create(ctx, &dto.CreateCrewRequest{
		Name: "Despedida",
		Members: []dto.CrewMemberInput{
			{WorkerUserID: u1.ID},
			{WorkerUserID: u2.ID},
		},
	})
	require.NoError(t, err)

	var conv model.Conversation
	require.NoError(t, s.db.Where("crew_id = ? AND is_group = ?", crew.ID, true).
		First(&conv).Error)
	for i := 0; i < 2; i++ {
		require.NoError(t, s.db.Create(&model.Message{
			ConversationID: conv.ID,
			SenderID:       &u1.ID,
			Content:        "hola",
			Type:           constants.MessageTypeText,
		}).Error)
	}

	require.NoError(t, s.crews.Dissolve(ctx, crew.ID, u1.ID))

	var chat model.ArchivedChat
	require.NoError(t, s.db.Where("conversation_id = ?", conv.ID).First(&chat).Error)
	assert.Equal(t, constants.ArchiveReasonCrewDissolved, chat.Reason)

	var assignments int64
	require.NoError(t, s.db.Model(&model.Assignment{}).
		Where("crew_id = ?", crew.ID).Count(&assignments).Error)
	assert.Zero(t, assignments)

	// 软删除
	var gone model.Crew
	err = s.db.Where("id = ? AND deleted_at IS NULL", crew.ID).First(&gone).Error
	assert.Error(t, err)

	var notices int64
	require.NoError(t, s.db.Model(&model.Notification{}).
		Where("user_id IN ?", []int64{u1.ID, u2.ID}).Count(&notices).Error)
	assert.EqualValues(t, 2, notices)
}

func TestDissolve_DeletesChatBelowArchiveThreshold(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, u1 := seedWorkerUser(t, s.db, "111111111", constants.WorkerStatusAvailable)
	_, u2 := seedWorkerUser(t, s.db, "222222222", constants.WorkerStatusAvailable)

	crew, err := s.crews.Create(ctx, &dto.CreateCrewRequest{
		Name: "Muda",
		Members: []dto.CrewMemberInput{
			{WorkerUserID: u1.ID},
			{WorkerUserID: u2.ID},
		},
	})
	require.NoError(t, err)

	require.NoError(t, s.crews.Dissolve(ctx, crew.ID, u1.ID))

	var chats, convs int64
	require.NoError(t, s.db.Model(&model.ArchivedChat{}).Count(&chats).Error)
	require.NoError(t, s.db.Model(&model.Conversation{}).
		Where("crew_id = ?", crew.ID).Count(&convs).Error)
	assert.Zero(t, chats)
	assert.Zero(t, convs)
}

func TestUpdateCrew_RejectsBusyLeaderOnProjectAttach(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, leader := seedWorkerUser(t, s.db, "111111111", constants.WorkerStatusAvailable)
	chief := &model.User{AuthProvider: constants.AuthTypeLocal, Username: "chief"}
	require.NoError(t, s.db.Create(chief).Error)

	p1 := seedProject(t, s, "Obra Uno", chief.ID)
	p2 := seedProject(t, s, "Obra Dos", chief.ID)

	_, err := s.crews.Create(ctx, &dto.CreateCrewRequest{
		Name: "Titular", ProjectID: &p1.ID, LeaderID: &leader.ID,
	})
	require.NoError(t, err)

	// 未挂项目的班组可以复用同一班组长
	second, err := s.crews.Create(ctx, &dto.CreateCrewRequest{
		Name: "Reserva", LeaderID: &leader.ID,
	})
	require.NoError(t, err)

	// 给第二个班组挂项目会让班组长同时带两个项目班组, 必须拒绝
	_, err = s.crews.Update(ctx, second.ID, &dto.UpdateCrewRequest{ProjectID: &p2.ID})
	assert.ErrorIs(t, err, pkgErrors.ErrLeaderConflict)

	var reloaded model.Crew
	require.NoError(t, s.db.First(&reloaded, second.ID).Error)
	assert.Nil(t, reloaded.ProjectID)
}
