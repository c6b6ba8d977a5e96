package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crew-hub/internal/dto"
	"crew-hub/internal/model"
	"crew-hub/internal/pkg/auth"
	"crew-hub/internal/pkg/crypto"
	"crew-hub/pkg/constants"
	pkgErrors "crew-hub/pkg/errors"
)

func TestCreateWorker_ProvisionsUser(t *testing.T) {
	svc := newTestServices(t)

	resp, err := svc.workers.Create(&dto.WorkerCreateRequest{
		RUT:        "12.345.678-9",
		FirstName:  "Juan",
		LastName:   "Pérez",
		Email:      "juan@example.com",
		WorkerType: constants.WorkerTypeLeader,
	})
	require.NoError(t, err)
	assert.Equal(t, "123456789", resp.RUT)

	var user model.User
	require.NoError(t, svc.db.Where("username = ?", "123456789").First(&user).Error)
	assert.True(t, crypto.CheckPassword("123456789", user.Password))
	assert.True(t, user.InitialPassword)
	assert.Contains(t, []string(user.SystemRoles), string(auth.RoleCrewLeader))
}

func TestCreateWorker_RejectsBadRUT(t *testing.T) {
	svc := newTestServices(t)

	_, err := svc.workers.Create(&dto.WorkerCreateRequest{
		RUT:        "1234",
		FirstName:  "Ana",
		LastName:   "Soto",
		Email:      "ana@example.com",
		WorkerType: constants.WorkerTypeWorker,
	})
	require.ErrorIs(t, err, pkgErrors.ErrInvalidRUT)
}

func TestCreateWorker_DuplicateRUT(t *testing.T) {
	svc := newTestServices(t)

	req := &dto.WorkerCreateRequest{
		RUT:        "111222333",
		FirstName:  "Ana",
		LastName:   "Soto",
		Email:      "ana@example.com",
		WorkerType: constants.WorkerTypeWorker,
	}
	_, err := svc.workers.Create(req)
	require.NoError(t, err)

	req.Email = "otra@example.com"
	_, err = svc.workers.Create(req)
	require.Error(t, err)
	appErr, ok := err.(*pkgErrors.AppError)
	require.True(t, ok)
	assert.Equal(t, pkgErrors.CodeConflict, appErr.Code)
}

func TestSetStatus_OverridePrecedence(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	worker, u1 := seedWorkerUser(t, svc.db, "100000001", constants.WorkerStatusAvailable)
	_, u2 := seedWorkerUser(t, svc.db, "100000002", constants.WorkerStatusAvailable)

	crew, err := svc.crews.Create(ctx, &dto.CreateCrewRequest{
		Name: "Cuadrilla Estado",
		Members: []dto.CrewMemberInput{
			{WorkerUserID: u1.ID},
			{WorkerUserID: u2.ID},
		},
	})
	require.NoError(t, err)
	_ = crew

	// 有在班派工时, 生效状态被推导为已派工
	got, err := svc.workers.GetByID(worker.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.WorkerStatusAssigned, got.EffectiveStatus)

	// 人工锁定后以存储状态为准
	got, err = svc.workers.SetStatus(worker.ID, &dto.WorkerStatusRequest{
		Status:   constants.WorkerStatusVacation,
		Override: true,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.WorkerStatusVacation, got.EffectiveStatus)

	// 解除锁定, 下一次读取重新推导
	got, err = svc.workers.SetStatus(worker.ID, &dto.WorkerStatusRequest{
		Status:   constants.WorkerStatusAvailable,
		Override: false,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.WorkerStatusAssigned, got.EffectiveStatus)
}

func TestDeactivate_RemovesAssignmentsAndArchivesPrivateChats(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	worker, u1 := seedWorkerUser(t, svc.db, "200000001", constants.WorkerStatusAvailable)
	_, u2 := seedWorkerUser(t, svc.db, "200000002", constants.WorkerStatusAvailable)

	_, err := svc.crews.Create(ctx, &dto.CreateCrewRequest{
		Name: "Cuadrilla Baja",
		Members: []dto.CrewMemberInput{
			{WorkerUserID: u1.ID},
			{WorkerUserID: u2.ID},
		},
	})
	require.NoError(t, err)

	// 两人之间的私聊, 消息数达到归档门槛
	conv := &model.Conversation{IsGroup: false}
	require.NoError(t, svc.db.Create(conv).Error)
	for _, uid := range []int64{u1.ID, u2.ID} {
		require.NoError(t, svc.db.Create(&model.ConversationParticipant{
			ConversationID: conv.ID, UserID: uid,
		}).Error)
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, svc.db.Create(&model.Message{
			ConversationID: conv.ID,
			SenderID:       &u1.ID,
			Content:        "hola",
			Type:           constants.MessageTypeText,
		}).Error)
	}

	require.NoError(t, svc.workers.Deactivate(ctx, worker.ID))

	var assignments int64
	svc.db.Model(&model.Assignment{}).Where("worker_user_id = ?", u1.ID).Count(&assignments)
	assert.Zero(t, assignments)

	var refreshed model.Worker
	require.NoError(t, svc.db.First(&refreshed, worker.ID).Error)
	assert.False(t, refreshed.Active)

	var archived model.ArchivedChat
	require.NoError(t, svc.db.Where("conversation_id = ?", conv.ID).First(&archived).Error)
	assert.Equal(t, constants.ArchiveReasonWorkerRemoved, archived.Reason)

	var liveConv model.Conversation
	require.NoError(t, svc.db.First(&liveConv, conv.ID).Error)
	assert.True(t, liveConv.Archived)
}
