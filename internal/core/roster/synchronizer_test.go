package roster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crew-hub/internal/model"
	"crew-hub/internal/pkg/config"
)

func TestEnsureGroupForCrew_ThresholdCrossing(t *testing.T) {
	db := newTestDB(t)
	sync := NewSynchronizer(db, &config.RosterConfig{})
	ctx := context.Background()

	leader := seedUser(t, db, "leader")
	worker := seedUser(t, db, "worker1")
	crew := seedCrew(t, db, "Cuadrilla Norte", &leader.ID)

	// 只有班组长一人, 不建群
	require.NoError(t, sync.EnsureGroupForCrew(ctx, crew.ID))
	_, exists := groupFor(t, db, crew.ID)
	assert.False(t, exists)

	// 第二名成员到岗, 创建群聊且两人都在
	seedAssignment(t, db, crew.ID, worker.ID)
	require.NoError(t, sync.EnsureGroupForCrew(ctx, crew.ID))
	conv, exists := groupFor(t, db, crew.ID)
	require.True(t, exists)
	assert.Equal(t, crew.Name, conv.Name)
	assert.ElementsMatch(t, []int64{leader.ID, worker.ID}, participantIDs(t, db, conv.ID))

	// 成员回落到一人, 群聊删除
	require.NoError(t, db.Where("crew_id = ? AND worker_user_id = ?", crew.ID, worker.ID).
		Delete(&model.Assignment{}).Error)
	require.NoError(t, sync.EnsureGroupForCrew(ctx, crew.ID))
	_, exists = groupFor(t, db, crew.ID)
	assert.False(t, exists)
}

func TestEnsureGroupForCrew_Idempotent(t *testing.T) {
	db := newTestDB(t)
	sync := NewSynchronizer(db, &config.RosterConfig{})
	ctx := context.Background()

	leader := seedUser(t, db, "leader")
	worker := seedUser(t, db, "worker1")
	crew := seedCrew(t, db, "Cuadrilla Sur", &leader.ID)
	seedAssignment(t, db, crew.ID, worker.ID)

	require.NoError(t, sync.EnsureGroupForCrew(ctx, crew.ID))
	require.NoError(t, sync.EnsureGroupForCrew(ctx, crew.ID))

	var count int64
	require.NoError(t, db.Model(&model.Conversation{}).
		Where("crew_id = ? AND is_group = ?", crew.ID, true).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	conv, _ := groupFor(t, db, crew.ID)
	assert.ElementsMatch(t, []int64{leader.ID, worker.ID}, participantIDs(t, db, conv.ID))
}

func TestEnsureGroupForCrew_SyncsParticipants(t *testing.T) {
	db := newTestDB(t)
	sync := NewSynchronizer(db, &config.RosterConfig{})
	ctx := context.Background()

	leader := seedUser(t, db, "leader")
	w1 := seedUser(t, db, "worker1")
	w2 := seedUser(t, db, "worker2")
	crew := seedCrew(t, db, "Cuadrilla Este", &leader.ID)
	seedAssignment(t, db, crew.ID, w1.ID)

	require.NoError(t, sync.EnsureGroupForCrew(ctx, crew.ID))
	conv, _ := groupFor(t, db, crew.ID)

	// 新成员加入后对齐
	seedAssignment(t, db, crew.ID, w2.ID)
	require.NoError(t, sync.EnsureGroupForCrew(ctx, crew.ID))
	assert.ElementsMatch(t, []int64{leader.ID, w1.ID, w2.ID}, participantIDs(t, db, conv.ID))

	// 成员被移出后对齐, 会话本身保留
	require.NoError(t, db.Where("crew_id = ? AND worker_user_id = ?", crew.ID, w1.ID).
		Delete(&model.Assignment{}).Error)
	require.NoError(t, sync.EnsureGroupForCrew(ctx, crew.ID))
	assert.ElementsMatch(t, []int64{leader.ID, w2.ID}, participantIDs(t, db, conv.ID))

	reloaded, exists := groupFor(t, db, crew.ID)
	require.True(t, exists)
	assert.Equal(t, conv.ID, reloaded.ID)
}

func TestEnsureGroupForCrew_ArchivedUntouched(t *testing.T) {
	db := newTestDB(t)
	sync := NewSynchronizer(db, &config.RosterConfig{})
	ctx := context.Background()

	leader := seedUser(t, db, "leader")
	worker := seedUser(t, db, "worker1")
	crew := seedCrew(t, db, "Cuadrilla Oeste", &leader.ID)
	seedAssignment(t, db, crew.ID, worker.ID)

	require.NoError(t, sync.EnsureGroupForCrew(ctx, crew.ID))
	conv, _ := groupFor(t, db, crew.ID)
	require.NoError(t, db.Model(conv).Update("archived", true).Error)

	// 成员不足也不能动已归档的群聊
	require.NoError(t, db.Where("crew_id = ?", crew.ID).Delete(&model.Assignment{}).Error)
	require.NoError(t, sync.EnsureGroupForCrew(ctx, crew.ID))

	reloaded, exists := groupFor(t, db, crew.ID)
	require.True(t, exists)
	assert.True(t, reloaded.Archived)
	assert.ElementsMatch(t, []int64{leader.ID, worker.ID}, participantIDs(t, db, conv.ID))
}

func TestEnsureGroupForCrew_CrewMissing(t *testing.T) {
	db := newTestDB(t)
	sync := NewSynchronizer(db, &config.RosterConfig{})

	err := sync.EnsureGroupForCrew(context.Background(), 9999)
	assert.Error(t, err)
}
