package roster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crew-hub/internal/model"
	"crew-hub/internal/pkg/auth"
	"crew-hub/internal/pkg/config"
	"crew-hub/pkg/constants"
)

func TestAccessGate_PostDeletion(t *testing.T) {
	db := newTestDB(t)
	archiver := NewArchiver(db, &config.RosterConfig{})
	gate := NewAccessGate(db)

	member := seedUser(t, db, "member")
	peer := seedUser(t, db, "peer")
	stranger := seedUser(t, db, "stranger")
	admin := seedUser(t, db, "admin")

	conv := seedConversation(t, db, "chat", nil, member.ID, peer.ID)
	seedMessage(t, db, conv.ID, &member.ID, "uno", time.Now())
	seedMessage(t, db, conv.ID, &peer.ID, "dos", time.Now())

	chat, err := archiver.Archive(context.Background(), conv.ID, constants.ArchiveReasonWorkerRemoved, &peer.ID)
	require.NoError(t, err)
	require.NotNil(t, chat)

	// 源会话被删除后, 快照的访问控制仍然生效
	require.NoError(t, db.Where("conversation_id = ?", conv.ID).
		Delete(&model.ConversationParticipant{}).Error)
	require.NoError(t, db.Where("conversation_id = ?", conv.ID).Delete(&model.Message{}).Error)
	require.NoError(t, db.Delete(&model.Conversation{}, conv.ID).Error)

	ok, err := gate.CanView(chat, member.ID, nil)
	require.NoError(t, err)
	assert.True(t, ok, "快照参与者可见")

	ok, err = gate.CanView(chat, stranger.ID, nil)
	require.NoError(t, err)
	assert.False(t, ok, "无关用户不可见")

	ok, err = gate.CanView(chat, admin.ID, []string{string(auth.RoleSystemAdmin)})
	require.NoError(t, err)
	assert.True(t, ok, "管理员可见")

	ok, err = gate.CanView(chat, peer.ID, nil)
	require.NoError(t, err)
	assert.True(t, ok, "归档操作人可见")
}

func TestAccessGate_LiveCrewLeader(t *testing.T) {
	db := newTestDB(t)
	archiver := NewArchiver(db, &config.RosterConfig{})
	gate := NewAccessGate(db)

	leader := seedUser(t, db, "leader")
	w1 := seedUser(t, db, "worker1")
	w2 := seedUser(t, db, "worker2")
	crew := seedCrew(t, db, "Cuadrilla", &leader.ID)

	// 班组长不在参与者快照里, 仍凭现任职务放行
	conv := seedConversation(t, db, crew.Name, &crew.ID, w1.ID, w2.ID)
	seedMessage(t, db, conv.ID, &w1.ID, "uno", time.Now())
	seedMessage(t, db, conv.ID, &w2.ID, "dos", time.Now())

	chat, err := archiver.Archive(context.Background(), conv.ID, constants.ArchiveReasonManual, nil)
	require.NoError(t, err)
	require.NotNil(t, chat)

	ok, err := gate.CanView(chat, leader.ID, []string{string(auth.RoleCrewLeader)})
	require.NoError(t, err)
	assert.True(t, ok)

	// 班组解散后职务放行失效
	require.NoError(t, db.Delete(&model.Crew{}, crew.ID).Error)
	ok, err = gate.CanView(chat, leader.ID, []string{string(auth.RoleCrewLeader)})
	require.NoError(t, err)
	assert.False(t, ok)
}
