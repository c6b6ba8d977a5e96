package roster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"crew-hub/internal/model"
	"crew-hub/internal/pkg/config"
	"crew-hub/pkg/constants"
)

func seedConversation(t *testing.T, db *gorm.DB, name string, crewID *int64, userIDs ...int64) *model.Conversation {
	t.Helper()
	conv := &model.Conversation{Name: name, IsGroup: crewID != nil, CrewID: crewID}
	require.NoError(t, db.Create(conv).Error)
	for _, id := range userIDs {
		p := &model.ConversationParticipant{ConversationID: conv.ID, UserID: id}
		require.NoError(t, db.Create(p).Error)
	}
	return conv
}

func seedMessage(t *testing.T, db *gorm.DB, conversationID int64, senderID *int64, content string, at time.Time) {
	t.Helper()
	msg := &model.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Type:           constants.MessageTypeText,
	}
	if senderID == nil {
		msg.Type = constants.MessageTypeSystem
	}
	require.NoError(t, db.Create(msg).Error)
	require.NoError(t, db.Model(msg).Update("created_at", at).Error)
}

func TestArchive_BelowThreshold(t *testing.T) {
	db := newTestDB(t)
	archiver := NewArchiver(db, &config.RosterConfig{})

	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")
	conv := seedConversation(t, db, "chat", nil, a.ID, b.ID)
	seedMessage(t, db, conv.ID, &a.ID, "hola", time.Now())

	chat, err := archiver.Archive(context.Background(), conv.ID, constants.ArchiveReasonManual, &a.ID)
	require.NoError(t, err)
	assert.Nil(t, chat)

	var count int64
	require.NoError(t, db.Model(&model.ArchivedChat{}).Count(&count).Error)
	assert.Zero(t, count)

	var reloaded model.Conversation
	require.NoError(t, db.First(&reloaded, conv.ID).Error)
	assert.False(t, reloaded.Archived)
}

func TestArchive_SnapshotsInOrder(t *testing.T) {
	db := newTestDB(t)
	archiver := NewArchiver(db, &config.RosterConfig{})

	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")
	conv := seedConversation(t, db, "chat", nil, a.ID, b.ID)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seedMessage(t, db, conv.ID, &a.ID, "primero", base)
	seedMessage(t, db, conv.ID, nil, "aviso del sistema", base.Add(time.Minute))
	seedMessage(t, db, conv.ID, &b.ID, "tercero", base.Add(2*time.Minute))

	chat, err := archiver.Archive(context.Background(), conv.ID, constants.ArchiveReasonCrewDissolved, nil)
	require.NoError(t, err)
	require.NotNil(t, chat)

	snapshots, err := Snapshots(chat)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)

	assert.Equal(t, "primero", snapshots[0].Content)
	assert.Equal(t, "alice", snapshots[0].SenderUsername)
	assert.Equal(t, constants.MessageTypeText, snapshots[0].MessageType)

	// 系统消息: 无发送者, 展示名固定
	assert.Nil(t, snapshots[1].SenderID)
	assert.Equal(t, constants.SystemSenderName, snapshots[1].SenderUsername)
	assert.Equal(t, constants.MessageTypeSystem, snapshots[1].MessageType)

	assert.Equal(t, "tercero", snapshots[2].Content)

	// 时间戳为 ISO-8601
	ts, err := time.Parse(time.RFC3339, snapshots[0].CreatedAt)
	require.NoError(t, err)
	assert.True(t, ts.Equal(base))

	assert.ElementsMatch(t, []int64{a.ID, b.ID}, []int64(chat.ParticipantIDs))
	assert.Equal(t, constants.ArchiveReasonCrewDissolved, chat.Reason)

	var reloaded model.Conversation
	require.NoError(t, db.First(&reloaded, conv.ID).Error)
	assert.True(t, reloaded.Archived)
}

func TestArchive_Idempotent(t *testing.T) {
	db := newTestDB(t)
	archiver := NewArchiver(db, &config.RosterConfig{})

	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")
	conv := seedConversation(t, db, "chat", nil, a.ID, b.ID)
	seedMessage(t, db, conv.ID, &a.ID, "uno", time.Now())
	seedMessage(t, db, conv.ID, &b.ID, "dos", time.Now())

	first, err := archiver.Archive(context.Background(), conv.ID, constants.ArchiveReasonManual, &a.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := archiver.Archive(context.Background(), conv.ID, constants.ArchiveReasonManual, &a.ID)
	require.NoError(t, err)
	assert.Nil(t, second)

	var count int64
	require.NoError(t, db.Model(&model.ArchivedChat{}).
		Where("conversation_id = ?", conv.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestArchive_ConversationMissing(t *testing.T) {
	db := newTestDB(t)
	archiver := NewArchiver(db, &config.RosterConfig{})

	chat, err := archiver.Archive(context.Background(), 424242, constants.ArchiveReasonManual, nil)
	require.NoError(t, err)
	assert.Nil(t, chat)
}
