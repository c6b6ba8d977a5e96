package roster

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"crew-hub/internal/model"
	"crew-hub/internal/pkg/config"
	"crew-hub/internal/pkg/database"
	"crew-hub/internal/pkg/logger"
	"crew-hub/pkg/constants"
	pkgErrors "crew-hub/pkg/errors"
)

// Archiver 会话归档器。
// 归档把消息与参与者固化成不可变快照, 快照写入后原会话置位只读。
type Archiver struct {
	db  *gorm.DB
	cfg *config.RosterConfig
}

func NewArchiver(db *gorm.DB, cfg *config.RosterConfig) *Archiver {
	return &Archiver{db: db, cfg: cfg}
}

// Archive 归档会话。
//
// 以下情况静默跳过并返回 (nil, nil):
//   - 会话不存在;
//   - 会话已归档(快照只写一次);
//   - 消息数低于下限, 没有归档价值。
//
// archivedBy 为空表示系统触发(项目终结/班组解散等)。
func (a *Archiver) Archive(ctx context.Context, conversationID int64, reason string, archivedBy *int64) (*model.ArchivedChat, error) {
	var chat *model.ArchivedChat

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv model.Conversation
		if err := database.WithRowLock(tx).First(&conv, conversationID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询会话失败", err)
		}
		if conv.Archived {
			return nil
		}

		var messages []model.Message
		err := tx.Where("conversation_id = ?", conv.ID).
			Preload("Sender").
			Order("created_at ASC, id ASC").
			Find(&messages).Error
		if err != nil {
			return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询会话消息失败", err)
		}
		if len(messages) < a.cfg.GetArchiveMinMessages() {
			return nil
		}

		snapshots := make([]model.MessageSnapshot, 0, len(messages))
		for _, msg := range messages {
			senderName := constants.SystemSenderName
			if msg.Sender != nil {
				senderName = msg.Sender.Username
			}
			snapshots = append(snapshots, model.MessageSnapshot{
				SenderID:       msg.SenderID,
				SenderUsername: senderName,
				Content:        msg.Content,
				MessageType:    msg.Type,
				CreatedAt:      msg.CreatedAt.Format(time.RFC3339),
			})
		}
		messagesJSON, err := json.Marshal(snapshots)
		if err != nil {
			return pkgErrors.Wrap(pkgErrors.CodeInternalError, "序列化消息快照失败", err)
		}

		var participantIDs []int64
		err = tx.Model(&model.ConversationParticipant{}).
			Where("conversation_id = ?", conv.ID).
			Pluck("user_id", &participantIDs).Error
		if err != nil {
			return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询会话参与者失败", err)
		}

		record := model.ArchivedChat{
			ConversationID: conv.ID,
			CrewID:         conv.CrewID,
			Name:           conv.Name,
			MessagesJSON:   datatypes.JSON(messagesJSON),
			ParticipantIDs: participantIDs,
			Reason:         reason,
			ArchivedByID:   archivedBy,
			ArchivedAt:     time.Now(),
		}
		if err := tx.Create(&record).Error; err != nil {
			return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建归档快照失败", err)
		}

		err = tx.Model(&model.Conversation{}).
			Where("id = ?", conv.ID).Update("archived", true).Error
		if err != nil {
			return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "标记会话归档失败", err)
		}

		chat = &record
		return nil
	})
	if err != nil {
		return nil, err
	}

	if chat != nil {
		logger.Info("会话已归档",
			zap.Int64("conversation_id", conversationID),
			zap.String("reason", reason),
			zap.Int("participants", len(chat.ParticipantIDs)))
	}
	return chat, nil
}

// Snapshots 反序列化归档快照中的消息
func Snapshots(chat *model.ArchivedChat) ([]model.MessageSnapshot, error) {
	var snapshots []model.MessageSnapshot
	if err := json.Unmarshal(chat.MessagesJSON, &snapshots); err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeInternalError, "解析消息快照失败", err)
	}
	return snapshots, nil
}
