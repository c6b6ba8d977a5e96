// Package roster 维护班组花名册与群聊的一致性。
//
// 群聊不是独立管理的资源, 而是班组成员关系的投影:
// 任何派工变更之后调用 EnsureGroupForCrew 做一次全量重算,
// 群聊的存在性与参与者集合都会收敛到当前花名册。
package roster

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"crew-hub/internal/model"
	"crew-hub/internal/pkg/config"
	"crew-hub/internal/pkg/database"
	"crew-hub/internal/pkg/logger"
	pkgErrors "crew-hub/pkg/errors"
)

// Synchronizer 班组群聊同步器
type Synchronizer struct {
	db  *gorm.DB
	cfg *config.RosterConfig
}

func NewSynchronizer(db *gorm.DB, cfg *config.RosterConfig) *Synchronizer {
	return &Synchronizer{db: db, cfg: cfg}
}

// EnsureGroupForCrew 把班组群聊收敛到当前花名册。
//
// 期望成员 = 在岗派工的工人 ∪ 班组长。重算规则:
//   - 成员数达到下限: 群聊不存在则创建, 存在则把参与者对齐到期望集合;
//   - 成员数低于下限: 未归档的群聊连同消息一并删除, 已归档的保留不动。
//
// 整个重算在一个事务内完成, 并对班组行加写锁,
// 同一班组的并发派工变更被串行化, 重复调用结果一致。
func (s *Synchronizer) EnsureGroupForCrew(ctx context.Context, crewID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var crew model.Crew
		if err := database.WithRowLock(tx).First(&crew, crewID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgErrors.ErrRecordNotFound
			}
			return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "锁定班组失败", err)
		}

		desired, err := s.desiredMembers(tx, &crew)
		if err != nil {
			return err
		}

		var conv model.Conversation
		err = tx.Where("crew_id = ? AND is_group = ?", crewID, true).First(&conv).Error
		exists := err == nil
		if err != nil && err != gorm.ErrRecordNotFound {
			return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询群聊失败", err)
		}

		if len(desired) < s.cfg.GetMinGroupMembers() {
			if !exists || conv.Archived {
				return nil
			}
			return s.dropConversation(tx, &conv)
		}

		if !exists {
			return s.createConversation(tx, &crew, desired)
		}
		if conv.Archived {
			// 归档群聊只读, 不再跟随花名册
			return nil
		}
		return s.syncParticipants(tx, &conv, desired)
	})
}

// desiredMembers 期望的群聊成员集合
func (s *Synchronizer) desiredMembers(tx *gorm.DB, crew *model.Crew) ([]int64, error) {
	var memberIDs []int64
	err := tx.Model(&model.Assignment{}).
		Where("crew_id = ?", crew.ID).
		Pluck("worker_user_id", &memberIDs).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询班组成员失败", err)
	}
	if crew.LeaderID != nil {
		memberIDs = append(memberIDs, *crew.LeaderID)
	}
	return lo.Uniq(memberIDs), nil
}

func (s *Synchronizer) createConversation(tx *gorm.DB, crew *model.Crew, members []int64) error {
	conv := model.Conversation{
		Name:    crew.Name,
		IsGroup: true,
		CrewID:  &crew.ID,
	}
	if err := tx.Create(&conv).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建群聊失败", err)
	}

	for _, userID := range members {
		p := model.ConversationParticipant{ConversationID: conv.ID, UserID: userID}
		if err := tx.Create(&p).Error; err != nil {
			return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "添加群聊成员失败", err)
		}
	}

	logger.Info("班组群聊已创建",
		zap.Int64("crew_id", crew.ID),
		zap.Int64("conversation_id", conv.ID),
		zap.Int("members", len(members)))
	return nil
}

func (s *Synchronizer) syncParticipants(tx *gorm.DB, conv *model.Conversation, desired []int64) error {
	var current []int64
	err := tx.Model(&model.ConversationParticipant{}).
		Where("conversation_id = ?", conv.ID).
		Pluck("user_id", &current).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询群聊成员失败", err)
	}

	toAdd, toRemove := lo.Difference(desired, current)

	for _, userID := range toAdd {
		p := model.ConversationParticipant{ConversationID: conv.ID, UserID: userID}
		if err := tx.Create(&p).Error; err != nil {
			return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "添加群聊成员失败", err)
		}
	}
	if len(toRemove) > 0 {
		err = tx.Where("conversation_id = ? AND user_id IN ?", conv.ID, toRemove).
			Delete(&model.ConversationParticipant{}).Error
		if err != nil {
			return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "移除群聊成员失败", err)
		}
	}

	if len(toAdd) > 0 || len(toRemove) > 0 {
		logger.Info("班组群聊成员已对齐",
			zap.Int64("conversation_id", conv.ID),
			zap.Int("added", len(toAdd)),
			zap.Int("removed", len(toRemove)))
	}
	return nil
}

// dropConversation 删除未归档的群聊及其消息
func (s *Synchronizer) dropConversation(tx *gorm.DB, conv *model.Conversation) error {
	if err := tx.Where("conversation_id = ?", conv.ID).
		Delete(&model.ConversationParticipant{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除群聊成员失败", err)
	}

	var messageIDs []int64
	if err := tx.Model(&model.Message{}).Where("conversation_id = ?", conv.ID).
		Pluck("id", &messageIDs).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询群聊消息失败", err)
	}
	if len(messageIDs) > 0 {
		if err := tx.Where("message_id IN ?", messageIDs).
			Delete(&model.MessageRead{}).Error; err != nil {
			return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除已读标记失败", err)
		}
	}
	if err := tx.Where("conversation_id = ?", conv.ID).
		Delete(&model.Message{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除群聊消息失败", err)
	}
	if err := tx.Delete(&model.Conversation{}, conv.ID).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除群聊失败", err)
	}

	logger.Info("班组群聊成员不足, 已删除", zap.Int64("conversation_id", conv.ID))
	return nil
}
