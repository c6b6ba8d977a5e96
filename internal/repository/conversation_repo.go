package repository

import (
	"gorm.io/gorm"

	"crew-hub/internal/model"
	pkgErrors "crew-hub/pkg/errors"
)

type ConversationRepository interface {
	Create(conv *model.Conversation) error
	Update(conv *model.Conversation) error
	FindByID(id int64, opts ...QueryOption) (*model.Conversation, error)
	FindGroupByCrewID(crewID int64) (*model.Conversation, error)
	// FindPrivateBetween 查找两人之间的非群聊会话
	FindPrivateBetween(userA, userB int64) (*model.Conversation, error)
	// ListPrivateByUser 某用户参与的全部未归档私聊
	ListPrivateByUser(userID int64) ([]*model.Conversation, error)
	ListByParticipant(userID int64, page, pageSize int, onlyGroups bool) ([]*model.Conversation, int64, error)
	Delete(id int64) error

	AddParticipant(p *model.ConversationParticipant) error
	RemoveParticipant(conversationID, userID int64) error
	ListParticipants(conversationID int64) ([]*model.ConversationParticipant, error)
	IsParticipant(conversationID, userID int64) (bool, error)

	CreateMessage(msg *model.Message) error
	ListMessages(conversationID int64, page, pageSize int) ([]*model.Message, int64, error)
	CountMessages(conversationID int64) (int64, error)
	MarkRead(messageID, userID int64) error
	CountUnread(conversationID, userID int64) (int64, error)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(conv *model.Conversation) error {
	if err := r.db.Create(conv).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建会话失败", err)
	}
	return nil
}

func (r *conversationRepository) Update(conv *model.Conversation) error {
	if err := r.db.Save(conv).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新会话失败", err)
	}
	return nil
}

func (r *conversationRepository) FindByID(id int64, opts ...QueryOption) (*model.Conversation, error) {
	query := r.db
	for _, opt := range opts {
		query = opt(query)
	}

	var conv model.Conversation
	err := query.First(&conv, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询会话失败", err)
	}
	return &conv, nil
}

func (r *conversationRepository) FindGroupByCrewID(crewID int64) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.Where("crew_id = ? AND is_group = ?", crewID, true).First(&conv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询群聊失败", err)
	}
	return &conv, nil
}

func (r *conversationRepository) FindPrivateBetween(userA, userB int64) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.
		Joins("JOIN conversation_participants pa ON pa.conversation_id = conversations.id AND pa.user_id = ?", userA).
		Joins("JOIN conversation_participants pb ON pb.conversation_id = conversations.id AND pb.user_id = ?", userB).
		Where("conversations.is_group = ? AND conversations.archived = ?", false, false).
		First(&conv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询私聊失败", err)
	}
	return &conv, nil
}

func (r *conversationRepository) ListPrivateByUser(userID int64) ([]*model.Conversation, error) {
	var convs []*model.Conversation
	err := r.db.
		Joins("JOIN conversation_participants p ON p.conversation_id = conversations.id AND p.user_id = ?", userID).
		Where("conversations.is_group = ? AND conversations.archived = ?", false, false).
		Find(&convs).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询私聊列表失败", err)
	}
	return convs, nil
}

func (r *conversationRepository) ListByParticipant(userID int64, page, pageSize int, onlyGroups bool) ([]*model.Conversation, int64, error) {
	var convs []*model.Conversation
	var total int64

	query := r.db.Model(&model.Conversation{}).
		Joins("JOIN conversation_participants p ON p.conversation_id = conversations.id").
		Where("p.user_id = ?", userID)
	if onlyGroups {
		query = query.Where("conversations.is_group = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计会话失败", err)
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Participants").Preload("Participants.User").
		Order("conversations.updated_at DESC").Offset(offset).Limit(pageSize).Find(&convs).Error
	if err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询会话列表失败", err)
	}

	return convs, total, nil
}

func (r *conversationRepository) Delete(id int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&model.ConversationParticipant{}).Error; err != nil {
			return err
		}
		var messageIDs []int64
		if err := tx.Model(&model.Message{}).Where("conversation_id = ?", id).
			Pluck("id", &messageIDs).Error; err != nil {
			return err
		}
		if len(messageIDs) > 0 {
			if err := tx.Where("message_id IN ?", messageIDs).Delete(&model.MessageRead{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("conversation_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Conversation{}, id).Error
	})
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除会话失败", err)
	}
	return nil
}

func (r *conversationRepository) AddParticipant(p *model.ConversationParticipant) error {
	if err := r.db.Create(p).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "添加会话参与者失败", err)
	}
	return nil
}

func (r *conversationRepository) RemoveParticipant(conversationID, userID int64) error {
	err := r.db.Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Delete(&model.ConversationParticipant{}).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "移除会话参与者失败", err)
	}
	return nil
}

func (r *conversationRepository) ListParticipants(conversationID int64) ([]*model.ConversationParticipant, error) {
	var participants []*model.ConversationParticipant
	err := r.db.Where("conversation_id = ?", conversationID).
		Preload("User").Find(&participants).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询会话参与者失败", err)
	}
	return participants, nil
}

func (r *conversationRepository) IsParticipant(conversationID, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	if err != nil {
		return false, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询会话参与者失败", err)
	}
	return count > 0, nil
}

func (r *conversationRepository) CreateMessage(msg *model.Message) error {
	if err := r.db.Create(msg).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "发送消息失败", err)
	}
	return nil
}

func (r *conversationRepository) ListMessages(conversationID int64, page, pageSize int) ([]*model.Message, int64, error) {
	var messages []*model.Message
	var total int64

	query := r.db.Model(&model.Message{}).Where("conversation_id = ?", conversationID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计消息失败", err)
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Sender").
		Order("created_at ASC, id ASC").Offset(offset).Limit(pageSize).Find(&messages).Error
	if err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询消息失败", err)
	}

	return messages, total, nil
}

func (r *conversationRepository) CountMessages(conversationID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).
		Where("conversation_id = ?", conversationID).Count(&count).Error
	if err != nil {
		return 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计消息失败", err)
	}
	return count, nil
}

func (r *conversationRepository) MarkRead(messageID, userID int64) error {
	read := model.MessageRead{MessageID: messageID, UserID: userID}
	err := r.db.Where("message_id = ? AND user_id = ?", messageID, userID).
		FirstOrCreate(&read).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "标记已读失败", err)
	}
	return nil
}

func (r *conversationRepository) CountUnread(conversationID, userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).
		Where("conversation_id = ?", conversationID).
		Where("sender_id IS NULL OR sender_id <> ?", userID).
		Where("NOT EXISTS (SELECT 1 FROM message_reads mr WHERE mr.message_id = messages.id AND mr.user_id = ?)", userID).
		Count(&count).Error
	if err != nil {
		return 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计未读消息失败", err)
	}
	return count, nil
}
