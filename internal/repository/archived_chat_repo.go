package repository

import (
	"gorm.io/gorm"

	"crew-hub/internal/model"
	pkgErrors "crew-hub/pkg/errors"
)

type ArchivedChatRepository interface {
	Create(chat *model.ArchivedChat) error
	FindByID(id int64) (*model.ArchivedChat, error)
	FindByConversationID(conversationID int64) (*model.ArchivedChat, error)
	List(page, pageSize int, crewID *int64) ([]*model.ArchivedChat, int64, error)
	ListByParticipant(userID int64, page, pageSize int) ([]*model.ArchivedChat, int64, error)
}

type archivedChatRepository struct {
	db *gorm.DB
}

func NewArchivedChatRepository(db *gorm.DB) ArchivedChatRepository {
	return &archivedChatRepository{db: db}
}

func (r *archivedChatRepository) Create(chat *model.ArchivedChat) error {
	if err := r.db.Create(chat).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建归档快照失败", err)
	}
	return nil
}

func (r *archivedChatRepository) FindByID(id int64) (*model.ArchivedChat, error) {
	var chat model.ArchivedChat
	err := r.db.Preload("ArchivedBy").First(&chat, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询归档快照失败", err)
	}
	return &chat, nil
}

func (r *archivedChatRepository) FindByConversationID(conversationID int64) (*model.ArchivedChat, error) {
	var chat model.ArchivedChat
	err := r.db.Where("conversation_id = ?", conversationID).First(&chat).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询归档快照失败", err)
	}
	return &chat, nil
}

func (r *archivedChatRepository) List(page, pageSize int, crewID *int64) ([]*model.ArchivedChat, int64, error) {
	var chats []*model.ArchivedChat
	var total int64

	query := r.db.Model(&model.ArchivedChat{})
	if crewID != nil {
		query = query.Where("crew_id = ?", *crewID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计归档快照失败", err)
	}

	offset := (page - 1) * pageSize
	err := query.Order("archived_at DESC").Offset(offset).Limit(pageSize).Find(&chats).Error
	if err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询归档快照失败", err)
	}

	return chats, total, nil
}

func (r *archivedChatRepository) ListByParticipant(userID int64, page, pageSize int) ([]*model.ArchivedChat, int64, error) {
	var chats []*model.ArchivedChat
	var total int64

	// 快照参与者以JSON数组存储, 按成员关系过滤
	query := r.db.Model(&model.ArchivedChat{}).
		Where("JSON_CONTAINS(participant_ids, CAST(? AS JSON))", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计归档快照失败", err)
	}

	offset := (page - 1) * pageSize
	err := query.Order("archived_at DESC").Offset(offset).Limit(pageSize).Find(&chats).Error
	if err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询归档快照失败", err)
	}

	return chats, total, nil
}
