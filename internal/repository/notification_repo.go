package repository

import (
	"gorm.io/gorm"

	"crew-hub/internal/model"
	pkgErrors "crew-hub/pkg/errors"
)

type NotificationRepository interface {
	Create(notification *model.Notification) error
	ListByUser(userID int64, page, pageSize int, unreadOnly bool) ([]*model.Notification, int64, error)
	MarkRead(userID, notificationID int64) error
	MarkAllRead(userID int64) error
	CountUnread(userID int64) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建通知失败", err)
	}
	return nil
}

func (r *notificationRepository) ListByUser(userID int64, page, pageSize int, unreadOnly bool) ([]*model.Notification, int64, error) {
	var notifications []*model.Notification
	var total int64

	query := r.db.Model(&model.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("`read` = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计通知失败", err)
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&notifications).Error
	if err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询通知失败", err)
	}

	return notifications, total, nil
}

func (r *notificationRepository) MarkRead(userID, notificationID int64) error {
	result := r.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "标记通知已读失败", result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgErrors.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(userID int64) error {
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "标记通知已读失败", err)
	}
	return nil
}

func (r *notificationRepository) CountUnread(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).Count(&count).Error
	if err != nil {
		return 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计通知失败", err)
	}
	return count, nil
}
