package service

import (
	"time"

	"go.uber.org/zap"

	"crew-hub/internal/dto"
	"crew-hub/internal/model"
	"crew-hub/internal/pkg/logger"
	"crew-hub/internal/repository"
)

type NotificationService interface {
	// Notify 给用户写一条站内通知。
	// userID 为空时静默跳过, 调用方不必自己判空;
	// 写入失败只记日志, 永远不让通知失败打断主流程。
	Notify(userID *int64, message string)
	List(userID int64, query *dto.NotificationListQuery) ([]*dto.NotificationResponse, int64, error)
	MarkRead(userID, notificationID int64) error
	MarkAllRead(userID int64) error
	CountUnread(userID int64) (int64, error)
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) Notify(userID *int64, message string) {
	if userID == nil || message == "" {
		return
	}
	n := &model.Notification{UserID: *userID, Message: message}
	if err := s.repo.Create(n); err != nil {
		logger.Error("写入站内通知失败", zap.Int64("user_id", *userID), zap.Error(err))
	}
}

func (s *notificationService) List(userID int64, query *dto.NotificationListQuery) ([]*dto.NotificationResponse, int64, error) {
	notifications, total, err := s.repo.ListByUser(userID, query.GetPage(), query.GetPageSize(), query.Unread)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*dto.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = &dto.NotificationResponse{
			ID:        n.ID,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
	}
	return responses, total, nil
}

func (s *notificationService) MarkRead(userID, notificationID int64) error {
	return s.repo.MarkRead(userID, notificationID)
}

func (s *notificationService) MarkAllRead(userID int64) error {
	return s.repo.MarkAllRead(userID)
}

func (s *notificationService) CountUnread(userID int64) (int64, error) {
	return s.repo.CountUnread(userID)
}
