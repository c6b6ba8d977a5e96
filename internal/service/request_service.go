package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"crew-hub/internal/adapter/notification"
	"crew-hub/internal/dto"
	"crew-hub/internal/model"
	"crew-hub/internal/pkg/logger"
	"crew-hub/internal/repository"
	"crew-hub/pkg/constants"
	pkgErrors "crew-hub/pkg/errors"
)

type WorkerRequestService interface {
	// Create 工人提交申请; 指定班组时同步在群聊里落一条系统消息
	Create(ctx context.Context, workerUserID int64, req *dto.CreateWorkerRequestRequest) (*dto.WorkerRequestResponse, error)
	// Resolve 处理申请, 只允许 pending 状态流转
	Resolve(ctx context.Context, id int64, req *dto.ResolveWorkerRequestRequest) (*dto.WorkerRequestResponse, error)
	GetByID(id int64) (*dto.WorkerRequestResponse, error)
	List(query *dto.WorkerRequestListQuery, workerUserID *int64) ([]*dto.WorkerRequestResponse, int64, error)
}

type workerRequestService struct {
	repo             repository.WorkerRequestRepository
	crewRepo         repository.CrewRepository
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	notifier         NotificationService
	external         notification.Notifier
}

func NewWorkerRequestService(
	repo repository.WorkerRequestRepository,
	crewRepo repository.CrewRepository,
	conversationRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
	external notification.Notifier,
) WorkerRequestService {
	return &workerRequestService{
		repo:             repo,
		crewRepo:         crewRepo,
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		notifier:         notifier,
		external:         external,
	}
}

func (s *workerRequestService) Create(ctx context.Context, workerUserID int64, req *dto.CreateWorkerRequestRequest) (*dto.WorkerRequestResponse, error) {
	worker, err := s.userRepo.FindByID(workerUserID)
	if err != nil {
		return nil, err
	}

	request := &model.WorkerRequest{
		WorkerUserID: workerUserID,
		CrewID:       req.CrewID,
		Subject:      req.Subject,
		Description:  req.Description,
		State:        constants.RequestStatePending,
	}
	if err := s.repo.Create(request); err != nil {
		return nil, err
	}

	if req.CrewID != nil {
		crew, err := s.crewRepo.FindByID(*req.CrewID)
		if err != nil {
			return nil, err
		}
		s.postGroupMessage(crew.ID,
			worker.FullDisplayName()+" 提交了申请: "+req.Subject,
			constants.MessageTypeRequest)
		s.notifier.Notify(crew.LeaderID,
			worker.FullDisplayName()+" 提交了申请: "+req.Subject)
	}

	if err := s.external.Send(ctx, &notification.NotificationMessage{
		Type:      notification.NotifyRequestCreated,
		Title:     "工人申请",
		Content:   worker.FullDisplayName() + ": " + req.Subject,
		Timestamp: time.Now(),
	}); err != nil {
		logger.Error("外部通知发送失败", zap.Error(err))
	}

	return s.GetByID(request.ID)
}

func (s *workerRequestService) Resolve(ctx context.Context, id int64, req *dto.ResolveWorkerRequestRequest) (*dto.WorkerRequestResponse, error) {
	request, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if request.State != constants.RequestStatePending {
		return nil, pkgErrors.Wrap(pkgErrors.CodeConflict, "申请已处理过", nil)
	}

	request.State = req.State
	if err := s.repo.Update(request); err != nil {
		return nil, err
	}

	verdict := "已通过"
	if req.State == constants.RequestStateRejected {
		verdict = "已被拒绝"
	}
	s.notifier.Notify(lo.ToPtr(request.WorkerUserID),
		"您的申请 \""+request.Subject+"\" "+verdict)

	if err := s.external.Send(ctx, &notification.NotificationMessage{
		Type:      notification.NotifyRequestResolved,
		Title:     "申请处理完毕",
		Content:   request.Subject + " " + verdict,
		Timestamp: time.Now(),
	}); err != nil {
		logger.Error("外部通知发送失败", zap.Error(err))
	}

	logger.Info("工人申请已处理",
		zap.Int64("request_id", id),
		zap.String("state", req.State))

	return s.GetByID(id)
}

func (s *workerRequestService) GetByID(id int64) (*dto.WorkerRequestResponse, error) {
	request, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(request), nil
}

func (s *workerRequestService) List(query *dto.WorkerRequestListQuery, workerUserID *int64) ([]*dto.WorkerRequestResponse, int64, error) {
	requests, total, err := s.repo.List(query.GetPage(), query.GetPageSize(),
		query.State, query.CrewID, workerUserID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*dto.WorkerRequestResponse, len(requests))
	for i, request := range requests {
		responses[i] = s.toResponse(request)
	}
	return responses, total, nil
}

// postGroupMessage 往班组群聊写系统消息, 群聊不存在或已归档时静默跳过
func (s *workerRequestService) postGroupMessage(crewID int64, content, msgType string) {
	conv, _ := s.conversationRepo.FindGroupByCrewID(crewID)
	if conv == nil || conv.Archived {
		return
	}
	msg := &model.Message{
		ConversationID: conv.ID,
		Content:        content,
		Type:           msgType,
	}
	if err := s.conversationRepo.CreateMessage(msg); err != nil {
		logger.Error("写入群聊系统消息失败",
			zap.Int64("crew_id", crewID), zap.Error(err))
	}
}

func (s *workerRequestService) toResponse(request *model.WorkerRequest) *dto.WorkerRequestResponse {
	resp := &dto.WorkerRequestResponse{
		ID:           request.ID,
		WorkerUserID: request.WorkerUserID,
		CrewID:       request.CrewID,
		Subject:      request.Subject,
		Description:  request.Description,
		State:        request.State,
		CreatedAt:    request.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    request.UpdatedAt.Format(time.RFC3339),
	}
	if request.Worker != nil {
		resp.WorkerName = request.Worker.FullDisplayName()
	}
	if request.Crew != nil {
		resp.CrewName = &request.Crew.Name
	}
	return resp
}
