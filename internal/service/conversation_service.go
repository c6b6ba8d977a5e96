package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"crew-hub/internal/core/roster"
	"crew-hub/internal/dto"
	"crew-hub/internal/model"
	"crew-hub/internal/pkg/auth"
	"crew-hub/internal/pkg/logger"
	"crew-hub/internal/repository"
	"crew-hub/pkg/constants"
	pkgErrors "crew-hub/pkg/errors"
)

type ConversationService interface {
	List(userID int64, query *dto.ConversationListQuery) ([]*dto.ConversationResponse, int64, error)
	GetByID(id, userID int64) (*dto.ConversationResponse, error)
	// OpenPrivate 发起私聊, 两人之间已有会话时直接复用
	OpenPrivate(userID int64, req *dto.PrivateConversationRequest) (*dto.ConversationResponse, error)
	SendMessage(id, userID int64, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	ListMessages(id, userID int64, query *dto.MessageListQuery) ([]*dto.MessageResponse, int64, error)
	MarkRead(id, userID int64) error
	// Archive 手动归档, 消息不足归档门槛时报错而不是静默跳过
	Archive(ctx context.Context, id, userID int64, req *dto.ArchiveConversationRequest) (*dto.ArchivedChatResponse, error)

	ListArchived(userID int64, roles []string, query *dto.ArchivedChatListQuery) ([]*dto.ArchivedChatResponse, int64, error)
	GetArchived(id, userID int64, roles []string) (*dto.ArchivedChatResponse, error)
}

type conversationService struct {
	repo         repository.ConversationRepository
	archivedRepo repository.ArchivedChatRepository
	userRepo     repository.UserRepository
	archiver     *roster.Archiver
	gate         *roster.AccessGate
}

func NewConversationService(
	repo repository.ConversationRepository,
	archivedRepo repository.ArchivedChatRepository,
	userRepo repository.UserRepository,
	archiver *roster.Archiver,
	gate *roster.AccessGate,
) ConversationService {
	return &conversationService{
		repo:         repo,
		archivedRepo: archivedRepo,
		userRepo:     userRepo,
		archiver:     archiver,
		gate:         gate,
	}
}

func (s *conversationService) List(userID int64, query *dto.ConversationListQuery) ([]*dto.ConversationResponse, int64, error) {
	convs, total, err := s.repo.ListByParticipant(userID,
		query.GetPage(), query.GetPageSize(), query.OnlyGroups)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*dto.ConversationResponse, len(convs))
	for i, conv := range convs {
		resp, err := s.toResponse(conv, userID)
		if err != nil {
			return nil, 0, err
		}
		responses[i] = resp
	}
	return responses, total, nil
}

func (s *conversationService) GetByID(id, userID int64) (*dto.ConversationResponse, error) {
	conv, err := s.requireParticipant(id, userID)
	if err != nil {
		return nil, err
	}

	// 打开会话即已读, 失败不影响详情返回
	if err := s.MarkRead(id, userID); err != nil {
		logger.Warn("标记会话已读失败", zap.Int64("conversation_id", id), zap.Error(err))
	}
	return s.toResponse(conv, userID)
}

func (s *conversationService) OpenPrivate(userID int64, req *dto.PrivateConversationRequest) (*dto.ConversationResponse, error) {
	if req.PeerID == userID {
		return nil, pkgErrors.Wrap(pkgErrors.CodeBadRequest, "不能与自己私聊", nil)
	}
	peer, err := s.userRepo.FindByID(req.PeerID)
	if err != nil {
		return nil, err
	}

	if existing, _ := s.repo.FindPrivateBetween(userID, peer.ID); existing != nil {
		return s.toResponse(existing, userID)
	}

	conv := &model.Conversation{IsGroup: false}
	if err := s.repo.Create(conv); err != nil {
		return nil, err
	}
	for _, uid := range []int64{userID, peer.ID} {
		p := &model.ConversationParticipant{ConversationID: conv.ID, UserID: uid}
		if err := s.repo.AddParticipant(p); err != nil {
			return nil, err
		}
	}

	logger.Info("私聊会话已建立",
		zap.Int64("conversation_id", conv.ID),
		zap.Int64("user_id", userID),
		zap.Int64("peer_id", peer.ID))

	return s.toResponse(conv, userID)
}

func (s *conversationService) SendMessage(id, userID int64, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	conv, err := s.requireParticipant(id, userID)
	if err != nil {
		return nil, err
	}
	if conv.Archived {
		return nil, pkgErrors.ErrConversationArchived
	}

	msgType := req.Type
	if msgType == "" {
		msgType = constants.MessageTypeText
	}
	msg := &model.Message{
		ConversationID: id,
		SenderID:       &userID,
		Content:        req.Content,
		Type:           msgType,
	}
	if err := s.repo.CreateMessage(msg); err != nil {
		return nil, err
	}
	// 自己发的消息对自己即已读
	if err := s.repo.MarkRead(msg.ID, userID); err != nil {
		return nil, err
	}

	sender, _ := s.userRepo.FindByID(userID)
	return messageResponse(msg, sender, true), nil
}

func (s *conversationService) ListMessages(id, userID int64, query *dto.MessageListQuery) ([]*dto.MessageResponse, int64, error) {
	if _, err := s.requireParticipant(id, userID); err != nil {
		return nil, 0, err
	}

	messages, total, err := s.repo.ListMessages(id, query.GetPage(), query.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*dto.MessageResponse, len(messages))
	for i, msg := range messages {
		readByMe := lo.SomeBy(msg.ReadBy, func(r model.MessageRead) bool {
			return r.UserID == userID
		})
		responses[i] = messageResponse(msg, msg.Sender, readByMe)
	}
	return responses, total, nil
}

func (s *conversationService) MarkRead(id, userID int64) error {
	if _, err := s.requireParticipant(id, userID); err != nil {
		return err
	}

	messages, _, err := s.repo.ListMessages(id, 1, 1000)
	if err != nil {
		return err
	}
	for _, msg := range messages {
		if err := s.repo.MarkRead(msg.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (s *conversationService) Archive(ctx context.Context, id, userID int64, req *dto.ArchiveConversationRequest) (*dto.ArchivedChatResponse, error) {
	conv, err := s.requireParticipant(id, userID)
	if err != nil {
		return nil, err
	}
	if conv.Archived {
		return nil, pkgErrors.ErrConversationArchived
	}

	reason := req.Reason
	if reason == "" {
		reason = constants.ArchiveReasonManual
	}
	chat, err := s.archiver.Archive(ctx, id, reason, &userID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeConflict, "消息数量不足, 无法归档", nil)
	}
	return archivedResponse(chat)
}

func (s *conversationService) ListArchived(userID int64, roles []string, query *dto.ArchivedChatListQuery) ([]*dto.ArchivedChatResponse, int64, error) {
	var (
		chats []*model.ArchivedChat
		total int64
		err   error
	)
	if lo.Contains(roles, string(auth.RoleSystemAdmin)) {
		chats, total, err = s.archivedRepo.List(query.GetPage(), query.GetPageSize(), query.CrewID)
	} else {
		chats, total, err = s.archivedRepo.ListByParticipant(userID, query.GetPage(), query.GetPageSize())
	}
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*dto.ArchivedChatResponse, 0, len(chats))
	for _, chat := range chats {
		resp, err := archivedResponse(chat)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, resp)
	}
	return responses, total, nil
}

func (s *conversationService) GetArchived(id, userID int64, roles []string) (*dto.ArchivedChatResponse, error) {
	chat, err := s.archivedRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	allowed, err := s.gate.CanView(chat, userID, roles)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, pkgErrors.ErrForbidden
	}
	return archivedResponse(chat)
}

func (s *conversationService) requireParticipant(id, userID int64) (*model.Conversation, error) {
	conv, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	ok, err := s.repo.IsParticipant(id, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgErrors.ErrForbidden
	}
	return conv, nil
}

func (s *conversationService) toResponse(conv *model.Conversation, userID int64) (*dto.ConversationResponse, error) {
	participants, err := s.repo.ListParticipants(conv.ID)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(conv.ID, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ConversationResponse{
		ID:           conv.ID,
		Name:         conv.Name,
		IsGroup:      conv.IsGroup,
		CrewID:       conv.CrewID,
		Archived:     conv.Archived,
		Participants: make([]dto.UserSimpleResponse, 0, len(participants)),
		UnreadCount:  unread,
		CreatedAt:    conv.CreatedAt.Format(time.RFC3339),
	}
	for _, p := range participants {
		if p.User == nil {
			continue
		}
		resp.Participants = append(resp.Participants, dto.UserSimpleResponse{
			ID:          p.User.ID,
			Username:    p.User.Username,
			DisplayName: p.User.DisplayName,
			Email:       p.User.Email,
		})
	}
	return resp, nil
}

func messageResponse(msg *model.Message, sender *model.User, readByMe bool) *dto.MessageResponse {
	resp := &dto.MessageResponse{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		SenderName:     constants.SystemSenderName,
		Content:        msg.Content,
		Type:           msg.Type,
		ReadByMe:       readByMe,
		CreatedAt:      msg.CreatedAt.Format(time.RFC3339),
	}
	if sender != nil {
		resp.SenderName = sender.FullDisplayName()
	}
	return resp
}

func archivedResponse(chat *model.ArchivedChat) (*dto.ArchivedChatResponse, error) {
	snapshots, err := roster.Snapshots(chat)
	if err != nil {
		return nil, err
	}

	messages := make([]dto.ArchivedMessageView, len(snapshots))
	for i, snap := range snapshots {
		messages[i] = dto.ArchivedMessageView{
			SenderID:       snap.SenderID,
			SenderUsername: snap.SenderUsername,
			Content:        snap.Content,
			MessageType:    snap.MessageType,
			CreatedAt:      snap.CreatedAt,
		}
	}
	return &dto.ArchivedChatResponse{
		ID:             chat.ID,
		ConversationID: chat.ConversationID,
		CrewID:         chat.CrewID,
		Name:           chat.Name,
		Messages:       messages,
		ParticipantIDs: []int64(chat.ParticipantIDs),
		Reason:         chat.Reason,
		ArchivedByID:   chat.ArchivedByID,
		ArchivedAt:     chat.ArchivedAt.Format(time.RFC3339),
	}, nil
}
