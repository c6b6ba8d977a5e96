package handler

import (
	"github.com/gin-gonic/gin"

	"crew-hub/internal/api/middleware"
	"crew-hub/internal/dto"
	"crew-hub/internal/service"
	pkgErrors "crew-hub/pkg/errors"
	"crew-hub/pkg/utils"
)

type ConversationHandler struct {
	service service.ConversationService
}

func NewConversationHandler(service service.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// List 我的会话列表
// @Summary 我的会话列表
// @Tags Conversation
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param only_groups query bool false "只看群聊"
// @Success 200 {object} utils.PageResponse{data=[]dto.ConversationResponse}
// @Router /api/v1/conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	var query dto.ConversationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	convs, total, err := h.service.List(middleware.CurrentUserID(c), &query)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.PageSuccess(c, convs, total, query.GetPage(), query.GetPageSize())
}

// GetByID 会话详情
// @Summary 会话详情
// @Tags Conversation
// @Produce json
// @Param id path int true "会话ID"
// @Success 200 {object} utils.Response{data=dto.ConversationResponse}
// @Router /api/v1/conversations/{id} [get]
func (h *ConversationHandler) GetByID(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.GetByID(param.ID, middleware.CurrentUserID(c))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// OpenPrivate 发起私聊
// @Summary 发起私聊(已有会话直接复用)
// @Tags Conversation
// @Accept json
// @Produce json
// @Param body body dto.PrivateConversationRequest true "私聊请求"
// @Success 200 {object} utils.Response{data=dto.ConversationResponse}
// @Router /api/v1/conversations/private [post]
func (h *ConversationHandler) OpenPrivate(c *gin.Context) {
	var req dto.PrivateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.OpenPrivate(middleware.CurrentUserID(c), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// SendMessage 发送消息
// @Summary 发送消息(归档会话只读)
// @Tags Conversation
// @Accept json
// @Produce json
// @Param id path int true "会话ID"
// @Param body body dto.SendMessageRequest true "消息内容"
// @Success 200 {object} utils.Response{data=dto.MessageResponse}
// @Router /api/v1/conversations/{id}/messages [post]
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.SendMessage(param.ID, middleware.CurrentUserID(c), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// ListMessages 消息列表
// @Summary 消息列表(按时间正序)
// @Tags Conversation
// @Produce json
// @Param id path int true "会话ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} utils.PageResponse{data=[]dto.MessageResponse}
// @Router /api/v1/conversations/{id}/messages [get]
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}
	var query dto.MessageListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	messages, total, err := h.service.ListMessages(param.ID, middleware.CurrentUserID(c), &query)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.PageSuccess(c, messages, total, query.GetPage(), query.GetPageSize())
}

// MarkRead 全部标记已读
// @Summary 会话内消息全部标记已读
// @Tags Conversation
// @Produce json
// @Param id path int true "会话ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/conversations/{id}/read [post]
func (h *ConversationHandler) MarkRead(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	if err := h.service.MarkRead(param.ID, middleware.CurrentUserID(c)); err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, nil)
}

// Archive 手动归档
// @Summary 手动归档会话
// @Tags Conversation
// @Accept json
// @Produce json
// @Param id path int true "会话ID"
// @Param body body dto.ArchiveConversationRequest true "归档请求"
// @Success 200 {object} utils.Response{data=dto.ArchivedChatResponse}
// @Router /api/v1/conversations/{id}/archive [post]
func (h *ConversationHandler) Archive(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}
	var req dto.ArchiveConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.Archive(c.Request.Context(), param.ID, middleware.CurrentUserID(c), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// ListArchived 归档会话列表
// @Summary 归档会话列表(管理员可见全部)
// @Tags Conversation
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param crew_id query int false "班组ID"
// @Success 200 {object} utils.PageResponse{data=[]dto.ArchivedChatResponse}
// @Router /api/v1/archived-chats [get]
func (h *ConversationHandler) ListArchived(c *gin.Context) {
	var query dto.ArchivedChatListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	chats, total, err := h.service.ListArchived(middleware.CurrentUserID(c),
		middleware.CurrentRoles(c), &query)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.PageSuccess(c, chats, total, query.GetPage(), query.GetPageSize())
}

// GetArchived 归档会话详情
// @Summary 归档会话详情(按快照做访问控制)
// @Tags Conversation
// @Produce json
// @Param id path int true "归档ID"
// @Success 200 {object} utils.Response{data=dto.ArchivedChatResponse}
// @Router /api/v1/archived-chats/{id} [get]
func (h *ConversationHandler) GetArchived(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.GetArchived(param.ID, middleware.CurrentUserID(c),
		middleware.CurrentRoles(c))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}
