package handler

import (
	"github.com/gin-gonic/gin"

	"crew-hub/internal/api/middleware"
	"crew-hub/internal/dto"
	"crew-hub/internal/service"
	pkgErrors "crew-hub/pkg/errors"
	"crew-hub/pkg/utils"
)

type NotificationHandler struct {
	service service.NotificationService
}

func NewNotificationHandler(service service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List 我的通知列表
// @Summary 我的通知列表
// @Tags Notification
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param unread query bool false "只看未读"
// @Success 200 {object} utils.PageResponse{data=[]dto.NotificationResponse}
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	var query dto.NotificationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	notifications, total, err := h.service.List(middleware.CurrentUserID(c), &query)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.PageSuccess(c, notifications, total, query.GetPage(), query.GetPageSize())
}

// MarkRead 标记通知已读
// @Summary 标记通知已读
// @Tags Notification
// @Produce json
// @Param id path int true "通知ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	if err := h.service.MarkRead(middleware.CurrentUserID(c), param.ID); err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, nil)
}

// MarkAllRead 全部标记已读
// @Summary 全部标记已读
// @Tags Notification
// @Produce json
// @Success 200 {object} utils.Response
// @Router /api/v1/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(middleware.CurrentUserID(c)); err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, nil)
}

// CountUnread 未读通知数
// @Summary 未读通知数
// @Tags Notification
// @Produce json
// @Success 200 {object} utils.Response{data=map[string]int64}
// @Router /api/v1/notifications/unread-count [get]
func (h *NotificationHandler) CountUnread(c *gin.Context) {
	count, err := h.service.CountUnread(middleware.CurrentUserID(c))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, gin.H{"count": count})
}
