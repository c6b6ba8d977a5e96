package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"crew-hub/internal/api/middleware"
	"crew-hub/internal/dto"
	"crew-hub/internal/pkg/auth"
	"crew-hub/internal/service"
	pkgErrors "crew-hub/pkg/errors"
	"crew-hub/pkg/utils"
)

type RequestHandler struct {
	service service.WorkerRequestService
}

func NewRequestHandler(service service.WorkerRequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// Create 提交申请
// @Summary 提交工人申请
// @Tags Request
// @Accept json
// @Produce json
// @Param body body dto.CreateWorkerRequestRequest true "申请内容"
// @Success 200 {object} utils.Response{data=dto.WorkerRequestResponse}
// @Router /api/v1/requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	var req dto.CreateWorkerRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// Resolve 处理申请
// @Summary 处理工人申请
// @Tags Request
// @Accept json
// @Produce json
// @Param id path int true "申请ID"
// @Param body body dto.ResolveWorkerRequestRequest true "处理结果"
// @Success 200 {object} utils.Response{data=dto.WorkerRequestResponse}
// @Router /api/v1/requests/{id}/resolve [post]
func (h *RequestHandler) Resolve(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}
	var req dto.ResolveWorkerRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.Resolve(c.Request.Context(), param.ID, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// GetByID 申请详情
// @Summary 申请详情
// @Tags Request
// @Produce json
// @Param id path int true "申请ID"
// @Success 200 {object} utils.Response{data=dto.WorkerRequestResponse}
// @Router /api/v1/requests/{id} [get]
func (h *RequestHandler) GetByID(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.GetByID(param.ID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// List 申请列表
// @Summary 申请列表(无处理权限的用户只能看到自己的)
// @Tags Request
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param state query string false "状态"
// @Param crew_id query int false "班组ID"
// @Success 200 {object} utils.PageResponse{data=[]dto.WorkerRequestResponse}
// @Router /api/v1/requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	var query dto.WorkerRequestListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	var ownOnly *int64
	if !auth.Allow(middleware.CurrentRoles(c), auth.PermRequestResolve) {
		ownOnly = lo.ToPtr(middleware.CurrentUserID(c))
	}

	requests, total, err := h.service.List(&query, ownOnly)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.PageSuccess(c, requests, total, query.GetPage(), query.GetPageSize())
}
