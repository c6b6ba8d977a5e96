package handler

import (
	"github.com/gin-gonic/gin"

	"crew-hub/internal/api/middleware"
	"crew-hub/internal/dto"
	"crew-hub/internal/service"
	pkgErrors "crew-hub/pkg/errors"
	"crew-hub/pkg/utils"
)

type CrewHandler struct {
	service service.CrewService
}

func NewCrewHandler(service service.CrewService) *CrewHandler {
	return &CrewHandler{service: service}
}

// Create 创建班组
// @Summary 创建班组(可同时派工初始成员)
// @Tags Crew
// @Accept json
// @Produce json
// @Param body body dto.CreateCrewRequest true "创建班组请求"
// @Success 200 {object} utils.Response{data=dto.CrewResponse}
// @Router /api/v1/crews [post]
func (h *CrewHandler) Create(c *gin.Context) {
	var req dto.CreateCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// Update 更新班组
// @Summary 更新班组(成员集合整体对齐)
// @Tags Crew
// @Accept json
// @Produce json
// @Param id path int true "班组ID"
// @Param body body dto.UpdateCrewRequest true "更新班组请求"
// @Success 200 {object} utils.Response{data=dto.CrewResponse}
// @Router /api/v1/crews/{id} [put]
func (h *CrewHandler) Update(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}
	var req dto.UpdateCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), param.ID, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// GetByID 班组详情
// @Summary 班组详情
// @Tags Crew
// @Produce json
// @Param id path int true "班组ID"
// @Success 200 {object} utils.Response{data=dto.CrewResponse}
// @Router /api/v1/crews/{id} [get]
func (h *CrewHandler) GetByID(c *gin.Context) {
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

// List 班组列表
// @Summary 班组列表
// @Tags Crew
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param keyword query string false "关键字"
// @Param project_id query int false "项目ID"
// @Param unassigned query bool false "只看未挂靠项目的班组"
// @Success 200 {object} utils.PageResponse{data=[]dto.CrewResponse}
// @Router /api/v1/crews [get]
func (h *CrewHandler) List(c *gin.Context) {
	var query dto.CrewListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	crews, total, err := h.service.List(&query)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.PageSuccess(c, crews, total, query.GetPage(), query.GetPageSize())
}

// BatchAssign 批量派工
// @Summary 批量派工(不符合条件的成员跳过, 返回206)
// @Tags Crew
// @Accept json
// @Produce json
// @Param id path int true "班组ID"
// @Param body body dto.BatchAssignRequest true "批量派工请求"
// @Success 200 {object} utils.Response{data=dto.BatchAssignResult}
// @Router /api/v1/crews/{id}/assignments [post]
func (h *CrewHandler) BatchAssign(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}
	var req dto.BatchAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	result, err := h.service.BatchAssign(c.Request.Context(), param.ID, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	if len(result.Skipped) > 0 {
		utils.PartialSuccess(c, "部分成员未能派工", result)
		return
	}
	utils.Success(c, result)
}

// RemoveMember 移出成员
// @Summary 移出成员
// @Tags Crew
// @Produce json
// @Param id path int true "班组ID"
// @Param item_id path int true "工人用户ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/crews/{id}/assignments/{item_id} [delete]
func (h *CrewHandler) RemoveMember(c *gin.Context) {
	var param struct {
		ID           int64 `uri:"id" binding:"required,min=1"`
		WorkerUserID int64 `uri:"item_id" binding:"required,min=1"`
	}
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), param.ID, param.WorkerUserID); err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, nil)
}

// Dissolve 解散班组
// @Summary 解散班组(仅限未挂靠项目的班组)
// @Tags Crew
// @Produce json
// @Param id path int true "班组ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/crews/{id} [delete]
func (h *CrewHandler) Dissolve(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	if err := h.service.Dissolve(c.Request.Context(), param.ID, middleware.CurrentUserID(c)); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "班组已解散", nil)
}

// EligibleWorkers 可派工人选
// @Summary 可派工人选(leaders=true时返回可任班组长的人选)
// @Tags Crew
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param keyword query string false "关键字"
// @Param exclude_crew_id query int false "排除的班组ID"
// @Param leaders query bool false "班组长候选"
// @Success 200 {object} utils.Response{data=[]dto.WorkerSimpleResponse}
// @Router /api/v1/crews/eligible-workers [get]
func (h *CrewHandler) EligibleWorkers(c *gin.Context) {
	var query dto.EligibleWorkersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	workers, err := h.service.EligibleWorkers(&query)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, workers)
}

// ListRoles 派工角色标签列表
// @Summary 派工角色标签列表
// @Tags Crew
// @Produce json
// @Success 200 {object} utils.Response{data=[]dto.RoleResponse}
// @Router /api/v1/roles [get]
func (h *CrewHandler) ListRoles(c *gin.Context) {
	roles, err := h.service.ListRoles()
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, roles)
}

// CreateRole 创建派工角色标签
// @Summary 创建派工角色标签
// @Tags Crew
// @Accept json
// @Produce json
// @Param body body dto.CreateRoleRequest true "创建角色请求"
// @Success 200 {object} utils.Response{data=dto.RoleResponse}
// @Router /api/v1/roles [post]
func (h *CrewHandler) CreateRole(c *gin.Context) {
	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.CreateRole(&req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}
