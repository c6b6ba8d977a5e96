package handler

import (
	"github.com/gin-gonic/gin"

	"crew-hub/internal/dto"
	"crew-hub/internal/service"
	pkgErrors "crew-hub/pkg/errors"
	"crew-hub/pkg/utils"
)

type WorkerHandler struct {
	service service.WorkerService
}

func NewWorkerHandler(service service.WorkerService) *WorkerHandler {
	return &WorkerHandler{service: service}
}

// Create 登记工人
// @Summary 登记工人(同时自动开通登录账号)
// @Tags Worker
// @Accept json
// @Produce json
// @Param body body dto.WorkerCreateRequest true "登记工人请求"
// @Success 200 {object} utils.Response{data=dto.WorkerResponse}
// @Router /api/v1/workers [post]
func (h *WorkerHandler) Create(c *gin.Context) {
	var req dto.WorkerCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.Create(&req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// Update 更新工人档案
// @Summary 更新工人档案(RUT不可修改)
// @Tags Worker
// @Accept json
// @Produce json
// @Param id path int true "工人ID"
// @Param body body dto.WorkerUpdateRequest true "更新请求"
// @Success 200 {object} utils.Response{data=dto.WorkerResponse}
// @Router /api/v1/workers/{id} [put]
func (h *WorkerHandler) Update(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}
	var req dto.WorkerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.Update(param.ID, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// GetByID 工人详情
// @Summary 工人详情(含实际可用状态)
// @Tags Worker
// @Produce json
// @Param id path int true "工人ID"
// @Success 200 {object} utils.Response{data=dto.WorkerResponse}
// @Router /api/v1/workers/{id} [get]
func (h *WorkerHandler) GetByID(c *gin.Context) {
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

// List 工人列表
// @Summary 工人列表
// @Tags Worker
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param keyword query string false "关键字"
// @Param worker_type query string false "工人类型"
// @Param status query string false "状态"
// @Param only_assignable query bool false "只看可派工"
// @Success 200 {object} utils.PageResponse{data=[]dto.WorkerResponse}
// @Router /api/v1/workers [get]
func (h *WorkerHandler) List(c *gin.Context) {
	var query dto.WorkerListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	workers, total, err := h.service.List(&query)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.PageSuccess(c, workers, total, query.GetPage(), query.GetPageSize())
}

// SetStatus 手动设置状态
// @Summary 手动设置工人状态
// @Tags Worker
// @Accept json
// @Produce json
// @Param id path int true "工人ID"
// @Param body body dto.WorkerStatusRequest true "状态请求"
// @Success 200 {object} utils.Response{data=dto.WorkerResponse}
// @Router /api/v1/workers/{id}/status [put]
func (h *WorkerHandler) SetStatus(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}
	var req dto.WorkerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.SetStatus(param.ID, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// Deactivate 工人离职
// @Summary 工人离职(撤销全部派工)
// @Tags Worker
// @Produce json
// @Param id path int true "工人ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/workers/{id} [delete]
func (h *WorkerHandler) Deactivate(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), param.ID); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "工人已离职停用", nil)
}

// AddSkill 添加技能
// @Summary 添加技能
// @Tags Worker
// @Accept json
// @Produce json
// @Param id path int true "工人ID"
// @Param body body dto.WorkerSkillRequest true "技能请求"
// @Success 200 {object} utils.Response{data=dto.WorkerSkillResponse}
// @Router /api/v1/workers/{id}/skills [post]
func (h *WorkerHandler) AddSkill(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}
	var req dto.WorkerSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.AddSkill(param.ID, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// ListSkills 技能列表
// @Summary 技能列表
// @Tags Worker
// @Produce json
// @Param id path int true "工人ID"
// @Success 200 {object} utils.Response{data=[]dto.WorkerSkillResponse}
// @Router /api/v1/workers/{id}/skills [get]
func (h *WorkerHandler) ListSkills(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.ListSkills(param.ID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// DeleteSkill 删除技能
// @Summary 删除技能
// @Tags Worker
// @Produce json
// @Param id path int true "工人ID"
// @Param item_id path int true "技能ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/workers/{id}/skills/{item_id} [delete]
func (h *WorkerHandler) DeleteSkill(c *gin.Context) {
	var param workerSubItemParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	if err := h.service.DeleteSkill(param.ID, param.ItemID); err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, nil)
}

// AddCertification 添加证书
// @Summary 添加证书
// @Tags Worker
// @Accept json
// @Produce json
// @Param id path int true "工人ID"
// @Param body body dto.WorkerCertificationRequest true "证书请求"
// @Success 200 {object} utils.Response{data=dto.WorkerCertificationResponse}
// @Router /api/v1/workers/{id}/certifications [post]
func (h *WorkerHandler) AddCertification(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}
	var req dto.WorkerCertificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.AddCertification(param.ID, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// ListCertifications 证书列表
// @Summary 证书列表
// @Tags Worker
// @Produce json
// @Param id path int true "工人ID"
// @Success 200 {object} utils.Response{data=[]dto.WorkerCertificationResponse}
// @Router /api/v1/workers/{id}/certifications [get]
func (h *WorkerHandler) ListCertifications(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.ListCertifications(param.ID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// DeleteCertification 删除证书
// @Summary 删除证书
// @Tags Worker
// @Produce json
// @Param id path int true "工人ID"
// @Param item_id path int true "证书ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/workers/{id}/certifications/{item_id} [delete]
func (h *WorkerHandler) DeleteCertification(c *gin.Context) {
	var param workerSubItemParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	if err := h.service.DeleteCertification(param.ID, param.ItemID); err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, nil)
}

// AddExperience 添加工作经历
// @Summary 添加工作经历
// @Tags Worker
// @Accept json
// @Produce json
// @Param id path int true "工人ID"
// @Param body body dto.WorkerExperienceRequest true "经历请求"
// @Success 200 {object} utils.Response{data=dto.WorkerExperienceResponse}
// @Router /api/v1/workers/{id}/experiences [post]
func (h *WorkerHandler) AddExperience(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}
	var req dto.WorkerExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.AddExperience(param.ID, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// ListExperiences 工作经历列表
// @Summary 工作经历列表
// @Tags Worker
// @Produce json
// @Param id path int true "工人ID"
// @Success 200 {object} utils.Response{data=[]dto.WorkerExperienceResponse}
// @Router /api/v1/workers/{id}/experiences [get]
func (h *WorkerHandler) ListExperiences(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.ListExperiences(param.ID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// DeleteExperience 删除工作经历
// @Summary 删除工作经历
// @Tags Worker
// @Produce json
// @Param id path int true "工人ID"
// @Param item_id path int true "经历ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/workers/{id}/experiences/{item_id} [delete]
func (h *WorkerHandler) DeleteExperience(c *gin.Context) {
	var param workerSubItemParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	if err := h.service.DeleteExperience(param.ID, param.ItemID); err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, nil)
}

// workerSubItemParam 工人子资源路径参数
type workerSubItemParam struct {
	ID     int64 `uri:"id" binding:"required,min=1"`
	ItemID int64 `uri:"item_id" binding:"required,min=1"`
}
