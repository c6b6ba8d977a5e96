package handler

import (
	"github.com/gin-gonic/gin"

	"crew-hub/internal/api/middleware"
	"crew-hub/internal/dto"
	"crew-hub/internal/service"
	pkgErrors "crew-hub/pkg/errors"
	"crew-hub/pkg/utils"
)

type IncidentHandler struct {
	service service.IncidentService
}

func NewIncidentHandler(service service.IncidentService) *IncidentHandler {
	return &IncidentHandler{service: service}
}

// Create 事故上报
// @Summary 事故上报(高危事故立即推送)
// @Tags Incident
// @Accept json
// @Produce json
// @Param body body dto.CreateIncidentRequest true "事故内容"
// @Success 200 {object} utils.Response{data=dto.IncidentResponse}
// @Router /api/v1/incidents [post]
func (h *IncidentHandler) Create(c *gin.Context) {
	var req dto.CreateIncidentRequest
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

// Acknowledge 确认事故
// @Summary 确认事故
// @Tags Incident
// @Produce json
// @Param id path int true "事故ID"
// @Success 200 {object} utils.Response{data=dto.IncidentResponse}
// @Router /api/v1/incidents/{id}/ack [post]
func (h *IncidentHandler) Acknowledge(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.Acknowledge(param.ID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// GetByID 事故详情
// @Summary 事故详情
// @Tags Incident
// @Produce json
// @Param id path int true "事故ID"
// @Success 200 {object} utils.Response{data=dto.IncidentResponse}
// @Router /api/v1/incidents/{id} [get]
func (h *IncidentHandler) GetByID(c *gin.Context) {
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

// List 事故列表
// @Summary 事故列表
// @Tags Incident
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param severity query string false "严重程度"
// @Param acknowledged query bool false "是否已确认"
// @Param crew_id query int false "班组ID"
// @Success 200 {object} utils.PageResponse{data=[]dto.IncidentResponse}
// @Router /api/v1/incidents [get]
func (h *IncidentHandler) List(c *gin.Context) {
	var query dto.IncidentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	incidents, total, err := h.service.List(&query)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.PageSuccess(c, incidents, total, query.GetPage(), query.GetPageSize())
}
