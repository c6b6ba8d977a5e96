package handler

import (
	"github.com/gin-gonic/gin"

	"crew-hub/internal/api/middleware"
	"crew-hub/internal/dto"
	"crew-hub/internal/service"
	pkgErrors "crew-hub/pkg/errors"
	"crew-hub/pkg/utils"
)

type ProjectHandler struct {
	service service.ProjectService
}

func NewProjectHandler(service service.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// Create 创建项目
// @Summary 创建项目
// @Tags Project
// @Accept json
// @Produce json
// @Param body body dto.CreateProjectRequest true "创建项目请求"
// @Success 200 {object} utils.Response{data=dto.ProjectResponse}
// @Router /api/v1/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
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

// Update 更新项目
// @Summary 更新项目
// @Tags Project
// @Accept json
// @Produce json
// @Param id path int true "项目ID"
// @Param body body dto.UpdateProjectRequest true "更新项目请求"
// @Success 200 {object} utils.Response{data=dto.ProjectResponse}
// @Router /api/v1/projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}
	var req dto.UpdateProjectRequest
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

// GetByID 项目详情
// @Summary 项目详情(含挂靠班组)
// @Tags Project
// @Produce json
// @Param id path int true "项目ID"
// @Success 200 {object} utils.Response{data=dto.ProjectResponse}
// @Router /api/v1/projects/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
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

// List 项目列表
// @Summary 项目列表
// @Tags Project
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param keyword query string false "关键字"
// @Param active query bool false "是否活跃"
// @Success 200 {object} utils.PageResponse{data=[]dto.ProjectResponse}
// @Router /api/v1/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	var query dto.ProjectListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	projects, total, err := h.service.List(&query)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.PageSuccess(c, projects, total, query.GetPage(), query.GetPageSize())
}

// Finalize 终结项目
// @Summary 终结项目(归档群聊并释放班组)
// @Tags Project
// @Produce json
// @Param id path int true "项目ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/projects/{id}/finalize [post]
func (h *ProjectHandler) Finalize(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	if err := h.service.Finalize(c.Request.Context(), param.ID, middleware.CurrentUserID(c)); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "项目已终结", nil)
}

// AssignCrew 班组挂靠项目
// @Summary 班组挂靠项目
// @Tags Project
// @Accept json
// @Produce json
// @Param id path int true "项目ID"
// @Param body body dto.AssignCrewRequest true "挂靠班组请求"
// @Success 200 {object} utils.Response
// @Router /api/v1/projects/{id}/crews [post]
func (h *ProjectHandler) AssignCrew(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}
	var req dto.AssignCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	if err := h.service.AssignCrew(param.ID, &req); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "班组已挂靠项目", nil)
}

// ReleaseCrew 班组脱离项目
// @Summary 班组脱离项目
// @Tags Project
// @Produce json
// @Param id path int true "项目ID"
// @Param item_id path int true "班组ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/projects/{id}/crews/{item_id} [delete]
func (h *ProjectHandler) ReleaseCrew(c *gin.Context) {
	var param struct {
		ID     int64 `uri:"id" binding:"required,min=1"`
		CrewID int64 `uri:"item_id" binding:"required,min=1"`
	}
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	if err := h.service.ReleaseCrew(param.ID, param.CrewID); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "班组已脱离项目", nil)
}

// Panel 工作台概览
// @Summary 工作台概览
// @Tags Project
// @Produce json
// @Success 200 {object} utils.Response{data=dto.PanelResponse}
// @Router /api/v1/panel [get]
func (h *ProjectHandler) Panel(c *gin.Context) {
	resp, err := h.service.Panel()
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}
