package handler

import (
	"github.com/gin-gonic/gin"

	"crew-hub/internal/dto"
	"crew-hub/internal/service"
	pkgErrors "crew-hub/pkg/errors"
	"crew-hub/pkg/utils"
)

type ResourceHandler struct {
	service service.ResourceService
}

func NewResourceHandler(service service.ResourceService) *ResourceHandler {
	return &ResourceHandler{service: service}
}

// Create 创建资源
// @Summary 创建资源
// @Tags Resource
// @Accept json
// @Produce json
// @Param body body dto.CreateResourceRequest true "资源内容"
// @Success 200 {object} utils.Response{data=dto.ResourceResponse}
// @Router /api/v1/resources [post]
func (h *ResourceHandler) Create(c *gin.Context) {
	var req dto.CreateResourceRequest
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

// Update 更新资源
// @Summary 更新资源
// @Tags Resource
// @Accept json
// @Produce json
// @Param id path int true "资源ID"
// @Param body body dto.UpdateResourceRequest true "更新内容"
// @Success 200 {object} utils.Response{data=dto.ResourceResponse}
// @Router /api/v1/resources/{id} [put]
func (h *ResourceHandler) Update(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	var req dto.UpdateResourceRequest
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

// GetByID 资源详情
// @Summary 资源详情
// @Tags Resource
// @Produce json
// @Param id path int true "资源ID"
// @Success 200 {object} utils.Response{data=dto.ResourceResponse}
// @Router /api/v1/resources/{id} [get]
func (h *ResourceHandler) GetByID(c *gin.Context) {
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

// List 资源列表
// @Summary 资源列表
// @Tags Resource
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param keyword query string false "名称模糊搜索"
// @Param crew_id query int false "班组ID"
// @Success 200 {object} utils.PageResponse{data=[]dto.ResourceResponse}
// @Router /api/v1/resources [get]
func (h *ResourceHandler) List(c *gin.Context) {
	var query dto.ResourceListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resources, total, err := h.service.List(&query)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.PageSuccess(c, resources, total, query.GetPage(), query.GetPageSize())
}

// Delete 删除资源
// @Summary 删除资源
// @Tags Resource
// @Produce json
// @Param id path int true "资源ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/resources/{id} [delete]
func (h *ResourceHandler) Delete(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	if err := h.service.Delete(param.ID); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "资源已删除", nil)
}
