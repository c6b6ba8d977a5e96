package handler

import (
	"github.com/gin-gonic/gin"

	"crew-hub/internal/dto"
	"crew-hub/internal/service"
	pkgErrors "crew-hub/pkg/errors"
	"crew-hub/pkg/utils"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Search 搜索用户
// @Summary 搜索用户
// @Tags User
// @Produce json
// @Param keyword query string false "关键字"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} utils.PageResponse{data=[]dto.UserSimpleResponse}
// @Router /api/v1/users/search [get]
func (h *UserHandler) Search(c *gin.Context) {
	var query dto.UserSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	users, total, err := h.service.Search(&query)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.PageSuccess(c, users, total, query.GetPage(), query.GetPageSize())
}

// GetByID 用户详情
// @Summary 用户详情
// @Tags User
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} utils.Response{data=dto.UserResponse}
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
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

// UpdateRoles 修改系统角色
// @Summary 修改用户的系统角色
// @Tags User
// @Accept json
// @Produce json
// @Param id path int true "用户ID"
// @Param body body dto.UserUpdateRolesRequest true "角色集合"
// @Success 200 {object} utils.Response{data=dto.UserResponse}
// @Router /api/v1/users/{id}/roles [put]
func (h *UserHandler) UpdateRoles(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}
	var req dto.UserUpdateRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.UpdateRoles(param.ID, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}
