package handler

import (
	"github.com/gin-gonic/gin"

	"crew-hub/internal/api/middleware"
	"crew-hub/internal/dto"
	"crew-hub/internal/service"
	pkgErrors "crew-hub/pkg/errors"
	"crew-hub/pkg/utils"
)

type AuthHandler struct {
	service     service.AuthService
	userService service.UserService
}

func NewAuthHandler(service service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{
		service:     service,
		userService: userService,
	}
}

// Login 登录
// @Summary 登录(LDAP或本地账号)
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "登录请求"
// @Success 200 {object} utils.Response{data=dto.LoginResponse}
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.Login(&req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// Refresh 刷新Token
// @Summary 刷新Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshTokenRequest true "刷新Token请求"
// @Success 200 {object} utils.Response{data=dto.LoginResponse}
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	resp, err := h.service.RefreshToken(req.RefreshToken)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// GetMe 当前用户信息
// @Summary 当前用户信息
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.Response{data=dto.UserResponse}
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	resp, err := h.userService.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// Verify 验证Token有效性
// @Summary 验证Token有效性(内部API)
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.Response
// @Router /api/v1/auth/verify [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	// 认证中间件已校验过Token, 直接回显身份
	utils.Success(c, gin.H{
		"user_id":  middleware.CurrentUserID(c),
		"username": c.GetString(middleware.ContextUsername),
		"roles":    middleware.CurrentRoles(c),
	})
}

// ChangePassword 修改密码
// @Summary 修改密码(仅本地账号)
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.ChangePasswordRequest true "修改密码请求"
// @Success 200 {object} utils.Response
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	if err := h.service.ChangePassword(middleware.CurrentUserID(c), &req); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "密码修改成功", nil)
}
