package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"crew-hub/internal/pkg/auth"
	"crew-hub/internal/pkg/jwt"
	"crew-hub/internal/repository"
	"crew-hub/pkg/constants"
	"crew-hub/pkg/utils"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRoles    = "roles"
)

// AuthMiddleware JWT认证中间件
// 系统角色从数据库实时读取, 避免改权限后旧Token继续生效
func AuthMiddleware(userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.ErrorWithCode(c, 401, "缺少Authorization Header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, constants.HeaderBearerPrefix) {
			utils.ErrorWithCode(c, 401, "Authorization格式错误")
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, constants.HeaderBearerPrefix)

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			utils.Error(c, err)
			c.Abort()
			return
		}

		// 检查Token类型(必须是AccessToken)
		if claims.Type != constants.JWTTypeAccess {
			utils.ErrorWithCode(c, 401, "无效的Token类型")
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			utils.ErrorWithCode(c, 401, "用户不存在")
			c.Abort()
			return
		}
		if user.Status != constants.StatusEnabled {
			utils.ErrorWithCode(c, 403, "用户已禁用")
			c.Abort()
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUsername, user.Username)
		c.Set(ContextRoles, []string(user.SystemRoles))

		c.Next()
	}
}

// RequirePermission 权限中间件, 必须挂在 AuthMiddleware 之后
func RequirePermission(need auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.Allow(CurrentRoles(c), need) {
			utils.ErrorWithCode(c, 403, "没有操作权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID 当前登录用户ID
func CurrentUserID(c *gin.Context) int64 {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// CurrentRoles 当前登录用户的系统角色
func CurrentRoles(c *gin.Context) []string {
	if v, ok := c.Get(ContextRoles); ok {
		if roles, ok := v.([]string); ok {
			return roles
		}
	}
	return nil
}
