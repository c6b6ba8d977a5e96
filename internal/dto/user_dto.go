package dto

// UserSearchQuery 用户搜索请求
type UserSearchQuery struct {
	PageQuery
}

// UserSimpleResponse 用户精简信息
type UserSimpleResponse struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name,omitempty"`
	Email       *string `json:"email,omitempty"`
}

// UserResponse 用户详情
type UserResponse struct {
	ID              int64    `json:"id"`
	Username        string   `json:"username"`
	AuthProvider    string   `json:"auth_provider"`
	DisplayName     *string  `json:"display_name,omitempty"`
	Email           *string  `json:"email,omitempty"`
	Phone           *string  `json:"phone,omitempty"`
	SystemRoles     []string `json:"system_roles"`
	InitialPassword bool     `json:"initial_password"`
	Status          int8     `json:"status"`
	LastLoginAt     *string  `json:"last_login_at,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

// UserUpdateRolesRequest 修改系统角色请求
type UserUpdateRolesRequest struct {
	SystemRoles []string `json:"system_roles" binding:"required,dive,oneof=system_admin project_chief crew_leader worker"`
}
