package model

import "time"

const UserTableName = "users"

// User 本地用户模型
// 工人入职时自动开通账号: 用户名为清理后的RUT, 初始密码为RUT本身
type User struct {
	BaseStatus
	AuthProvider string     `gorm:"size:20;not null;default:local;uniqueIndex:idx_user_provider_name" json:"auth_provider"`
	Username     string     `gorm:"size:50;not null;uniqueIndex:idx_user_provider_name" json:"username"`
	Password     string     `gorm:"size:255" json:"-"` // 不返回到前端；LDAP 用户可为空字符串
	Email        *string    `gorm:"size:100" json:"email,omitempty"`
	DisplayName  *string    `gorm:"size:100" json:"display_name,omitempty"`
	Phone        *string    `gorm:"size:32" json:"phone,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	SystemRoles  StringList `gorm:"column:system_roles;type:json" json:"system_roles"`

	// InitialPassword 标记密码仍为初始密码, 首次登录需修改
	InitialPassword bool `gorm:"not null;default:false" json:"initial_password"`
}

// TableName 指定表名
func (User) TableName() string {
	return UserTableName
}

// FullDisplayName 展示名, 无DisplayName时回退到用户名
func (u *User) FullDisplayName() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}
