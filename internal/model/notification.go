package model

// Notification 站内通知
type Notification struct {
	BaseModel
	UserID  int64  `gorm:"not null;index" json:"user_id"`
	Message string `gorm:"size:500;not null" json:"message"`
	Read    bool   `gorm:"not null;default:false;index" json:"read"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
