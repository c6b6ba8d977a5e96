package dto

// NotificationListQuery 通知列表请求
type NotificationListQuery struct {
	PageQuery
	Unread bool `form:"unread"` // 只看未读
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}
