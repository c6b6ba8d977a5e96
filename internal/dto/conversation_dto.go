package dto

// PrivateConversationRequest 发起私聊请求, 已存在则复用
type PrivateConversationRequest struct {
	PeerID int64 `json:"peer_id" binding:"required,min=1"`
}

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
	Type    string `json:"type" binding:"omitempty,oneof=text request incident system"`
}

// ConversationListQuery 会话列表请求
type ConversationListQuery struct {
	PageQuery
	OnlyGroups bool `form:"only_groups"`
}

// MessageListQuery 消息列表请求
type MessageListQuery struct {
	PageQuery
}

// ArchiveConversationRequest 手动归档请求
type ArchiveConversationRequest struct {
	Reason string `json:"reason" binding:"omitempty,oneof=project_finalized crew_dissolved worker_removed manual"`
}

// ConversationResponse 会话响应
type ConversationResponse struct {
	ID           int64                `json:"id"`
	Name         string               `json:"name"`
	IsGroup      bool                 `json:"is_group"`
	CrewID       *int64               `json:"crew_id,omitempty"`
	Archived     bool                 `json:"archived"`
	Participants []UserSimpleResponse `json:"participants"`
	UnreadCount  int64                `json:"unread_count"`
	CreatedAt    string               `json:"created_at"`
}

// MessageResponse 消息响应
type MessageResponse struct {
	ID             int64  `json:"id"`
	ConversationID int64  `json:"conversation_id"`
	SenderID       *int64 `json:"sender_id,omitempty"`
	SenderName     string `json:"sender_name"`
	Content        string `json:"content"`
	Type           string `json:"type"`
	ReadByMe       bool   `json:"read_by_me"`
	CreatedAt      string `json:"created_at"`
}

// ArchivedChatResponse 归档会话响应
type ArchivedChatResponse struct {
	ID             int64                 `json:"id"`
	ConversationID int64                 `json:"conversation_id"`
	CrewID         *int64                `json:"crew_id,omitempty"`
	Name           string                `json:"name"`
	Messages       []ArchivedMessageView `json:"messages"`
	ParticipantIDs []int64               `json:"participant_ids"`
	Reason         string                `json:"reason"`
	ArchivedByID   *int64                `json:"archived_by_id,omitempty"`
	ArchivedAt     string                `json:"archived_at"`
}

// ArchivedMessageView 归档消息视图
type ArchivedMessageView struct {
	SenderID       *int64 `json:"sender_id"`
	SenderUsername string `json:"sender_username"`
	Content        string `json:"content"`
	MessageType    string `json:"message_type"`
	CreatedAt      string `json:"created_at"`
}

// ArchivedChatListQuery 归档列表请求
type ArchivedChatListQuery struct {
	PageQuery
	CrewID *int64 `form:"crew_id" binding:"omitempty,min=1"`
}
