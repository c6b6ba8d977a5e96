package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ConversationTableName = "conversations"
	MessageTableName      = "messages"
	ArchivedChatTableName = "archived_chats"
)

// Conversation 会话
//
// 两种形态:
//   - 群聊: IsGroup=true, 与一个班组1:1绑定, 由花名册同步器自动管理;
//   - 私聊: IsGroup=false, 参与者固定为若干用户。
//
// Archived 置位后会话只读, 且同步器不再删除它。
type Conversation struct {
	BaseModel
	Name     string `gorm:"size:150" json:"name"`
	IsGroup  bool   `gorm:"not null;default:false;index" json:"is_group"`
	CrewID   *int64 `gorm:"index" json:"crew_id,omitempty"`
	Archived bool   `gorm:"not null;default:false;index" json:"archived"`

	Crew         *Crew                     `gorm:"foreignKey:CrewID" json:"crew,omitempty"`
	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID" json:"participants,omitempty"`
	Messages     []Message                 `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

func (Conversation) TableName() string {
	return ConversationTableName
}

// ConversationParticipant 会话参与者(多对多连接表)
type ConversationParticipant struct {
	BaseModel
	ConversationID int64 `gorm:"not null;index;uniqueIndex:idx_conv_user" json:"conversation_id"`
	UserID         int64 `gorm:"not null;index;uniqueIndex:idx_conv_user" json:"user_id"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ConversationParticipant) TableName() string {
	return "conversation_participants"
}

// Message 会话消息, SenderID 为空表示系统消息
type Message struct {
	BaseModel
	ConversationID int64  `gorm:"not null;index" json:"conversation_id"`
	SenderID       *int64 `gorm:"index" json:"sender_id,omitempty"`
	Content        string `gorm:"type:text;not null" json:"content"`
	Type           string `gorm:"size:20;not null;default:text" json:"type"` // text/request/incident/system

	Sender *User         `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	ReadBy []MessageRead `gorm:"foreignKey:MessageID" json:"read_by,omitempty"`
}

func (Message) TableName() string {
	return MessageTableName
}

// MessageRead 已读标记
type MessageRead struct {
	BaseModel
	MessageID int64 `gorm:"not null;index;uniqueIndex:idx_msg_user" json:"message_id"`
	UserID    int64 `gorm:"not null;index;uniqueIndex:idx_msg_user" json:"user_id"`
}

func (MessageRead) TableName() string {
	return "message_reads"
}

// MessageSnapshot 归档快照中的单条消息
// 字段名与JSON形态是对外契约的一部分, 归档读取路径按此反序列化。
type MessageSnapshot struct {
	SenderID       *int64 `json:"sender_id"`
	SenderUsername string `json:"sender_username"`
	Content        string `json:"content"`
	MessageType    string `json:"message_type"`
	CreatedAt      string `json:"created_at"` // ISO-8601
}

// ArchivedChat 会话归档快照
// MessagesJSON 与 ParticipantIDs 一经写入不可变更;
// 即使源 Conversation 随后被删除, 归档的访问控制也以快照为准。
type ArchivedChat struct {
	BaseModel
	ConversationID int64          `gorm:"not null;uniqueIndex" json:"conversation_id"`
	CrewID         *int64         `gorm:"index" json:"crew_id,omitempty"`
	Name           string         `gorm:"size:150" json:"name"`
	MessagesJSON   datatypes.JSON `gorm:"type:json;not null" json:"messages_json"`
	ParticipantIDs Int64List      `gorm:"type:json;not null" json:"participant_ids"`
	Reason         string         `gorm:"size:50;not null" json:"reason"`
	ArchivedByID   *int64         `json:"archived_by_id,omitempty"`
	ArchivedAt     time.Time      `gorm:"not null" json:"archived_at"`

	ArchivedBy *User `gorm:"foreignKey:ArchivedByID" json:"archived_by,omitempty"`
}

func (ArchivedChat) TableName() string {
	return ArchivedChatTableName
}
