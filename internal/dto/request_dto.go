package dto

// CreateWorkerRequestRequest 提交工人申请
type CreateWorkerRequestRequest struct {
	CrewID      *int64  `json:"crew_id" binding:"omitempty,min=1"`
	Subject     string  `json:"subject" binding:"required,max=150"`
	Description *string `json:"description"`
}

// ResolveWorkerRequestRequest 处理工人申请
type ResolveWorkerRequestRequest struct {
	State string `json:"state" binding:"required,oneof=accepted rejected"`
}

// WorkerRequestListQuery 申请列表请求
type WorkerRequestListQuery struct {
	PageQuery
	State  string `form:"state" binding:"omitempty,oneof=pending accepted rejected"`
	CrewID *int64 `form:"crew_id" binding:"omitempty,min=1"`
}

// WorkerRequestResponse 工人申请响应
type WorkerRequestResponse struct {
	ID           int64   `json:"id"`
	WorkerUserID int64   `json:"worker_user_id"`
	WorkerName   string  `json:"worker_name"`
	CrewID       *int64  `json:"crew_id,omitempty"`
	CrewName     *string `json:"crew_name,omitempty"`
	Subject      string  `json:"subject"`
	Description  *string `json:"description,omitempty"`
	State        string  `json:"state"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}
