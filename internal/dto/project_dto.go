package dto

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
	Type        string  `json:"type" binding:"required,oneof=construction maintenance installation other"`
	Complexity  string  `json:"complexity" binding:"required,oneof=low medium high"`
	StartDate   string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	ChiefID     int64   `json:"chief_id" binding:"required,min=1"`
}

// UpdateProjectRequest 更新项目请求
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
	Type        *string `json:"type" binding:"omitempty,oneof=construction maintenance installation other"`
	Complexity  *string `json:"complexity" binding:"omitempty,oneof=low medium high"`
	StartDate   *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	ChiefID     *int64  `json:"chief_id" binding:"omitempty,min=1"`
}

// AssignCrewRequest 项目挂靠班组请求
type AssignCrewRequest struct {
	CrewID int64 `json:"crew_id" binding:"required,min=1"`
}

// ProjectListQuery 项目列表请求
type ProjectListQuery struct {
	PageQuery
	Active *bool `form:"active"`
}

// ProjectResponse 项目响应
type ProjectResponse struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Description *string              `json:"description,omitempty"`
	Type        string               `json:"type"`
	Complexity  string               `json:"complexity"`
	StartDate   string               `json:"start_date"`
	EndDate     *string              `json:"end_date,omitempty"`
	ChiefID     int64                `json:"chief_id"`
	ChiefName   *string              `json:"chief_name,omitempty"`
	Active      bool                 `json:"active"`
	Crews       []CrewSimpleResponse `json:"crews,omitempty"`
	CreatedAt   string               `json:"created_at"`
	UpdatedAt   string               `json:"updated_at"`
}

// ProjectSimpleResponse 项目精简响应（用于下拉选择）
type ProjectSimpleResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// PanelResponse 工作台概览
// AvailableWorkers 按"项目占用"口径统计: 只有挂靠在活跃项目班组里的工人才算被占用
type PanelResponse struct {
	TotalWorkers     int64 `json:"total_workers"`
	AvailableWorkers int64 `json:"available_workers"`
	CommittedWorkers int64 `json:"committed_workers"`
	ActiveProjects   int64 `json:"active_projects"`
	TotalCrews       int64 `json:"total_crews"`
	PendingRequests  int64 `json:"pending_requests"`
	OpenIncidents    int64 `json:"open_incidents"`
}
