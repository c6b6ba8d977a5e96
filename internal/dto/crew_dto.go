package dto

// CrewMemberInput 班组成员输入项
type CrewMemberInput struct {
	WorkerUserID int64  `json:"worker_user_id" binding:"required,min=1"`
	RoleID       *int64 `json:"role_id" binding:"omitempty,min=1"`
}

// CreateCrewRequest 创建班组请求
type CreateCrewRequest struct {
	Name      string            `json:"name" binding:"required,max=100"`
	ProjectID *int64            `json:"project_id" binding:"omitempty,min=1"`
	LeaderID  *int64            `json:"leader_id" binding:"omitempty,min=1"`
	Members   []CrewMemberInput `json:"members" binding:"omitempty,dive"`
}

// UpdateCrewRequest 更新班组请求
// Members 为期望的完整成员集合: 新增的建派工, 角色变化的改角色, 缺失的移出
type UpdateCrewRequest struct {
	Name      *string           `json:"name" binding:"omitempty,max=100"`
	ProjectID *int64            `json:"project_id" binding:"omitempty,min=1"`
	LeaderID  *int64            `json:"leader_id" binding:"omitempty,min=1"`
	Members   []CrewMemberInput `json:"members" binding:"omitempty,dive"`
}

// CrewListQuery 班组列表请求
type CrewListQuery struct {
	PageQuery
	ProjectID  *int64 `form:"project_id" binding:"omitempty,min=1"`
	Unassigned bool   `form:"unassigned"` // 只看未挂靠项目的班组
}

// BatchAssignRequest 批量派工请求
type BatchAssignRequest struct {
	Members []CrewMemberInput `json:"members" binding:"required,min=1,dive"`
}

// BatchAssignResult 批量派工结果, 不可派工的成员被跳过而非整体失败
type BatchAssignResult struct {
	Assigned []int64             `json:"assigned"` // 成功派工的用户ID
	Skipped  []BatchAssignSkip   `json:"skipped"`  // 被跳过的用户及原因
	Members  []CrewMemberOutline `json:"members"`  // 派工后的成员集合
}

// BatchAssignSkip 被跳过的成员
type BatchAssignSkip struct {
	WorkerUserID int64  `json:"worker_user_id"`
	Reason       string `json:"reason"`
}

// CrewMemberOutline 成员概要
type CrewMemberOutline struct {
	AssignmentID int64   `json:"assignment_id"`
	WorkerUserID int64   `json:"worker_user_id"`
	Username     string  `json:"username"`
	DisplayName  *string `json:"display_name,omitempty"`
	RoleID       *int64  `json:"role_id,omitempty"`
	RoleName     *string `json:"role_name,omitempty"`
}

// CrewResponse 班组响应
type CrewResponse struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	ProjectID   *int64              `json:"project_id,omitempty"`
	ProjectName *string             `json:"project_name,omitempty"`
	LeaderID    *int64              `json:"leader_id,omitempty"`
	LeaderName  *string             `json:"leader_name,omitempty"`
	Members     []CrewMemberOutline `json:"members"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

// CrewSimpleResponse 班组精简响应（用于下拉选择）
type CrewSimpleResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ProjectID *int64 `json:"project_id,omitempty"`
}

// EligibleWorkersQuery 可派工工人查询
type EligibleWorkersQuery struct {
	PageQuery
	// ExcludeCrewID 班组长候选查询时排除的班组(编辑自身时不把自己算作占用)
	ExcludeCrewID *int64 `form:"exclude_crew_id" binding:"omitempty,min=1"`
	// Leaders 只返回可任班组长的人选
	Leaders bool `form:"leaders"`
}

// RoleResponse 派工角色标签响应
type RoleResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateRoleRequest 创建派工角色标签请求
type CreateRoleRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}
