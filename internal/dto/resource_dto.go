package dto

// CreateResourceRequest 创建资源请求
type CreateResourceRequest struct {
	Name     string  `json:"name" binding:"required,max=100"`
	Type     string  `json:"type" binding:"omitempty,max=50"`
	Quantity float64 `json:"quantity" binding:"omitempty,min=0"`
	Unit     string  `json:"unit" binding:"omitempty,max=20"`
	CrewID   *int64  `json:"crew_id" binding:"omitempty,min=1"`
}

// UpdateResourceRequest 更新资源请求
type UpdateResourceRequest struct {
	Name     *string  `json:"name" binding:"omitempty,max=100"`
	Type     *string  `json:"type" binding:"omitempty,max=50"`
	Quantity *float64 `json:"quantity" binding:"omitempty,min=0"`
	Unit     *string  `json:"unit" binding:"omitempty,max=20"`
	CrewID   *int64   `json:"crew_id" binding:"omitempty,min=1"`
}

// ResourceListQuery 资源列表请求
type ResourceListQuery struct {
	PageQuery
	CrewID *int64 `form:"crew_id" binding:"omitempty,min=1"`
}

// ResourceResponse 资源响应
type ResourceResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	CrewID    *int64  `json:"crew_id,omitempty"`
	CrewName  *string `json:"crew_name,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}
