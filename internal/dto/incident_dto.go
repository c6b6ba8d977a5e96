package dto

// CreateIncidentRequest 事故上报请求
type CreateIncidentRequest struct {
	CrewID      *int64 `json:"crew_id" binding:"omitempty,min=1"`
	Description string `json:"description" binding:"required,max=2000"`
	Severity    string `json:"severity" binding:"required,oneof=low medium high"`
}

// IncidentListQuery 事故列表请求
type IncidentListQuery struct {
	PageQuery
	Severity     string `form:"severity" binding:"omitempty,oneof=low medium high"`
	Acknowledged *bool  `form:"acknowledged"`
	CrewID       *int64 `form:"crew_id" binding:"omitempty,min=1"`
}

// IncidentResponse 事故响应
type IncidentResponse struct {
	ID           int64   `json:"id"`
	CrewID       *int64  `json:"crew_id,omitempty"`
	CrewName     *string `json:"crew_name,omitempty"`
	ReporterID   *int64  `json:"reporter_id,omitempty"`
	ReporterName string  `json:"reporter_name"`
	Description  string  `json:"description"`
	Severity     string  `json:"severity"`
	Acknowledged bool    `json:"acknowledged"`
	CreatedAt    string  `json:"created_at"`
}
