package model

// WorkerRequest 工人申请(调组/请假/行政事项)
type WorkerRequest struct {
	BaseModel
	WorkerUserID int64   `gorm:"not null;index" json:"worker_user_id"`
	CrewID       *int64  `gorm:"index" json:"crew_id,omitempty"`
	Subject      string  `gorm:"size:150;not null" json:"subject"`
	Description  *string `gorm:"type:text" json:"description,omitempty"`
	State        string  `gorm:"size:20;not null;default:pending;index" json:"state"` // pending/accepted/rejected

	Worker *User `gorm:"foreignKey:WorkerUserID" json:"worker,omitempty"`
	Crew   *Crew `gorm:"foreignKey:CrewID" json:"crew,omitempty"`
}

func (WorkerRequest) TableName() string {
	return "worker_requests"
}

// IncidentNotice 现场事故上报
type IncidentNotice struct {
	BaseModel
	CrewID       *int64 `gorm:"index" json:"crew_id,omitempty"`
	ReporterID   *int64 `gorm:"index" json:"reporter_id,omitempty"`
	Description  string `gorm:"type:text;not null" json:"description"`
	Severity     string `gorm:"size:10;not null;default:low;index" json:"severity"` // low/medium/high
	Acknowledged bool   `gorm:"not null;default:false" json:"acknowledged"`

	Reporter *User `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	Crew     *Crew `gorm:"foreignKey:CrewID" json:"crew,omitempty"`
}

func (IncidentNotice) TableName() string {
	return "incident_notices"
}
