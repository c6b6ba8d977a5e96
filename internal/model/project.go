package model

import "time"

const ProjectTableName = "projects"

// Project 工程项目
// Active true→false 的转换即"项目终结": 触发班组释放与会话归档,
// 由 ProjectService.Finalize 统一驱动。
type Project struct {
	BaseModelWithSoftDelete
	Name        string     `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`
	Type        string     `gorm:"size:30;not null;default:other" json:"type"`            // construction/maintenance/installation/other
	Complexity  string     `gorm:"size:10;not null;default:medium" json:"complexity"`     // low/medium/high
	StartDate   time.Time  `gorm:"not null" json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	ChiefID     int64      `gorm:"not null;index" json:"chief_id"`
	Active      bool       `gorm:"not null;default:true;index" json:"active"`

	Chief *User  `gorm:"foreignKey:ChiefID" json:"chief,omitempty"`
	Crews []Crew `gorm:"foreignKey:ProjectID" json:"crews,omitempty"`
}

func (Project) TableName() string {
	return ProjectTableName
}
