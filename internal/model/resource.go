package model

// Resource 班组物资资源
type Resource struct {
	BaseModel
	Name     string  `gorm:"size:100;not null" json:"name"`
	Type     string  `gorm:"size:50" json:"type"`
	Quantity float64 `gorm:"not null;default:0" json:"quantity"`
	Unit     string  `gorm:"size:20" json:"unit"`
	CrewID   *int64  `gorm:"index" json:"crew_id,omitempty"`

	Crew *Crew `gorm:"foreignKey:CrewID" json:"crew,omitempty"`
}

func (Resource) TableName() string {
	return "resources"
}
