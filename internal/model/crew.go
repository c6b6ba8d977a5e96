package model

const (
	CrewTableName       = "crews"
	AssignmentTableName = "assignments"
	RoleTableName       = "roles"
)

// Crew 班组(cuadrilla)
// ProjectID 可空: 未挂靠项目的班组允许被解散。
type Crew struct {
	BaseModelWithSoftDelete
	Name      string `gorm:"size:100;not null" json:"name"`
	ProjectID *int64 `gorm:"index" json:"project_id,omitempty"`
	LeaderID  *int64 `gorm:"index" json:"leader_id,omitempty"` // 班组长(User)

	Project     *Project     `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Leader      *User        `gorm:"foreignKey:LeaderID" json:"leader,omitempty"`
	Assignments []Assignment `gorm:"foreignKey:CrewID" json:"assignments,omitempty"`
}

func (Crew) TableName() string {
	return CrewTableName
}

// Role 派工角色标签(如 焊工/电工/安全员)
type Role struct {
	BaseModel
	Name string `gorm:"size:50;not null;uniqueIndex" json:"name"`
}

func (Role) TableName() string {
	return RoleTableName
}

// Assignment 派工记录: 一个工人(User)在一个班组中的成员关系
type Assignment struct {
	BaseModel
	CrewID       int64  `gorm:"not null;index;uniqueIndex:idx_crew_worker" json:"crew_id"`
	WorkerUserID int64  `gorm:"not null;index;uniqueIndex:idx_crew_worker" json:"worker_user_id"`
	RoleID       *int64 `json:"role_id,omitempty"`

	Crew   *Crew `gorm:"foreignKey:CrewID" json:"crew,omitempty"`
	Worker *User `gorm:"foreignKey:WorkerUserID" json:"worker,omitempty"`
	Role   *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (Assignment) TableName() string {
	return AssignmentTableName
}
