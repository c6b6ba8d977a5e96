package model

import "time"

const WorkerTableName = "workers"

// Worker 工人档案(主数据)
//
// 可用性状态的唯一权威来源:
//   - ManualOverride=true 时, Status 由管理员手工指定并无条件生效;
//   - ManualOverride=false 时, Status 仅作为兜底的手动状态,
//     实际可用性由 core/availability 按在岗派工实时推导。
type Worker struct {
	BaseModel

	// 身份信息
	RUT       string     `gorm:"size:20;not null;uniqueIndex" json:"rut"`
	FirstName string     `gorm:"size:100;not null" json:"first_name"`
	LastName  string     `gorm:"size:100;not null" json:"last_name"`
	Email     string     `gorm:"size:100;not null" json:"email"`
	Phone     *string    `gorm:"size:30" json:"phone,omitempty"`
	Address   *string    `gorm:"size:255" json:"address,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`

	// 劳务信息
	WorkerType      string     `gorm:"size:20;not null;default:worker;index" json:"worker_type"` // worker/leader/chief
	Specialty       *string    `gorm:"size:100" json:"specialty,omitempty"`
	Status          string     `gorm:"size:20;not null;default:available" json:"status"`
	ManualOverride  bool       `gorm:"not null;default:false" json:"manual_override"`
	HireDate        *time.Time `json:"hire_date,omitempty"`
	YearsExperience int        `gorm:"not null;default:0" json:"years_experience"`

	// 关联的登录账号(可空)
	UserID *int64 `gorm:"uniqueIndex" json:"user_id,omitempty"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// 软停用: 离职工人保留档案
	Active bool `gorm:"not null;default:true;index" json:"active"`
}

func (Worker) TableName() string {
	return WorkerTableName
}

// FullName 姓名
func (w *Worker) FullName() string {
	return w.FirstName + " " + w.LastName
}

// WorkerSkill 工人技能
type WorkerSkill struct {
	BaseModel
	WorkerID   int64      `gorm:"not null;index;uniqueIndex:idx_worker_skill" json:"worker_id"`
	Name       string     `gorm:"size:100;not null;uniqueIndex:idx_worker_skill" json:"name"`
	Level      string     `gorm:"size:20;not null;default:basic" json:"level"` // basic/intermediate/advanced/expert
	AcquiredAt *time.Time `json:"acquired_at,omitempty"`

	Worker *Worker `gorm:"foreignKey:WorkerID" json:"-"`
}

func (WorkerSkill) TableName() string {
	return "worker_skills"
}

// WorkerCertification 工人证书
type WorkerCertification struct {
	BaseModel
	WorkerID  int64      `gorm:"not null;index" json:"worker_id"`
	Name      string     `gorm:"size:150;not null" json:"name"`
	Issuer    *string    `gorm:"size:150" json:"issuer,omitempty"`
	FileURL   *string    `gorm:"size:255" json:"file_url,omitempty"`
	IssuedAt  time.Time  `gorm:"not null" json:"issued_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	Worker *Worker `gorm:"foreignKey:WorkerID" json:"-"`
}

func (WorkerCertification) TableName() string {
	return "worker_certifications"
}

// Valid 证书是否在有效期内
func (c *WorkerCertification) Valid(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !c.ExpiresAt.Before(now)
}

// WorkerExperience 工作经历(内部项目或外部单位)
type WorkerExperience struct {
	BaseModel
	WorkerID        int64      `gorm:"not null;index" json:"worker_id"`
	ProjectName     *string    `gorm:"size:150" json:"project_name,omitempty"`
	ExternalCompany *string    `gorm:"size:150" json:"external_company,omitempty"`
	RoleName        *string    `gorm:"size:100" json:"role_name,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	Rating          *string    `gorm:"size:20" json:"rating,omitempty"` // not_recommended/recommended/highly_recommended

	Worker *Worker `gorm:"foreignKey:WorkerID" json:"-"`
}

func (WorkerExperience) TableName() string {
	return "worker_experiences"
}
