package dto

// WorkerCreateRequest 创建工人请求
// RUT 在绑定前会被清理(去除点和横线), 校验其为9位数字
type WorkerCreateRequest struct {
	RUT             string  `json:"rut" binding:"required,rut"`
	FirstName       string  `json:"first_name" binding:"required,max=50"`
	LastName        string  `json:"last_name" binding:"required,max=50"`
	Email           string  `json:"email" binding:"required,email"`
	Phone           *string `json:"phone" binding:"omitempty,max=32"`
	Address         *string `json:"address" binding:"omitempty,max=200"`
	BirthDate       *string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	WorkerType      string  `json:"worker_type" binding:"required,oneof=worker leader chief"`
	Specialty       *string `json:"specialty" binding:"omitempty,max=100"`
	HireDate        *string `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
	YearsExperience int     `json:"years_experience" binding:"omitempty,min=0,max=60"`
}

// WorkerUpdateRequest 更新工人请求, RUT不可修改
type WorkerUpdateRequest struct {
	FirstName       *string `json:"first_name" binding:"omitempty,max=50"`
	LastName        *string `json:"last_name" binding:"omitempty,max=50"`
	Email           *string `json:"email" binding:"omitempty,email"`
	Phone           *string `json:"phone" binding:"omitempty,max=32"`
	Address         *string `json:"address" binding:"omitempty,max=200"`
	BirthDate       *string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	WorkerType      *string `json:"worker_type" binding:"omitempty,oneof=worker leader chief"`
	Specialty       *string `json:"specialty" binding:"omitempty,max=100"`
	HireDate        *string `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
	YearsExperience *int    `json:"years_experience" binding:"omitempty,min=0,max=60"`
}

// WorkerStatusRequest 手动设置工人状态请求
// Override 为 true 时状态为人工锁定, 派工不再自动改写
type WorkerStatusRequest struct {
	Status   string `json:"status" binding:"required,oneof=available assigned vacation medical_leave inactive unavailable"`
	Override bool   `json:"override"`
}

// WorkerListQuery 工人列表请求
type WorkerListQuery struct {
	PageQuery
	WorkerType string `form:"worker_type" binding:"omitempty,oneof=worker leader chief"`
	Status     string `form:"status" binding:"omitempty,oneof=available assigned vacation medical_leave inactive unavailable"`
	// OnlyAssignable 只返回可派工的工人
	OnlyAssignable bool `form:"only_assignable"`
}

// WorkerResponse 工人响应
type WorkerResponse struct {
	ID              int64   `json:"id"`
	RUT             string  `json:"rut"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	FullName        string  `json:"full_name"`
	Email           string  `json:"email"`
	Phone           *string `json:"phone,omitempty"`
	Address         *string `json:"address,omitempty"`
	BirthDate       *string `json:"birth_date,omitempty"`
	WorkerType      string  `json:"worker_type"`
	Specialty       *string `json:"specialty,omitempty"`
	Status          string  `json:"status"`
	EffectiveStatus string  `json:"effective_status"`
	ManualOverride  bool    `json:"manual_override"`
	HireDate        *string `json:"hire_date,omitempty"`
	YearsExperience int     `json:"years_experience"`
	UserID          *int64  `json:"user_id,omitempty"`
	Active          bool    `json:"active"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// WorkerSimpleResponse 工人精简响应（用于下拉选择）
type WorkerSimpleResponse struct {
	ID              int64  `json:"id"`
	FullName        string `json:"full_name"`
	WorkerType      string `json:"worker_type"`
	EffectiveStatus string `json:"effective_status"`
	UserID          *int64 `json:"user_id,omitempty"`
}

// WorkerSkillRequest 工人技能请求
type WorkerSkillRequest struct {
	Name       string  `json:"name" binding:"required,max=100"`
	Level      string  `json:"level" binding:"omitempty,oneof=basic intermediate advanced expert"`
	AcquiredAt *string `json:"acquired_at" binding:"omitempty,datetime=2006-01-02"`
}

// WorkerSkillResponse 工人技能响应
type WorkerSkillResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Level      string  `json:"level"`
	AcquiredAt *string `json:"acquired_at,omitempty"`
}

// WorkerCertificationRequest 工人证书请求
type WorkerCertificationRequest struct {
	Name      string  `json:"name" binding:"required,max=150"`
	Issuer    *string `json:"issuer" binding:"omitempty,max=150"`
	FileURL   *string `json:"file_url" binding:"omitempty,max=255"`
	IssuedAt  string  `json:"issued_at" binding:"required,datetime=2006-01-02"`
	ExpiresAt *string `json:"expires_at" binding:"omitempty,datetime=2006-01-02"`
}

// WorkerCertificationResponse 工人证书响应
type WorkerCertificationResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Issuer    *string `json:"issuer,omitempty"`
	FileURL   *string `json:"file_url,omitempty"`
	IssuedAt  string  `json:"issued_at"`
	ExpiresAt *string `json:"expires_at,omitempty"`
	Valid     bool    `json:"valid"`
}

// WorkerExperienceRequest 工作经历请求
type WorkerExperienceRequest struct {
	ProjectName     *string `json:"project_name" binding:"omitempty,max=150"`
	ExternalCompany *string `json:"external_company" binding:"omitempty,max=150"`
	RoleName        *string `json:"role_name" binding:"omitempty,max=100"`
	StartedAt       *string `json:"started_at" binding:"omitempty,datetime=2006-01-02"`
	EndedAt         *string `json:"ended_at" binding:"omitempty,datetime=2006-01-02"`
	Rating          *string `json:"rating" binding:"omitempty,oneof=not_recommended recommended highly_recommended"`
}

// WorkerExperienceResponse 工作经历响应
type WorkerExperienceResponse struct {
	ID              int64   `json:"id"`
	ProjectName     *string `json:"project_name,omitempty"`
	ExternalCompany *string `json:"external_company,omitempty"`
	RoleName        *string `json:"role_name,omitempty"`
	StartedAt       *string `json:"started_at,omitempty"`
	EndedAt         *string `json:"ended_at,omitempty"`
	Rating          *string `json:"rating,omitempty"`
}
