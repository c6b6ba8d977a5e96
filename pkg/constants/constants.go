package constants

// WorkerType 工人类型
const (
	WorkerTypeWorker = "worker" // 普通工人
	WorkerTypeLeader = "leader" // 班组长
	WorkerTypeChief  = "chief"  // 项目主管
)

// WorkerStatus 工人可用性状态
const (
	WorkerStatusAvailable    = "available"     // 可用
	WorkerStatusAssigned     = "assigned"      // 已被占用(有在岗派工)
	WorkerStatusVacation     = "vacation"      // 休假
	WorkerStatusMedicalLeave = "medical_leave" // 病假
	WorkerStatusInactive     = "inactive"      // 离职/停用
	WorkerStatusUnavailable  = "unavailable"   // 手动标记不可用
)

// WorkerStatusValues 合法状态集合, 用于请求校验
var WorkerStatusValues = []string{
	WorkerStatusAvailable,
	WorkerStatusAssigned,
	WorkerStatusVacation,
	WorkerStatusMedicalLeave,
	WorkerStatusInactive,
	WorkerStatusUnavailable,
}

// MessageType 消息类型
const (
	MessageTypeText     = "text"     // 普通文本
	MessageTypeRequest  = "request"  // 工人申请
	MessageTypeIncident = "incident" // 事故上报
	MessageTypeSystem   = "system"   // 系统消息
)

// RequestState 工人申请状态
const (
	RequestStatePending  = "pending"  // 待处理
	RequestStateAccepted = "accepted" // 已通过
	RequestStateRejected = "rejected" // 已拒绝
)

// IncidentSeverity 事故严重程度
const (
	IncidentSeverityLow    = "low"
	IncidentSeverityMedium = "medium"
	IncidentSeverityHigh   = "high"
)

// ProjectType 工程类型
const (
	ProjectTypeConstruction = "construction" // 土建施工
	ProjectTypeMaintenance  = "maintenance"  // 维护保养
	ProjectTypeInstallation = "installation" // 安装工程
	ProjectTypeOther        = "other"
)

// ProjectComplexity 工程复杂度
const (
	ProjectComplexityLow    = "low"
	ProjectComplexityMedium = "medium"
	ProjectComplexityHigh   = "high"
)

// ArchiveReason 会话归档原因
const (
	ArchiveReasonProjectFinalized = "project_finalized" // 项目终结
	ArchiveReasonCrewDissolved    = "crew_dissolved"    // 班组解散
	ArchiveReasonWorkerRemoved    = "worker_removed"    // 成员被移出班组
	ArchiveReasonManual           = "manual"            // 手动归档
)

// SystemSenderName 系统消息的展示名(快照中 sender 为空时使用)
const SystemSenderName = "System"

// 认证类型
const (
	AuthTypeLDAP  = "ldap"
	AuthTypeLocal = "local"
)

// 状态
const (
	StatusEnabled  int8 = 1
	StatusDisabled int8 = 0
)

// JWT 相关
const (
	JWTContextKey  = "jwt_user"
	JWTTypeAccess  = "access"
	JWTTypeRefresh = "refresh"
)

// HTTP Header
const (
	HeaderAuthorization = "Authorization"
	HeaderBearerPrefix  = "Bearer "
)
