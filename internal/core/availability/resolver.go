// Package availability 推导工人的实际可用性并做派工资格判定。
//
// 状态推导是按需计算的, 不落库不缓存:
// 关闭手动锁定后, 下一次读取立即反映在岗派工的真实情况。
package availability

import (
	"crew-hub/internal/model"
	"crew-hub/internal/repository"
	"crew-hub/pkg/constants"
)

// Resolve 推导实际可用性状态, 纯函数。
// 优先级: 手动锁定 > 在岗派工推导 > 存储状态。
func Resolve(worker *model.Worker, hasLiveAssignment bool) string {
	if worker.ManualOverride {
		return worker.Status
	}
	if hasLiveAssignment {
		return constants.WorkerStatusAssigned
	}
	if worker.Status == "" {
		return constants.WorkerStatusAvailable
	}
	return worker.Status
}

// 不可派工的推导状态
var blockedStatuses = map[string]struct{}{
	constants.WorkerStatusVacation:     {},
	constants.WorkerStatusMedicalLeave: {},
	constants.WorkerStatusUnavailable:  {},
	constants.WorkerStatusInactive:     {},
}

// Resolver 基于数据库的可用性判定
type Resolver struct {
	assignments repository.AssignmentRepository
}

func NewResolver(assignments repository.AssignmentRepository) *Resolver {
	return &Resolver{assignments: assignments}
}

// EffectiveStatus 工人的实际可用性状态
func (r *Resolver) EffectiveStatus(worker *model.Worker) (string, error) {
	if worker.ManualOverride {
		return worker.Status, nil
	}
	if worker.UserID == nil {
		return Resolve(worker, false), nil
	}
	occupied, err := r.assignments.HasAnyAssignment(*worker.UserID)
	if err != nil {
		return "", err
	}
	return Resolve(worker, occupied), nil
}

// IsAssignable 判定工人当前能否接受新派工。
// 占用口径用"项目占用": 只有挂靠项目的班组里的派工才算占用,
// excludeCrewID 用于编辑班组时不把候选人在本班组的既有派工算作冲突。
// 不可派工时返回原因, 供批量派工的跳过回执使用。
func (r *Resolver) IsAssignable(worker *model.Worker, excludeCrewID *int64) (bool, string, error) {
	status, err := r.EffectiveStatus(worker)
	if err != nil {
		return false, "", err
	}
	if _, blocked := blockedStatuses[status]; blocked {
		return false, "工人当前状态不可派工: " + status, nil
	}
	if !worker.Active {
		return false, "工人档案已停用", nil
	}
	if worker.UserID == nil {
		return false, "工人没有关联账号", nil
	}

	var committed bool
	if excludeCrewID != nil {
		committed, err = r.assignments.IsProjectCommittedExcluding(*worker.UserID, *excludeCrewID)
	} else {
		committed, err = r.assignments.IsProjectCommitted(*worker.UserID)
	}
	if err != nil {
		return false, "", err
	}
	if committed {
		return false, "工人已被其他项目班组占用", nil
	}
	return true, "", nil
}

// LeaderAvailable 判定候选班组长是否可任职。
// 已带领其他挂靠项目的班组则冲突; excludeCrewID 为编辑中的班组,
// 使其现任班组长不和自己冲突。
func (r *Resolver) LeaderAvailable(userID int64, excludeCrewID *int64) (bool, error) {
	leads, err := r.assignments.LeadsProjectCrew(userID, excludeCrewID)
	if err != nil {
		return false, err
	}
	return !leads, nil
}
