package repository

import (
	"gorm.io/gorm"

	"crew-hub/internal/model"
	pkgErrors "crew-hub/pkg/errors"
)

// AssignmentRepository 派工记录的读写与占用口径查询。
//
// 两个口径要区分开, 不能混用:
//   - 派工占用: 有任意派工记录, 用于实际状态推导;
//   - 项目占用: 派工所在班组挂靠着项目, 用于可派工判定与工作台统计。
type AssignmentRepository interface {
	Create(assignment *model.Assignment) error
	Update(assignment *model.Assignment) error
	FindByCrewAndWorker(crewID, workerUserID int64) (*model.Assignment, error)
	ListByCrew(crewID int64) ([]*model.Assignment, error)
	ListByWorker(workerUserID int64) ([]*model.Assignment, error)
	Delete(id int64) error
	DeleteByCrewAndWorker(crewID, workerUserID int64) error
	DeleteByCrew(crewID int64) error

	// HasAnyAssignment 是否存在任意在岗派工(派工占用)
	HasAnyAssignment(workerUserID int64) (bool, error)
	// IsProjectCommitted 是否被项目占用
	IsProjectCommitted(workerUserID int64) (bool, error)
	// IsProjectCommittedExcluding 同上, 但忽略指定班组内的派工
	IsProjectCommittedExcluding(workerUserID int64, excludeCrewID int64) (bool, error)
	// LeadsProjectCrew 是否担任挂靠项目班组的班组长, excludeCrewID 为编辑中的班组
	LeadsProjectCrew(userID int64, excludeCrewID *int64) (bool, error)
	// CommittedUserIDs 所有被项目占用的用户ID(含班组长)
	CommittedUserIDs() ([]int64, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(assignment *model.Assignment) error {
	if err := r.db.Create(assignment).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建派工记录失败", err)
	}
	return nil
}

func (r *assignmentRepository) Update(assignment *model.Assignment) error {
	if err := r.db.Save(assignment).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新派工记录失败", err)
	}
	return nil
}

func (r *assignmentRepository) FindByCrewAndWorker(crewID, workerUserID int64) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.Where("crew_id = ? AND worker_user_id = ?", crewID, workerUserID).
		First(&assignment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询派工记录失败", err)
	}
	return &assignment, nil
}

func (r *assignmentRepository) ListByCrew(crewID int64) ([]*model.Assignment, error) {
	var assignments []*model.Assignment
	err := r.db.Where("crew_id = ?", crewID).
		Preload("Worker").Preload("Role").
		Order("id ASC").Find(&assignments).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询派工记录失败", err)
	}
	return assignments, nil
}

func (r *assignmentRepository) ListByWorker(workerUserID int64) ([]*model.Assignment, error) {
	var assignments []*model.Assignment
	err := r.db.Where("worker_user_id = ?", workerUserID).
		Preload("Crew").Preload("Role").
		Find(&assignments).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询派工记录失败", err)
	}
	return assignments, nil
}

func (r *assignmentRepository) Delete(id int64) error {
	if err := r.db.Delete(&model.Assignment{}, id).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除派工记录失败", err)
	}
	return nil
}

func (r *assignmentRepository) DeleteByCrewAndWorker(crewID, workerUserID int64) error {
	err := r.db.Where("crew_id = ? AND worker_user_id = ?", crewID, workerUserID).
		Delete(&model.Assignment{}).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除派工记录失败", err)
	}
	return nil
}

func (r *assignmentRepository) DeleteByCrew(crewID int64) error {
	err := r.db.Where("crew_id = ?", crewID).Delete(&model.Assignment{}).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除派工记录失败", err)
	}
	return nil
}

func (r *assignmentRepository) HasAnyAssignment(workerUserID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Assignment{}).
		Where("worker_user_id = ?", workerUserID).Count(&count).Error
	if err != nil {
		return false, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询派工占用失败", err)
	}
	return count > 0, nil
}

func (r *assignmentRepository) IsProjectCommitted(workerUserID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Assignment{}).
		Joins("JOIN crews ON crews.id = assignments.crew_id AND crews.deleted_at IS NULL").
		Where("assignments.worker_user_id = ? AND crews.project_id IS NOT NULL", workerUserID).
		Count(&count).Error
	if err != nil {
		return false, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目占用失败", err)
	}
	return count > 0, nil
}

func (r *assignmentRepository) IsProjectCommittedExcluding(workerUserID int64, excludeCrewID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Assignment{}).
		Joins("JOIN crews ON crews.id = assignments.crew_id AND crews.deleted_at IS NULL").
		Where("assignments.worker_user_id = ? AND assignments.crew_id <> ? AND crews.project_id IS NOT NULL",
			workerUserID, excludeCrewID).
		Count(&count).Error
	if err != nil {
		return false, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目占用失败", err)
	}
	return count > 0, nil
}

func (r *assignmentRepository) LeadsProjectCrew(userID int64, excludeCrewID *int64) (bool, error) {
	query := r.db.Model(&model.Crew{}).
		Where("leader_id = ? AND project_id IS NOT NULL AND deleted_at IS NULL", userID)
	if excludeCrewID != nil {
		query = query.Where("id <> ?", *excludeCrewID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询班组长职务失败", err)
	}
	return count > 0, nil
}

func (r *assignmentRepository) CommittedUserIDs() ([]int64, error) {
	var fromAssignments []int64
	err := r.db.Model(&model.Assignment{}).
		Joins("JOIN crews ON crews.id = assignments.crew_id AND crews.deleted_at IS NULL").
		Where("crews.project_id IS NOT NULL").
		Distinct().Pluck("assignments.worker_user_id", &fromAssignments).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目占用失败", err)
	}

	var fromLeaders []int64
	err = r.db.Model(&model.Crew{}).
		Where("leader_id IS NOT NULL AND project_id IS NOT NULL AND deleted_at IS NULL").
		Distinct().Pluck("leader_id", &fromLeaders).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目占用失败", err)
	}

	seen := make(map[int64]struct{}, len(fromAssignments)+len(fromLeaders))
	ids := make([]int64, 0, len(fromAssignments)+len(fromLeaders))
	for _, id := range append(fromAssignments, fromLeaders...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
