package repository

import (
	"time"

	"gorm.io/gorm"

	"crew-hub/internal/model"
	"crew-hub/pkg/constants"
	pkgErrors "crew-hub/pkg/errors"
)

type WorkerRepository interface {
	Create(worker *model.Worker) error
	Update(worker *model.Worker) error
	FindByID(id int64) (*model.Worker, error)
	FindByRUT(rut string) (*model.Worker, error)
	FindByUserID(userID int64) (*model.Worker, error)
	List(page, pageSize int, keyword, workerType, status string) ([]*model.Worker, int64, error)
	ListByUserIDs(userIDs []int64) ([]*model.Worker, error)
	CountActive() (int64, error)
	Deactivate(id int64) error

	// 附属档案
	AddSkill(skill *model.WorkerSkill) error
	ListSkills(workerID int64) ([]*model.WorkerSkill, error)
	DeleteSkill(workerID, skillID int64) error
	AddCertification(cert *model.WorkerCertification) error
	ListCertifications(workerID int64) ([]*model.WorkerCertification, error)
	DeleteCertification(workerID, certID int64) error
	// ListExpiringCertifications 列出在 deadline 之前到期且尚未过期的证书
	ListExpiringCertifications(deadline time.Time) ([]*model.WorkerCertification, error)
	AddExperience(exp *model.WorkerExperience) error
	ListExperiences(workerID int64) ([]*model.WorkerExperience, error)
	DeleteExperience(workerID, expID int64) error
}

type workerRepository struct {
	db *gorm.DB
}

func NewWorkerRepository(db *gorm.DB) WorkerRepository {
	return &workerRepository{db: db}
}

func (r *workerRepository) Create(worker *model.Worker) error {
	if err := r.db.Create(worker).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建工人档案失败", err)
	}
	return nil
}

func (r *workerRepository) Update(worker *model.Worker) error {
	if err := r.db.Save(worker).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新工人档案失败", err)
	}
	return nil
}

func (r *workerRepository) FindByID(id int64) (*model.Worker, error) {
	var worker model.Worker
	err := r.db.Preload("User").First(&worker, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询工人档案失败", err)
	}
	return &worker, nil
}

func (r *workerRepository) FindByRUT(rut string) (*model.Worker, error) {
	var worker model.Worker
	err := r.db.Where("rut = ?", rut).First(&worker).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询工人档案失败", err)
	}
	return &worker, nil
}

func (r *workerRepository) FindByUserID(userID int64) (*model.Worker, error) {
	var worker model.Worker
	err := r.db.Where("user_id = ?", userID).First(&worker).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询工人档案失败", err)
	}
	return &worker, nil
}

func (r *workerRepository) List(page, pageSize int, keyword, workerType, status string) ([]*model.Worker, int64, error) {
	var workers []*model.Worker
	var total int64

	query := r.db.Model(&model.Worker{}).Where("active = ?", true)
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("rut LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
	}
	if workerType != "" {
		query = query.Where("worker_type = ?", workerType)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计工人失败", err)
	}

	offset := (page - 1) * pageSize
	if err := query.Preload("User").Order("last_name ASC, first_name ASC").
		Offset(offset).Limit(pageSize).Find(&workers).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询工人列表失败", err)
	}

	return workers, total, nil
}

func (r *workerRepository) ListByUserIDs(userIDs []int64) ([]*model.Worker, error) {
	if len(userIDs) == 0 {
		return []*model.Worker{}, nil
	}
	var workers []*model.Worker
	err := r.db.Where("user_id IN ? AND active = ?", userIDs, true).Find(&workers).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询工人列表失败", err)
	}
	return workers, nil
}

func (r *workerRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.Worker{}).Where("active = ?", true).Count(&count).Error
	if err != nil {
		return 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计工人失败", err)
	}
	return count, nil
}

func (r *workerRepository) Deactivate(id int64) error {
	err := r.db.Model(&model.Worker{}).Where("id = ?", id).
		Updates(map[string]interface{}{"active": false, "status": constants.WorkerStatusInactive}).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "停用工人档案失败", err)
	}
	return nil
}

func (r *workerRepository) AddSkill(skill *model.WorkerSkill) error {
	if err := r.db.Create(skill).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "添加技能失败", err)
	}
	return nil
}

func (r *workerRepository) ListSkills(workerID int64) ([]*model.WorkerSkill, error) {
	var skills []*model.WorkerSkill
	err := r.db.Where("worker_id = ?", workerID).Order("name ASC").Find(&skills).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询技能失败", err)
	}
	return skills, nil
}

func (r *workerRepository) DeleteSkill(workerID, skillID int64) error {
	result := r.db.Where("worker_id = ?", workerID).Delete(&model.WorkerSkill{}, skillID)
	if result.Error != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除技能失败", result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgErrors.ErrRecordNotFound
	}
	return nil
}

func (r *workerRepository) AddCertification(cert *model.WorkerCertification) error {
	if err := r.db.Create(cert).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "添加证书失败", err)
	}
	return nil
}

func (r *workerRepository) ListCertifications(workerID int64) ([]*model.WorkerCertification, error) {
	var certs []*model.WorkerCertification
	err := r.db.Where("worker_id = ?", workerID).Order("issued_at DESC").Find(&certs).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询证书失败", err)
	}
	return certs, nil
}

func (r *workerRepository) DeleteCertification(workerID, certID int64) error {
	result := r.db.Where("worker_id = ?", workerID).Delete(&model.WorkerCertification{}, certID)
	if result.Error != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除证书失败", result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgErrors.ErrRecordNotFound
	}
	return nil
}

func (r *workerRepository) ListExpiringCertifications(deadline time.Time) ([]*model.WorkerCertification, error) {
	var certs []*model.WorkerCertification
	err := r.db.Preload("Worker").
		Where("expires_at IS NOT NULL AND expires_at > ? AND expires_at <= ?", time.Now(), deadline).
		Find(&certs).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询到期证书失败", err)
	}
	return certs, nil
}

func (r *workerRepository) AddExperience(exp *model.WorkerExperience) error {
	if err := r.db.Create(exp).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "添加工作经历失败", err)
	}
	return nil
}

func (r *workerRepository) ListExperiences(workerID int64) ([]*model.WorkerExperience, error) {
	var exps []*model.WorkerExperience
	err := r.db.Where("worker_id = ?", workerID).Order("started_at DESC").Find(&exps).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询工作经历失败", err)
	}
	return exps, nil
}

func (r *workerRepository) DeleteExperience(workerID, expID int64) error {
	result := r.db.Where("worker_id = ?", workerID).Delete(&model.WorkerExperience{}, expID)
	if result.Error != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除工作经历失败", result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgErrors.ErrRecordNotFound
	}
	return nil
}
