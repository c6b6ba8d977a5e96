package repository

import (
	"gorm.io/gorm"

	"crew-hub/internal/model"
	"crew-hub/pkg/constants"
	pkgErrors "crew-hub/pkg/errors"
)

type WorkerRequestRepository interface {
	Create(req *model.WorkerRequest) error
	Update(req *model.WorkerRequest) error
	FindByID(id int64) (*model.WorkerRequest, error)
	List(page, pageSize int, state string, crewID *int64, workerUserID *int64) ([]*model.WorkerRequest, int64, error)
	CountPending() (int64, error)
}

type workerRequestRepository struct {
	db *gorm.DB
}

func NewWorkerRequestRepository(db *gorm.DB) WorkerRequestRepository {
	return &workerRequestRepository{db: db}
}

func (r *workerRequestRepository) Create(req *model.WorkerRequest) error {
	if err := r.db.Create(req).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建工人申请失败", err)
	}
	return nil
}

func (r *workerRequestRepository) Update(req *model.WorkerRequest) error {
	if err := r.db.Save(req).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新工人申请失败", err)
	}
	return nil
}

func (r *workerRequestRepository) FindByID(id int64) (*model.WorkerRequest, error) {
	var req model.WorkerRequest
	err := r.db.Preload("Worker").Preload("Crew").First(&req, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询工人申请失败", err)
	}
	return &req, nil
}

func (r *workerRequestRepository) List(page, pageSize int, state string, crewID *int64, workerUserID *int64) ([]*model.WorkerRequest, int64, error) {
	var requests []*model.WorkerRequest
	var total int64

	query := r.db.Model(&model.WorkerRequest{})
	if state != "" {
		query = query.Where("state = ?", state)
	}
	if crewID != nil {
		query = query.Where("crew_id = ?", *crewID)
	}
	if workerUserID != nil {
		query = query.Where("worker_user_id = ?", *workerUserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计工人申请失败", err)
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Worker").Preload("Crew").
		Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&requests).Error
	if err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询工人申请失败", err)
	}

	return requests, total, nil
}

func (r *workerRequestRepository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&model.WorkerRequest{}).
		Where("state = ?", constants.RequestStatePending).Count(&count).Error
	if err != nil {
		return 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计工人申请失败", err)
	}
	return count, nil
}
