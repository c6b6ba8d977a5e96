package repository

import (
	"gorm.io/gorm"

	"crew-hub/internal/model"
	pkgErrors "crew-hub/pkg/errors"
)

type ProjectRepository interface {
	Create(project *model.Project) error
	Update(project *model.Project) error
	FindByID(id int64, opts ...QueryOption) (*model.Project, error)
	FindByName(name string) (*model.Project, error)
	List(page, pageSize int, keyword string, active *bool) ([]*model.Project, int64, error)
	CountActive() (int64, error)
	Delete(id int64) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(project *model.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建项目失败", err)
	}
	return nil
}

func (r *projectRepository) Update(project *model.Project) error {
	if err := r.db.Save(project).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新项目失败", err)
	}
	return nil
}

func (r *projectRepository) FindByID(id int64, opts ...QueryOption) (*model.Project, error) {
	query := r.db
	for _, opt := range opts {
		query = opt(query)
	}

	var project model.Project
	err := query.First(&project, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目失败", err)
	}
	return &project, nil
}

func (r *projectRepository) FindByName(name string) (*model.Project, error) {
	var project model.Project
	err := r.db.Where("name = ? AND deleted_at IS NULL", name).First(&project).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目失败", err)
	}
	return &project, nil
}

func (r *projectRepository) List(page, pageSize int, keyword string, active *bool) ([]*model.Project, int64, error) {
	var projects []*model.Project
	var total int64

	query := r.db.Model(&model.Project{}).Where("deleted_at IS NULL")
	if keyword != "" {
		query = query.Where("name LIKE ?", "%"+keyword+"%")
	}
	if active != nil {
		query = query.Where("active = ?", *active)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计项目失败", err)
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Chief").Preload("Crews").
		Order("start_date DESC").Offset(offset).Limit(pageSize).Find(&projects).Error
	if err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目列表失败", err)
	}

	return projects, total, nil
}

func (r *projectRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.Project{}).
		Where("active = ? AND deleted_at IS NULL", true).Count(&count).Error
	if err != nil {
		return 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计项目失败", err)
	}
	return count, nil
}

func (r *projectRepository) Delete(id int64) error {
	if err := r.db.Delete(&model.Project{}, id).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除项目失败", err)
	}
	return nil
}
