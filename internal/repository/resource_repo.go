package repository

import (
	"gorm.io/gorm"

	"crew-hub/internal/model"
	pkgErrors "crew-hub/pkg/errors"
)

type ResourceRepository interface {
	Create(resource *model.Resource) error
	Update(resource *model.Resource) error
	FindByID(id int64) (*model.Resource, error)
	List(page, pageSize int, keyword string, crewID *int64) ([]*model.Resource, int64, error)
	Delete(id int64) error
}

type resourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) Create(resource *model.Resource) error {
	if err := r.db.Create(resource).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建资源失败", err)
	}
	return nil
}

func (r *resourceRepository) Update(resource *model.Resource) error {
	if err := r.db.Save(resource).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新资源失败", err)
	}
	return nil
}

func (r *resourceRepository) FindByID(id int64) (*model.Resource, error) {
	var resource model.Resource
	err := r.db.Preload("Crew").First(&resource, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询资源失败", err)
	}
	return &resource, nil
}

func (r *resourceRepository) List(page, pageSize int, keyword string, crewID *int64) ([]*model.Resource, int64, error) {
	var resources []*model.Resource
	var total int64

	query := r.db.Model(&model.Resource{})
	if keyword != "" {
		query = query.Where("name LIKE ?", "%"+keyword+"%")
	}
	if crewID != nil {
		query = query.Where("crew_id = ?", *crewID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计资源失败", err)
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Crew").Order("name ASC").Offset(offset).Limit(pageSize).Find(&resources).Error
	if err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询资源列表失败", err)
	}

	return resources, total, nil
}

func (r *resourceRepository) Delete(id int64) error {
	if err := r.db.Delete(&model.Resource{}, id).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除资源失败", err)
	}
	return nil
}
