package repository

import (
	"gorm.io/gorm"

	"crew-hub/internal/model"
	pkgErrors "crew-hub/pkg/errors"
)

type IncidentRepository interface {
	Create(incident *model.IncidentNotice) error
	Update(incident *model.IncidentNotice) error
	FindByID(id int64) (*model.IncidentNotice, error)
	List(page, pageSize int, severity string, acknowledged *bool, crewID *int64) ([]*model.IncidentNotice, int64, error)
	CountOpen() (int64, error)
}

type incidentRepository struct {
	db *gorm.DB
}

func NewIncidentRepository(db *gorm.DB) IncidentRepository {
	return &incidentRepository{db: db}
}

func (r *incidentRepository) Create(incident *model.IncidentNotice) error {
	if err := r.db.Create(incident).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建事故上报失败", err)
	}
	return nil
}

func (r *incidentRepository) Update(incident *model.IncidentNotice) error {
	if err := r.db.Save(incident).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新事故上报失败", err)
	}
	return nil
}

func (r *incidentRepository) FindByID(id int64) (*model.IncidentNotice, error) {
	var incident model.IncidentNotice
	err := r.db.Preload("Reporter").Preload("Crew").First(&incident, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询事故上报失败", err)
	}
	return &incident, nil
}

func (r *incidentRepository) List(page, pageSize int, severity string, acknowledged *bool, crewID *int64) ([]*model.IncidentNotice, int64, error) {
	var incidents []*model.IncidentNotice
	var total int64

	query := r.db.Model(&model.IncidentNotice{})
	if severity != "" {
		query = query.Where("severity = ?", severity)
	}
	if acknowledged != nil {
		query = query.Where("acknowledged = ?", *acknowledged)
	}
	if crewID != nil {
		query = query.Where("crew_id = ?", *crewID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计事故上报失败", err)
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Reporter").Preload("Crew").
		Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&incidents).Error
	if err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询事故上报失败", err)
	}

	return incidents, total, nil
}

func (r *incidentRepository) CountOpen() (int64, error) {
	var count int64
	err := r.db.Model(&model.IncidentNotice{}).
		Where("acknowledged = ?", false).Count(&count).Error
	if err != nil {
		return 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计事故上报失败", err)
	}
	return count, nil
}
