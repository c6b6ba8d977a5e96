package repository

import (
	"gorm.io/gorm"

	"crew-hub/internal/model"
	"crew-hub/internal/pkg/database"
	pkgErrors "crew-hub/pkg/errors"
)

type CrewRepository interface {
	Create(crew *model.Crew) error
	Update(crew *model.Crew) error
	FindByID(id int64, opts ...QueryOption) (*model.Crew, error)
	// FindByIDForUpdate 以行锁加载班组, 必须在事务内调用,
	// 用于序列化同一班组的并发花名册写入
	FindByIDForUpdate(tx *gorm.DB, id int64) (*model.Crew, error)
	List(page, pageSize int, keyword string, projectID *int64, unassigned bool) ([]*model.Crew, int64, error)
	ListByProjectID(projectID int64) ([]*model.Crew, error)
	ListByLeaderID(leaderID int64) ([]*model.Crew, error)
	CountAll() (int64, error)
	Delete(id int64) error

	FindRole(id int64) (*model.Role, error)
	ListRoles() ([]*model.Role, error)
	CreateRole(role *model.Role) error
}

type crewRepository struct {
	db *gorm.DB
}

func NewCrewRepository(db *gorm.DB) CrewRepository {
	return &crewRepository{db: db}
}

func (r *crewRepository) Create(crew *model.Crew) error {
	if err := r.db.Create(crew).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建班组失败", err)
	}
	return nil
}

func (r *crewRepository) Update(crew *model.Crew) error {
	if err := r.db.Save(crew).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新班组失败", err)
	}
	return nil
}

func (r *crewRepository) FindByID(id int64, opts ...QueryOption) (*model.Crew, error) {
	query := r.db
	for _, opt := range opts {
		query = opt(query)
	}

	var crew model.Crew
	err := query.First(&crew, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询班组失败", err)
	}
	return &crew, nil
}

func (r *crewRepository) FindByIDForUpdate(tx *gorm.DB, id int64) (*model.Crew, error) {
	var crew model.Crew
	err := database.WithRowLock(tx).First(&crew, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "锁定班组失败", err)
	}
	return &crew, nil
}

func (r *crewRepository) List(page, pageSize int, keyword string, projectID *int64, unassigned bool) ([]*model.Crew, int64, error) {
	var crews []*model.Crew
	var total int64

	query := r.db.Model(&model.Crew{}).Where("deleted_at IS NULL")
	if keyword != "" {
		query = query.Where("name LIKE ?", "%"+keyword+"%")
	}
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	if unassigned {
		query = query.Where("project_id IS NULL")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计班组失败", err)
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Project").Preload("Leader").
		Preload("Assignments").Preload("Assignments.Worker").Preload("Assignments.Role").
		Order("name ASC").Offset(offset).Limit(pageSize).Find(&crews).Error
	if err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询班组列表失败", err)
	}

	return crews, total, nil
}

func (r *crewRepository) ListByProjectID(projectID int64) ([]*model.Crew, error) {
	var crews []*model.Crew
	err := r.db.Where("project_id = ? AND deleted_at IS NULL", projectID).
		Order("name ASC").Find(&crews).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询班组列表失败", err)
	}
	return crews, nil
}

func (r *crewRepository) ListByLeaderID(leaderID int64) ([]*model.Crew, error) {
	var crews []*model.Crew
	err := r.db.Where("leader_id = ? AND deleted_at IS NULL", leaderID).Find(&crews).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询班组列表失败", err)
	}
	return crews, nil
}

func (r *crewRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Crew{}).Where("deleted_at IS NULL").Count(&count).Error
	if err != nil {
		return 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计班组失败", err)
	}
	return count, nil
}

func (r *crewRepository) Delete(id int64) error {
	if err := r.db.Delete(&model.Crew{}, id).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除班组失败", err)
	}
	return nil
}

func (r *crewRepository) FindRole(id int64) (*model.Role, error) {
	var role model.Role
	err := r.db.First(&role, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询角色失败", err)
	}
	return &role, nil
}

func (r *crewRepository) ListRoles() ([]*model.Role, error) {
	var roles []*model.Role
	err := r.db.Order("name ASC").Find(&roles).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询角色列表失败", err)
	}
	return roles, nil
}

func (r *crewRepository) CreateRole(role *model.Role) error {
	if err := r.db.Create(role).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建角色失败", err)
	}
	return nil
}
