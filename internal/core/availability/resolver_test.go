package availability

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"crew-hub/internal/model"
	"crew-hub/internal/pkg/database"
	"crew-hub/internal/repository"
	"crew-hub/pkg/constants"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedWorkerWithUser(t *testing.T, db *gorm.DB, username, status string, override bool) *model.Worker {
	t.Helper()
	user := &model.User{AuthProvider: "local", Username: username}
	require.NoError(t, db.Create(user).Error)
	worker := &model.Worker{
		RUT:            username,
		FirstName:      username,
		LastName:       "Test",
		Email:          username + "@example.com",
		WorkerType:     constants.WorkerTypeWorker,
		Status:         status,
		ManualOverride: override,
		UserID:         &user.ID,
		Active:         true,
	}
	require.NoError(t, db.Create(worker).Error)
	return worker
}

func seedProjectCrew(t *testing.T, db *gorm.DB, name string) *model.Crew {
	t.Helper()
	chief := &model.User{AuthProvider: "local", Username: "chief-" + name}
	require.NoError(t, db.Create(chief).Error)
	project := &model.Project{Name: "Proyecto " + name, ChiefID: chief.ID, Active: true}
	require.NoError(t, db.Create(project).Error)
	crew := &model.Crew{Name: name, ProjectID: &project.ID}
	require.NoError(t, db.Create(crew).Error)
	return crew
}

func TestResolve_OverridePrecedence(t *testing.T) {
	// 手动锁定无条件生效, 即使有在岗派工
	worker := &model.Worker{Status: constants.WorkerStatusVacation, ManualOverride: true}
	assert.Equal(t, constants.WorkerStatusVacation, Resolve(worker, true))

	// 关闭锁定后立即按派工推导
	worker.ManualOverride = false
	assert.Equal(t, constants.WorkerStatusAssigned, Resolve(worker, true))
	assert.Equal(t, constants.WorkerStatusVacation, Resolve(worker, false))

	// 空状态兜底为可用
	empty := &model.Worker{}
	assert.Equal(t, constants.WorkerStatusAvailable, Resolve(empty, false))
}

func TestEffectiveStatus_DerivedFromAssignments(t *testing.T) {
	db := newTestDB(t)
	resolver := NewResolver(repository.NewAssignmentRepository(db))

	worker := seedWorkerWithUser(t, db, "w1", constants.WorkerStatusAvailable, false)
	crew := seedProjectCrew(t, db, "norte")

	status, err := resolver.EffectiveStatus(worker)
	require.NoError(t, err)
	assert.Equal(t, constants.WorkerStatusAvailable, status)

	require.NoError(t, db.Create(&model.Assignment{CrewID: crew.ID, WorkerUserID: *worker.UserID}).Error)

	status, err = resolver.EffectiveStatus(worker)
	require.NoError(t, err)
	assert.Equal(t, constants.WorkerStatusAssigned, status)

	// 手动锁定后派工不再影响读取
	worker.Status = constants.WorkerStatusMedicalLeave
	worker.ManualOverride = true
	status, err = resolver.EffectiveStatus(worker)
	require.NoError(t, err)
	assert.Equal(t, constants.WorkerStatusMedicalLeave, status)
}

func TestIsAssignable(t *testing.T) {
	db := newTestDB(t)
	resolver := NewResolver(repository.NewAssignmentRepository(db))

	free := seedWorkerWithUser(t, db, "free", constants.WorkerStatusAvailable, false)
	onLeave := seedWorkerWithUser(t, db, "leave", constants.WorkerStatusVacation, true)
	committed := seedWorkerWithUser(t, db, "busy", constants.WorkerStatusAvailable, false)

	crew := seedProjectCrew(t, db, "sur")
	require.NoError(t, db.Create(&model.Assignment{CrewID: crew.ID, WorkerUserID: *committed.UserID}).Error)

	ok, _, err := resolver.IsAssignable(free, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, reason, err := resolver.IsAssignable(onLeave, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotEmpty(t, reason)

	ok, reason, err = resolver.IsAssignable(committed, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotEmpty(t, reason)

	// 编辑本班组时, 既有派工不算冲突
	ok, _, err = resolver.IsAssignable(committed, &crew.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAssignable_UnattachedCrewDoesNotCommit(t *testing.T) {
	db := newTestDB(t)
	resolver := NewResolver(repository.NewAssignmentRepository(db))

	worker := seedWorkerWithUser(t, db, "w1", constants.WorkerStatusAvailable, false)

	// 未挂靠项目的班组不构成项目占用
	crew := &model.Crew{Name: "libre"}
	require.NoError(t, db.Create(crew).Error)
	require.NoError(t, db.Create(&model.Assignment{CrewID: crew.ID, WorkerUserID: *worker.UserID}).Error)

	ok, _, err := resolver.IsAssignable(worker, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	// 但实际状态仍按派工占用显示
	status, err := resolver.EffectiveStatus(worker)
	require.NoError(t, err)
	assert.Equal(t, constants.WorkerStatusAssigned, status)
}

func TestLeaderAvailable_ExclusionRule(t *testing.T) {
	db := newTestDB(t)
	resolver := NewResolver(repository.NewAssignmentRepository(db))

	leader := seedWorkerWithUser(t, db, "lead", constants.WorkerStatusAvailable, false)
	crew := seedProjectCrew(t, db, "oeste")
	require.NoError(t, db.Model(crew).Update("leader_id", *leader.UserID).Error)

	ok, err := resolver.LeaderAvailable(*leader.UserID, nil)
	require.NoError(t, err)
	assert.False(t, ok, "已带领挂靠项目的班组")

	// 编辑自己带领的班组时不和自己冲突
	ok, err = resolver.LeaderAvailable(*leader.UserID, &crew.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	other := seedWorkerWithUser(t, db, "other", constants.WorkerStatusAvailable, false)
	ok, err = resolver.LeaderAvailable(*other.UserID, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
