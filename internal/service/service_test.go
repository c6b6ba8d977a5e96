package service

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"crew-hub/internal/core/availability"
	"crew-hub/internal/core/roster"
	"crew-hub/internal/model"
	"crew-hub/internal/pkg/config"
	"crew-hub/internal/pkg/database"
	"crew-hub/internal/pkg/logger"
	"crew-hub/internal/repository"
	"crew-hub/pkg/constants"
)

func TestMain(m *testing.M) {
	if err := logger.Init(&config.LogConfig{Level: "error", Output: "stdout"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

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

// testServices 服务层测试装配, 全部走真实仓储和内存库
type testServices struct {
	db       *gorm.DB
	workers  WorkerService
	crews    CrewService
	projects ProjectService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := newTestDB(t)

	cfg := &config.RosterConfig{}
	workerRepo := repository.NewWorkerRepository(db)
	userRepo := repository.NewUserRepository(db)
	crewRepo := repository.NewCrewRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	requestRepo := repository.NewWorkerRequestRepository(db)
	incidentRepo := repository.NewIncidentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	resolver := availability.NewResolver(assignmentRepo)
	synchronizer := roster.NewSynchronizer(db, cfg)
	archiver := roster.NewArchiver(db, cfg)
	notifier := NewNotificationService(notificationRepo)

	return &testServices{
		db: db,
		workers: NewWorkerService(workerRepo, userRepo, assignmentRepo,
			conversationRepo, resolver, synchronizer, archiver),
		crews: NewCrewService(crewRepo, assignmentRepo, workerRepo,
			conversationRepo, resolver, synchronizer, archiver, notifier),
		projects: NewProjectService(projectRepo, crewRepo, workerRepo,
			assignmentRepo, requestRepo, incidentRepo, conversationRepo,
			resolver, archiver, notifier),
	}
}

// seedWorkerUser 建一个带登录账号的工人档案
func seedWorkerUser(t *testing.T, db *gorm.DB, rut, status string) (*model.Worker, *model.User) {
	t.Helper()
	user := &model.User{AuthProvider: constants.AuthTypeLocal, Username: rut}
	require.NoError(t, db.Create(user).Error)
	worker := &model.Worker{
		RUT:        rut,
		FirstName:  "Test",
		LastName:   rut,
		Email:      rut + "@example.com",
		WorkerType: constants.WorkerTypeWorker,
		Status:     status,
		UserID:     &user.ID,
		Active:     true,
	}
	require.NoError(t, db.Create(worker).Error)
	return worker, user
}
