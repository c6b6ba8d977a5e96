package roster

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"crew-hub/internal/model"
	"crew-hub/internal/pkg/config"
	"crew-hub/internal/pkg/database"
	"crew-hub/internal/pkg/logger"
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

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{AuthProvider: "local", Username: username}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCrew(t *testing.T, db *gorm.DB, name string, leaderID *int64) *model.Crew {
	t.Helper()
	crew := &model.Crew{Name: name, LeaderID: leaderID}
	require.NoError(t, db.Create(crew).Error)
	return crew
}

func seedAssignment(t *testing.T, db *gorm.DB, crewID, userID int64) *model.Assignment {
	t.Helper()
	a := &model.Assignment{CrewID: crewID, WorkerUserID: userID}
	require.NoError(t, db.Create(a).Error)
	return a
}

func groupFor(t *testing.T, db *gorm.DB, crewID int64) (*model.Conversation, bool) {
	t.Helper()
	var conv model.Conversation
	err := db.Where("crew_id = ? AND is_group = ?", crewID, true).First(&conv).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false
	}
	require.NoError(t, err)
	return &conv, true
}

func participantIDs(t *testing.T, db *gorm.DB, conversationID int64) []int64 {
	t.Helper()
	var ids []int64
	require.NoError(t, db.Model(&model.ConversationParticipant{}).
		Where("conversation_id = ?", conversationID).
		Order("user_id ASC").Pluck("user_id", &ids).Error)
	return ids
}
