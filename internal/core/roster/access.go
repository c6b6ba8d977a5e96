package roster

import (
	"gorm.io/gorm"

	"crew-hub/internal/model"
	"crew-hub/internal/pkg/auth"
	pkgErrors "crew-hub/pkg/errors"
)

// AccessGate 归档会话的访问控制。
// 源会话随时可能被同步器删除, 因此判定先看快照自身, 再看在世数据。
type AccessGate struct {
	db *gorm.DB
}

func NewAccessGate(db *gorm.DB) *AccessGate {
	return &AccessGate{db: db}
}

// CanView 判断用户能否查看归档会话。
//
// 放行条件(任一满足):
//   - 系统管理员;
//   - 归档操作人;
//   - 快照中的参与者;
//   - 源会话仍在世且用户是其参与者;
//   - 快照挂靠的班组仍在世且用户是其班组长。
func (g *AccessGate) CanView(chat *model.ArchivedChat, userID int64, roles []string) (bool, error) {
	for _, r := range roles {
		if r == string(auth.RoleSystemAdmin) {
			return true, nil
		}
	}

	if chat.ArchivedByID != nil && *chat.ArchivedByID == userID {
		return true, nil
	}

	if chat.ParticipantIDs.Contains(userID) {
		return true, nil
	}

	var count int64
	err := g.db.Model(&model.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", chat.ConversationID, userID).
		Count(&count).Error
	if err != nil {
		return false, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询会话参与者失败", err)
	}
	if count > 0 {
		return true, nil
	}

	if chat.CrewID != nil {
		err = g.db.Model(&model.Crew{}).
			Where("id = ? AND leader_id = ? AND deleted_at IS NULL", *chat.CrewID, userID).
			Count(&count).Error
		if err != nil {
			return false, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询班组失败", err)
		}
		if count > 0 {
			return true, nil
		}
	}

	return false, nil
}
