package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"crew-hub/internal/core/availability"
	"crew-hub/internal/core/roster"
	"crew-hub/internal/dto"
	"crew-hub/internal/model"
	"crew-hub/internal/pkg/logger"
	"crew-hub/internal/repository"
	"crew-hub/pkg/constants"
	pkgErrors "crew-hub/pkg/errors"
)

type CrewService interface {
	Create(ctx context.Context, req *dto.CreateCrewRequest) (*dto.CrewResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateCrewRequest) (*dto.CrewResponse, error)
	GetByID(id int64) (*dto.CrewResponse, error)
	List(query *dto.CrewListQuery) ([]*dto.CrewResponse, int64, error)
	// BatchAssign 批量派工, 不可派工的成员被跳过并带回原因
	BatchAssign(ctx context.Context, crewID int64, req *dto.BatchAssignRequest) (*dto.BatchAssignResult, error)
	RemoveMember(ctx context.Context, crewID, workerUserID int64) error
	// Dissolve 解散班组: 仅限未挂靠项目的班组, 群聊归档后随班组一并收尾
	Dissolve(ctx context.Context, id int64, operatorID int64) error
	// EligibleWorkers 可派工人选, Leaders 模式返回可任班组长的人选
	EligibleWorkers(query *dto.EligibleWorkersQuery) ([]*dto.WorkerSimpleResponse, error)

	ListRoles() ([]*dto.RoleResponse, error)
	CreateRole(req *dto.CreateRoleRequest) (*dto.RoleResponse, error)
}

type crewService struct {
	repo             repository.CrewRepository
	assignmentRepo   repository.AssignmentRepository
	workerRepo       repository.WorkerRepository
	conversationRepo repository.ConversationRepository
	resolver         *availability.Resolver
	synchronizer     *roster.Synchronizer
	archiver         *roster.Archiver
	notifier         NotificationService
}

func NewCrewService(
	repo repository.CrewRepository,
	assignmentRepo repository.AssignmentRepository,
	workerRepo repository.WorkerRepository,
	conversationRepo repository.ConversationRepository,
	resolver *availability.Resolver,
	synchronizer *roster.Synchronizer,
	archiver *roster.Archiver,
	notifier NotificationService,
) CrewService {
	return &crewService{
		repo:             repo,
		assignmentRepo:   assignmentRepo,
		workerRepo:       workerRepo,
		conversationRepo: conversationRepo,
		resolver:         resolver,
		synchronizer:     synchronizer,
		archiver:         archiver,
		notifier:         notifier,
	}
}

func (s *crewService) Create(ctx context.Context, req *dto.CreateCrewRequest) (*dto.CrewResponse, error) {
	if err := s.checkLeader(req.LeaderID, req.ProjectID, nil); err != nil {
		return nil, err
	}

	crew := &model.Crew{
		Name:      req.Name,
		ProjectID: req.ProjectID,
		LeaderID:  req.LeaderID,
	}
	if err := s.repo.Create(crew); err != nil {
		return nil, err
	}

	if len(req.Members) > 0 {
		if _, err := s.assignMembers(crew, req.Members); err != nil {
			return nil, err
		}
	}

	if err := s.synchronizer.EnsureGroupForCrew(ctx, crew.ID); err != nil {
		return nil, err
	}

	logger.Info("班组已创建",
		zap.Int64("crew_id", crew.ID),
		zap.String("name", crew.Name),
		zap.Int("members", len(req.Members)))

	return s.GetByID(crew.ID)
}

func (s *crewService) Update(ctx context.Context, id int64, req *dto.UpdateCrewRequest) (*dto.CrewResponse, error) {
	crew, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		crew.Name = *req.Name
	}

	// 换班组长或给班组挂项目都要重新校验班组长约束,
	// 否则给已有班组长的班组挂项目会绕过冲突检查
	leaderID := crew.LeaderID
	if req.LeaderID != nil {
		leaderID = req.LeaderID
	}
	projectID := crew.ProjectID
	if req.ProjectID != nil {
		projectID = req.ProjectID
	}
	leaderChanged := req.LeaderID != nil && (crew.LeaderID == nil || *crew.LeaderID != *req.LeaderID)
	projectAttached := req.ProjectID != nil && crew.ProjectID == nil
	if leaderChanged || projectAttached {
		if err := s.checkLeader(leaderID, projectID, &crew.ID); err != nil {
			return nil, err
		}
	}
	crew.ProjectID = projectID
	crew.LeaderID = leaderID
	if err := s.repo.Update(crew); err != nil {
		return nil, err
	}

	if req.Members != nil {
		if err := s.reconcileMembers(ctx, crew, req.Members); err != nil {
			return nil, err
		}
	}

	if err := s.synchronizer.EnsureGroupForCrew(ctx, crew.ID); err != nil {
		return nil, err
	}
	return s.GetByID(crew.ID)
}

// checkLeader 校验班组长人选: 只对挂靠项目的班组收紧约束
func (s *crewService) checkLeader(leaderID, projectID, excludeCrewID *int64) error {
	if leaderID == nil || projectID == nil {
		return nil
	}
	free, err := s.resolver.LeaderAvailable(*leaderID, excludeCrewID)
	if err != nil {
		return err
	}
	if !free {
		return pkgErrors.ErrLeaderConflict
	}
	return nil
}

// assignMembers 逐个派工, 不可派工的跳过记原因
func (s *crewService) assignMembers(crew *model.Crew, members []dto.CrewMemberInput) (*dto.BatchAssignResult, error) {
	result := &dto.BatchAssignResult{
		Assigned: []int64{},
		Skipped:  []dto.BatchAssignSkip{},
	}

	for _, member := range members {
		if existing, _ := s.assignmentRepo.FindByCrewAndWorker(crew.ID, member.WorkerUserID); existing != nil {
			if !rolesEqual(existing.RoleID, member.RoleID) {
				existing.RoleID = member.RoleID
				if err := s.assignmentRepo.Update(existing); err != nil {
					return nil, err
				}
			}
			continue
		}

		worker, err := s.workerRepo.FindByUserID(member.WorkerUserID)
		if err != nil {
			result.Skipped = append(result.Skipped, dto.BatchAssignSkip{
				WorkerUserID: member.WorkerUserID,
				Reason:       "该用户没有工人档案",
			})
			continue
		}

		ok, reason, err := s.resolver.IsAssignable(worker, &crew.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			result.Skipped = append(result.Skipped, dto.BatchAssignSkip{
				WorkerUserID: member.WorkerUserID,
				Reason:       reason,
			})
			continue
		}

		assignment := &model.Assignment{
			CrewID:       crew.ID,
			WorkerUserID: member.WorkerUserID,
			RoleID:       member.RoleID,
		}
		if err := s.assignmentRepo.Create(assignment); err != nil {
			return nil, err
		}
		result.Assigned = append(result.Assigned, member.WorkerUserID)
	}
	return result, nil
}

// reconcileMembers 以期望集合对齐派工记录: 新增/改角色/移出
func (s *crewService) reconcileMembers(ctx context.Context, crew *model.Crew, members []dto.CrewMemberInput) error {
	current, err := s.assignmentRepo.ListByCrew(crew.ID)
	if err != nil {
		return err
	}

	desired := lo.Map(members, func(m dto.CrewMemberInput, _ int) int64 { return m.WorkerUserID })
	existing := lo.Map(current, func(a *model.Assignment, _ int) int64 { return a.WorkerUserID })
	_, toRemove := lo.Difference(desired, existing)

	if _, err := s.assignMembers(crew, members); err != nil {
		return err
	}
	for _, userID := range toRemove {
		if err := s.assignmentRepo.DeleteByCrewAndWorker(crew.ID, userID); err != nil {
			return err
		}
		s.archivePrivateChats(ctx, userID)
	}
	return nil
}

// archivePrivateChats 成员移出班组后归档其私聊, 避免继续留在围绕班组的私下会话里。
// 尽力而为, 失败只记日志。
func (s *crewService) archivePrivateChats(ctx context.Context, userID int64) {
	convs, err := s.conversationRepo.ListPrivateByUser(userID)
	if err != nil {
		logger.Warn("查询待归档私聊失败", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	for _, conv := range convs {
		if _, err := s.archiver.Archive(ctx, conv.ID, constants.ArchiveReasonWorkerRemoved, nil); err != nil {
			logger.Warn("归档私聊失败",
				zap.Int64("conversation_id", conv.ID),
				zap.Int64("user_id", userID),
				zap.Error(err))
		}
	}
}

func (s *crewService) GetByID(id int64) (*dto.CrewResponse, error) {
	crew, err := s.repo.FindByID(id,
		repository.WithPreload("Project"), repository.WithPreload("Leader"))
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignmentRepo.ListByCrew(id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(crew, assignments), nil
}

func (s *crewService) List(query *dto.CrewListQuery) ([]*dto.CrewResponse, int64, error) {
	crews, total, err := s.repo.List(query.GetPage(), query.GetPageSize(),
		query.Keyword, query.ProjectID, query.Unassigned)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*dto.CrewResponse, len(crews))
	for i, crew := range crews {
		assignments := lo.Map(crew.Assignments, func(a model.Assignment, _ int) *model.Assignment {
			return &a
		})
		responses[i] = s.toResponse(crew, assignments)
	}
	return responses, total, nil
}

func (s *crewService) BatchAssign(ctx context.Context, crewID int64, req *dto.BatchAssignRequest) (*dto.BatchAssignResult, error) {
	crew, err := s.repo.FindByID(crewID)
	if err != nil {
		return nil, err
	}

	result, err := s.assignMembers(crew, req.Members)
	if err != nil {
		return nil, err
	}

	if err := s.synchronizer.EnsureGroupForCrew(ctx, crewID); err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.ListByCrew(crewID)
	if err != nil {
		return nil, err
	}
	result.Members = memberOutlines(assignments)

	logger.Info("批量派工完成",
		zap.Int64("crew_id", crewID),
		zap.Int("assigned", len(result.Assigned)),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}

func (s *crewService) RemoveMember(ctx context.Context, crewID, workerUserID int64) error {
	if _, err := s.repo.FindByID(crewID); err != nil {
		return err
	}
	if _, err := s.assignmentRepo.FindByCrewAndWorker(crewID, workerUserID); err != nil {
		return err
	}
	if err := s.assignmentRepo.DeleteByCrewAndWorker(crewID, workerUserID); err != nil {
		return err
	}
	s.archivePrivateChats(ctx, workerUserID)
	return s.synchronizer.EnsureGroupForCrew(ctx, crewID)
}

func (s *crewService) Dissolve(ctx context.Context, id int64, operatorID int64) error {
	crew, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if crew.ProjectID != nil {
		return pkgErrors.ErrCrewHasProject
	}

	assignments, err := s.assignmentRepo.ListByCrew(id)
	if err != nil {
		return err
	}

	// 群聊先归档再收尾; 消息不足归档门槛时直接删除
	if conv, _ := s.conversationRepo.FindGroupByCrewID(id); conv != nil {
		chat, err := s.archiver.Archive(ctx, conv.ID, constants.ArchiveReasonCrewDissolved, &operatorID)
		if err != nil {
			return err
		}
		if chat == nil && !conv.Archived {
			if err := s.conversationRepo.Delete(conv.ID); err != nil {
				return err
			}
		}
	}

	if err := s.assignmentRepo.DeleteByCrew(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	for _, a := range assignments {
		s.notifier.Notify(lo.ToPtr(a.WorkerUserID), "您所在的班组 "+crew.Name+" 已解散")
	}

	logger.Info("班组已解散",
		zap.Int64("crew_id", id),
		zap.String("name", crew.Name),
		zap.Int64("operator_id", operatorID))

	return nil
}

func (s *crewService) EligibleWorkers(query *dto.EligibleWorkersQuery) ([]*dto.WorkerSimpleResponse, error) {
	workerType := ""
	if query.Leaders {
		workerType = constants.WorkerTypeLeader
	}
	workers, _, err := s.workerRepo.List(query.GetPage(), query.GetPageSize(),
		query.Keyword, workerType, "")
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.WorkerSimpleResponse, 0, len(workers))
	for _, worker := range workers {
		if query.Leaders {
			if worker.UserID == nil || !worker.Active {
				continue
			}
			free, err := s.resolver.LeaderAvailable(*worker.UserID, query.ExcludeCrewID)
			if err != nil {
				return nil, err
			}
			if !free {
				continue
			}
		} else {
			ok, _, err := s.resolver.IsAssignable(worker, query.ExcludeCrewID)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}

		effective, err := s.resolver.EffectiveStatus(worker)
		if err != nil {
			return nil, err
		}
		responses = append(responses, &dto.WorkerSimpleResponse{
			ID:              worker.ID,
			FullName:        worker.FullName(),
			WorkerType:      worker.WorkerType,
			EffectiveStatus: effective,
			UserID:          worker.UserID,
		})
	}
	return responses, nil
}

func (s *crewService) ListRoles() ([]*dto.RoleResponse, error) {
	roles, err := s.repo.ListRoles()
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.RoleResponse, len(roles))
	for i, role := range roles {
		responses[i] = &dto.RoleResponse{ID: role.ID, Name: role.Name}
	}
	return responses, nil
}

func (s *crewService) CreateRole(req *dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	role := &model.Role{Name: req.Name}
	if err := s.repo.CreateRole(role); err != nil {
		return nil, err
	}
	return &dto.RoleResponse{ID: role.ID, Name: role.Name}, nil
}

func (s *crewService) toResponse(crew *model.Crew, assignments []*model.Assignment) *dto.CrewResponse {
	resp := &dto.CrewResponse{
		ID:        crew.ID,
		Name:      crew.Name,
		ProjectID: crew.ProjectID,
		LeaderID:  crew.LeaderID,
		Members:   memberOutlines(assignments),
		CreatedAt: crew.CreatedAt.Format(time.RFC3339),
		UpdatedAt: crew.UpdatedAt.Format(time.RFC3339),
	}
	if crew.Project != nil {
		resp.ProjectName = &crew.Project.Name
	}
	if crew.Leader != nil {
		resp.LeaderName = lo.ToPtr(crew.Leader.FullDisplayName())
	}
	return resp
}

func memberOutlines(assignments []*model.Assignment) []dto.CrewMemberOutline {
	outlines := make([]dto.CrewMemberOutline, len(assignments))
	for i, a := range assignments {
		outline := dto.CrewMemberOutline{
			AssignmentID: a.ID,
			WorkerUserID: a.WorkerUserID,
			RoleID:       a.RoleID,
		}
		if a.Worker != nil {
			outline.Username = a.Worker.Username
			outline.DisplayName = a.Worker.DisplayName
		}
		if a.Role != nil {
			outline.RoleName = &a.Role.Name
		}
		outlines[i] = outline
	}
	return outlines
}

func rolesEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
