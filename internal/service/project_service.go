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

type ProjectService interface {
	Create(req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	Update(id int64, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	GetByID(id int64) (*dto.ProjectResponse, error)
	List(query *dto.ProjectListQuery) ([]*dto.ProjectResponse, int64, error)
	// AssignCrew 把未挂靠的班组挂到项目上, 班组长冲突时拒绝
	AssignCrew(projectID int64, req *dto.AssignCrewRequest) error
	// ReleaseCrew 把班组从项目上摘下, 班组和派工保持不动
	ReleaseCrew(projectID, crewID int64) error
	// Finalize 终结项目: 停用项目, 归档各班组群聊, 释放班组回未挂靠状态
	Finalize(ctx context.Context, id int64, operatorID int64) error
	// Panel 工作台概览, 可用人数按项目占用口径统计
	Panel() (*dto.PanelResponse, error)
}

type projectService struct {
	repo             repository.ProjectRepository
	crewRepo         repository.CrewRepository
	workerRepo       repository.WorkerRepository
	assignmentRepo   repository.AssignmentRepository
	requestRepo      repository.WorkerRequestRepository
	incidentRepo     repository.IncidentRepository
	conversationRepo repository.ConversationRepository
	resolver         *availability.Resolver
	archiver         *roster.Archiver
	notifier         NotificationService
}

func NewProjectService(
	repo repository.ProjectRepository,
	crewRepo repository.CrewRepository,
	workerRepo repository.WorkerRepository,
	assignmentRepo repository.AssignmentRepository,
	requestRepo repository.WorkerRequestRepository,
	incidentRepo repository.IncidentRepository,
	conversationRepo repository.ConversationRepository,
	resolver *availability.Resolver,
	archiver *roster.Archiver,
	notifier NotificationService,
) ProjectService {
	return &projectService{
		repo:             repo,
		crewRepo:         crewRepo,
		workerRepo:       workerRepo,
		assignmentRepo:   assignmentRepo,
		requestRepo:      requestRepo,
		incidentRepo:     incidentRepo,
		conversationRepo: conversationRepo,
		resolver:         resolver,
		archiver:         archiver,
		notifier:         notifier,
	}
}

func (s *projectService) Create(req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if existing, _ := s.repo.FindByName(req.Name); existing != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeConflict, "项目名称已存在", nil)
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	project := &model.Project{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Complexity:  req.Complexity,
		StartDate:   startDate,
		ChiefID:     req.ChiefID,
		Active:      true,
	}
	if project.EndDate, err = parseDatePtr(req.EndDate); err != nil {
		return nil, err
	}

	if err := s.repo.Create(project); err != nil {
		return nil, err
	}

	logger.Info("项目已创建",
		zap.Int64("project_id", project.ID),
		zap.String("name", project.Name))

	return s.GetByID(project.ID)
}

func (s *projectService) Update(id int64, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !project.Active {
		return nil, pkgErrors.ErrProjectFinalized
	}

	if req.Name != nil && *req.Name != project.Name {
		if existing, _ := s.repo.FindByName(*req.Name); existing != nil {
			return nil, pkgErrors.Wrap(pkgErrors.CodeConflict, "项目名称已存在", nil)
		}
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = req.Description
	}
	if req.Type != nil {
		project.Type = *req.Type
	}
	if req.Complexity != nil {
		project.Complexity = *req.Complexity
	}
	if req.StartDate != nil {
		if project.StartDate, err = parseDate(*req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if project.EndDate, err = parseDatePtr(req.EndDate); err != nil {
			return nil, err
		}
	}
	if req.ChiefID != nil {
		project.ChiefID = *req.ChiefID
	}

	if err := s.repo.Update(project); err != nil {
		return nil, err
	}
	return s.GetByID(project.ID)
}

func (s *projectService) GetByID(id int64) (*dto.ProjectResponse, error) {
	project, err := s.repo.FindByID(id, repository.WithPreload("Chief"))
	if err != nil {
		return nil, err
	}
	crews, err := s.crewRepo.ListByProjectID(id)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(project, crews), nil
}

func (s *projectService) List(query *dto.ProjectListQuery) ([]*dto.ProjectResponse, int64, error) {
	projects, total, err := s.repo.List(query.GetPage(), query.GetPageSize(),
		query.Keyword, query.Active)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*dto.ProjectResponse, len(projects))
	for i, project := range projects {
		responses[i] = toProjectResponse(project, nil)
	}
	return responses, total, nil
}

func (s *projectService) Finalize(ctx context.Context, id int64, operatorID int64) error {
	project, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if !project.Active {
		return pkgErrors.ErrProjectFinalized
	}

	crews, err := s.crewRepo.ListByProjectID(id)
	if err != nil {
		return err
	}

	// 先归档各班组群聊, 快照里保留项目期间的完整对话
	for _, crew := range crews {
		conv, _ := s.conversationRepo.FindGroupByCrewID(crew.ID)
		if conv != nil && !conv.Archived {
			if _, err := s.archiver.Archive(ctx, conv.ID,
				constants.ArchiveReasonProjectFinalized, &operatorID); err != nil {
				return err
			}
		}

		// 释放班组: 解除挂靠, 班组和花名册原样保留
		crew.ProjectID = nil
		if err := s.crewRepo.Update(crew); err != nil {
			return err
		}

		assignments, err := s.assignmentRepo.ListByCrew(crew.ID)
		if err != nil {
			return err
		}
		for _, a := range assignments {
			s.notifier.Notify(lo.ToPtr(a.WorkerUserID),
				"项目 "+project.Name+" 已终结, 班组 "+crew.Name+" 已释放")
		}
	}

	now := time.Now()
	project.Active = false
	if project.EndDate == nil {
		project.EndDate = &now
	}
	if err := s.repo.Update(project); err != nil {
		return err
	}

	logger.Info("项目已终结",
		zap.Int64("project_id", id),
		zap.String("name", project.Name),
		zap.Int("crews_released", len(crews)),
		zap.Int64("operator_id", operatorID))

	return nil
}

func (s *projectService) AssignCrew(projectID int64, req *dto.AssignCrewRequest) error {
	project, err := s.repo.FindByID(projectID)
	if err != nil {
		return err
	}
	if !project.Active {
		return pkgErrors.ErrProjectFinalized
	}

	crew, err := s.crewRepo.FindByID(req.CrewID)
	if err != nil {
		return err
	}
	if crew.ProjectID != nil {
		if *crew.ProjectID == projectID {
			return nil
		}
		return pkgErrors.Wrap(pkgErrors.CodeConflict, "班组已挂靠其他项目", nil)
	}

	// 挂靠后班组长即进入占用状态, 挂靠前先校验冲突
	if crew.LeaderID != nil {
		free, err := s.resolver.LeaderAvailable(*crew.LeaderID, &crew.ID)
		if err != nil {
			return err
		}
		if !free {
			return pkgErrors.ErrLeaderConflict
		}
	}

	crew.ProjectID = &projectID
	if err := s.crewRepo.Update(crew); err != nil {
		return err
	}

	logger.Info("班组已挂靠项目",
		zap.Int64("project_id", projectID),
		zap.Int64("crew_id", crew.ID))
	return nil
}

func (s *projectService) ReleaseCrew(projectID, crewID int64) error {
	if _, err := s.repo.FindByID(projectID); err != nil {
		return err
	}
	crew, err := s.crewRepo.FindByID(crewID)
	if err != nil {
		return err
	}
	if crew.ProjectID == nil || *crew.ProjectID != projectID {
		return pkgErrors.Wrap(pkgErrors.CodeBadRequest, "班组未挂靠该项目", nil)
	}

	// 只解除挂靠, 班组和花名册原样保留
	crew.ProjectID = nil
	if err := s.crewRepo.Update(crew); err != nil {
		return err
	}

	logger.Info("班组已脱离项目",
		zap.Int64("project_id", projectID),
		zap.Int64("crew_id", crewID))
	return nil
}

func (s *projectService) Panel() (*dto.PanelResponse, error) {
	totalWorkers, err := s.workerRepo.CountActive()
	if err != nil {
		return nil, err
	}
	committedIDs, err := s.assignmentRepo.CommittedUserIDs()
	if err != nil {
		return nil, err
	}
	committedWorkers, err := s.workerRepo.ListByUserIDs(committedIDs)
	if err != nil {
		return nil, err
	}
	activeProjects, err := s.repo.CountActive()
	if err != nil {
		return nil, err
	}
	totalCrews, err := s.crewRepo.CountAll()
	if err != nil {
		return nil, err
	}
	pendingRequests, err := s.requestRepo.CountPending()
	if err != nil {
		return nil, err
	}
	openIncidents, err := s.incidentRepo.CountOpen()
	if err != nil {
		return nil, err
	}

	committed := int64(len(committedWorkers))
	return &dto.PanelResponse{
		TotalWorkers:     totalWorkers,
		AvailableWorkers: totalWorkers - committed,
		CommittedWorkers: committed,
		ActiveProjects:   activeProjects,
		TotalCrews:       totalCrews,
		PendingRequests:  pendingRequests,
		OpenIncidents:    openIncidents,
	}, nil
}

func toProjectResponse(project *model.Project, crews []*model.Crew) *dto.ProjectResponse {
	resp := &dto.ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Type:        project.Type,
		Complexity:  project.Complexity,
		StartDate:   project.StartDate.Format("2006-01-02"),
		EndDate:     formatDatePtr(project.EndDate),
		ChiefID:     project.ChiefID,
		Active:      project.Active,
		CreatedAt:   project.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   project.UpdatedAt.Format(time.RFC3339),
	}
	if project.Chief != nil {
		resp.ChiefName = lo.ToPtr(project.Chief.FullDisplayName())
	}
	for _, crew := range crews {
		resp.Crews = append(resp.Crews, dto.CrewSimpleResponse{
			ID:        crew.ID,
			Name:      crew.Name,
			ProjectID: crew.ProjectID,
		})
	}
	return resp
}
