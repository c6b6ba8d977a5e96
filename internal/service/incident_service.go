package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"crew-hub/internal/adapter/notification"
	"crew-hub/internal/dto"
	"crew-hub/internal/model"
	"crew-hub/internal/pkg/logger"
	"crew-hub/internal/repository"
	"crew-hub/pkg/constants"
	pkgErrors "crew-hub/pkg/errors"
)

type IncidentService interface {
	// Create 现场事故上报; 高危事故立即向外部渠道推送并通知项目主管
	Create(ctx context.Context, reporterID int64, req *dto.CreateIncidentRequest) (*dto.IncidentResponse, error)
	Acknowledge(id int64) (*dto.IncidentResponse, error)
	GetByID(id int64) (*dto.IncidentResponse, error)
	List(query *dto.IncidentListQuery) ([]*dto.IncidentResponse, int64, error)
}

type incidentService struct {
	repo             repository.IncidentRepository
	crewRepo         repository.CrewRepository
	projectRepo      repository.ProjectRepository
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	notifier         NotificationService
	external         notification.Notifier
}

func NewIncidentService(
	repo repository.IncidentRepository,
	crewRepo repository.CrewRepository,
	projectRepo repository.ProjectRepository,
	conversationRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
	external notification.Notifier,
) IncidentService {
	return &incidentService{
		repo:             repo,
		crewRepo:         crewRepo,
		projectRepo:      projectRepo,
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		notifier:         notifier,
		external:         external,
	}
}

func (s *incidentService) Create(ctx context.Context, reporterID int64, req *dto.CreateIncidentRequest) (*dto.IncidentResponse, error) {
	reporter, err := s.userRepo.FindByID(reporterID)
	if err != nil {
		return nil, err
	}

	incident := &model.IncidentNotice{
		CrewID:      req.CrewID,
		ReporterID:  &reporterID,
		Description: req.Description,
		Severity:    req.Severity,
	}
	if err := s.repo.Create(incident); err != nil {
		return nil, err
	}

	var crew *model.Crew
	if req.CrewID != nil {
		if crew, err = s.crewRepo.FindByID(*req.CrewID); err != nil {
			return nil, err
		}
		s.postGroupMessage(crew.ID,
			reporter.FullDisplayName()+" 上报了事故: "+req.Description)
		s.notifier.Notify(crew.LeaderID, "班组 "+crew.Name+" 有新的事故上报")
	}

	notifyType := notification.NotifyIncidentReported
	if req.Severity == constants.IncidentSeverityHigh {
		notifyType = notification.NotifyIncidentHigh
		s.alertChief(crew, req.Description)
	}
	if err := s.external.Send(ctx, &notification.NotificationMessage{
		Type:      notifyType,
		Title:     "事故上报 [" + req.Severity + "]",
		Content:   req.Description,
		Timestamp: time.Now(),
		Extra:     map[string]interface{}{"incident_id": incident.ID},
	}); err != nil {
		logger.Error("外部通知发送失败", zap.Error(err))
	}

	logger.Info("事故已上报",
		zap.Int64("incident_id", incident.ID),
		zap.String("severity", req.Severity),
		zap.Int64("reporter_id", reporterID))

	return s.GetByID(incident.ID)
}

// alertChief 高危事故直达项目主管
func (s *incidentService) alertChief(crew *model.Crew, description string) {
	if crew == nil || crew.ProjectID == nil {
		return
	}
	project, err := s.projectRepo.FindByID(*crew.ProjectID)
	if err != nil {
		logger.Error("查询事故所属项目失败", zap.Error(err))
		return
	}
	s.notifier.Notify(&project.ChiefID,
		"高危事故: 项目 "+project.Name+" 班组 "+crew.Name+" 上报 "+description)
}

func (s *incidentService) Acknowledge(id int64) (*dto.IncidentResponse, error) {
	incident, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if incident.Acknowledged {
		return nil, pkgErrors.Wrap(pkgErrors.CodeConflict, "事故已确认过", nil)
	}

	incident.Acknowledged = true
	if err := s.repo.Update(incident); err != nil {
		return nil, err
	}
	return s.toResponse(incident), nil
}

func (s *incidentService) GetByID(id int64) (*dto.IncidentResponse, error) {
	incident, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(incident), nil
}

func (s *incidentService) List(query *dto.IncidentListQuery) ([]*dto.IncidentResponse, int64, error) {
	incidents, total, err := s.repo.List(query.GetPage(), query.GetPageSize(),
		query.Severity, query.Acknowledged, query.CrewID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*dto.IncidentResponse, len(incidents))
	for i, incident := range incidents {
		responses[i] = s.toResponse(incident)
	}
	return responses, total, nil
}

func (s *incidentService) postGroupMessage(crewID int64, content string) {
	conv, _ := s.conversationRepo.FindGroupByCrewID(crewID)
	if conv == nil || conv.Archived {
		return
	}
	msg := &model.Message{
		ConversationID: conv.ID,
		Content:        content,
		Type:           constants.MessageTypeIncident,
	}
	if err := s.conversationRepo.CreateMessage(msg); err != nil {
		logger.Error("写入群聊系统消息失败",
			zap.Int64("crew_id", crewID), zap.Error(err))
	}
}

func (s *incidentService) toResponse(incident *model.IncidentNotice) *dto.IncidentResponse {
	resp := &dto.IncidentResponse{
		ID:           incident.ID,
		CrewID:       incident.CrewID,
		ReporterID:   incident.ReporterID,
		ReporterName: constants.SystemSenderName,
		Description:  incident.Description,
		Severity:     incident.Severity,
		Acknowledged: incident.Acknowledged,
		CreatedAt:    incident.CreatedAt.Format(time.RFC3339),
	}
	if incident.Reporter != nil {
		resp.ReporterName = incident.Reporter.FullDisplayName()
	}
	if incident.Crew != nil {
		resp.CrewName = &incident.Crew.Name
	}
	return resp
}
