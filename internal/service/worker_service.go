package service

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"crew-hub/internal/core/availability"
	"crew-hub/internal/core/roster"
	"crew-hub/internal/dto"
	"crew-hub/internal/model"
	"crew-hub/internal/pkg/auth"
	"crew-hub/internal/pkg/crypto"
	"crew-hub/internal/pkg/logger"
	"crew-hub/internal/repository"
	"crew-hub/pkg/constants"
	pkgErrors "crew-hub/pkg/errors"
	"crew-hub/pkg/utils"
)

type WorkerService interface {
	Create(req *dto.WorkerCreateRequest) (*dto.WorkerResponse, error)
	Update(id int64, req *dto.WorkerUpdateRequest) (*dto.WorkerResponse, error)
	GetByID(id int64) (*dto.WorkerResponse, error)
	List(query *dto.WorkerListQuery) ([]*dto.WorkerResponse, int64, error)
	// SetStatus 手动设置可用性状态, override 置位后派工不再自动改写
	SetStatus(id int64, req *dto.WorkerStatusRequest) (*dto.WorkerResponse, error)
	// Deactivate 离职: 停用档案, 撤销全部派工并重算受影响班组的群聊
	Deactivate(ctx context.Context, id int64) error

	AddSkill(workerID int64, req *dto.WorkerSkillRequest) (*dto.WorkerSkillResponse, error)
	ListSkills(workerID int64) ([]*dto.WorkerSkillResponse, error)
	DeleteSkill(workerID, skillID int64) error
	AddCertification(workerID int64, req *dto.WorkerCertificationRequest) (*dto.WorkerCertificationResponse, error)
	ListCertifications(workerID int64) ([]*dto.WorkerCertificationResponse, error)
	DeleteCertification(workerID, certID int64) error
	AddExperience(workerID int64, req *dto.WorkerExperienceRequest) (*dto.WorkerExperienceResponse, error)
	ListExperiences(workerID int64) ([]*dto.WorkerExperienceResponse, error)
	DeleteExperience(workerID, expID int64) error
}

type workerService struct {
	repo             repository.WorkerRepository
	userRepo         repository.UserRepository
	assignmentRepo   repository.AssignmentRepository
	conversationRepo repository.ConversationRepository
	resolver         *availability.Resolver
	synchronizer     *roster.Synchronizer
	archiver         *roster.Archiver
}

func NewWorkerService(
	repo repository.WorkerRepository,
	userRepo repository.UserRepository,
	assignmentRepo repository.AssignmentRepository,
	conversationRepo repository.ConversationRepository,
	resolver *availability.Resolver,
	synchronizer *roster.Synchronizer,
	archiver *roster.Archiver,
) WorkerService {
	return &workerService{
		repo:             repo,
		userRepo:         userRepo,
		assignmentRepo:   assignmentRepo,
		conversationRepo: conversationRepo,
		resolver:         resolver,
		synchronizer:     synchronizer,
		archiver:         archiver,
	}
}

func (s *workerService) Create(req *dto.WorkerCreateRequest) (*dto.WorkerResponse, error) {
	rut := utils.CleanRUT(req.RUT)
	if !utils.ValidRUT(rut) {
		return nil, pkgErrors.ErrInvalidRUT
	}

	existing, _ := s.repo.FindByRUT(rut)
	if existing != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeConflict,
			fmt.Sprintf("RUT %s 已登记", rut), nil)
	}

	// 自动开通登录账号: 用户名为RUT, 初始密码也是RUT
	user, err := s.provisionUser(rut, req)
	if err != nil {
		return nil, err
	}

	worker := &model.Worker{
		RUT:             rut,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		WorkerType:      req.WorkerType,
		Specialty:       req.Specialty,
		Status:          constants.WorkerStatusAvailable,
		YearsExperience: req.YearsExperience,
		UserID:          &user.ID,
		Active:          true,
	}
	if worker.BirthDate, err = parseDatePtr(req.BirthDate); err != nil {
		return nil, err
	}
	if worker.HireDate, err = parseDatePtr(req.HireDate); err != nil {
		return nil, err
	}

	if err := s.repo.Create(worker); err != nil {
		return nil, err
	}
	worker.User = user

	logger.Info("工人档案已创建",
		zap.Int64("worker_id", worker.ID),
		zap.String("rut", rut),
		zap.String("worker_type", worker.WorkerType))

	return s.toResponse(worker)
}

// provisionUser 为新工人开通本地账号, 系统角色按工人类型映射
func (s *workerService) provisionUser(rut string, req *dto.WorkerCreateRequest) (*model.User, error) {
	if existing, _ := s.userRepo.FindByUsername(constants.AuthTypeLocal, rut); existing != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeConflict,
			fmt.Sprintf("用户名 %s 已被占用", rut), nil)
	}

	hashed, err := crypto.HashPassword(rut)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeInternalError, "初始密码哈希失败", err)
	}

	user := &model.User{
		AuthProvider:    constants.AuthTypeLocal,
		Username:        rut,
		Password:        hashed,
		DisplayName:     lo.ToPtr(req.FirstName + " " + req.LastName),
		Email:           lo.ToPtr(req.Email),
		Phone:           req.Phone,
		SystemRoles:     model.StringList{string(systemRoleFor(req.WorkerType))},
		InitialPassword: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func systemRoleFor(workerType string) auth.Role {
	switch workerType {
	case constants.WorkerTypeChief:
		return auth.RoleProjectChief
	case constants.WorkerTypeLeader:
		return auth.RoleCrewLeader
	default:
		return auth.RoleWorker
	}
}

func (s *workerService) Update(id int64, req *dto.WorkerUpdateRequest) (*dto.WorkerResponse, error) {
	worker, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		worker.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		worker.LastName = *req.LastName
	}
	if req.Email != nil {
		worker.Email = *req.Email
	}
	if req.Phone != nil {
		worker.Phone = req.Phone
	}
	if req.Address != nil {
		worker.Address = req.Address
	}
	if req.Specialty != nil {
		worker.Specialty = req.Specialty
	}
	if req.YearsExperience != nil {
		worker.YearsExperience = *req.YearsExperience
	}
	if req.BirthDate != nil {
		if worker.BirthDate, err = parseDatePtr(req.BirthDate); err != nil {
			return nil, err
		}
	}
	if req.HireDate != nil {
		if worker.HireDate, err = parseDatePtr(req.HireDate); err != nil {
			return nil, err
		}
	}
	if req.WorkerType != nil && *req.WorkerType != worker.WorkerType {
		worker.WorkerType = *req.WorkerType
		// 类型变化同步到系统角色
		if worker.UserID != nil {
			if user, err := s.userRepo.FindByID(*worker.UserID); err == nil {
				user.SystemRoles = model.StringList{string(systemRoleFor(worker.WorkerType))}
				_ = s.userRepo.Update(user)
			}
		}
	}

	if err := s.repo.Update(worker); err != nil {
		return nil, err
	}
	return s.toResponse(worker)
}

func (s *workerService) GetByID(id int64) (*dto.WorkerResponse, error) {
	worker, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(worker)
}

func (s *workerService) List(query *dto.WorkerListQuery) ([]*dto.WorkerResponse, int64, error) {
	workers, total, err := s.repo.List(query.GetPage(), query.GetPageSize(),
		query.Keyword, query.WorkerType, query.Status)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*dto.WorkerResponse, 0, len(workers))
	for _, worker := range workers {
		resp, err := s.toResponse(worker)
		if err != nil {
			return nil, 0, err
		}
		if query.OnlyAssignable {
			ok, _, err := s.resolver.IsAssignable(worker, nil)
			if err != nil {
				return nil, 0, err
			}
			if !ok {
				continue
			}
		}
		responses = append(responses, resp)
	}
	return responses, total, nil
}

func (s *workerService) SetStatus(id int64, req *dto.WorkerStatusRequest) (*dto.WorkerResponse, error) {
	worker, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	worker.Status = req.Status
	worker.ManualOverride = req.Override
	if err := s.repo.Update(worker); err != nil {
		return nil, err
	}

	logger.Info("工人状态已手动设置",
		zap.Int64("worker_id", worker.ID),
		zap.String("status", req.Status),
		zap.Bool("override", req.Override))

	return s.toResponse(worker)
}

func (s *workerService) Deactivate(ctx context.Context, id int64) error {
	worker, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}

	var crewIDs []int64
	if worker.UserID != nil {
		assignments, err := s.assignmentRepo.ListByWorker(*worker.UserID)
		if err != nil {
			return err
		}
		for _, a := range assignments {
			crewIDs = append(crewIDs, a.CrewID)
			if err := s.assignmentRepo.Delete(a.ID); err != nil {
				return err
			}
		}
	}

	if err := s.repo.Deactivate(id); err != nil {
		return err
	}

	// 撤销派工后重算受影响班组的群聊
	for _, crewID := range lo.Uniq(crewIDs) {
		if err := s.synchronizer.EnsureGroupForCrew(ctx, crewID); err != nil {
			logger.Error("离职后的群聊重算失败",
				zap.Int64("crew_id", crewID), zap.Error(err))
		}
	}

	// 离职成员的私聊一并归档, 尽力而为
	if worker.UserID != nil && len(crewIDs) > 0 {
		convs, err := s.conversationRepo.ListPrivateByUser(*worker.UserID)
		if err != nil {
			logger.Warn("查询待归档私聊失败", zap.Int64("user_id", *worker.UserID), zap.Error(err))
		}
		for _, conv := range convs {
			if _, err := s.archiver.Archive(ctx, conv.ID, constants.ArchiveReasonWorkerRemoved, nil); err != nil {
				logger.Warn("归档私聊失败", zap.Int64("conversation_id", conv.ID), zap.Error(err))
			}
		}
	}

	logger.Info("工人已离职停用", zap.Int64("worker_id", id))
	return nil
}

func (s *workerService) toResponse(worker *model.Worker) (*dto.WorkerResponse, error) {
	effective, err := s.resolver.EffectiveStatus(worker)
	if err != nil {
		return nil, err
	}

	resp := &dto.WorkerResponse{
		ID:              worker.ID,
		RUT:             worker.RUT,
		FirstName:       worker.FirstName,
		LastName:        worker.LastName,
		FullName:        worker.FullName(),
		Email:           worker.Email,
		Phone:           worker.Phone,
		Address:         worker.Address,
		WorkerType:      worker.WorkerType,
		Specialty:       worker.Specialty,
		Status:          worker.Status,
		EffectiveStatus: effective,
		ManualOverride:  worker.ManualOverride,
		YearsExperience: worker.YearsExperience,
		UserID:          worker.UserID,
		Active:          worker.Active,
		CreatedAt:       worker.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       worker.UpdatedAt.Format(time.RFC3339),
	}
	resp.BirthDate = formatDatePtr(worker.BirthDate)
	resp.HireDate = formatDatePtr(worker.HireDate)
	return resp, nil
}

func (s *workerService) AddSkill(workerID int64, req *dto.WorkerSkillRequest) (*dto.WorkerSkillResponse, error) {
	if _, err := s.repo.FindByID(workerID); err != nil {
		return nil, err
	}

	skill := &model.WorkerSkill{
		WorkerID: workerID,
		Name:     req.Name,
		Level:    req.Level,
	}
	if skill.Level == "" {
		skill.Level = "basic"
	}
	var err error
	if skill.AcquiredAt, err = parseDatePtr(req.AcquiredAt); err != nil {
		return nil, err
	}
	if err := s.repo.AddSkill(skill); err != nil {
		return nil, err
	}
	return skillResponse(skill), nil
}

func (s *workerService) ListSkills(workerID int64) ([]*dto.WorkerSkillResponse, error) {
	skills, err := s.repo.ListSkills(workerID)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.WorkerSkillResponse, len(skills))
	for i, skill := range skills {
		responses[i] = skillResponse(skill)
	}
	return responses, nil
}

func (s *workerService) DeleteSkill(workerID, skillID int64) error {
	return s.repo.DeleteSkill(workerID, skillID)
}

func (s *workerService) AddCertification(workerID int64, req *dto.WorkerCertificationRequest) (*dto.WorkerCertificationResponse, error) {
	if _, err := s.repo.FindByID(workerID); err != nil {
		return nil, err
	}

	issuedAt, err := parseDate(req.IssuedAt)
	if err != nil {
		return nil, err
	}
	cert := &model.WorkerCertification{
		WorkerID: workerID,
		Name:     req.Name,
		Issuer:   req.Issuer,
		FileURL:  req.FileURL,
		IssuedAt: issuedAt,
	}
	if cert.ExpiresAt, err = parseDatePtr(req.ExpiresAt); err != nil {
		return nil, err
	}
	if err := s.repo.AddCertification(cert); err != nil {
		return nil, err
	}
	return certResponse(cert), nil
}

func (s *workerService) ListCertifications(workerID int64) ([]*dto.WorkerCertificationResponse, error) {
	certs, err := s.repo.ListCertifications(workerID)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.WorkerCertificationResponse, len(certs))
	for i, cert := range certs {
		responses[i] = certResponse(cert)
	}
	return responses, nil
}

func (s *workerService) DeleteCertification(workerID, certID int64) error {
	return s.repo.DeleteCertification(workerID, certID)
}

func (s *workerService) AddExperience(workerID int64, req *dto.WorkerExperienceRequest) (*dto.WorkerExperienceResponse, error) {
	if _, err := s.repo.FindByID(workerID); err != nil {
		return nil, err
	}

	exp := &model.WorkerExperience{
		WorkerID:        workerID,
		ProjectName:     req.ProjectName,
		ExternalCompany: req.ExternalCompany,
		RoleName:        req.RoleName,
		Rating:          req.Rating,
	}
	var err error
	if exp.StartedAt, err = parseDatePtr(req.StartedAt); err != nil {
		return nil, err
	}
	if exp.EndedAt, err = parseDatePtr(req.EndedAt); err != nil {
		return nil, err
	}
	if err := s.repo.AddExperience(exp); err != nil {
		return nil, err
	}
	return expResponse(exp), nil
}

func (s *workerService) ListExperiences(workerID int64) ([]*dto.WorkerExperienceResponse, error) {
	exps, err := s.repo.ListExperiences(workerID)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.WorkerExperienceResponse, len(exps))
	for i, exp := range exps {
		responses[i] = expResponse(exp)
	}
	return responses, nil
}

func (s *workerService) DeleteExperience(workerID, expID int64) error {
	return s.repo.DeleteExperience(workerID, expID)
}

func skillResponse(skill *model.WorkerSkill) *dto.WorkerSkillResponse {
	return &dto.WorkerSkillResponse{
		ID:         skill.ID,
		Name:       skill.Name,
		Level:      skill.Level,
		AcquiredAt: formatDatePtr(skill.AcquiredAt),
	}
}

func certResponse(cert *model.WorkerCertification) *dto.WorkerCertificationResponse {
	return &dto.WorkerCertificationResponse{
		ID:        cert.ID,
		Name:      cert.Name,
		Issuer:    cert.Issuer,
		FileURL:   cert.FileURL,
		IssuedAt:  cert.IssuedAt.Format("2006-01-02"),
		ExpiresAt: formatDatePtr(cert.ExpiresAt),
		Valid:     cert.Valid(time.Now()),
	}
}

func expResponse(exp *model.WorkerExperience) *dto.WorkerExperienceResponse {
	return &dto.WorkerExperienceResponse{
		ID:              exp.ID,
		ProjectName:     exp.ProjectName,
		ExternalCompany: exp.ExternalCompany,
		RoleName:        exp.RoleName,
		StartedAt:       formatDatePtr(exp.StartedAt),
		EndedAt:         formatDatePtr(exp.EndedAt),
		Rating:          exp.Rating,
	}
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, pkgErrors.Wrap(pkgErrors.CodeBadRequest, "日期格式必须为YYYY-MM-DD", err)
	}
	return t, nil
}

func parseDatePtr(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseDate(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format("2006-01-02")
	return &v
}
