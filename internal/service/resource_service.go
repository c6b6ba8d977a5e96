package service

import (
	"time"

	"crew-hub/internal/dto"
	"crew-hub/internal/model"
	"crew-hub/internal/repository"
)

type ResourceService interface {
	Create(req *dto.CreateResourceRequest) (*dto.ResourceResponse, error)
	Update(id int64, req *dto.UpdateResourceRequest) (*dto.ResourceResponse, error)
	GetByID(id int64) (*dto.ResourceResponse, error)
	List(query *dto.ResourceListQuery) ([]*dto.ResourceResponse, int64, error)
	Delete(id int64) error
}

type resourceService struct {
	repo     repository.ResourceRepository
	crewRepo repository.CrewRepository
}

func NewResourceService(repo repository.ResourceRepository, crewRepo repository.CrewRepository) ResourceService {
	return &resourceService{repo: repo, crewRepo: crewRepo}
}

func (s *resourceService) Create(req *dto.CreateResourceRequest) (*dto.ResourceResponse, error) {
	if req.CrewID != nil {
		if _, err := s.crewRepo.FindByID(*req.CrewID); err != nil {
			return nil, err
		}
	}

	resource := &model.Resource{
		Name:     req.Name,
		Type:     req.Type,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		CrewID:   req.CrewID,
	}
	if err := s.repo.Create(resource); err != nil {
		return nil, err
	}
	return s.GetByID(resource.ID)
}

func (s *resourceService) Update(id int64, req *dto.UpdateResourceRequest) (*dto.ResourceResponse, error) {
	resource, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		resource.Name = *req.Name
	}
	if req.Type != nil {
		resource.Type = *req.Type
	}
	if req.Quantity != nil {
		resource.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		resource.Unit = *req.Unit
	}
	if req.CrewID != nil {
		if _, err := s.crewRepo.FindByID(*req.CrewID); err != nil {
			return nil, err
		}
		resource.CrewID = req.CrewID
	}

	if err := s.repo.Update(resource); err != nil {
		return nil, err
	}
	return s.GetByID(resource.ID)
}

func (s *resourceService) GetByID(id int64) (*dto.ResourceResponse, error) {
	resource, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return toResourceResponse(resource), nil
}

func (s *resourceService) List(query *dto.ResourceListQuery) ([]*dto.ResourceResponse, int64, error) {
	resources, total, err := s.repo.List(query.GetPage(), query.GetPageSize(),
		query.Keyword, query.CrewID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*dto.ResourceResponse, len(resources))
	for i, resource := range resources {
		responses[i] = toResourceResponse(resource)
	}
	return responses, total, nil
}

func (s *resourceService) Delete(id int64) error {
	if _, err := s.repo.FindByID(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func toResourceResponse(resource *model.Resource) *dto.ResourceResponse {
	resp := &dto.ResourceResponse{
		ID:        resource.ID,
		Name:      resource.Name,
		Type:      resource.Type,
		Quantity:  resource.Quantity,
		Unit:      resource.Unit,
		CrewID:    resource.CrewID,
		CreatedAt: resource.CreatedAt.Format(time.RFC3339),
		UpdatedAt: resource.UpdatedAt.Format(time.RFC3339),
	}
	if resource.Crew != nil {
		resp.CrewName = &resource.Crew.Name
	}
	return resp
}
