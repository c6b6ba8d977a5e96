package service

import (
	"time"

	"crew-hub/internal/dto"
	"crew-hub/internal/model"
	"crew-hub/internal/repository"
)

type UserService interface {
	Search(query *dto.UserSearchQuery) ([]*dto.UserSimpleResponse, int64, error)
	GetByID(id int64) (*dto.UserResponse, error)
	UpdateRoles(id int64, req *dto.UserUpdateRolesRequest) (*dto.UserResponse, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Search(query *dto.UserSearchQuery) ([]*dto.UserSimpleResponse, int64, error) {
	users, total, err := s.repo.Search(query.GetPage(), query.GetPageSize(), query.Keyword)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*dto.UserSimpleResponse, len(users))
	for i, user := range users {
		responses[i] = &dto.UserSimpleResponse{
			ID:          user.ID,
			Username:    user.Username,
			DisplayName: user.DisplayName,
			Email:       user.Email,
		}
	}
	return responses, total, nil
}

func (s *userService) GetByID(id int64) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(user), nil
}

func (s *userService) UpdateRoles(id int64, req *dto.UserUpdateRolesRequest) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	user.SystemRoles = req.SystemRoles
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return s.toResponse(user), nil
}

func (s *userService) toResponse(user *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:              user.ID,
		Username:        user.Username,
		AuthProvider:    user.AuthProvider,
		DisplayName:     user.DisplayName,
		Email:           user.Email,
		Phone:           user.Phone,
		SystemRoles:     user.SystemRoles,
		InitialPassword: user.InitialPassword,
		Status:          user.Status,
		CreatedAt:       user.CreatedAt.Format(time.RFC3339),
	}
	if user.LastLoginAt != nil {
		v := user.LastLoginAt.Format(time.RFC3339)
		resp.LastLoginAt = &v
	}
	return resp
}
