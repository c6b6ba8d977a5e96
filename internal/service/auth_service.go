package service

import (
	"github.com/samber/lo"

	"crew-hub/internal/dto"
	"crew-hub/internal/model"
	"crew-hub/internal/pkg/auth"
	"crew-hub/internal/pkg/config"
	"crew-hub/internal/pkg/crypto"
	"crew-hub/internal/pkg/jwt"
	"crew-hub/internal/repository"
	"crew-hub/pkg/constants"
	pkgErrors "crew-hub/pkg/errors"
)

type AuthService interface {
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	RefreshToken(refreshToken string) (*dto.LoginResponse, error)
	ChangePassword(userID int64, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg      *config.AuthConfig
	userRepo repository.UserRepository
	ldap     LDAPService
}

func NewAuthService(cfg *config.AuthConfig, userRepo repository.UserRepository, ldap LDAPService) AuthService {
	return &authService{
		cfg:      cfg,
		userRepo: userRepo,
		ldap:     ldap,
	}
}

func (s *authService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	var user *model.User
	var err error

	switch req.AuthType {
	case constants.AuthTypeLDAP:
		if !s.cfg.LDAP.Enabled {
			return nil, pkgErrors.New(pkgErrors.CodeAuthError, "LDAP认证未启用")
		}
		info, err := s.ldap.Authenticate(req.Username, req.Password)
		if err != nil {
			return nil, err
		}
		user, err = s.syncLDAPUser(info)
		if err != nil {
			return nil, err
		}

	case constants.AuthTypeLocal:
		if !s.cfg.Local.Enabled {
			return nil, pkgErrors.New(pkgErrors.CodeAuthError, "本地认证未启用")
		}
		user, err = s.authenticateLocal(req.Username, req.Password)
		if err != nil {
			return nil, err
		}

	default:
		return nil, pkgErrors.New(pkgErrors.CodeBadRequest, "不支持的认证类型")
	}

	return s.issueTokens(user)
}

func (s *authService) authenticateLocal(username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(constants.AuthTypeLocal, username)
	if err != nil {
		if err == pkgErrors.ErrUserNotFound {
			return nil, pkgErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Status != constants.StatusEnabled {
		return nil, pkgErrors.ErrUserDisabled
	}

	if !crypto.CheckPassword(password, user.Password) {
		return nil, pkgErrors.ErrInvalidCredentials
	}

	_ = s.userRepo.UpdateLastLogin(user.ID)
	return user, nil
}

// syncLDAPUser LDAP用户首次登录时落库, 默认授予普通工人角色
func (s *authService) syncLDAPUser(info *dto.UserInfo) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(constants.AuthTypeLDAP, info.Username)
	if err != nil {
		if err != pkgErrors.ErrUserNotFound {
			return nil, err
		}
		user = &model.User{
			AuthProvider: constants.AuthTypeLDAP,
			Username:     info.Username,
			Password:     "",
			DisplayName:  lo.ToPtr(info.DisplayName),
			Email:        lo.ToPtr(info.Email),
			SystemRoles:  model.StringList{string(auth.RoleWorker)},
		}
		if err = s.userRepo.Create(user); err != nil {
			return nil, err
		}
	}

	_ = s.userRepo.UpdateLastLogin(user.ID)
	return user, nil
}

func (s *authService) issueTokens(user *model.User) (*dto.LoginResponse, error) {
	email := ""
	if user.Email != nil {
		email = *user.Email
	}

	accessToken, err := jwt.GenerateAccessToken(user.ID, user.Username, email, user.FullDisplayName(), user.AuthProvider)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeInternalError, "生成AccessToken失败", err)
	}
	refreshToken, err := jwt.GenerateRefreshToken(user.ID, user.Username, email, user.FullDisplayName(), user.AuthProvider)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeInternalError, "生成RefreshToken失败", err)
	}

	return &dto.LoginResponse{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		ExpiresIn:       s.cfg.JWT.AccessTokenExpire,
		InitialPassword: user.InitialPassword,
		User: &dto.UserInfo{
			ID:          user.ID,
			Username:    user.Username,
			Email:       email,
			DisplayName: user.FullDisplayName(),
			AuthType:    user.AuthProvider,
			SystemRoles: user.SystemRoles,
		},
	}, nil
}

func (s *authService) RefreshToken(refreshToken string) (*dto.LoginResponse, error) {
	claims, err := jwt.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != constants.JWTTypeRefresh {
		return nil, pkgErrors.New(pkgErrors.CodeUnauthorized, "无效的RefreshToken")
	}

	// 重新加载用户, 同时获取最新角色与状态
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user.Status != constants.StatusEnabled {
		return nil, pkgErrors.ErrUserDisabled
	}

	return s.issueTokens(user)
}

// ChangePassword 修改本地账号密码, 成功后清掉初始密码标记
func (s *authService) ChangePassword(userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user.AuthProvider != constants.AuthTypeLocal {
		return pkgErrors.New(pkgErrors.CodeBadRequest, "LDAP用户不能在此修改密码")
	}
	if !crypto.CheckPassword(req.OldPassword, user.Password) {
		return pkgErrors.ErrInvalidCredentials
	}

	hashed, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeInternalError, "密码哈希失败", err)
	}
	user.Password = hashed
	user.InitialPassword = false
	return s.userRepo.Update(user)
}
