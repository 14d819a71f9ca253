package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/domain"
	"github.com/PT-GSA/ai-cms-backend/internal/repository"
	pkgjwt "github.com/PT-GSA/ai-cms-backend/pkg/jwt"
)

// TokenPair access and refresh tokens issued together
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService handles login, token refresh and user management
type AuthService interface {
	Login(req *domain.LoginRequest) (*TokenPair, *domain.User, error)
	Refresh(refreshToken string) (*TokenPair, error)
	Me(userID uuid.UUID) (*domain.User, error)
	CreateUser(req *domain.CreateUserRequest) (*domain.User, error)
	ListUsers(page, limit int) ([]*domain.User, *common.Meta, error)
}

type authService struct {
	users repository.UserRepository
	jwt   *pkgjwt.Manager
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserRepository, jwtManager *pkgjwt.Manager) AuthService {
	return &authService{users: users, jwt: jwtManager}
}

func (s *authService) Login(req *domain.LoginRequest) (*TokenPair, *domain.User, error) {
	user, err := s.users.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, common.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, common.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, common.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (s *authService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.VerifyToken(refreshToken)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrInvalidToken
	}

	return s.issueTokens(user)
}

func (s *authService) Me(userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) CreateUser(req *domain.CreateUserRequest) (*domain.User, error) {
	role := req.Role
	if role == "" {
		role = domain.RoleViewer
	}
	switch role {
	case domain.RoleAdmin, domain.RoleEditor, domain.RoleViewer:
	default:
		return nil, fmt.Errorf("%w: unknown role: %s", common.ErrInvalidInput, role)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.ErrUserAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) ListUsers(page, limit int) ([]*domain.User, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := s.users.List(page, limit)
	if err != nil {
		return nil, nil, err
	}
	return users, common.NewMeta(page, limit, total), nil
}

func (s *authService) issueTokens(user *domain.User) (*TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID.String(), user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
