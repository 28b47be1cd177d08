package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"shoppos/internal/config"
	"shoppos/internal/dto"
	"shoppos/internal/model"
	"shoppos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Token types carried in the "typ" claim.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// BcryptCost is shared with the shopctl hash-password command.
const BcryptCost = 12

type AuthService interface {
	SignUp(ctx context.Context, req dto.SignUpRequest) (*dto.LoginResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*dto.MeResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	UpdateUserRole(ctx context.Context, userID uuid.UUID, role string) (*dto.UserResponse, error)
}

type authService struct {
	repo  repository.UserRepository
	perms PermissionService
	cfg   *config.Config
}

func NewAuthService(repo repository.UserRepository, perms PermissionService, cfg *config.Config) AuthService {
	return &authService{repo: repo, perms: perms, cfg: cfg}
}

// SignUp creates a profile and signs the new user in. The first user ever
// registered becomes admin; everyone after that starts as cashier.
func (s *authService) SignUp(ctx context.Context, req dto.SignUpRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), BcryptCost)
	if err != nil {
		return nil, err
	}
	profile := &model.Profile{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
	}
	role, err := s.repo.CreateWithRole(ctx, profile)
	if errors.Is(err, repository.ErrDuplicateUsername) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	return s.issue(profile, role)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	profile, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	role, err := s.repo.RoleOf(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	return s.issue(profile, role)
}

// Refresh re-reads the role so role changes apply from the next refresh.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != TokenRefresh {
		return nil, ErrInvalidToken
	}
	userIDStr, _ := claims["user_id"].(string)
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrInvalidToken
	}

	profile, err := s.repo.FindByUserID(ctx, uid)
	if err != nil {
		return nil, ErrInvalidToken
	}
	role, err := s.repo.RoleOf(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.issue(profile, role)
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*dto.MeResponse, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	role, err := s.repo.RoleOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	pages, err := s.perms.AllowedPages(ctx, role)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{User: userToResponse(profile.UserID, profile.Username, role, profile.CreatedAt), AllowedPages: pages}, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UserResponse, len(users))
	for i, u := range users {
		resp[i] = userToResponse(u.UserID, u.Username, u.Role, u.CreatedAt)
	}
	return resp, nil
}

func (s *authService) UpdateUserRole(ctx context.Context, userID uuid.UUID, role string) (*dto.UserResponse, error) {
	if !slices.Contains(model.Roles, role) {
		return nil, ErrInvalidRole
	}
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if err := s.repo.UpsertRole(ctx, userID, role); err != nil {
		return nil, err
	}
	resp := userToResponse(profile.UserID, profile.Username, role, profile.CreatedAt)
	return &resp, nil
}

func (s *authService) issue(p *model.Profile, role string) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(p, role, TokenAccess, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(p, role, TokenRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         userToResponse(p.UserID, p.Username, role, p.CreatedAt),
	}, nil
}

func (s *authService) generateToken(p *model.Profile, role, typ string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  p.UserID.String(),
		"username": p.Username,
		"role":     role,
		"typ":      typ,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func userToResponse(id uuid.UUID, username, role string, createdAt time.Time) dto.UserResponse {
	return dto.UserResponse{
		UserID:    id.String(),
		Username:  username,
		Role:      role,
		CreatedAt: formatTime(createdAt),
	}
}
