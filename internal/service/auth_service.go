package service

import (
	"context"
	"errors"
	"time"

	"github.com/pweat/rejestr-prac/internal/config"
	"github.com/pweat/rejestr-prac/internal/dto"
	"github.com/pweat/rejestr-prac/internal/model"
	"github.com/pweat/rejestr-prac/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	UpdateRole(ctx context.Context, id uint, role string) (*dto.UserResponse, error)
}

type authService struct {
	repo repository.UserRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func mapUser(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// HashPassword returns the bcrypt hash stored in users.password_hash.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register creates a viewer account. Elevated roles are granted by an admin.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	_, err := s.repo.FindByUsername(ctx, req.Username)
	if err == nil {
		return nil, conflict("user with this username already exists.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{Username: req.Username, PasswordHash: hash, Role: model.RoleViewer}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, unique(err, "user with this username already exists.")
	}
	resp := mapUser(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &Error{Kind: ErrInvalidCredentials, Msg: "invalid username or password."}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &Error{Kind: ErrInvalidCredentials, Msg: "invalid username or password."}
	}

	ttl := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	token, err := GenerateToken(user, s.cfg.JWTSecret, ttl)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: int(ttl.Seconds()),
		User:      mapUser(user),
	}, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = mapUser(&users[i])
	}
	return resp, nil
}

func (s *authService) UpdateRole(ctx context.Context, id uint, role string) (*dto.UserResponse, error) {
	if !model.ValidRole(role) {
		return nil, validationf("unknown role %q.", role)
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, lookup(err, "user")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "user")
	}
	resp := mapUser(user)
	return &resp, nil
}

// GenerateToken signs an HS256 token carrying the user's id, name and role.
func GenerateToken(user *model.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
