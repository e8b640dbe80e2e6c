package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/cscore-lms/backend/config"
	"github.com/cscore-lms/backend/internal/dto"
	"github.com/cscore-lms/backend/internal/model"
	"github.com/cscore-lms/backend/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenClaims is what the auth middleware extracts from a verified token.
type TokenClaims struct {
	UserID uint
	Role   model.Role
}

type AuthService interface {
	Register(req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req dto.LoginRequest) (*dto.AuthResponse, error)
	ValidateToken(token string) (*TokenClaims, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set. Issued tokens will not survive a restart secret rotation.")
	}
	return &authService{userRepo: userRepo, jwtSecret: []byte(cfg.JWTSecret)}
}

func (s *authService) Register(req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, fmt.Errorf("username %q is already taken", req.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         model.RoleStudent, // self-registration is student-only
		StudentCode:  req.StudentCode,
		IsActive:     true,
	}
	if err := s.userRepo.Create(&user); err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Register: failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.buildAuthResponse(&user)
}

func (s *authService) Login(req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, errors.New("account is deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.buildAuthResponse(user)
}

func (s *authService) buildAuthResponse(user *model.User) (*dto.AuthResponse, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &dto.AuthResponse{
		Token: token,
		User: dto.UserResponse{
			ID:          user.ID,
			Username:    user.Username,
			Email:       user.Email,
			FullName:    user.FullName,
			Role:        string(user.Role),
			StudentCode: user.StudentCode,
			IsActive:    user.IsActive,
		},
	}, nil
}

func (s *authService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("invalid user_id in token")
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return nil, errors.New("invalid role in token")
	}

	return &TokenClaims{UserID: uint(userIDFloat), Role: model.Role(roleStr)}, nil
}
