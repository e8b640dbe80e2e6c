package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cscore-lms/backend/internal/dto"
	"github.com/cscore-lms/backend/internal/model"
	"github.com/cscore-lms/backend/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// UserService covers the administrative user operations. Self-service
// registration and login live in AuthService.
type UserService interface {
	CreateUser(req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(role *model.Role) ([]dto.UserResponse, error)
	SetUserStatus(userID uint, active bool) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(req dto.CreateUserRequest) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := model.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         model.Role(req.Role),
		StudentCode:  req.StudentCode,
		IsActive:     true,
	}
	if err := s.userRepo.Create(&user); err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return userToResponse(&user)
}

func (s *userService) ListUsers(role *model.Role) ([]dto.UserResponse, error) {
	users, err := s.userRepo.FindAll(role)
	if err != nil {
		return nil, err
	}
	resps := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		r, err := userToResponse(&users[i])
		if err != nil {
			return nil, err
		}
		resps = append(resps, *r)
	}
	return resps, nil
}

func (s *userService) SetUserStatus(userID uint, active bool) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.IsActive = active
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	return userToResponse(user)
}

func userToResponse(user *model.User) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := copier.Copy(&resp, user); err != nil {
		return nil, fmt.Errorf("failed to map user response: %w", err)
	}
	resp.Role = string(user.Role)
	return &resp, nil
}
