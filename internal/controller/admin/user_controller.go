package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/cscore-lms/backend/internal/dto"
	"github.com/cscore-lms/backend/internal/model"
	"github.com/cscore-lms/backend/internal/service"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

// CreateUser godoc
// @Summary (Admin) Create a user account
// @Description Create an account with any role, including teachers and admins.
// @Tags Admin - Users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 409 {object} dto.ErrorResponse "Username or email already taken"
// @Security BearerAuth
// @Router /admin/users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.userService.CreateUser(req)
	if err != nil {
		log.Warn().Err(err).Str("username", req.Username).Msg("Admin user creation failed")
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListUsers godoc
// @Summary (Admin) List users
// @Description List all accounts, optionally filtered by role.
// @Tags Admin - Users
// @Produce json
// @Param role query string false "Role filter" Enums(STUDENT, TEACHER, ADMIN)
// @Success 200 {array} dto.UserResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	var role *model.Role
	if q := ctx.Query("role"); q != "" {
		r := model.Role(q)
		role = &r
	}
	resp, err := c.userService.ListUsers(role)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list users"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateUserStatus godoc
// @Summary (Admin) Activate or deactivate a user
// @Tags Admin - Users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Param status body dto.UpdateUserStatusRequest true "New status"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /admin/users/{user_id}/status [put]
func (c *UserController) UpdateUserStatus(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("user_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user ID format"})
		return
	}
	var req dto.UpdateUserStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.userService.SetUserStatus(uint(userID), req.IsActive)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "User not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update user status"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
