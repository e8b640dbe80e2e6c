package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/cscore-lms/backend/internal/dto"
	"github.com/cscore-lms/backend/internal/middleware"
	"github.com/cscore-lms/backend/internal/service"
)

type NotificationController struct {
	notificationService service.NotificationService
}

func NewNotificationController(notificationService service.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// ListMyNotifications godoc
// @Summary List the caller's notification feed
// @Tags Notifications
// @Produce json
// @Param unread query bool false "Unread entries only"
// @Success 200 {object} dto.NotificationFeedResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /notifications [get]
func (c *NotificationController) ListMyNotifications(ctx *gin.Context) {
	unreadOnly := ctx.Query("unread") == "true"
	resp, err := c.notificationService.ListMyNotifications(middleware.UserID(ctx), unreadOnly)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list notifications")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list notifications"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetNotification godoc
// @Summary Read a single notification
// @Description Marks the entry read on first view.
// @Tags Notifications
// @Produce json
// @Param notification_id path int true "Notification ID"
// @Success 200 {object} dto.NotificationResponse
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Security BearerAuth
// @Router /notifications/{notification_id} [get]
func (c *NotificationController) GetNotification(ctx *gin.Context) {
	id, ok := notificationID(ctx)
	if !ok {
		return
	}
	resp, err := c.notificationService.GetNotification(middleware.UserID(ctx), id)
	if err != nil {
		writeNotificationError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UnreadCount godoc
// @Summary Unread notification count
// @Tags Notifications
// @Produce json
// @Success 200 {object} map[string]int64
// @Security BearerAuth
// @Router /notifications/unread-count [get]
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	count, err := c.notificationService.UnreadCount(middleware.UserID(ctx))
	if err != nil {
		log.Error().Err(err).Msg("Failed to count unread notifications")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to count notifications"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// MarkNotifications godoc
// @Summary Mark notifications read or unread
// @Tags Notifications
// @Accept json
// @Param body body dto.MarkNotificationsRequest true "Entry ids and target state"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /notifications [patch]
func (c *NotificationController) MarkNotifications(ctx *gin.Context) {
	var req dto.MarkNotificationsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.notificationService.MarkNotifications(middleware.UserID(ctx), req); err != nil {
		writeNotificationError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// MarkAllRead godoc
// @Summary Mark the whole feed read
// @Tags Notifications
// @Success 204
// @Security BearerAuth
// @Router /notifications/read-all [post]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	if err := c.notificationService.MarkAllRead(middleware.UserID(ctx)); err != nil {
		writeNotificationError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// DeleteNotification godoc
// @Summary Delete a notification
// @Tags Notifications
// @Param notification_id path int true "Notification ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Security BearerAuth
// @Router /notifications/{notification_id} [delete]
func (c *NotificationController) DeleteNotification(ctx *gin.Context) {
	id, ok := notificationID(ctx)
	if !ok {
		return
	}
	if err := c.notificationService.DeleteNotification(middleware.UserID(ctx), id); err != nil {
		writeNotificationError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Announce godoc
// @Summary (Teacher) Announce to a course
// @Description Pushes a notification to every student enrolled in the course.
// @Tags Teacher - Courses
// @Accept json
// @Param course_id path int true "Course ID"
// @Param body body dto.AnnouncementRequest true "Announcement"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse "Course belongs to another teacher"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /teacher/courses/{course_id}/announcements [post]
func (c *NotificationController) Announce(ctx *gin.Context) {
	courseID, err := strconv.ParseUint(ctx.Param("course_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid course id"})
		return
	}
	var req dto.AnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.notificationService.AnnounceToCourse(middleware.UserID(ctx), uint(courseID), req); err != nil {
		writeNotificationError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func notificationID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("notification_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid notification id"})
		return 0, false
	}
	return uint(id), true
}

func writeNotificationError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotificationNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Notification not found"})
	case errors.Is(err, service.ErrCourseNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Course not found"})
	case errors.Is(err, service.ErrNotCourseOwner):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "Course belongs to another teacher"})
	default:
		log.Error().Err(err).Msg("Notification operation failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Notification operation failed"})
	}
}
