package teacher

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

type CourseController struct {
	courseService service.CourseService
}

func NewCourseController(courseService service.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// CreateCourse godoc
// @Summary (Teacher) Create a course
// @Tags Teacher - Courses
// @Accept json
// @Produce json
// @Param course body dto.CreateCourseRequest true "Course details"
// @Success 201 {object} dto.CourseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /teacher/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.courseService.CreateCourse(middleware.UserID(ctx), req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create course")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListMyCourses godoc
// @Summary (Teacher) List own courses
// @Tags Teacher - Courses
// @Produce json
// @Success 200 {array} dto.CourseResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /teacher/courses [get]
func (c *CourseController) ListMyCourses(ctx *gin.Context) {
	resp, err := c.courseService.ListTeacherCourses(middleware.UserID(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list courses"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateCourse godoc
// @Summary (Teacher) Update a course
// @Tags Teacher - Courses
// @Accept json
// @Produce json
// @Param course_id path int true "Course ID"
// @Param course body dto.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} dto.CourseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Course belongs to another teacher"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /teacher/courses/{course_id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	courseID, err := strconv.ParseUint(ctx.Param("course_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid course ID format"})
		return
	}
	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.courseService.UpdateCourse(middleware.UserID(ctx), uint(courseID), req)
	if err != nil {
		writeCourseError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteCourse godoc
// @Summary (Teacher) Delete a course
// @Tags Teacher - Courses
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse "Course belongs to another teacher"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /teacher/courses/{course_id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	courseID, err := strconv.ParseUint(ctx.Param("course_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid course ID format"})
		return
	}
	if err := c.courseService.DeleteCourse(middleware.UserID(ctx), uint(courseID)); err != nil {
		writeCourseError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// EnrollStudent godoc
// @Summary (Teacher) Enroll a student in a course
// @Tags Teacher - Courses
// @Accept json
// @Produce json
// @Param course_id path int true "Course ID"
// @Param enrollment body dto.EnrollStudentRequest true "Student to enroll"
// @Success 200 "Enrolled"
// @Failure 400 {object} dto.ErrorResponse "Invalid input or course full"
// @Failure 403 {object} dto.ErrorResponse "Course belongs to another teacher"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /teacher/courses/{course_id}/students [post]
func (c *CourseController) EnrollStudent(ctx *gin.Context) {
	courseID, err := strconv.ParseUint(ctx.Param("course_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid course ID format"})
		return
	}
	var req dto.EnrollStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.courseService.EnrollStudent(middleware.UserID(ctx), uint(courseID), req.StudentID); err != nil {
		if errors.Is(err, service.ErrCourseFull) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
			return
		}
		writeCourseError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
}

func writeCourseError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Course not found"})
	case errors.Is(err, service.ErrNotCourseOwner):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "Course belongs to another teacher"})
	default:
		log.Error().Err(err).Msg("Course operation failed")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	}
}
