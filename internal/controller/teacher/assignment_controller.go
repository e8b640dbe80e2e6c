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

type AssignmentController struct {
	assignmentService service.AssignmentService
	submissionService service.SubmissionService
}

func NewAssignmentController(assignmentService service.AssignmentService, submissionService service.SubmissionService) *AssignmentController {
	return &AssignmentController{
		assignmentService: assignmentService,
		submissionService: submissionService,
	}
}

// CreateAssignment godoc
// @Summary (Teacher) Create an assignment with its questions
// @Description Questions, options and test cases are created in one request. Choice questions need at least two options with one correct; true/false exactly two with one correct.
// @Tags Teacher - Assignments
// @Accept json
// @Produce json
// @Param course_id path int true "Course ID"
// @Param assignment body dto.CreateAssignmentRequest true "Assignment details"
// @Success 201 {object} dto.AssignmentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Course belongs to another teacher"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /teacher/courses/{course_id}/assignments [post]
func (c *AssignmentController) CreateAssignment(ctx *gin.Context) {
	courseID, err := strconv.ParseUint(ctx.Param("course_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid course ID format"})
		return
	}
	var req dto.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.assignmentService.CreateAssignment(middleware.UserID(ctx), uint(courseID), req)
	if err != nil {
		writeAssignmentError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListCourseAssignments godoc
// @Summary (Teacher) List a course's assignments
// @Tags Teacher - Assignments
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {array} dto.AssignmentResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /teacher/courses/{course_id}/assignments [get]
func (c *AssignmentController) ListCourseAssignments(ctx *gin.Context) {
	courseID, err := strconv.ParseUint(ctx.Param("course_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid course ID format"})
		return
	}
	resp, err := c.assignmentService.ListCourseAssignments(uint(courseID))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list assignments"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetAssignment godoc
// @Summary (Teacher) Get an assignment with questions, options and test cases
// @Tags Teacher - Assignments
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Security BearerAuth
// @Router /teacher/assignments/{assignment_id} [get]
func (c *AssignmentController) GetAssignment(ctx *gin.Context) {
	assignmentID, err := strconv.ParseUint(ctx.Param("assignment_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid assignment ID format"})
		return
	}
	resp, err := c.assignmentService.GetAssignment(uint(assignmentID))
	if err != nil {
		writeAssignmentError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateAssignment godoc
// @Summary (Teacher) Update an assignment
// @Tags Teacher - Assignments
// @Accept json
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Param assignment body dto.UpdateAssignmentRequest true "Fields to update"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Assignment belongs to another teacher"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Security BearerAuth
// @Router /teacher/assignments/{assignment_id} [put]
func (c *AssignmentController) UpdateAssignment(ctx *gin.Context) {
	assignmentID, err := strconv.ParseUint(ctx.Param("assignment_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid assignment ID format"})
		return
	}
	var req dto.UpdateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.assignmentService.UpdateAssignment(middleware.UserID(ctx), uint(assignmentID), req)
	if err != nil {
		writeAssignmentError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteAssignment godoc
// @Summary (Teacher) Delete an assignment
// @Tags Teacher - Assignments
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse "Assignment belongs to another teacher"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Security BearerAuth
// @Router /teacher/assignments/{assignment_id} [delete]
func (c *AssignmentController) DeleteAssignment(ctx *gin.Context) {
	assignmentID, err := strconv.ParseUint(ctx.Param("assignment_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid assignment ID format"})
		return
	}
	if err := c.assignmentService.DeleteAssignment(middleware.UserID(ctx), uint(assignmentID)); err != nil {
		writeAssignmentError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// AddQuestion godoc
// @Summary (Teacher) Add a question to an assignment
// @Tags Teacher - Assignments
// @Accept json
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Param question body dto.CreateQuestionRequest true "Question details"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Assignment belongs to another teacher"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Security BearerAuth
// @Router /teacher/assignments/{assignment_id}/questions [post]
func (c *AssignmentController) AddQuestion(ctx *gin.Context) {
	assignmentID, err := strconv.ParseUint(ctx.Param("assignment_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid assignment ID format"})
		return
	}
	var req dto.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.assignmentService.AddQuestion(middleware.UserID(ctx), uint(assignmentID), req)
	if err != nil {
		writeAssignmentError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListSubmissions godoc
// @Summary (Teacher) List submissions for an assignment
// @Tags Teacher - Submissions
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Success 200 {array} dto.SubmissionResponse
// @Failure 403 {object} dto.ErrorResponse "Assignment belongs to another teacher"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Security BearerAuth
// @Router /teacher/assignments/{assignment_id}/submissions [get]
func (c *AssignmentController) ListSubmissions(ctx *gin.Context) {
	assignmentID, err := strconv.ParseUint(ctx.Param("assignment_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid assignment ID format"})
		return
	}
	resp, err := c.submissionService.ListAssignmentSubmissions(middleware.UserID(ctx), uint(assignmentID))
	if err != nil {
		writeAssignmentError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// OverrideGrade godoc
// @Summary (Teacher) Override a submission's grade
// @Description Replaces the automatic score and feedback. The submission's status becomes GRADED.
// @Tags Teacher - Submissions
// @Accept json
// @Produce json
// @Param submission_id path int true "Submission ID"
// @Param grade body dto.GradeOverrideRequest true "New score and feedback"
// @Success 200 {object} dto.SubmissionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Submission belongs to another teacher's assignment"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Security BearerAuth
// @Router /teacher/submissions/{submission_id}/grade [put]
func (c *AssignmentController) OverrideGrade(ctx *gin.Context) {
	submissionID, err := strconv.ParseUint(ctx.Param("submission_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid submission ID format"})
		return
	}
	var req dto.GradeOverrideRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.submissionService.OverrideGrade(middleware.UserID(ctx), uint(submissionID), req)
	if err != nil {
		if errors.Is(err, service.ErrSubmissionNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Submission not found"})
			return
		}
		writeAssignmentError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func writeAssignmentError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Assignment not found"})
	case errors.Is(err, service.ErrCourseNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Course not found"})
	case errors.Is(err, service.ErrNotCourseOwner):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "Not the owner of this course"})
	default:
		log.Error().Err(err).Msg("Assignment operation failed")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	}
}
