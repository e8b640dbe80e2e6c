package student

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/cscore-lms/backend/internal/attempt"
	"github.com/cscore-lms/backend/internal/dto"
	"github.com/cscore-lms/backend/internal/executor"
	"github.com/cscore-lms/backend/internal/middleware"
	"github.com/cscore-lms/backend/internal/service"
)

type AttemptController struct {
	courseService     service.CourseService
	studentService    service.StudentService
	submissionService service.SubmissionService
}

func NewAttemptController(
	courseService service.CourseService,
	studentService service.StudentService,
	submissionService service.SubmissionService,
) *AttemptController {
	return &AttemptController{
		courseService:     courseService,
		studentService:    studentService,
		submissionService: submissionService,
	}
}

// ListMyCourses godoc
// @Summary (Student) List enrolled courses
// @Tags Student - Courses
// @Produce json
// @Success 200 {array} dto.CourseResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /student/courses [get]
func (c *AttemptController) ListMyCourses(ctx *gin.Context) {
	resp, err := c.courseService.ListStudentCourses(middleware.UserID(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list courses"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListCourseAssignments godoc
// @Summary (Student) List a course's assignments
// @Description Active assignments only, annotated with the student's submission state. Question bodies are not included.
// @Tags Student - Assignments
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {array} dto.StudentAssignmentResponse
// @Failure 403 {object} dto.ErrorResponse "Not enrolled"
// @Security BearerAuth
// @Router /student/courses/{course_id}/assignments [get]
func (c *AttemptController) ListCourseAssignments(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "course_id")
	if !ok {
		return
	}
	resp, err := c.studentService.ListCourseAssignments(middleware.UserID(ctx), courseID)
	if err != nil {
		writeAttemptError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetAssignment godoc
// @Summary (Student) View an assignment
// @Description The student view hides hidden test case payloads and option correctness, and includes saved draft answers and the latest submission state.
// @Tags Student - Assignments
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Success 200 {object} dto.StudentAssignmentResponse
// @Failure 403 {object} dto.ErrorResponse "Not enrolled in the assignment's course"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Security BearerAuth
// @Router /student/assignments/{assignment_id} [get]
func (c *AttemptController) GetAssignment(ctx *gin.Context) {
	assignmentID, ok := pathID(ctx, "assignment_id")
	if !ok {
		return
	}
	resp, err := c.studentService.GetAssignmentForStudent(middleware.UserID(ctx), assignmentID)
	if err != nil {
		writeAttemptError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// StartAttempt godoc
// @Summary (Student) Start or resume an attempt
// @Description Creates the live attempt session, seeded from saved drafts. For timed assignments the countdown starts on first entry; re-entering never resets the clock. When the countdown expires the attempt is submitted automatically.
// @Tags Student - Attempts
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Success 200 {object} dto.StudentAssignmentResponse
// @Failure 403 {object} dto.ErrorResponse "Not enrolled or assignment closed"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 409 {object} dto.ErrorResponse "Already submitted"
// @Security BearerAuth
// @Router /student/assignments/{assignment_id}/attempt [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	assignmentID, ok := pathID(ctx, "assignment_id")
	if !ok {
		return
	}
	resp, err := c.studentService.StartAttempt(middleware.UserID(ctx), assignmentID)
	if err != nil {
		writeAttemptError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SaveAnswer godoc
// @Summary (Student) Save an answer
// @Description Stores the answer on the live session and as a durable draft. Editing a programming question's text invalidates its cached check result. For multi-answer choice questions the option id is toggled; for single-answer ones it replaces the selection.
// @Tags Student - Attempts
// @Accept json
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Param answer body dto.SaveAnswerRequest true "Answer payload"
// @Success 204 "Saved"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload for the question type"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled or assignment closed"
// @Failure 404 {object} dto.ErrorResponse "Assignment or question not found"
// @Security BearerAuth
// @Router /student/assignments/{assignment_id}/answers [put]
func (c *AttemptController) SaveAnswer(ctx *gin.Context) {
	assignmentID, ok := pathID(ctx, "assignment_id")
	if !ok {
		return
	}
	var req dto.SaveAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.studentService.SaveAnswer(middleware.UserID(ctx), assignmentID, req); err != nil {
		writeAttemptError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// SetPosition godoc
// @Summary (Student) Move the attempt's question cursor
// @Description Out-of-range indexes are clamped; the index landed on is returned.
// @Tags Student - Attempts
// @Accept json
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Param position body dto.AttemptPositionRequest true "Target index"
// @Success 200 {object} dto.AttemptPositionRequest "Resulting index"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled or assignment closed"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Security BearerAuth
// @Router /student/assignments/{assignment_id}/position [put]
func (c *AttemptController) SetPosition(ctx *gin.Context) {
	assignmentID, ok := pathID(ctx, "assignment_id")
	if !ok {
		return
	}
	var req dto.AttemptPositionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	index, err := c.studentService.SetPosition(middleware.UserID(ctx), assignmentID, req.Index)
	if err != nil {
		writeAttemptError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.AttemptPositionRequest{Index: index})
}

// CheckQuestion godoc
// @Summary (Student) Check code against a question's test cases
// @Description Runs the code against every test case, hidden ones included. Hidden case payloads are blanked in the verdict. The outcome is informational; grading reruns the tests at submit time.
// @Tags Student - Attempts
// @Accept json
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Param question_id path int true "Question ID"
// @Param code body dto.QuestionCodeRequest true "Code to check; language is sniffed when omitted"
// @Success 200 {object} dto.CodeExecutionResponse
// @Failure 400 {object} dto.ErrorResponse "Not a programming question or question has no test cases"
// @Failure 404 {object} dto.ErrorResponse "Assignment or question not found"
// @Failure 408 {object} dto.ErrorResponse "Execution timed out"
// @Failure 503 {object} dto.ErrorResponse "Execution service unavailable"
// @Security BearerAuth
// @Router /student/assignments/{assignment_id}/questions/{question_id}/check [post]
func (c *AttemptController) CheckQuestion(ctx *gin.Context) {
	assignmentID, ok := pathID(ctx, "assignment_id")
	if !ok {
		return
	}
	questionID, ok := pathID(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.QuestionCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.studentService.CheckQuestion(ctx.Request.Context(), middleware.UserID(ctx), assignmentID, questionID, req)
	if err != nil {
		writeExecutionError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// RunQuestion godoc
// @Summary (Student) Run code with custom input
// @Description Executes the code once with the provided input. Never graded and never cached.
// @Tags Student - Attempts
// @Accept json
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Param question_id path int true "Question ID"
// @Param code body dto.QuestionCodeRequest true "Code and optional custom input"
// @Success 200 {object} dto.CodeExecutionResponse
// @Failure 400 {object} dto.ErrorResponse "Not a programming question"
// @Failure 404 {object} dto.ErrorResponse "Assignment or question not found"
// @Failure 408 {object} dto.ErrorResponse "Execution timed out"
// @Failure 503 {object} dto.ErrorResponse "Execution service unavailable"
// @Security BearerAuth
// @Router /student/assignments/{assignment_id}/questions/{question_id}/run [post]
func (c *AttemptController) RunQuestion(ctx *gin.Context) {
	assignmentID, ok := pathID(ctx, "assignment_id")
	if !ok {
		return
	}
	questionID, ok := pathID(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.QuestionCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.studentService.RunQuestion(ctx.Request.Context(), middleware.UserID(ctx), assignmentID, questionID, req)
	if err != nil {
		writeExecutionError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Submit godoc
// @Summary (Student) Submit the attempt
// @Description Flattens all answers into one submission and starts grading in the background. The response carries the SUBMITTED record; poll the submission until its status is terminal. At most one submit succeeds per attempt.
// @Tags Student - Attempts
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Success 202 {object} dto.SubmissionResponse
// @Failure 400 {object} dto.ErrorResponse "No answers to submit"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 409 {object} dto.ErrorResponse "Submit already in progress"
// @Security BearerAuth
// @Router /student/assignments/{assignment_id}/submit [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	assignmentID, ok := pathID(ctx, "assignment_id")
	if !ok {
		return
	}
	resp, err := c.submissionService.Submit(middleware.UserID(ctx), assignmentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptySubmission), errors.Is(err, service.ErrNoProgrammingAnswer):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrSubmitInProgress):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		default:
			writeAttemptError(ctx, err)
		}
		return
	}
	ctx.JSON(http.StatusAccepted, resp)
}

// GetSubmission godoc
// @Summary (Student) Get one of my submissions
// @Description Result views poll this until the status is terminal (anything other than SUBMITTED or GRADING).
// @Tags Student - Submissions
// @Produce json
// @Param submission_id path int true "Submission ID"
// @Success 200 {object} dto.SubmissionResponse
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Security BearerAuth
// @Router /student/submissions/{submission_id} [get]
func (c *AttemptController) GetSubmission(ctx *gin.Context) {
	submissionID, ok := pathID(ctx, "submission_id")
	if !ok {
		return
	}
	resp, err := c.submissionService.GetSubmission(middleware.UserID(ctx), submissionID)
	if err != nil {
		if errors.Is(err, service.ErrSubmissionNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Submission not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load submission"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListMySubmissions godoc
// @Summary (Student) List my submissions for an assignment
// @Description Newest first.
// @Tags Student - Submissions
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Success 200 {array} dto.SubmissionResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /student/assignments/{assignment_id}/submissions [get]
func (c *AttemptController) ListMySubmissions(ctx *gin.Context) {
	assignmentID, ok := pathID(ctx, "assignment_id")
	if !ok {
		return
	}
	resp, err := c.submissionService.ListMySubmissions(middleware.UserID(ctx), assignmentID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list submissions"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(v), true
}

func writeAttemptError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Assignment not found"})
	case errors.Is(err, attempt.ErrUnknownQuestion):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Question not found in this assignment"})
	case errors.Is(err, service.ErrNotEnrolled), errors.Is(err, service.ErrAssignmentClosed):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrAlreadySubmitted):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, attempt.ErrChoiceQuestion),
		errors.Is(err, attempt.ErrNotChoice),
		errors.Is(err, service.ErrEmptyAnswerPayload),
		errors.Is(err, service.ErrNotProgramming),
		errors.Is(err, service.ErrQuestionNoTests):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Msg("Attempt operation failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
	}
}

func writeExecutionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, executor.ErrTimeout):
		ctx.JSON(http.StatusRequestTimeout, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, executor.ErrNotConfigured):
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: "Code execution service is not configured"})
	default:
		writeAttemptError(ctx, err)
	}
}
