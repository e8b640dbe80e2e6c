package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/cscore-lms/backend/internal/attempt"
	"github.com/cscore-lms/backend/internal/dto"
	"github.com/cscore-lms/backend/internal/executor"
	"github.com/cscore-lms/backend/internal/langsniff"
	"github.com/cscore-lms/backend/internal/model"
	"github.com/cscore-lms/backend/internal/repository"
)

var (
	ErrAssignmentClosed   = errors.New("assignment is not open for attempts")
	ErrAlreadySubmitted   = errors.New("assignment has already been submitted")
	ErrNotProgramming     = errors.New("question is not a programming question")
	ErrQuestionNoTests    = errors.New("question has no test cases to check against")
	ErrEmptyAnswerPayload = errors.New("answer payload must carry text or an option id")
)

// StudentService drives the student side of an assignment: the attempt
// session, draft answers, code check/run and the attempt view.
type StudentService interface {
	ListCourseAssignments(studentID, courseID uint) ([]dto.StudentAssignmentResponse, error)
	GetAssignmentForStudent(studentID, assignmentID uint) (*dto.StudentAssignmentResponse, error)
	StartAttempt(studentID, assignmentID uint) (*dto.StudentAssignmentResponse, error)
	SaveAnswer(studentID, assignmentID uint, req dto.SaveAnswerRequest) error
	SetPosition(studentID, assignmentID uint, index int) (int, error)
	CheckQuestion(ctx context.Context, studentID, assignmentID, questionID uint, req dto.QuestionCodeRequest) (*dto.CodeExecutionResponse, error)
	RunQuestion(ctx context.Context, studentID, assignmentID, questionID uint, req dto.QuestionCodeRequest) (*dto.CodeExecutionResponse, error)
}

type studentService struct {
	assignmentRepo repository.AssignmentRepository
	answerRepo     repository.AttemptAnswerRepository
	submissionRepo repository.SubmissionRepository
	courseSvc      CourseService
	manager        *attempt.Manager
	executor       executor.CodeExecutor
}

func NewStudentService(
	assignmentRepo repository.AssignmentRepository,
	answerRepo repository.AttemptAnswerRepository,
	submissionRepo repository.SubmissionRepository,
	courseSvc CourseService,
	manager *attempt.Manager,
	exec executor.CodeExecutor,
) StudentService {
	return &studentService{
		assignmentRepo: assignmentRepo,
		answerRepo:     answerRepo,
		submissionRepo: submissionRepo,
		courseSvc:      courseSvc,
		manager:        manager,
		executor:       exec,
	}
}

// accessibleAssignment loads the assignment and verifies the student may see
// it: enrolled in its course, assignment active, within its time window.
func (s *studentService) accessibleAssignment(studentID, assignmentID uint) (*model.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByIDWithQuestions(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if err := s.courseSvc.EnsureEnrolled(assignment.CourseID, studentID); err != nil {
		return nil, err
	}
	if !assignment.IsActive {
		return nil, ErrAssignmentClosed
	}
	now := time.Now()
	if assignment.StartTime != nil && now.Before(*assignment.StartTime) {
		return nil, ErrAssignmentClosed
	}
	if assignment.EndTime != nil && now.After(*assignment.EndTime) && !assignment.AllowLateSubmission {
		return nil, ErrAssignmentClosed
	}
	return assignment, nil
}

// ListCourseAssignments returns the course's active assignments without
// question bodies, annotated with the student's submission state.
func (s *studentService) ListCourseAssignments(studentID, courseID uint) ([]dto.StudentAssignmentResponse, error) {
	if err := s.courseSvc.EnsureEnrolled(courseID, studentID); err != nil {
		return nil, err
	}
	assignments, err := s.assignmentRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}
	resps := make([]dto.StudentAssignmentResponse, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		if !a.IsActive {
			continue
		}
		var resp dto.StudentAssignmentResponse
		if err := copier.Copy(&resp, a); err != nil {
			return nil, fmt.Errorf("failed to map assignment: %w", err)
		}
		resp.Type = string(a.Type)
		resp.Questions = nil
		latest, err := s.latestSubmission(studentID, a.ID)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			resp.IsSubmitted = true
			resp.CurrentScore = latest.Score
			resp.SubmissionStatus = string(latest.Status)
		}
		resps = append(resps, resp)
	}
	return resps, nil
}

func (s *studentService) GetAssignmentForStudent(studentID, assignmentID uint) (*dto.StudentAssignmentResponse, error) {
	assignment, err := s.assignmentRepo.FindByIDWithQuestions(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if err := s.courseSvc.EnsureEnrolled(assignment.CourseID, studentID); err != nil {
		return nil, err
	}
	return s.buildStudentView(studentID, assignment)
}

// StartAttempt returns the student's live session for the assignment,
// creating and seeding one from saved drafts when none exists. The countdown
// starts on first entry only; re-entering never resets the clock.
func (s *studentService) StartAttempt(studentID, assignmentID uint) (*dto.StudentAssignmentResponse, error) {
	assignment, err := s.accessibleAssignment(studentID, assignmentID)
	if err != nil {
		return nil, err
	}
	latest, err := s.latestSubmission(studentID, assignmentID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		return nil, ErrAlreadySubmitted
	}

	saved, err := s.savedAnswers(studentID, assignmentID)
	if err != nil {
		return nil, err
	}
	s.manager.Start(studentID, assignment, saved)
	return s.buildStudentView(studentID, assignment)
}

// SaveAnswer records an answer both on the live session and as a durable
// draft, so a reconnecting client finds its work again.
func (s *studentService) SaveAnswer(studentID, assignmentID uint, req dto.SaveAnswerRequest) error {
	if req.Answer == nil && req.OptionID == nil {
		return ErrEmptyAnswerPayload
	}
	assignment, err := s.accessibleAssignment(studentID, assignmentID)
	if err != nil {
		return err
	}
	sess, err := s.liveSession(studentID, assignment)
	if err != nil {
		return err
	}

	question, ok := questionByID(assignment, req.QuestionID)
	if !ok {
		return attempt.ErrUnknownQuestion
	}

	if req.OptionID != nil {
		multiple := question.Type == model.QuestionMultipleChoice && len(question.CorrectOptionIDs()) > 1
		if err := sess.SetSelectedOptions(req.QuestionID, *req.OptionID, multiple); err != nil {
			return err
		}
	}
	if req.Answer != nil {
		if err := sess.SetFreeText(req.QuestionID, *req.Answer); err != nil {
			return err
		}
	}

	a := sess.Answer(req.QuestionID)
	draft := model.AttemptAnswer{
		StudentID:    studentID,
		AssignmentID: assignmentID,
		QuestionID:   req.QuestionID,
		Answer:       a.Text,
	}
	draft.SetSelectedOptionIDs(a.SelectedOptions)
	if err := s.answerRepo.Upsert(&draft); err != nil {
		log.Error().Err(err).
			Uint("studentID", studentID).
			Uint("questionID", req.QuestionID).
			Msg("Failed to persist draft answer")
		return fmt.Errorf("failed to save answer: %w", err)
	}
	return nil
}

// SetPosition moves the attempt's question cursor and returns the index
// actually landed on after clamping.
func (s *studentService) SetPosition(studentID, assignmentID uint, index int) (int, error) {
	assignment, err := s.accessibleAssignment(studentID, assignmentID)
	if err != nil {
		return 0, err
	}
	sess, err := s.liveSession(studentID, assignment)
	if err != nil {
		return 0, err
	}
	return sess.GoTo(index), nil
}

// CheckQuestion runs the student's code against the question's full test case
// set, hidden cases included, and caches the outcome on the session. The
// cached result is informational; grading reruns the tests at submit time.
func (s *studentService) CheckQuestion(ctx context.Context, studentID, assignmentID, questionID uint, req dto.QuestionCodeRequest) (*dto.CodeExecutionResponse, error) {
	assignment, err := s.accessibleAssignment(studentID, assignmentID)
	if err != nil {
		return nil, err
	}
	sess, err := s.liveSession(studentID, assignment)
	if err != nil {
		return nil, err
	}
	question, ok := questionByID(assignment, questionID)
	if !ok {
		return nil, attempt.ErrUnknownQuestion
	}
	if question.Type != model.QuestionProgramming {
		return nil, ErrNotProgramming
	}
	if len(question.TestCases) == 0 {
		return nil, ErrQuestionNoTests
	}

	language := resolveLanguage(req.Code, req.Language)
	cases := make([]executor.TestCaseInput, 0, len(question.TestCases))
	for _, tc := range question.TestCases {
		cases = append(cases, executor.TestCaseInput{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			Hidden:         tc.IsHidden,
			Points:         tc.Points,
		})
	}

	result, err := s.executor.Test(ctx, req.Code, language, cases)
	if err != nil {
		return nil, err
	}
	stripHiddenPayloads(result, question.TestCases)
	if err := sess.SetCheckResult(questionID, result); err != nil {
		return nil, err
	}
	return executionToResponse(result), nil
}

// RunQuestion executes the code against a custom input. The outcome is never
// graded or cached.
func (s *studentService) RunQuestion(ctx context.Context, studentID, assignmentID, questionID uint, req dto.QuestionCodeRequest) (*dto.CodeExecutionResponse, error) {
	assignment, err := s.accessibleAssignment(studentID, assignmentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.liveSession(studentID, assignment); err != nil {
		return nil, err
	}
	question, ok := questionByID(assignment, questionID)
	if !ok {
		return nil, attempt.ErrUnknownQuestion
	}
	if question.Type != model.QuestionProgramming {
		return nil, ErrNotProgramming
	}

	input := ""
	if req.Input != nil {
		input = *req.Input
	}
	result, err := s.executor.Run(ctx, req.Code, resolveLanguage(req.Code, req.Language), input)
	if err != nil {
		return nil, err
	}
	return executionToResponse(result), nil
}

// liveSession returns the student's session, rebuilding it from drafts when
// the process restarted mid-attempt.
func (s *studentService) liveSession(studentID uint, assignment *model.Assignment) (*attempt.Session, error) {
	if sess, ok := s.manager.Get(studentID, assignment.ID); ok {
		return sess, nil
	}
	saved, err := s.savedAnswers(studentID, assignment.ID)
	if err != nil {
		return nil, err
	}
	return s.manager.Start(studentID, assignment, saved), nil
}

func (s *studentService) savedAnswers(studentID, assignmentID uint) (map[uint]attempt.Answer, error) {
	drafts, err := s.answerRepo.FindByStudentAndAssignment(studentID, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved answers: %w", err)
	}
	saved := make(map[uint]attempt.Answer, len(drafts))
	for _, d := range drafts {
		saved[d.QuestionID] = attempt.Answer{
			Text:            d.Answer,
			SelectedOptions: d.SelectedOptionIDs(),
		}
	}
	return saved, nil
}

func (s *studentService) latestSubmission(studentID, assignmentID uint) (*model.Submission, error) {
	subs, err := s.submissionRepo.FindByStudentAndAssignment(studentID, assignmentID)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, nil
	}
	return &subs[0], nil
}

func (s *studentService) buildStudentView(studentID uint, assignment *model.Assignment) (*dto.StudentAssignmentResponse, error) {
	var resp dto.StudentAssignmentResponse
	if err := copier.Copy(&resp, assignment); err != nil {
		return nil, fmt.Errorf("failed to map assignment: %w", err)
	}
	resp.Type = string(assignment.Type)
	resp.CourseName = assignment.Course.Name
	resp.TotalQuestions = len(assignment.Questions)
	resp.Questions = resp.Questions[:0]

	sess, hasSession := s.manager.Get(studentID, assignment.ID)
	var saved map[uint]attempt.Answer
	if !hasSession {
		var err error
		if saved, err = s.savedAnswers(studentID, assignment.ID); err != nil {
			return nil, err
		}
	}

	for _, q := range assignment.Questions {
		qr := dto.StudentQuestionResponse{
			ID:             q.ID,
			Title:          q.Title,
			Description:    q.Description,
			Type:           string(q.Type),
			Points:         q.Points,
			OrderIndex:     q.OrderIndex,
			StarterCode:    q.StarterCode,
			TotalTestCases: len(q.TestCases),
		}
		for _, tc := range q.TestCases {
			if tc.IsHidden {
				continue
			}
			qr.PublicTestCases = append(qr.PublicTestCases, dto.TestCaseResponse{
				ID:             tc.ID,
				Input:          tc.Input,
				ExpectedOutput: tc.ExpectedOutput,
				IsExample:      tc.IsExample,
				Points:         tc.Points,
			})
		}
		for _, o := range q.Options {
			qr.Options = append(qr.Options, dto.StudentOptionResponse{
				ID:         o.ID,
				OptionText: o.OptionText,
				OrderIndex: o.OrderIndex,
			})
		}

		var a attempt.Answer
		if hasSession {
			a = sess.Answer(q.ID)
			// A resuming student sees their last check verdict next to the
			// code it was produced for; edits invalidate the cache.
			if res, ok := sess.CheckResult(q.ID); ok {
				qr.LastCheckResult = executionToResponse(res)
			}
		} else {
			a = saved[q.ID]
		}
		qr.IsAnswered = !a.Empty()
		qr.UserAnswer = a.Text
		qr.SelectedOptions = a.SelectedOptions

		resp.Questions = append(resp.Questions, qr)
	}

	if hasSession {
		resp.RemainingSeconds = sess.RemainingSeconds()
		resp.CurrentIndex = sess.Index()
	}

	latest, err := s.latestSubmission(studentID, assignment.ID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		resp.IsSubmitted = true
		resp.CurrentScore = latest.Score
		resp.SubmissionStatus = string(latest.Status)
	}
	return &resp, nil
}

func questionByID(assignment *model.Assignment, questionID uint) (*model.Question, bool) {
	for i := range assignment.Questions {
		if assignment.Questions[i].ID == questionID {
			return &assignment.Questions[i], true
		}
	}
	return nil, false
}

// resolveLanguage trusts a declared language and sniffs the code otherwise.
func resolveLanguage(code string, declared *string) string {
	if declared != nil && *declared != "" {
		return *declared
	}
	return string(langsniff.Detect(code))
}

// stripHiddenPayloads blanks the input and output columns of hidden test
// cases before a verdict reaches the student. Pass/fail stays visible. The
// sandbox echoes cases in request order, which lines up with the question's
// test case slice.
func stripHiddenPayloads(res *executor.Result, cases []model.TestCase) {
	for i := range res.TestResults {
		if i < len(cases) && cases[i].IsHidden {
			res.TestResults[i].Input = ""
			res.TestResults[i].ExpectedOutput = ""
			res.TestResults[i].ActualOutput = ""
		}
	}
}

func executionToResponse(res *executor.Result) *dto.CodeExecutionResponse {
	out := &dto.CodeExecutionResponse{
		Success:          res.Success,
		Output:           res.Output,
		Error:            res.Error,
		CompilationError: res.CompilationError,
		Message:          res.Message,
		PassedTests:      res.PassedTests,
		TotalTests:       res.TotalTests,
		Score:            res.Score,
	}
	for _, tr := range res.TestResults {
		out.TestResults = append(out.TestResults, dto.TestCaseOutcomeResponse{
			Input:           tr.Input,
			ExpectedOutput:  tr.ExpectedOutput,
			ActualOutput:    tr.ActualOutput,
			Passed:          tr.Passed,
			Error:           tr.Error,
			ExecutionTimeMs: tr.ExecutionTimeMs,
		})
	}
	return out
}
