package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

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
	ErrSubmitInProgress   = errors.New("a submit for this attempt is already in progress")
	ErrSubmissionNotFound = errors.New("submission not found")
)

// SubmissionService owns the submit path and the grading pipeline. Manual
// submits and countdown auto-submits run the identical logic; the session's
// submit slot guarantees at most one of them wins.
type SubmissionService interface {
	Submit(studentID, assignmentID uint) (*dto.SubmissionResponse, error)
	GetSubmission(studentID, submissionID uint) (*dto.SubmissionResponse, error)
	ListMySubmissions(studentID, assignmentID uint) ([]dto.SubmissionResponse, error)
	ListAssignmentSubmissions(teacherID, assignmentID uint) ([]dto.SubmissionResponse, error)
	OverrideGrade(teacherID, submissionID uint, req dto.GradeOverrideRequest) (*dto.SubmissionResponse, error)
}

type submissionService struct {
	submissionRepo repository.SubmissionRepository
	assignmentRepo repository.AssignmentRepository
	answerRepo     repository.AttemptAnswerRepository
	courseRepo     repository.CourseRepository
	manager        *attempt.Manager
	executor       executor.CodeExecutor
	essayGrader    EssayGrader
	notifier       NotificationService
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	assignmentRepo repository.AssignmentRepository,
	answerRepo repository.AttemptAnswerRepository,
	courseRepo repository.CourseRepository,
	manager *attempt.Manager,
	exec executor.CodeExecutor,
	essayGrader EssayGrader,
	notifier NotificationService,
) SubmissionService {
	s := &submissionService{
		submissionRepo: submissionRepo,
		assignmentRepo: assignmentRepo,
		answerRepo:     answerRepo,
		courseRepo:     courseRepo,
		manager:        manager,
		executor:       exec,
		essayGrader:    essayGrader,
		notifier:       notifier,
	}
	manager.SetAutoSubmit(s.autoSubmit)
	return s
}

func (s *submissionService) autoSubmit(sess *attempt.Session) {
	if _, err := s.Submit(sess.StudentID, sess.AssignmentID); err != nil {
		log.Error().Err(err).
			Uint("studentID", sess.StudentID).
			Uint("assignmentID", sess.AssignmentID).
			Msg("Auto-submit on expiry failed")
	}
}

// Submit flattens the attempt's answers into a submission record, kicks off
// asynchronous grading and tears the session down. The response carries the
// SUBMITTED record; clients poll until the status turns terminal.
func (s *submissionService) Submit(studentID, assignmentID uint) (*dto.SubmissionResponse, error) {
	assignment, err := s.assignmentRepo.FindByIDWithQuestions(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	sess, ok := s.manager.Get(studentID, assignmentID)
	if !ok {
		// Process restarted mid-attempt: rebuild from drafts so the
		// student's persisted work still submits. No countdown is armed;
		// the session is torn down again right after the submit.
		saved, err := s.savedAnswers(studentID, assignmentID)
		if err != nil {
			return nil, err
		}
		sess = s.manager.Resume(studentID, assignment, saved)
	}

	if !sess.HasAnyAnswer() {
		return nil, ErrEmptySubmission
	}
	if !sess.TryBeginSubmit() {
		return nil, ErrSubmitInProgress
	}

	answers := sess.AnswersSnapshot()
	code, language, err := buildSubmissionPayload(assignment.Questions, answers)
	if err != nil {
		sess.EndSubmit(false)
		return nil, err
	}

	submission := model.Submission{
		AssignmentID:        assignmentID,
		StudentID:           studentID,
		Code:                code,
		ProgrammingLanguage: language,
		Status:              model.StatusSubmitted,
	}
	if err := s.submissionRepo.Create(&submission); err != nil {
		sess.EndSubmit(false)
		log.Error().Err(err).Uint("studentID", studentID).Uint("assignmentID", assignmentID).Msg("Failed to create submission")
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	sess.EndSubmit(true)

	go s.gradeSubmission(submission.ID, assignment, answers)

	s.manager.Remove(studentID, assignmentID)
	if err := s.answerRepo.DeleteByStudentAndAssignment(studentID, assignmentID); err != nil {
		log.Warn().Err(err).Uint("studentID", studentID).Msg("Failed to discard draft answers after submit")
	}

	log.Info().
		Uint("submissionID", submission.ID).
		Uint("studentID", studentID).
		Uint("assignmentID", assignmentID).
		Msg("Submission accepted, grading started")
	return submissionToResponse(&submission, assignment), nil
}

// questionGradingResult carries one question's verdict out of its goroutine.
type questionGradingResult struct {
	result       model.QuestionResult
	manualReview bool
	err          error
}

// gradeSubmission runs after Submit returns. Questions are graded in
// parallel; the collected results decide the terminal status.
func (s *submissionService) gradeSubmission(submissionID uint, assignment *model.Assignment, answers map[uint]attempt.Answer) {
	submission, err := s.submissionRepo.FindByID(submissionID)
	if err != nil {
		log.Error().Err(err).Uint("submissionID", submissionID).Msg("Submission disappeared before grading")
		return
	}
	submission.Status = model.StatusGrading
	if err := s.submissionRepo.Update(submission); err != nil {
		log.Error().Err(err).Uint("submissionID", submissionID).Msg("Failed to mark submission as grading")
	}

	var wg sync.WaitGroup
	resultsChan := make(chan questionGradingResult, len(assignment.Questions))
	for i := range assignment.Questions {
		wg.Add(1)
		go func(q model.Question) {
			defer wg.Done()
			resultsChan <- s.gradeQuestion(&q, answers[q.ID])
		}(assignment.Questions[i])
	}
	wg.Wait()
	close(resultsChan)

	var (
		results       []model.QuestionResult
		earned, max   float64
		passed, total int
		gradingFailed bool
		manualReview  bool
	)
	for r := range resultsChan {
		if r.err != nil {
			gradingFailed = true
			log.Error().Err(r.err).
				Uint("submissionID", submissionID).
				Uint("questionID", r.result.QuestionID).
				Msg("Question grading failed")
		}
		if r.manualReview {
			manualReview = true
		}
		earned += r.result.EarnedScore
		max += r.result.MaxScore
		for _, tc := range r.result.TestCaseResults {
			total++
			if tc.Passed {
				passed++
			}
		}
		results = append(results, r.result)
	}

	noTests := false
	if assignment.HasProgrammingQuestion() {
		noTests = true
		for _, q := range assignment.Questions {
			if q.Type == model.QuestionProgramming && len(q.TestCases) > 0 {
				noTests = false
				break
			}
		}
	}

	now := time.Now()
	submission.Status = finalStatus(earned, max, gradingFailed, noTests, manualReview)
	submission.Score = &earned
	submission.GradedAt = &now
	if total > 0 {
		submission.TestCasesPassed = &passed
		submission.TotalTestCases = &total
	}

	if err := s.submissionRepo.SaveResults(submission, results); err != nil {
		log.Error().Err(err).Uint("submissionID", submissionID).Msg("Failed to persist grading results")
		submission.Status = model.StatusError
		if err := s.submissionRepo.Update(submission); err != nil {
			log.Error().Err(err).Uint("submissionID", submissionID).Msg("Failed to mark submission as errored")
		}
		return
	}
	log.Info().
		Uint("submissionID", submissionID).
		Str("status", string(submission.Status)).
		Float64("score", earned).
		Msg("Submission graded")
	s.notifier.NotifySubmissionGraded(submission, assignment.Title)
}

func (s *submissionService) gradeQuestion(q *model.Question, a attempt.Answer) questionGradingResult {
	res := model.QuestionResult{
		QuestionID: q.ID,
		MaxScore:   q.Points,
	}
	answered := !a.Empty()
	if !answered {
		res.Status = model.ResultNotAnswered
		return questionGradingResult{result: res}
	}

	switch q.Type {
	case model.QuestionMultipleChoice, model.QuestionTrueFalse:
		res.EarnedScore = gradeChoice(q, a.SelectedOptions)
		res.Status = classifyResult(res.EarnedScore, res.MaxScore, true)
		return questionGradingResult{result: res}

	case model.QuestionProgramming:
		if len(q.TestCases) == 0 {
			res.Status = model.ResultIncorrect
			res.Feedback = "No test cases are defined for this question."
			return questionGradingResult{result: res}
		}
		cases := make([]executor.TestCaseInput, 0, len(q.TestCases))
		for _, tc := range q.TestCases {
			cases = append(cases, executor.TestCaseInput{
				Input:          tc.Input,
				ExpectedOutput: tc.ExpectedOutput,
				Hidden:         tc.IsHidden,
				Points:         tc.Points,
			})
		}
		outcome, err := s.executor.Test(context.Background(), a.Text, string(langsniff.Detect(a.Text)), cases)
		if err != nil {
			res.Status = model.ResultIncorrect
			res.Feedback = fmt.Sprintf("Grading failed: %s", err.Error())
			return questionGradingResult{result: res, err: err}
		}
		for _, tc := range outcome.TestResults {
			res.TestCaseResults = append(res.TestCaseResults, model.TestCaseResult{
				Input:           tc.Input,
				ExpectedOutput:  tc.ExpectedOutput,
				ActualOutput:    tc.ActualOutput,
				Passed:          tc.Passed,
				ErrorText:       tc.Error,
				ExecutionTimeMs: tc.ExecutionTimeMs,
			})
		}
		if outcome.TotalTests > 0 {
			res.EarnedScore = q.Points * float64(outcome.PassedTests) / float64(outcome.TotalTests)
		}
		if outcome.CompilationError != "" {
			res.Feedback = outcome.CompilationError
		}
		res.Status = classifyResult(res.EarnedScore, res.MaxScore, true)
		return questionGradingResult{result: res}

	case model.QuestionEssay:
		feedback, score, err := s.essayGrader.ScoreEssay(context.Background(), q, a.Text)
		if err != nil {
			// The answer is kept for the teacher to grade by hand.
			res.Status = model.ResultPartial
			res.Feedback = "Pending manual review."
			return questionGradingResult{result: res, manualReview: true}
		}
		res.EarnedScore = score
		res.Feedback = feedback
		res.Status = classifyResult(score, q.Points, true)
		return questionGradingResult{result: res}

	default:
		res.Status = model.ResultIncorrect
		return questionGradingResult{result: res, err: fmt.Errorf("unsupported question type %s", q.Type)}
	}
}

func (s *submissionService) GetSubmission(studentID, submissionID uint) (*dto.SubmissionResponse, error) {
	submission, err := s.submissionRepo.FindByIDWithResults(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	if submission.StudentID != studentID {
		return nil, ErrSubmissionNotFound
	}
	return submissionToResponse(submission, &submission.Assignment), nil
}

func (s *submissionService) ListMySubmissions(studentID, assignmentID uint) ([]dto.SubmissionResponse, error) {
	subs, err := s.submissionRepo.FindByStudentAndAssignment(studentID, assignmentID)
	if err != nil {
		return nil, err
	}
	resps := make([]dto.SubmissionResponse, 0, len(subs))
	for i := range subs {
		resps = append(resps, *submissionToResponse(&subs[i], &subs[i].Assignment))
	}
	return resps, nil
}

func (s *submissionService) ListAssignmentSubmissions(teacherID, assignmentID uint) ([]dto.SubmissionResponse, error) {
	assignment, err := s.ownedAssignment(teacherID, assignmentID)
	if err != nil {
		return nil, err
	}
	subs, err := s.submissionRepo.FindByAssignment(assignmentID)
	if err != nil {
		return nil, err
	}
	resps := make([]dto.SubmissionResponse, 0, len(subs))
	for i := range subs {
		resps = append(resps, *submissionToResponse(&subs[i], assignment))
	}
	return resps, nil
}

// OverrideGrade lets the assignment's teacher replace the automatic score and
// feedback. The submission lands in GRADED regardless of its prior status.
func (s *submissionService) OverrideGrade(teacherID, submissionID uint, req dto.GradeOverrideRequest) (*dto.SubmissionResponse, error) {
	submission, err := s.submissionRepo.FindByIDWithResults(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	assignment, err := s.ownedAssignment(teacherID, submission.AssignmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	submission.Score = &req.Score
	submission.Feedback = req.Feedback
	submission.Status = model.StatusGraded
	submission.GradedAt = &now
	if err := s.submissionRepo.Update(submission); err != nil {
		return nil, fmt.Errorf("failed to override grade: %w", err)
	}
	log.Info().
		Uint("submissionID", submissionID).
		Uint("teacherID", teacherID).
		Float64("score", req.Score).
		Msg("Grade overridden")
	s.notifier.NotifySubmissionGraded(submission, assignment.Title)
	return submissionToResponse(submission, assignment), nil
}

func (s *submissionService) ownedAssignment(teacherID, assignmentID uint) (*model.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByID(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	course, err := s.courseRepo.FindByID(assignment.CourseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, ErrNotCourseOwner
	}
	return assignment, nil
}

func (s *submissionService) savedAnswers(studentID, assignmentID uint) (map[uint]attempt.Answer, error) {
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

func submissionToResponse(submission *model.Submission, assignment *model.Assignment) *dto.SubmissionResponse {
	resp := &dto.SubmissionResponse{
		ID:                  submission.ID,
		AssignmentID:        submission.AssignmentID,
		StudentID:           submission.StudentID,
		Code:                submission.Code,
		ProgrammingLanguage: submission.ProgrammingLanguage,
		Status:              string(submission.Status),
		Score:               submission.Score,
		Feedback:            submission.Feedback,
		TestCasesPassed:     submission.TestCasesPassed,
		TotalTestCases:      submission.TotalTestCases,
		SubmittedAt:         submission.SubmittedAt,
		GradedAt:            submission.GradedAt,
	}
	if assignment != nil && assignment.ID != 0 {
		resp.AssignmentTitle = assignment.Title
		if submission.Score != nil && assignment.MaxScore > 0 {
			pct := *submission.Score / assignment.MaxScore * 100
			resp.Percentage = &pct
		}
	}
	if submission.Student.ID != 0 {
		resp.StudentName = submission.Student.FullName
	}

	questionsByID := make(map[uint]model.Question)
	if assignment != nil {
		for _, q := range assignment.Questions {
			questionsByID[q.ID] = q
		}
	}
	for _, qr := range submission.QuestionResults {
		qresp := dto.QuestionResultResponse{
			QuestionID:  qr.QuestionID,
			Status:      string(qr.Status),
			EarnedScore: qr.EarnedScore,
			MaxScore:    qr.MaxScore,
			Feedback:    qr.Feedback,
		}
		if q, ok := questionsByID[qr.QuestionID]; ok {
			qresp.QuestionTitle = q.Title
			qresp.QuestionType = string(q.Type)
		} else if qr.Question.ID != 0 {
			qresp.QuestionTitle = qr.Question.Title
			qresp.QuestionType = string(qr.Question.Type)
		}
		for _, tc := range qr.TestCaseResults {
			qresp.TestCaseResults = append(qresp.TestCaseResults, dto.TestCaseResultResponse{
				ID:              tc.ID,
				Input:           tc.Input,
				ExpectedOutput:  tc.ExpectedOutput,
				ActualOutput:    tc.ActualOutput,
				Passed:          tc.Passed,
				Error:           tc.ErrorText,
				ExecutionTimeMs: tc.ExecutionTimeMs,
			})
		}
		resp.QuestionResults = append(resp.QuestionResults, qresp)
	}
	return resp
}
