package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/cscore-lms/backend/internal/dto"
	"github.com/cscore-lms/backend/internal/model"
	"github.com/cscore-lms/backend/internal/repository"
)

var ErrAssignmentNotFound = errors.New("assignment not found")

type AssignmentService interface {
	CreateAssignment(teacherID, courseID uint, req dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error)
	UpdateAssignment(teacherID, assignmentID uint, req dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error)
	DeleteAssignment(teacherID, assignmentID uint) error
	AddQuestion(teacherID, assignmentID uint, req dto.CreateQuestionRequest) (*dto.AssignmentResponse, error)
	GetAssignment(assignmentID uint) (*dto.AssignmentResponse, error)
	ListCourseAssignments(courseID uint) ([]dto.AssignmentResponse, error)
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	courseRepo     repository.CourseRepository
	notifier       NotificationService
}

func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	courseRepo repository.CourseRepository,
	notifier NotificationService,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		courseRepo:     courseRepo,
		notifier:       notifier,
	}
}

func (s *assignmentService) CreateAssignment(teacherID, courseID uint, req dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, ErrNotCourseOwner
	}

	assignment := model.Assignment{
		CourseID:            courseID,
		Title:               req.Title,
		Description:         req.Description,
		Requirements:        req.Requirements,
		Type:                model.AssignmentType(req.Type),
		MaxScore:            req.MaxScore,
		TimeLimit:           req.TimeLimit,
		AllowLateSubmission: req.AllowLateSubmission,
		AutoGrade:           req.AutoGrade,
		IsActive:            true,
	}

	if assignment.StartTime, err = parseTimePtr(req.StartTime); err != nil {
		return nil, fmt.Errorf("invalid start_time: %w", err)
	}
	if assignment.EndTime, err = parseTimePtr(req.EndTime); err != nil {
		return nil, fmt.Errorf("invalid end_time: %w", err)
	}
	if assignment.StartTime != nil && assignment.EndTime != nil && !assignment.EndTime.After(*assignment.StartTime) {
		return nil, errors.New("end_time must be after start_time")
	}

	for i, qr := range req.Questions {
		q, err := buildQuestion(qr)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		assignment.Questions = append(assignment.Questions, *q)
	}

	if err := s.assignmentRepo.Create(&assignment); err != nil {
		log.Error().Err(err).Uint("courseID", courseID).Msg("Failed to create assignment")
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	s.notifier.NotifyAssignmentPublished(&assignment)
	return s.GetAssignment(assignment.ID)
}

func (s *assignmentService) UpdateAssignment(teacherID, assignmentID uint, req dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error) {
	assignment, err := s.ownedAssignment(teacherID, assignmentID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		assignment.Title = *req.Title
	}
	if req.Description != nil {
		assignment.Description = *req.Description
	}
	if req.Requirements != nil {
		assignment.Requirements = *req.Requirements
	}
	if req.MaxScore != nil {
		assignment.MaxScore = *req.MaxScore
	}
	if req.TimeLimit != nil {
		assignment.TimeLimit = *req.TimeLimit
	}
	if req.StartTime != nil {
		if assignment.StartTime, err = parseTimePtr(req.StartTime); err != nil {
			return nil, fmt.Errorf("invalid start_time: %w", err)
		}
	}
	if req.EndTime != nil {
		if assignment.EndTime, err = parseTimePtr(req.EndTime); err != nil {
			return nil, fmt.Errorf("invalid end_time: %w", err)
		}
	}
	if req.AllowLateSubmission != nil {
		assignment.AllowLateSubmission = *req.AllowLateSubmission
	}
	if req.IsActive != nil {
		assignment.IsActive = *req.IsActive
	}
	if err := s.assignmentRepo.Update(assignment); err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}
	return s.GetAssignment(assignmentID)
}

func (s *assignmentService) DeleteAssignment(teacherID, assignmentID uint) error {
	if _, err := s.ownedAssignment(teacherID, assignmentID); err != nil {
		return err
	}
	return s.assignmentRepo.Delete(assignmentID)
}

func (s *assignmentService) AddQuestion(teacherID, assignmentID uint, req dto.CreateQuestionRequest) (*dto.AssignmentResponse, error) {
	assignment, err := s.ownedAssignment(teacherID, assignmentID)
	if err != nil {
		return nil, err
	}
	q, err := buildQuestion(req)
	if err != nil {
		return nil, err
	}
	q.AssignmentID = assignment.ID
	assignment.Questions = append(assignment.Questions, *q)
	if err := s.assignmentRepo.Update(assignment); err != nil {
		return nil, fmt.Errorf("failed to add question: %w", err)
	}
	return s.GetAssignment(assignmentID)
}

func (s *assignmentService) GetAssignment(assignmentID uint) (*dto.AssignmentResponse, error) {
	assignment, err := s.assignmentRepo.FindByIDWithQuestions(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return assignmentToResponse(assignment)
}

func (s *assignmentService) ListCourseAssignments(courseID uint) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignmentRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}
	resps := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		r, err := assignmentToResponse(&assignments[i])
		if err != nil {
			return nil, err
		}
		resps = append(resps, *r)
	}
	return resps, nil
}

func (s *assignmentService) ownedAssignment(teacherID, assignmentID uint) (*model.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByIDWithQuestions(assignmentID)
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

// buildQuestion validates a question payload against its type and maps it to
// the model. Choice questions need at least two options and one correct one;
// programming questions may not carry options.
func buildQuestion(req dto.CreateQuestionRequest) (*model.Question, error) {
	q := model.Question{
		Title:       req.Title,
		Description: req.Description,
		Type:        model.QuestionType(req.Type),
		Points:      req.Points,
		OrderIndex:  req.OrderIndex,
		StarterCode: req.StarterCode,
	}

	switch q.Type {
	case model.QuestionProgramming:
		if len(req.Options) > 0 {
			return nil, errors.New("programming questions cannot have options")
		}
		for _, tc := range req.TestCases {
			q.TestCases = append(q.TestCases, model.TestCase{
				Input:          tc.Input,
				ExpectedOutput: tc.ExpectedOutput,
				IsHidden:       tc.IsHidden,
				IsExample:      tc.IsExample,
				Points:         tc.Points,
			})
		}
	case model.QuestionMultipleChoice, model.QuestionTrueFalse:
		if len(req.TestCases) > 0 {
			return nil, errors.New("choice questions cannot have test cases")
		}
		if len(req.Options) < 2 {
			return nil, errors.New("choice questions need at least two options")
		}
		correct := 0
		for _, o := range req.Options {
			if o.IsCorrect {
				correct++
			}
		}
		if correct == 0 {
			return nil, errors.New("choice questions need at least one correct option")
		}
		if q.Type == model.QuestionTrueFalse && (len(req.Options) != 2 || correct != 1) {
			return nil, errors.New("true/false questions need exactly two options with one correct")
		}
		for _, o := range req.Options {
			q.Options = append(q.Options, model.QuestionOption{
				OptionText: o.OptionText,
				IsCorrect:  o.IsCorrect,
				OrderIndex: o.OrderIndex,
			})
		}
	case model.QuestionEssay:
		if len(req.Options) > 0 || len(req.TestCases) > 0 {
			return nil, errors.New("essay questions cannot have options or test cases")
		}
	default:
		return nil, fmt.Errorf("unsupported question type: %s", req.Type)
	}
	return &q, nil
}

func assignmentToResponse(assignment *model.Assignment) (*dto.AssignmentResponse, error) {
	var resp dto.AssignmentResponse
	if err := copier.Copy(&resp, assignment); err != nil {
		return nil, fmt.Errorf("failed to map assignment response: %w", err)
	}
	resp.Type = string(assignment.Type)
	resp.TotalQuestions = len(assignment.Questions)
	for i := range resp.Questions {
		resp.Questions[i].Type = string(assignment.Questions[i].Type)
	}
	return &resp, nil
}

func parseTimePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
