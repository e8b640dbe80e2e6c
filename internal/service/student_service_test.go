package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cscore-lms/backend/internal/attempt"
	"github.com/cscore-lms/backend/internal/executor"
	"github.com/cscore-lms/backend/internal/model"
	"github.com/cscore-lms/backend/internal/repository"
)

type stubAssignmentRepo struct {
	repository.AssignmentRepository
	assignment *model.Assignment
}

func (s *stubAssignmentRepo) FindByIDWithQuestions(id uint) (*model.Assignment, error) {
	return s.assignment, nil
}

type stubSubmissionRepo struct {
	repository.SubmissionRepository
}

func (s *stubSubmissionRepo) FindByStudentAndAssignment(studentID, assignmentID uint) ([]model.Submission, error) {
	return nil, nil
}

type stubCourseService struct {
	CourseService
}

func (s stubCourseService) EnsureEnrolled(courseID, studentID uint) error {
	return nil
}

func TestStudentViewCarriesLastCheckResult(t *testing.T) {
	assignment := &model.Assignment{
		ID:       42,
		CourseID: 1,
		IsActive: true,
		Questions: []model.Question{
			{ID: 9, Title: "FizzBuzz", Type: model.QuestionProgramming, Points: 10, OrderIndex: 1},
		},
	}

	manager := attempt.NewManager()
	svc := NewStudentService(
		&stubAssignmentRepo{assignment: assignment},
		nil,
		&stubSubmissionRepo{},
		stubCourseService{},
		manager,
		nil,
	)

	sess := manager.Start(7, assignment, nil)
	require.NoError(t, sess.SetFreeText(9, "int main() { return 0; }"))
	require.NoError(t, sess.SetCheckResult(9, &executor.Result{
		Success:     true,
		PassedTests: 3,
		TotalTests:  4,
	}))

	resp, err := svc.GetAssignmentForStudent(7, 42)
	require.NoError(t, err)
	require.Len(t, resp.Questions, 1)

	check := resp.Questions[0].LastCheckResult
	require.NotNil(t, check, "a resuming student sees the cached verdict")
	assert.True(t, check.Success)
	assert.Equal(t, 3, check.PassedTests)
	assert.Equal(t, 4, check.TotalTests)

	// Editing the code invalidates the verdict.
	require.NoError(t, sess.SetFreeText(9, "int main() { return 1; }"))
	resp, err = svc.GetAssignmentForStudent(7, 42)
	require.NoError(t, err)
	assert.Nil(t, resp.Questions[0].LastCheckResult)
}
