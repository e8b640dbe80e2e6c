package repository

import (
	"github.com/cscore-lms/backend/internal/model"
	"gorm.io/gorm"
)

type SubmissionRepository interface {
	Create(submission *model.Submission) error
	Update(submission *model.Submission) error
	FindByID(id uint) (*model.Submission, error)
	FindByIDWithResults(id uint) (*model.Submission, error)
	FindByStudentAndAssignment(studentID, assignmentID uint) ([]model.Submission, error)
	FindByAssignment(assignmentID uint) ([]model.Submission, error)
	SaveResults(submission *model.Submission, results []model.QuestionResult) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(submission *model.Submission) error {
	return r.db.Create(submission).Error
}

func (r *submissionRepository) Update(submission *model.Submission) error {
	return r.db.Save(submission).Error
}

func (r *submissionRepository) FindByID(id uint) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindByIDWithResults(id uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.
		Preload("Assignment").
		Preload("Student").
		Preload("QuestionResults.Question").
		Preload("QuestionResults.TestCaseResults").
		First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindByStudentAndAssignment(studentID, assignmentID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.
		Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		Preload("Assignment").
		Preload("QuestionResults.Question").
		Preload("QuestionResults.TestCaseResults").
		Order("submitted_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) FindByAssignment(assignmentID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.
		Where("assignment_id = ?", assignmentID).
		Preload("Student").
		Order("submitted_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// SaveResults persists the grading outcome atomically: question results,
// their test case results and the submission's final status and score.
func (r *submissionRepository) SaveResults(submission *model.Submission, results []model.QuestionResult) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range results {
			results[i].SubmissionID = submission.ID
			if err := tx.Create(&results[i]).Error; err != nil {
				return err
			}
		}
		return tx.Save(submission).Error
	})
}
