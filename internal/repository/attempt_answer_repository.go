package repository

import (
	"github.com/cscore-lms/backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptAnswerRepository interface {
	Upsert(answer *model.AttemptAnswer) error
	FindByStudentAndAssignment(studentID, assignmentID uint) ([]model.AttemptAnswer, error)
	DeleteByStudentAndAssignment(studentID, assignmentID uint) error
}

type attemptAnswerRepository struct {
	db *gorm.DB
}

func NewAttemptAnswerRepository(db *gorm.DB) AttemptAnswerRepository {
	return &attemptAnswerRepository{db: db}
}

func (r *attemptAnswerRepository) Upsert(answer *model.AttemptAnswer) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "assignment_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answer", "selected_options", "updated_at"}),
	}).Create(answer).Error
}

func (r *attemptAnswerRepository) FindByStudentAndAssignment(studentID, assignmentID uint) ([]model.AttemptAnswer, error) {
	var answers []model.AttemptAnswer
	err := r.db.
		Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *attemptAnswerRepository) DeleteByStudentAndAssignment(studentID, assignmentID uint) error {
	return r.db.
		Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		Delete(&model.AttemptAnswer{}).Error
}
