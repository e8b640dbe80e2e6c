package repository

import (
	"github.com/cscore-lms/backend/internal/model"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	Create(assignment *model.Assignment) error
	Update(assignment *model.Assignment) error
	Delete(id uint) error
	FindByID(id uint) (*model.Assignment, error)
	FindByIDWithQuestions(id uint) (*model.Assignment, error)
	FindByCourse(courseID uint) ([]model.Assignment, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(assignment *model.Assignment) error {
	// GORM creates nested questions, options and test cases in one go.
	return r.db.Create(assignment).Error
}

func (r *assignmentRepository) Update(assignment *model.Assignment) error {
	return r.db.Save(assignment).Error
}

func (r *assignmentRepository) Delete(id uint) error {
	return r.db.Delete(&model.Assignment{}, id).Error
}

func (r *assignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	if err := r.db.First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindByIDWithQuestions(id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.
		Preload("Course").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order_index ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.order_index ASC")
		}).
		Preload("Questions.TestCases").
		First(&assignment, id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindByCourse(courseID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	if err := r.db.Where("course_id = ?", courseID).Order("created_at desc").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}
