package repository

import (
	"github.com/cscore-lms/backend/internal/model"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(course *model.Course) error
	Update(course *model.Course) error
	Delete(id uint) error
	FindByID(id uint) (*model.Course, error)
	FindByIDWithTeacher(id uint) (*model.Course, error)
	FindAll() ([]model.Course, error)
	FindByTeacher(teacherID uint) ([]model.Course, error)
	Enroll(courseID, studentID uint) error
	IsEnrolled(courseID, studentID uint) (bool, error)
	FindStudentIDs(courseID uint) ([]uint, error)
	CountStudents(courseID uint) (int64, error)
	CountAssignments(courseID uint) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(course *model.Course) error {
	return r.db.Create(course).Error
}

func (r *courseRepository) Update(course *model.Course) error {
	return r.db.Save(course).Error
}

func (r *courseRepository) Delete(id uint) error {
	return r.db.Delete(&model.Course{}, id).Error
}

func (r *courseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	if err := r.db.First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindByIDWithTeacher(id uint) (*model.Course, error) {
	var course model.Course
	if err := r.db.Preload("Teacher").First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindAll() ([]model.Course, error) {
	var courses []model.Course
	if err := r.db.Preload("Teacher").Order("created_at desc").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) FindByTeacher(teacherID uint) ([]model.Course, error) {
	var courses []model.Course
	if err := r.db.Where("teacher_id = ?", teacherID).Order("created_at desc").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) Enroll(courseID, studentID uint) error {
	course := model.Course{ID: courseID}
	return r.db.Model(&course).Association("Students").Append(&model.User{ID: studentID})
}

func (r *courseRepository) IsEnrolled(courseID, studentID uint) (bool, error) {
	var count int64
	err := r.db.Table("course_students").
		Where("course_id = ? AND user_id = ?", courseID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *courseRepository) FindStudentIDs(courseID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Table("course_students").
		Where("course_id = ?", courseID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *courseRepository) CountStudents(courseID uint) (int64, error) {
	var count int64
	err := r.db.Table("course_students").Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *courseRepository) CountAssignments(courseID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Assignment{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}
