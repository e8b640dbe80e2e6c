package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/cscore-lms/backend/internal/dto"
	"github.com/cscore-lms/backend/internal/model"
	"github.com/cscore-lms/backend/internal/repository"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrNotEnrolled    = errors.New("student is not enrolled in this course")
	ErrNotCourseOwner = errors.New("course belongs to another teacher")
	ErrCourseFull     = errors.New("course has reached its student limit")
)

type CourseService interface {
	CreateCourse(teacherID uint, req dto.CreateCourseRequest) (*dto.CourseResponse, error)
	UpdateCourse(teacherID, courseID uint, req dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	DeleteCourse(teacherID, courseID uint) error
	GetCourse(courseID uint) (*dto.CourseResponse, error)
	ListCourses() ([]dto.CourseResponse, error)
	ListTeacherCourses(teacherID uint) ([]dto.CourseResponse, error)
	ListStudentCourses(studentID uint) ([]dto.CourseResponse, error)
	EnrollStudent(teacherID, courseID, studentID uint) error
	EnsureEnrolled(courseID, studentID uint) error
}

type courseService struct {
	courseRepo repository.CourseRepository
	userRepo   repository.UserRepository
}

func NewCourseService(courseRepo repository.CourseRepository, userRepo repository.UserRepository) CourseService {
	return &courseService{courseRepo: courseRepo, userRepo: userRepo}
}

func (s *courseService) CreateCourse(teacherID uint, req dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course := model.Course{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		CreditHours: req.CreditHours,
		Semester:    req.Semester,
		Year:        req.Year,
		MaxStudents: req.MaxStudents,
		IsActive:    true,
		TeacherID:   teacherID,
	}
	// Admins may create a course on another teacher's behalf.
	if req.TeacherID != 0 {
		course.TeacherID = req.TeacherID
	}
	if err := s.courseRepo.Create(&course); err != nil {
		log.Error().Err(err).Str("code", req.Code).Msg("Failed to create course")
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return s.toResponse(&course)
}

func (s *courseService) UpdateCourse(teacherID, courseID uint, req dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.ownedCourse(teacherID, courseID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.CreditHours != nil {
		course.CreditHours = *req.CreditHours
	}
	if req.Semester != nil {
		course.Semester = *req.Semester
	}
	if req.Year != nil {
		course.Year = *req.Year
	}
	if req.MaxStudents != nil {
		course.MaxStudents = *req.MaxStudents
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}
	if err := s.courseRepo.Update(course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	return s.toResponse(course)
}

func (s *courseService) DeleteCourse(teacherID, courseID uint) error {
	if _, err := s.ownedCourse(teacherID, courseID); err != nil {
		return err
	}
	return s.courseRepo.Delete(courseID)
}

func (s *courseService) GetCourse(courseID uint) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.FindByIDWithTeacher(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return s.toResponse(course)
}

func (s *courseService) ListCourses() ([]dto.CourseResponse, error) {
	courses, err := s.courseRepo.FindAll()
	if err != nil {
		return nil, err
	}
	return s.toResponses(courses)
}

func (s *courseService) ListTeacherCourses(teacherID uint) ([]dto.CourseResponse, error) {
	courses, err := s.courseRepo.FindByTeacher(teacherID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(courses)
}

func (s *courseService) ListStudentCourses(studentID uint) ([]dto.CourseResponse, error) {
	courses, err := s.courseRepo.FindAll()
	if err != nil {
		return nil, err
	}
	var enrolled []model.Course
	for _, c := range courses {
		ok, err := s.courseRepo.IsEnrolled(c.ID, studentID)
		if err != nil {
			return nil, err
		}
		if ok && c.IsActive {
			enrolled = append(enrolled, c)
		}
	}
	return s.toResponses(enrolled)
}

func (s *courseService) EnrollStudent(teacherID, courseID, studentID uint) error {
	course, err := s.ownedCourse(teacherID, courseID)
	if err != nil {
		return err
	}
	student, err := s.userRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("student %d not found", studentID)
		}
		return err
	}
	if student.Role != model.RoleStudent {
		return fmt.Errorf("user %d is not a student", studentID)
	}
	already, err := s.courseRepo.IsEnrolled(courseID, studentID)
	if err != nil {
		return err
	}
	if already {
		return nil
	}
	if course.MaxStudents > 0 {
		count, err := s.courseRepo.CountStudents(courseID)
		if err != nil {
			return err
		}
		if count >= int64(course.MaxStudents) {
			return ErrCourseFull
		}
	}
	if err := s.courseRepo.Enroll(courseID, studentID); err != nil {
		log.Error().Err(err).Uint("courseID", courseID).Uint("studentID", studentID).Msg("Failed to enroll student")
		return fmt.Errorf("failed to enroll student: %w", err)
	}
	return nil
}

// EnsureEnrolled gates every student-side course operation.
func (s *courseService) EnsureEnrolled(courseID, studentID uint) error {
	ok, err := s.courseRepo.IsEnrolled(courseID, studentID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotEnrolled
	}
	return nil
}

func (s *courseService) ownedCourse(teacherID, courseID uint) (*model.Course, error) {
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
	return course, nil
}

func (s *courseService) toResponse(course *model.Course) (*dto.CourseResponse, error) {
	var resp dto.CourseResponse
	if err := copier.Copy(&resp, course); err != nil {
		return nil, fmt.Errorf("failed to map course response: %w", err)
	}
	if course.Teacher.ID != 0 {
		var teacher dto.UserResponse
		if err := copier.Copy(&teacher, &course.Teacher); err == nil {
			teacher.Role = string(course.Teacher.Role)
			resp.Teacher = &teacher
		}
	} else {
		resp.Teacher = nil
	}
	if n, err := s.courseRepo.CountStudents(course.ID); err == nil {
		resp.StudentCount = int(n)
	}
	if n, err := s.courseRepo.CountAssignments(course.ID); err == nil {
		resp.AssignmentCount = int(n)
	}
	return &resp, nil
}

func (s *courseService) toResponses(courses []model.Course) ([]dto.CourseResponse, error) {
	resps := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		r, err := s.toResponse(&courses[i])
		if err != nil {
			return nil, err
		}
		resps = append(resps, *r)
	}
	return resps, nil
}
