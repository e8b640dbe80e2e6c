package model

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `json:"name" gorm:"not null"`
	Code        string         `json:"code" gorm:"not null;uniqueIndex"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	CreditHours int            `json:"credit_hours"`
	Semester    string         `json:"semester"`
	Year        int            `json:"year"`
	MaxStudents int            `json:"max_students"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	TeacherID   uint           `json:"teacher_id" gorm:"not null;index"`
	Teacher     User           `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	Students    []User         `json:"students,omitempty" gorm:"many2many:course_students;"`
	Assignments []Assignment   `json:"assignments,omitempty" gorm:"foreignKey:CourseID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
