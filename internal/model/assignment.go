package model

import (
	"time"

	"gorm.io/gorm"
)

type AssignmentType string

const (
	AssignmentExercise AssignmentType = "EXERCISE"
	AssignmentExam     AssignmentType = "EXAM"
	AssignmentProject  AssignmentType = "PROJECT"
	AssignmentQuiz     AssignmentType = "QUIZ"
)

type Assignment struct {
	ID                  uint           `gorm:"primarykey" json:"id"`
	CourseID            uint           `json:"course_id" gorm:"not null;index"`
	Course              Course         `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Title               string         `json:"title" gorm:"not null"`
	Description         string         `json:"description,omitempty" gorm:"type:text"`
	Requirements        string         `json:"requirements,omitempty" gorm:"type:text"`
	Type                AssignmentType `json:"type" gorm:"not null;default:'EXERCISE'"`
	MaxScore            float64        `json:"max_score" gorm:"not null"`
	TimeLimit           int            `json:"time_limit"` // minutes, 0 means no limit
	StartTime           *time.Time     `json:"start_time,omitempty"`
	EndTime             *time.Time     `json:"end_time,omitempty"`
	AllowLateSubmission bool           `json:"allow_late_submission" gorm:"default:false"`
	AutoGrade           bool           `json:"auto_grade" gorm:"default:true"`
	IsActive            bool           `json:"is_active" gorm:"default:true"`
	Questions           []Question     `json:"questions,omitempty" gorm:"foreignKey:AssignmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasProgrammingQuestion reports whether any question makes this a
// programming submission in the legacy single-payload sense.
func (a *Assignment) HasProgrammingQuestion() bool {
	for _, q := range a.Questions {
		if q.Type == QuestionProgramming {
			return true
		}
	}
	return false
}
