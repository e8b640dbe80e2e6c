package model

import (
	"time"

	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionProgramming    QuestionType = "PROGRAMMING"
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionEssay          QuestionType = "ESSAY"
	QuestionTrueFalse      QuestionType = "TRUE_FALSE"
)

// IsChoice reports whether answers are picked from options rather than typed.
func (t QuestionType) IsChoice() bool {
	return t == QuestionMultipleChoice || t == QuestionTrueFalse
}

type Question struct {
	ID           uint             `gorm:"primarykey" json:"id"`
	AssignmentID uint             `json:"assignment_id" gorm:"not null;index"`
	Title        string           `json:"title" gorm:"not null"`
	Description  string           `json:"description,omitempty" gorm:"type:text"`
	Type         QuestionType     `json:"question_type" gorm:"column:question_type;not null"`
	Points       float64          `json:"points" gorm:"not null"`
	OrderIndex   int              `json:"order_index" gorm:"not null"`
	StarterCode  *string          `json:"starter_code,omitempty" gorm:"type:text"`
	Options      []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TestCases    []TestCase       `json:"test_cases,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
}

// CorrectOptionIDs returns the ids of options marked correct.
func (q *Question) CorrectOptionIDs() []uint {
	var ids []uint
	for _, o := range q.Options {
		if o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

type QuestionOption struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	QuestionID uint           `json:"question_id" gorm:"not null;index"`
	OptionText string         `json:"option_text" gorm:"not null"`
	IsCorrect  bool           `json:"is_correct"`
	OrderIndex int            `json:"order_index"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

type TestCase struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	QuestionID     uint           `json:"question_id" gorm:"not null;index"`
	Input          string         `json:"input" gorm:"type:text"`
	ExpectedOutput string         `json:"expected_output" gorm:"type:text"`
	IsHidden       bool           `json:"is_hidden"`
	IsExample      bool           `json:"is_example"`
	Points         float64        `json:"points"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
