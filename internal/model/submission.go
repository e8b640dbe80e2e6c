package model

import (
	"time"

	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	StatusSubmitted SubmissionStatus = "SUBMITTED"
	StatusGrading   SubmissionStatus = "GRADING"
	StatusGraded    SubmissionStatus = "GRADED"
	StatusPassed    SubmissionStatus = "PASSED"
	StatusPartial   SubmissionStatus = "PARTIAL"
	StatusFailed    SubmissionStatus = "FAILED"
	StatusError     SubmissionStatus = "ERROR"
	StatusNoTests   SubmissionStatus = "NO_TESTS"
)

// Terminal reports whether grading has finished. Non-terminal submissions
// are the ones result views keep polling for.
func (s SubmissionStatus) Terminal() bool {
	return s != StatusSubmitted && s != StatusGrading
}

type ResultStatus string

const (
	ResultCorrect     ResultStatus = "CORRECT"
	ResultPartial     ResultStatus = "PARTIAL"
	ResultIncorrect   ResultStatus = "INCORRECT"
	ResultNotAnswered ResultStatus = "NOT_ANSWERED"
)

// Submission stores the flattened legacy payload: all question answers joined
// into one code string, with the declared language of the first non-empty
// programming answer. Per-question results are attached once graded.
type Submission struct {
	ID                  uint             `gorm:"primarykey" json:"id"`
	AssignmentID        uint             `json:"assignment_id" gorm:"not null;index"`
	Assignment          Assignment       `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`
	StudentID           uint             `json:"student_id" gorm:"not null;index"`
	Student             User             `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Code                string           `json:"code" gorm:"type:text;not null"`
	ProgrammingLanguage string           `json:"programming_language" gorm:"not null"`
	Status              SubmissionStatus `json:"status" gorm:"default:'SUBMITTED'"`
	Score               *float64         `json:"score,omitempty"`
	Feedback            string           `json:"feedback,omitempty" gorm:"type:text"`
	TestCasesPassed     *int             `json:"test_cases_passed,omitempty"`
	TotalTestCases      *int             `json:"total_test_cases,omitempty"`
	SubmittedAt         time.Time        `json:"submitted_at" gorm:"autoCreateTime"`
	GradedAt            *time.Time       `json:"graded_at,omitempty"`
	QuestionResults     []QuestionResult `json:"question_results,omitempty" gorm:"foreignKey:SubmissionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	DeletedAt           gorm.DeletedAt   `gorm:"index" json:"-"`
}

type QuestionResult struct {
	ID              uint             `gorm:"primarykey" json:"id"`
	SubmissionID    uint             `json:"submission_id" gorm:"not null;index"`
	QuestionID      uint             `json:"question_id" gorm:"not null;index"`
	Question        Question         `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Status          ResultStatus     `json:"status" gorm:"not null"`
	EarnedScore     float64          `json:"earned_score"`
	MaxScore        float64          `json:"max_score"`
	Feedback        string           `json:"feedback,omitempty" gorm:"type:text"`
	TestCaseResults []TestCaseResult `json:"test_case_results,omitempty" gorm:"foreignKey:QuestionResultID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}

type TestCaseResult struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	QuestionResultID uint           `json:"question_result_id" gorm:"not null;index"`
	Input            string         `json:"input" gorm:"type:text"`
	ExpectedOutput   string         `json:"expected_output" gorm:"type:text"`
	ActualOutput     string         `json:"actual_output,omitempty" gorm:"type:text"`
	Passed           bool           `json:"passed"`
	ErrorText        string         `json:"error,omitempty" gorm:"type:text"`
	ExecutionTimeMs  *int64         `json:"execution_time_ms,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
