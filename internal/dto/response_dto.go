package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// --- Auth / users ---

type UserResponse struct {
	ID          uint    `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	FullName    string  `json:"full_name"`
	Role        string  `json:"role"`
	StudentCode *string `json:"student_code,omitempty"`
	IsActive    bool    `json:"is_active"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- Courses ---

type CourseResponse struct {
	ID              uint          `json:"id"`
	Name            string        `json:"name"`
	Code            string        `json:"code"`
	Description     string        `json:"description,omitempty"`
	CreditHours     int           `json:"credit_hours"`
	Semester        string        `json:"semester"`
	Year            int           `json:"year"`
	MaxStudents     int           `json:"max_students"`
	IsActive        bool          `json:"is_active"`
	Teacher         *UserResponse `json:"teacher,omitempty"`
	StudentCount    int           `json:"student_count"`
	AssignmentCount int           `json:"assignment_count"`
	CreatedAt       time.Time     `json:"created_at"`
}

// --- Assignments (teacher view; option correctness included) ---

type TestCaseResponse struct {
	ID             uint    `json:"id"`
	Input          string  `json:"input"`
	ExpectedOutput string  `json:"expected_output"`
	IsHidden       bool    `json:"is_hidden"`
	IsExample      bool    `json:"is_example"`
	Points         float64 `json:"points"`
}

type QuestionOptionResponse struct {
	ID         uint   `json:"id"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index"`
}

type QuestionResponse struct {
	ID          uint                     `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description,omitempty"`
	Type        string                   `json:"question_type"`
	Points      float64                  `json:"points"`
	OrderIndex  int                      `json:"order_index"`
	StarterCode *string                  `json:"starter_code,omitempty"`
	TestCases   []TestCaseResponse       `json:"test_cases,omitempty"`
	Options     []QuestionOptionResponse `json:"options,omitempty"`
}

type AssignmentResponse struct {
	ID                  uint               `json:"id"`
	CourseID            uint               `json:"course_id"`
	Title               string             `json:"title"`
	Description         string             `json:"description,omitempty"`
	Requirements        string             `json:"requirements,omitempty"`
	Type                string             `json:"type"`
	MaxScore            float64            `json:"max_score"`
	TimeLimit           int                `json:"time_limit"`
	StartTime           *time.Time         `json:"start_time,omitempty"`
	EndTime             *time.Time         `json:"end_time,omitempty"`
	AllowLateSubmission bool               `json:"allow_late_submission"`
	AutoGrade           bool               `json:"auto_grade"`
	IsActive            bool               `json:"is_active"`
	TotalQuestions      int                `json:"total_questions"`
	Questions           []QuestionResponse `json:"questions,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
}

// --- Student attempt view: hidden test cases and correct-option flags are
// stripped, saved drafts and submission echo are included. ---

type StudentOptionResponse struct {
	ID         uint   `json:"id"`
	OptionText string `json:"option_text"`
	OrderIndex int    `json:"order_index"`
}

type StudentQuestionResponse struct {
	ID              uint                    `json:"id"`
	Title           string                  `json:"title"`
	Description     string                  `json:"description,omitempty"`
	Type            string                  `json:"question_type"`
	Points          float64                 `json:"points"`
	OrderIndex      int                     `json:"order_index"`
	StarterCode     *string                 `json:"starter_code,omitempty"`
	PublicTestCases []TestCaseResponse      `json:"public_test_cases,omitempty"`
	TotalTestCases  int                     `json:"total_test_cases"`
	Options         []StudentOptionResponse `json:"options,omitempty"`
	IsAnswered      bool                    `json:"is_answered"`
	UserAnswer      string                  `json:"user_answer,omitempty"`
	SelectedOptions []uint                  `json:"selected_option_ids,omitempty"`
	LastCheckResult *CodeExecutionResponse  `json:"last_check_result,omitempty"`
}

type StudentAssignmentResponse struct {
	ID                  uint                      `json:"id"`
	CourseID            uint                      `json:"course_id"`
	CourseName          string                    `json:"course_name"`
	Title               string                    `json:"title"`
	Description         string                    `json:"description,omitempty"`
	Requirements        string                    `json:"requirements,omitempty"`
	Type                string                    `json:"type"`
	MaxScore            float64                   `json:"max_score"`
	TimeLimit           int                       `json:"time_limit"`
	StartTime           *time.Time                `json:"start_time,omitempty"`
	EndTime             *time.Time                `json:"end_time,omitempty"`
	AllowLateSubmission bool                      `json:"allow_late_submission"`
	IsSubmitted         bool                      `json:"is_submitted"`
	CurrentScore        *float64                  `json:"current_score,omitempty"`
	SubmissionStatus    string                    `json:"submission_status,omitempty"`
	RemainingSeconds    *int                      `json:"remaining_seconds,omitempty"`
	CurrentIndex        int                       `json:"current_index"`
	TotalQuestions      int                       `json:"total_questions"`
	Questions           []StudentQuestionResponse `json:"questions,omitempty"`
}

// --- Code execution ---

type TestCaseOutcomeResponse struct {
	Input           string `json:"input"`
	ExpectedOutput  string `json:"expected_output"`
	ActualOutput    string `json:"actual_output,omitempty"`
	Passed          bool   `json:"passed"`
	Error           string `json:"error,omitempty"`
	ExecutionTimeMs *int64 `json:"execution_time_ms,omitempty"`
}

type CodeExecutionResponse struct {
	Success          bool                      `json:"success"`
	Output           string                    `json:"output,omitempty"`
	Error            string                    `json:"error,omitempty"`
	CompilationError string                    `json:"compilation_error,omitempty"`
	Message          string                    `json:"message,omitempty"`
	TestResults      []TestCaseOutcomeResponse `json:"test_results,omitempty"`
	PassedTests      int                       `json:"passed_tests"`
	TotalTests       int                       `json:"total_tests"`
	Score            *float64                  `json:"score,omitempty"`
}

// --- Submissions / results ---

type TestCaseResultResponse struct {
	ID              uint   `json:"id"`
	Input           string `json:"input"`
	ExpectedOutput  string `json:"expected_output"`
	ActualOutput    string `json:"actual_output,omitempty"`
	Passed          bool   `json:"passed"`
	Error           string `json:"error,omitempty"`
	ExecutionTimeMs *int64 `json:"execution_time_ms,omitempty"`
}

type QuestionResultResponse struct {
	QuestionID      uint                     `json:"question_id"`
	QuestionTitle   string                   `json:"question_title"`
	QuestionType    string                   `json:"question_type"`
	Status          string                   `json:"status"`
	EarnedScore     float64                  `json:"earned_score"`
	MaxScore        float64                  `json:"max_score"`
	Feedback        string                   `json:"feedback,omitempty"`
	TestCaseResults []TestCaseResultResponse `json:"test_case_results,omitempty"`
}

type SubmissionResponse struct {
	ID                  uint                     `json:"id"`
	AssignmentID        uint                     `json:"assignment_id"`
	AssignmentTitle     string                   `json:"assignment_title,omitempty"`
	StudentID           uint                     `json:"student_id"`
	StudentName         string                   `json:"student_name,omitempty"`
	Code                string                   `json:"code"`
	ProgrammingLanguage string                   `json:"programming_language"`
	Status              string                   `json:"status"`
	Score               *float64                 `json:"score,omitempty"`
	Percentage          *float64                 `json:"percentage,omitempty"`
	Feedback            string                   `json:"feedback,omitempty"`
	TestCasesPassed     *int                     `json:"test_cases_passed,omitempty"`
	TotalTestCases      *int                     `json:"total_test_cases,omitempty"`
	SubmittedAt         time.Time                `json:"submitted_at"`
	GradedAt            *time.Time               `json:"graded_at,omitempty"`
	QuestionResults     []QuestionResultResponse `json:"question_results,omitempty"`
}

// --- Notifications ---

type NotificationResponse struct {
	ID                uint      `json:"id"`
	Title             string    `json:"title"`
	Message           string    `json:"message"`
	Type              string    `json:"type"`
	Category          string    `json:"category"`
	IsRead            bool      `json:"is_read"`
	RelatedEntityID   *uint     `json:"related_entity_id,omitempty"`
	RelatedEntityType string    `json:"related_entity_type,omitempty"`
	ActionURL         string    `json:"action_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// NotificationFeedResponse is the feed plus the unread badge count.
type NotificationFeedResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}
