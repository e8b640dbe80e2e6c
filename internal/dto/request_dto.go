package dto

// --- Auth ---

type RegisterRequest struct {
	Username    string  `json:"username" binding:"required,min=3"`
	Email       string  `json:"email" binding:"required,email"`
	FullName    string  `json:"full_name" binding:"required"`
	Password    string  `json:"password" binding:"required,min=6"`
	StudentCode *string `json:"student_code"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --- Admin ---

type CreateUserRequest struct {
	Username    string  `json:"username" binding:"required,min=3"`
	Email       string  `json:"email" binding:"required,email"`
	FullName    string  `json:"full_name" binding:"required"`
	Password    string  `json:"password" binding:"required,min=6"`
	Role        string  `json:"role" binding:"required,oneof=STUDENT TEACHER ADMIN"`
	StudentCode *string `json:"student_code"`
}

type UpdateUserStatusRequest struct {
	IsActive bool `json:"is_active"`
}

// --- Courses ---

type CreateCourseRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Description string `json:"description"`
	CreditHours int    `json:"credit_hours"`
	Semester    string `json:"semester"`
	Year        int    `json:"year"`
	MaxStudents int    `json:"max_students"`
	TeacherID   uint   `json:"teacher_id"`
}

type UpdateCourseRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CreditHours *int    `json:"credit_hours"`
	Semester    *string `json:"semester"`
	Year        *int    `json:"year"`
	MaxStudents *int    `json:"max_students"`
	IsActive    *bool   `json:"is_active"`
}

type EnrollStudentRequest struct {
	StudentID uint `json:"student_id" binding:"required"`
}

// --- Assignments (teacher side) ---

type TestCaseRequest struct {
	Input          string  `json:"input"`
	ExpectedOutput string  `json:"expected_output" binding:"required"`
	IsHidden       bool    `json:"is_hidden"`
	IsExample      bool    `json:"is_example"`
	Points         float64 `json:"points"`
}

type QuestionOptionRequest struct {
	OptionText string `json:"option_text" binding:"required"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index"`
}

type CreateQuestionRequest struct {
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description"`
	Type        string                  `json:"question_type" binding:"required,oneof=PROGRAMMING MULTIPLE_CHOICE ESSAY TRUE_FALSE"`
	Points      float64                 `json:"points" binding:"required,gt=0"`
	OrderIndex  int                     `json:"order_index" binding:"required,min=1"`
	StarterCode *string                 `json:"starter_code"`
	TestCases   []TestCaseRequest       `json:"test_cases" binding:"omitempty,dive"`
	Options     []QuestionOptionRequest `json:"options" binding:"omitempty,dive"`
}

type CreateAssignmentRequest struct {
	Title               string                  `json:"title" binding:"required"`
	Description         string                  `json:"description"`
	Requirements        string                  `json:"requirements"`
	Type                string                  `json:"type" binding:"required,oneof=EXERCISE EXAM PROJECT QUIZ"`
	MaxScore            float64                 `json:"max_score" binding:"required,gt=0"`
	TimeLimit           int                     `json:"time_limit" binding:"omitempty,min=0"`
	StartTime           *string                 `json:"start_time"`
	EndTime             *string                 `json:"end_time"`
	AllowLateSubmission bool                    `json:"allow_late_submission"`
	AutoGrade           bool                    `json:"auto_grade"`
	Questions           []CreateQuestionRequest `json:"questions" binding:"omitempty,dive"`
}

type UpdateAssignmentRequest struct {
	Title               *string  `json:"title"`
	Description         *string  `json:"description"`
	Requirements        *string  `json:"requirements"`
	MaxScore            *float64 `json:"max_score"`
	TimeLimit           *int     `json:"time_limit"`
	StartTime           *string  `json:"start_time"`
	EndTime             *string  `json:"end_time"`
	AllowLateSubmission *bool    `json:"allow_late_submission"`
	IsActive            *bool    `json:"is_active"`
}

type GradeOverrideRequest struct {
	Score    float64 `json:"score" binding:"min=0"`
	Feedback string  `json:"feedback"`
}

// --- Attempt workflow (student side) ---

// SaveAnswerRequest carries either a free-text answer or an option pick.
type SaveAnswerRequest struct {
	QuestionID uint    `json:"question_id" binding:"required"`
	Answer     *string `json:"answer"`
	OptionID   *uint   `json:"option_id"`
}

type AttemptPositionRequest struct {
	Index int `json:"index"`
}

// QuestionCodeRequest is shared by the check (graded test cases) and run
// (custom input, not graded) operations.
type QuestionCodeRequest struct {
	Code     string  `json:"code" binding:"required"`
	Language *string `json:"language"`
	Input    *string `json:"input"`
}

// --- Notifications ---

// MarkNotificationsRequest flips the read flag on a set of feed entries.
type MarkNotificationsRequest struct {
	NotificationIDs []uint `json:"notification_ids" binding:"required,min=1"`
	IsRead          bool   `json:"is_read"`
}

// AnnouncementRequest is a teacher broadcast to every student enrolled in a
// course.
type AnnouncementRequest struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
}
