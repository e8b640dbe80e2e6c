package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cscore-lms/backend/internal/dto"
	"github.com/cscore-lms/backend/internal/model"
	"github.com/cscore-lms/backend/internal/repository"
)

type stubNotificationRepo struct {
	repository.NotificationRepository
	created []model.Notification
}

func (s *stubNotificationRepo) Create(n *model.Notification) error {
	s.created = append(s.created, *n)
	return nil
}

func (s *stubNotificationRepo) CreateBatch(ns []model.Notification) error {
	s.created = append(s.created, ns...)
	return nil
}

type stubCourseRepo struct {
	repository.CourseRepository
	course     *model.Course
	studentIDs []uint
}

func (s *stubCourseRepo) FindByID(id uint) (*model.Course, error) {
	if s.course == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.course, nil
}

func (s *stubCourseRepo) FindStudentIDs(courseID uint) ([]uint, error) {
	return s.studentIDs, nil
}

func TestAnnounceToCourseFansOutToRoster(t *testing.T) {
	notifications := &stubNotificationRepo{}
	svc := NewNotificationService(notifications, &stubCourseRepo{
		course:     &model.Course{ID: 3, TeacherID: 11},
		studentIDs: []uint{21, 22, 23},
	})

	err := svc.AnnounceToCourse(11, 3, dto.AnnouncementRequest{
		Title:   "Midterm moved",
		Message: "The midterm now opens Friday.",
	})
	require.NoError(t, err)
	require.Len(t, notifications.created, 3)

	seen := map[uint]bool{}
	for _, n := range notifications.created {
		seen[n.UserID] = true
		assert.Equal(t, "Midterm moved", n.Title)
		assert.Equal(t, model.CategoryAnnouncement, n.Category)
		assert.False(t, n.IsRead)
	}
	assert.Equal(t, map[uint]bool{21: true, 22: true, 23: true}, seen)
}

func TestAnnounceToCourseRequiresOwnership(t *testing.T) {
	svc := NewNotificationService(&stubNotificationRepo{}, &stubCourseRepo{
		course: &model.Course{ID: 3, TeacherID: 11},
	})

	err := svc.AnnounceToCourse(12, 3, dto.AnnouncementRequest{Title: "t", Message: "m"})
	assert.ErrorIs(t, err, ErrNotCourseOwner)

	svc = NewNotificationService(&stubNotificationRepo{}, &stubCourseRepo{})
	err = svc.AnnounceToCourse(11, 99, dto.AnnouncementRequest{Title: "t", Message: "m"})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestNotifyAssignmentPublishedTargetsEnrolledStudents(t *testing.T) {
	notifications := &stubNotificationRepo{}
	svc := NewNotificationService(notifications, &stubCourseRepo{studentIDs: []uint{5, 6}})

	svc.NotifyAssignmentPublished(&model.Assignment{ID: 42, CourseID: 3, Title: "Sorting lab"})

	require.Len(t, notifications.created, 2)
	n := notifications.created[0]
	assert.Equal(t, model.CategoryAssignment, n.Category)
	assert.Equal(t, "ASSIGNMENT", n.RelatedEntityType)
	require.NotNil(t, n.RelatedEntityID)
	assert.Equal(t, uint(42), *n.RelatedEntityID)
	assert.Contains(t, n.Message, "Sorting lab")
}

func TestGradingNotificationToneFollowsStatus(t *testing.T) {
	cases := []struct {
		status model.SubmissionStatus
		want   model.NotificationType
	}{
		{model.StatusPassed, model.NotificationSuccess},
		{model.StatusFailed, model.NotificationWarning},
		{model.StatusError, model.NotificationError},
		{model.StatusPartial, model.NotificationInfo},
		{model.StatusGraded, model.NotificationInfo},
	}
	for _, tc := range cases {
		n := gradingNotification(&model.Submission{ID: 9, StudentID: 4, Status: tc.status}, "Quiz 1")
		assert.Equal(t, tc.want, n.Type, string(tc.status))
		assert.Equal(t, uint(4), n.UserID)
		assert.Equal(t, model.CategoryGrading, n.Category)
	}
}
