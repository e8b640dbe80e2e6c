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

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService owns each user's feed. Entries are written by system
// events (assignment published, submission graded) and teacher
// announcements; users read, mark and delete their own entries only.
type NotificationService interface {
	ListMyNotifications(userID uint, unreadOnly bool) (*dto.NotificationFeedResponse, error)
	GetNotification(userID, notificationID uint) (*dto.NotificationResponse, error)
	UnreadCount(userID uint) (int64, error)
	MarkNotifications(userID uint, req dto.MarkNotificationsRequest) error
	MarkAllRead(userID uint) error
	DeleteNotification(userID, notificationID uint) error
	AnnounceToCourse(teacherID, courseID uint, req dto.AnnouncementRequest) error

	NotifyAssignmentPublished(assignment *model.Assignment)
	NotifySubmissionGraded(submission *model.Submission, assignmentTitle string)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	courseRepo       repository.CourseRepository
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	courseRepo repository.CourseRepository,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		courseRepo:       courseRepo,
	}
}

func (s *notificationService) ListMyNotifications(userID uint, unreadOnly bool) (*dto.NotificationFeedResponse, error) {
	notifications, err := s.notificationRepo.FindByUser(userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	unread, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	feed := &dto.NotificationFeedResponse{
		Notifications: make([]dto.NotificationResponse, 0, len(notifications)),
		UnreadCount:   unread,
	}
	for i := range notifications {
		resp, err := notificationToResponse(&notifications[i])
		if err != nil {
			return nil, err
		}
		feed.Notifications = append(feed.Notifications, *resp)
	}
	return feed, nil
}

// GetNotification returns a single entry and marks it read on first view.
func (s *notificationService) GetNotification(userID, notificationID uint) (*dto.NotificationResponse, error) {
	notification, err := s.notificationRepo.FindByIDAndUser(notificationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if !notification.IsRead {
		if err := s.notificationRepo.SetRead(userID, []uint{notificationID}, true); err != nil {
			return nil, fmt.Errorf("failed to mark notification read: %w", err)
		}
		notification.IsRead = true
	}
	return notificationToResponse(notification)
}

func (s *notificationService) UnreadCount(userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

func (s *notificationService) MarkNotifications(userID uint, req dto.MarkNotificationsRequest) error {
	return s.notificationRepo.SetRead(userID, req.NotificationIDs, req.IsRead)
}

func (s *notificationService) MarkAllRead(userID uint) error {
	return s.notificationRepo.MarkAllRead(userID)
}

func (s *notificationService) DeleteNotification(userID, notificationID uint) error {
	affected, err := s.notificationRepo.DeleteByIDAndUser(notificationID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// AnnounceToCourse fans a teacher announcement out to every enrolled
// student. Only the course owner may announce.
func (s *notificationService) AnnounceToCourse(teacherID, courseID uint, req dto.AnnouncementRequest) error {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	if course.TeacherID != teacherID {
		return ErrNotCourseOwner
	}
	studentIDs, err := s.courseRepo.FindStudentIDs(courseID)
	if err != nil {
		return fmt.Errorf("failed to load course roster: %w", err)
	}
	template := announcementNotification(course, req)
	if err := s.notificationRepo.CreateBatch(fanOut(template, studentIDs)); err != nil {
		return fmt.Errorf("failed to create announcements: %w", err)
	}
	log.Info().
		Uint("courseID", courseID).
		Int("recipients", len(studentIDs)).
		Msg("Course announcement sent")
	return nil
}

// NotifyAssignmentPublished pushes a feed entry to every student enrolled in
// the assignment's course. Failures are logged, never surfaced: a missing
// notification must not fail the publish.
func (s *notificationService) NotifyAssignmentPublished(assignment *model.Assignment) {
	studentIDs, err := s.courseRepo.FindStudentIDs(assignment.CourseID)
	if err != nil {
		log.Error().Err(err).Uint("assignmentID", assignment.ID).Msg("Failed to load roster for assignment notification")
		return
	}
	template := assignmentNotification(assignment)
	if err := s.notificationRepo.CreateBatch(fanOut(template, studentIDs)); err != nil {
		log.Error().Err(err).Uint("assignmentID", assignment.ID).Msg("Failed to create assignment notifications")
	}
}

// NotifySubmissionGraded tells the student their grade is in. Same
// fire-and-forget contract as NotifyAssignmentPublished.
func (s *notificationService) NotifySubmissionGraded(submission *model.Submission, assignmentTitle string) {
	n := gradingNotification(submission, assignmentTitle)
	if err := s.notificationRepo.Create(&n); err != nil {
		log.Error().Err(err).Uint("submissionID", submission.ID).Msg("Failed to create grading notification")
	}
}

// fanOut stamps one copy of the template per recipient.
func fanOut(template model.Notification, userIDs []uint) []model.Notification {
	out := make([]model.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		n := template
		n.UserID = id
		out = append(out, n)
	}
	return out
}

func announcementNotification(course *model.Course, req dto.AnnouncementRequest) model.Notification {
	courseID := course.ID
	return model.Notification{
		Title:             req.Title,
		Message:           req.Message,
		Type:              model.NotificationInfo,
		Category:          model.CategoryAnnouncement,
		RelatedEntityID:   &courseID,
		RelatedEntityType: "COURSE",
		ActionURL:         fmt.Sprintf("/courses/%d", courseID),
	}
}

func assignmentNotification(assignment *model.Assignment) model.Notification {
	assignmentID := assignment.ID
	return model.Notification{
		Title:             "New assignment",
		Message:           fmt.Sprintf("%q has been published.", assignment.Title),
		Type:              model.NotificationInfo,
		Category:          model.CategoryAssignment,
		RelatedEntityID:   &assignmentID,
		RelatedEntityType: "ASSIGNMENT",
		ActionURL:         fmt.Sprintf("/assignments/%d", assignmentID),
	}
}

// gradingNotification picks the feed entry's tone from the terminal status.
func gradingNotification(submission *model.Submission, assignmentTitle string) model.Notification {
	nType := model.NotificationInfo
	switch submission.Status {
	case model.StatusPassed:
		nType = model.NotificationSuccess
	case model.StatusFailed:
		nType = model.NotificationWarning
	case model.StatusError:
		nType = model.NotificationError
	}
	submissionID := submission.ID
	return model.Notification{
		UserID:            submission.StudentID,
		Title:             "Submission graded",
		Message:           fmt.Sprintf("Your submission for %q has been graded.", assignmentTitle),
		Type:              nType,
		Category:          model.CategoryGrading,
		RelatedEntityID:   &submissionID,
		RelatedEntityType: "SUBMISSION",
		ActionURL:         fmt.Sprintf("/submissions/%d", submissionID),
	}
}

func notificationToResponse(n *model.Notification) (*dto.NotificationResponse, error) {
	var resp dto.NotificationResponse
	if err := copier.Copy(&resp, n); err != nil {
		return nil, fmt.Errorf("failed to map notification: %w", err)
	}
	resp.Type = string(n.Type)
	resp.Category = string(n.Category)
	return &resp, nil
}
