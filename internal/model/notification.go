package model

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationInfo    NotificationType = "INFO"
	NotificationSuccess NotificationType = "SUCCESS"
	NotificationWarning NotificationType = "WARNING"
	NotificationError   NotificationType = "ERROR"
)

type NotificationCategory string

const (
	CategoryAssignment   NotificationCategory = "ASSIGNMENT"
	CategoryCourse       NotificationCategory = "COURSE"
	CategorySubmission   NotificationCategory = "SUBMISSION"
	CategoryGrading      NotificationCategory = "GRADING"
	CategorySystem       NotificationCategory = "SYSTEM"
	CategoryAnnouncement NotificationCategory = "ANNOUNCEMENT"
)

// Notification is one entry in a user's feed. Entries are written by the
// system (assignment published, submission graded) or by a teacher
// announcement and stay until the user deletes them.
type Notification struct {
	ID                uint                 `gorm:"primarykey" json:"id"`
	UserID            uint                 `json:"user_id" gorm:"not null;index"`
	Title             string               `json:"title" gorm:"not null"`
	Message           string               `json:"message" gorm:"type:text;not null"`
	Type              NotificationType     `json:"type" gorm:"not null"`
	Category          NotificationCategory `json:"category" gorm:"not null"`
	IsRead            bool                 `json:"is_read" gorm:"default:false"`
	RelatedEntityID   *uint                `json:"related_entity_id,omitempty"`
	RelatedEntityType string               `json:"related_entity_type,omitempty"`
	ActionURL         string               `json:"action_url,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	DeletedAt         gorm.DeletedAt       `gorm:"index" json:"-"`
}
