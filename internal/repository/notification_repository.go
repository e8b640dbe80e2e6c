package repository

import (
	"github.com/cscore-lms/backend/internal/model"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(notification *model.Notification) error
	CreateBatch(notifications []model.Notification) error
	FindByUser(userID uint, unreadOnly bool) ([]model.Notification, error)
	FindByIDAndUser(id, userID uint) (*model.Notification, error)
	CountUnread(userID uint) (int64, error)
	SetRead(userID uint, ids []uint, read bool) error
	MarkAllRead(userID uint) error
	DeleteByIDAndUser(id, userID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	return r.db.Create(notification).Error
}

func (r *notificationRepository) CreateBatch(notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.Create(&notifications).Error
}

func (r *notificationRepository) FindByUser(userID uint, unreadOnly bool) ([]model.Notification, error) {
	q := r.db.Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var notifications []model.Notification
	if err := q.Order("created_at desc").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) FindByIDAndUser(id, userID uint) (*model.Notification, error) {
	var notification model.Notification
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) SetRead(userID uint, ids []uint, read bool) error {
	return r.db.Model(&model.Notification{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Update("is_read", read).Error
}

func (r *notificationRepository) MarkAllRead(userID uint) error {
	return r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *notificationRepository) DeleteByIDAndUser(id, userID uint) (int64, error) {
	res := r.db.Where("user_id = ?", userID).Delete(&model.Notification{}, id)
	return res.RowsAffected, res.Error
}
