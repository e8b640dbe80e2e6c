package model

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Username     string         `json:"username" gorm:"not null;uniqueIndex"`
	Email        string         `json:"email" gorm:"not null;uniqueIndex"`
	FullName     string         `json:"full_name" gorm:"not null"`
	PasswordHash string         `json:"-" gorm:"not null"`
	Role         Role           `json:"role" gorm:"not null;default:'STUDENT'"`
	StudentCode  *string        `json:"student_code,omitempty" gorm:"index"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
