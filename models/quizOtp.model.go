package models

import (
	"time"

	"gorm.io/gorm"
)

// QuizOTP gates student access to a quiz. A code is usable only while
// IsActive, before ExpiresAt, and while UsageCount is under MaxUsage
// (MaxUsage 0 means no cap).
type QuizOTP struct {
	gorm.Model
	Code                  string    `gorm:"size:8;uniqueIndex;not null" json:"code"`
	QuizID                uint      `gorm:"index;not null" json:"quizId"`
	TeacherID             uint      `gorm:"index;not null" json:"teacherId"`
	ExpiresAt             time.Time `gorm:"not null" json:"expiresAt"`
	ExpiryMinutes         int       `gorm:"not null" json:"expiryMinutes"`
	IsActive              bool      `gorm:"default:true" json:"isActive"`
	UsageCount            int       `gorm:"default:0" json:"usageCount"`
	MaxUsage              int       `gorm:"default:0" json:"maxUsage"`
	AllowMultipleAttempts bool      `gorm:"default:false" json:"allowMultipleAttempts"`
}
