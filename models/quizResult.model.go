package models

import (
	"time"

	"gorm.io/gorm"
)

type QuizResult struct {
	gorm.Model
	UserID         uint         `gorm:"index;not null" json:"userId"`
	QuizID         uint         `gorm:"index;not null" json:"quizId"`
	Score          int          `gorm:"not null" json:"score"`
	TotalQuestions int          `gorm:"not null" json:"totalQuestions"`
	Percentage     float64      `gorm:"not null" json:"percentage"`
	CompletedAt    time.Time    `gorm:"not null" json:"completedAt"`
	UserAnswers    []UserAnswer `gorm:"foreignKey:QuizResultID" json:"userAnswers,omitempty"`
}

// UserAnswer records one chosen answer. At most one row may exist per
// (result, question) pair.
type UserAnswer struct {
	gorm.Model
	QuizResultID uint `gorm:"not null;uniqueIndex:idx_result_question" json:"quizResultId"`
	QuestionID   uint `gorm:"not null;uniqueIndex:idx_result_question" json:"questionId"`
	AnswerID     uint `gorm:"not null" json:"answerId"`
}
