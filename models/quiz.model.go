package models

import "gorm.io/gorm"

type Quiz struct {
	gorm.Model
	UserID          uint       `gorm:"index;not null" json:"userId"`
	LessonPlannerID *uint      `gorm:"index" json:"lessonPlannerId"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Description     string     `gorm:"size:2000" json:"description"`
	Questions       []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

type Question struct {
	gorm.Model
	QuizID  uint     `gorm:"index;not null" json:"quizId"`
	Content string   `gorm:"type:text;not null" json:"content"`
	Answers []Answer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

type Answer struct {
	gorm.Model
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Content    string `gorm:"type:text;not null" json:"content"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}
