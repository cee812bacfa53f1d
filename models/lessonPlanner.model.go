package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LessonPlanner composes the teacher's taxonomy entities into one plan.
// Activities holds the ordered activity sequence as JSON:
// [{"activityTemplateId": 1, "interactionPatternId": 2, "durationMinutes": 10}, ...]
type LessonPlanner struct {
	gorm.Model
	UserID           uint           `gorm:"index;not null" json:"userId"`
	Title            string         `gorm:"size:255;not null" json:"title"`
	GradeLevelID     *uint          `json:"gradeLevelId"`
	ClassID          *uint          `json:"classId"`
	TeachingMethodID *uint          `json:"teachingMethodId"`
	Objectives       string         `gorm:"type:text" json:"objectives"`
	Skills           string         `gorm:"type:text" json:"skills"`
	Attitudes        string         `gorm:"type:text" json:"attitudes"`
	Activities       datatypes.JSON `json:"activities"`
	IsDeleted        bool           `gorm:"default:false" json:"-"`
}
