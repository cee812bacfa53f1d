package models

import "gorm.io/gorm"

// TemplateBase is the shared shape of every curriculum taxonomy entity.
// Each taxonomy is curated by a single teacher and referenced later when
// composing lesson planners.
type TemplateBase struct {
	gorm.Model
	UserID      uint   `gorm:"index;not null" json:"userId"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"size:2000" json:"description"`
	IsDeleted   bool   `gorm:"default:false" json:"-"`
}

// SetOwner assigns the owning teacher
func (b *TemplateBase) SetOwner(id uint) { b.UserID = id }

// Owner returns the owning teacher's user ID
func (b *TemplateBase) Owner() uint { return b.UserID }

// Apply copies the caller-editable fields
func (b *TemplateBase) Apply(name, description string) {
	b.Name = name
	b.Description = description
}

type GradeLevel struct{ TemplateBase }

type Class struct{ TemplateBase }

type Objective struct{ TemplateBase }

type Skill struct{ TemplateBase }

type Attitude struct{ TemplateBase }

type PreparationType struct{ TemplateBase }

type LanguageFocusType struct{ TemplateBase }

type TeachingMethod struct{ TemplateBase }

type ActivityTemplate struct{ TemplateBase }

type InteractionPattern struct{ TemplateBase }
