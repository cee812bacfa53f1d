package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name        string    `gorm:"default:''" json:"name"`
	Email       string    `gorm:"unique;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	Role        string    `gorm:"default:'TEACHER'" json:"role"` // TEACHER, STUDENT, ADMIN
	CoinBalance uint      `gorm:"default:0" json:"coinBalance"`
	LastLogin   time.Time `gorm:"default:NULL" json:"lastLogin"`
	IsDeleted   bool      `gorm:"default:false" json:"-"`
}
