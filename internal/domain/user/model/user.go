package model

import (
	baseModel "studylib/pkg/model"
)

// User is a library member account.
type User struct {
	baseModel.BaseModel
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Contact  string `gorm:"type:varchar(20)" json:"contact"`
	Role     int    `gorm:"default:1" json:"role"`
	Status   int    `gorm:"default:1" json:"status"`
}

const (
	RoleUser  = 1
	RoleAdmin = 2

	StatusNormal = 1
	StatusBanned = 2
)
