package model

import (
	"time"

	baseModel "studylib/pkg/model"
)

// Plan is a purchasable library membership plan.
type Plan struct {
	baseModel.BaseModel
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	Description  string `gorm:"type:varchar(255)" json:"description"`
	DurationDays int    `gorm:"not null" json:"durationDays"`
	Price        int64  `gorm:"not null" json:"price"` // paise
	Active       bool   `gorm:"default:true" json:"active"`
}

// Subscription is created only when a plan order reaches paid.
type Subscription struct {
	baseModel.BaseModel
	UserID    string    `gorm:"type:uuid;not null;index" json:"userId"`
	PlanID    string    `gorm:"type:uuid;not null" json:"planId"`
	OrderID   string    `gorm:"type:uuid;not null;uniqueIndex" json:"orderId"`
	StartDate time.Time `gorm:"not null" json:"startDate"`
	EndDate   time.Time `gorm:"not null" json:"endDate"`
}

// ActiveAt reports whether the subscription covers the given time.
func (s *Subscription) ActiveAt(t time.Time) bool {
	return !t.Before(s.StartDate) && t.Before(s.EndDate)
}
