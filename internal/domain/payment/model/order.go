package model

import (
	"encoding/json"
	"time"

	baseModel "studylib/pkg/model"
)

// Order is one checkout attempt. All amounts are in paise; final_amount
// is what the gateway intent was opened for, and it is the only amount
// the system ever believes.
type Order struct {
	baseModel.BaseModel
	UserID           string          `gorm:"type:uuid;not null;index" json:"userId"`
	Type             string          `gorm:"type:varchar(20);not null" json:"type"` // subscription, canteen
	PlanID           *string         `gorm:"type:uuid" json:"planId,omitempty"`
	Items            json.RawMessage `gorm:"type:jsonb" json:"items,omitempty"`
	Amount           int64           `gorm:"not null" json:"amount"`
	DiscountAmount   int64           `gorm:"not null;default:0" json:"discountAmount"`
	FinalAmount      int64           `gorm:"not null" json:"finalAmount"`
	Currency         string          `gorm:"type:varchar(10);default:'INR'" json:"currency"`
	CouponID         *string         `gorm:"type:uuid" json:"couponId,omitempty"`
	Gateway          string          `gorm:"type:varchar(20);not null" json:"gateway"`
	GatewayOrderID   string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"gatewayOrderId"`
	GatewayPaymentID string          `gorm:"type:varchar(100)" json:"gatewayPaymentId,omitempty"`
	GatewaySignature string          `gorm:"type:varchar(255)" json:"-"`
	Status           string          `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaidAt           *time.Time      `json:"paidAt,omitempty"`
}

// Status transitions are monotonic: pending is the only state that can
// change, and it changes at most once.
const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"

	OrderTypeSubscription = "subscription"
	OrderTypeCanteen      = "canteen"
)

// Terminal reports whether the order can never transition again.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusPaid || o.Status == OrderStatusFailed
}
