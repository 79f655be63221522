package model

import (
	"strings"
	"time"

	baseModel "studylib/pkg/model"
)

// Coupon is a discount definition. Codes are stored uppercase; lookups
// normalize the input so the wire format is case-insensitive.
type Coupon struct {
	baseModel.BaseModel
	Code          string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Description   string     `gorm:"type:varchar(255)" json:"description"`
	DiscountType  string     `gorm:"type:varchar(20);not null" json:"discountType"` // percent, flat
	DiscountValue int64      `gorm:"not null" json:"discountValue"`                 // percent 1-100, or flat paise
	MaxDiscount   int64      `gorm:"default:0" json:"maxDiscount"`                  // paise cap for percent, 0 = uncapped
	MinAmount     int64      `gorm:"default:0" json:"minAmount"`                    // minimum order amount in paise
	ValidFor      string     `gorm:"type:varchar(100);not null" json:"validFor"`    // comma separated order types
	PerUserLimit  int        `gorm:"default:1" json:"perUserLimit"`                 // 0 = unlimited
	UsedCount     int64      `gorm:"default:0" json:"usedCount"`
	Active        bool       `gorm:"default:true" json:"active"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

const (
	DiscountTypePercent = "percent"
	DiscountTypeFlat    = "flat"
)

// AppliesTo reports whether the coupon is valid for the given order type.
func (c *Coupon) AppliesTo(orderType string) bool {
	for _, t := range strings.Split(c.ValidFor, ",") {
		if strings.TrimSpace(t) == orderType {
			return true
		}
	}
	return false
}

// Expired reports whether the coupon's expiry has passed at the given time.
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// CouponUsage is one redemption. The (coupon_id, order_id) uniqueness is
// the source of truth for "this order already redeemed this coupon" and
// is what keeps used_count from double-counting under retries.
type CouponUsage struct {
	baseModel.BaseModel
	CouponID string `gorm:"type:uuid;not null;uniqueIndex:idx_coupon_order;index" json:"couponId"`
	UserID   string `gorm:"type:uuid;not null;index" json:"userId"`
	OrderID  string `gorm:"type:uuid;not null;uniqueIndex:idx_coupon_order" json:"orderId"`
}
