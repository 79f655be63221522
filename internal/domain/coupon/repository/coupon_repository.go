package repository

import (
	"studylib/internal/domain/coupon/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CouponRepository interface {
	Create(coupon *model.Coupon) error
	GetByCode(code string) (*model.Coupon, error)
	CountUsagesByUser(couponID, userID string) (int64, error)

	// RecordUsage inserts the usage row inside tx and reports whether it
	// actually inserted (false when the (coupon_id, order_id) pair
	// already exists).
	RecordUsage(tx *gorm.DB, usage *model.CouponUsage) (bool, error)

	// IncrementUsedCount bumps used_count by one inside tx. Must only be
	// called when RecordUsage inserted.
	IncrementUsedCount(tx *gorm.DB, couponID string) error
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(coupon *model.Coupon) error {
	return r.db.Create(coupon).Error
}

// GetByCode expects an already-uppercased code.
func (r *couponRepository) GetByCode(code string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := r.db.Where("code = ?", code).First(&coupon).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) CountUsagesByUser(couponID, userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error
	return count, err
}

func (r *couponRepository) RecordUsage(tx *gorm.DB, usage *model.CouponUsage) (bool, error) {
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "coupon_id"}, {Name: "order_id"}},
		DoNothing: true,
	}).Create(usage)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementUsedCount is a single atomic increment, never a read-modify-write.
func (r *couponRepository) IncrementUsedCount(tx *gorm.DB, couponID string) error {
	return tx.Model(&model.Coupon{}).
		Where("id = ?", couponID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
}
