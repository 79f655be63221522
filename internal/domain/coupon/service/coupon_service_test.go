package service

import (
	"context"
	"testing"
	"time"

	"studylib/internal/domain/coupon/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockCouponRepository is a mock of CouponRepository
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) Create(coupon *model.Coupon) error {
	args := m.Called(coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) GetByCode(code string) (*model.Coupon, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponRepository) CountUsagesByUser(couponID, userID string) (int64, error) {
	args := m.Called(couponID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCouponRepository) RecordUsage(tx *gorm.DB, usage *model.CouponUsage) (bool, error) {
	args := m.Called(tx, usage)
	return args.Bool(0), args.Error(1)
}

func (m *MockCouponRepository) IncrementUsedCount(tx *gorm.DB, couponID string) error {
	args := m.Called(tx, couponID)
	return args.Error(0)
}

func percentCoupon(code string, percent int64) *model.Coupon {
	c := &model.Coupon{
		Code:          code,
		DiscountType:  model.DiscountTypePercent,
		DiscountValue: percent,
		ValidFor:      "subscription,canteen",
		PerUserLimit:  1,
		Active:        true,
	}
	c.ID = "coupon-" + code
	return c
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("percent discount computes final amount", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, nil)

		coupon := percentCoupon("SAVE10", 10)
		mockRepo.On("GetByCode", "SAVE10").Return(coupon, nil)
		mockRepo.On("CountUsagesByUser", coupon.ID, "user-1").Return(int64(0), nil)

		result, err := service.Validate(ctx, "SAVE10", "user-1", "subscription", 1000)

		assert.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, int64(100), result.DiscountAmount)
		assert.Equal(t, int64(900), result.FinalAmount)
		mockRepo.AssertExpectations(t)
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, nil)

		coupon := percentCoupon("SAVE10", 10)
		mockRepo.On("GetByCode", "SAVE10").Return(coupon, nil)
		mockRepo.On("CountUsagesByUser", coupon.ID, "user-1").Return(int64(0), nil)

		result, err := service.Validate(ctx, "  save10 ", "user-1", "canteen", 1000)

		assert.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("percent discount rounds half up to the paisa", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, nil)

		// 15% of 105 paise = 15.75, rounds to 16.
		coupon := percentCoupon("SAVE15", 15)
		mockRepo.On("GetByCode", "SAVE15").Return(coupon, nil)
		mockRepo.On("CountUsagesByUser", coupon.ID, "user-1").Return(int64(0), nil)

		result, err := service.Validate(ctx, "SAVE15", "user-1", "canteen", 105)

		assert.NoError(t, err)
		assert.Equal(t, int64(16), result.DiscountAmount)
		assert.Equal(t, int64(89), result.FinalAmount)
	})

	t.Run("percent discount respects max discount cap", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, nil)

		coupon := percentCoupon("SAVE50", 50)
		coupon.MaxDiscount = 200
		mockRepo.On("GetByCode", "SAVE50").Return(coupon, nil)
		mockRepo.On("CountUsagesByUser", coupon.ID, "user-1").Return(int64(0), nil)

		result, err := service.Validate(ctx, "SAVE50", "user-1", "canteen", 1000)

		assert.NoError(t, err)
		assert.Equal(t, int64(200), result.DiscountAmount)
		assert.Equal(t, int64(800), result.FinalAmount)
	})

	t.Run("flat discount floors payable at zero", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, nil)

		coupon := &model.Coupon{
			Code:          "FLAT500",
			DiscountType:  model.DiscountTypeFlat,
			DiscountValue: 500,
			ValidFor:      "canteen",
			Active:        true,
		}
		coupon.ID = "coupon-flat"
		mockRepo.On("GetByCode", "FLAT500").Return(coupon, nil)

		result, err := service.Validate(ctx, "FLAT500", "user-1", "canteen", 300)

		assert.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, int64(300), result.DiscountAmount)
		assert.Equal(t, int64(0), result.FinalAmount)
	})

	t.Run("unknown code", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, nil)

		mockRepo.On("GetByCode", "NOPE").Return(nil, gorm.ErrRecordNotFound)

		result, err := service.Validate(ctx, "NOPE", "user-1", "canteen", 1000)

		assert.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, ReasonNotFound, result.Reason)
	})

	t.Run("inactive coupon", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, nil)

		coupon := percentCoupon("OLD", 10)
		coupon.Active = false
		mockRepo.On("GetByCode", "OLD").Return(coupon, nil)

		result, err := service.Validate(ctx, "OLD", "user-1", "canteen", 1000)

		assert.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, ReasonInactive, result.Reason)
	})

	t.Run("expired coupon", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, nil)

		past := time.Now().Add(-time.Hour)
		coupon := percentCoupon("GONE", 10)
		coupon.ExpiresAt = &past
		mockRepo.On("GetByCode", "GONE").Return(coupon, nil)

		result, err := service.Validate(ctx, "GONE", "user-1", "canteen", 1000)

		assert.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, ReasonExpired, result.Reason)
	})

	t.Run("order type not eligible", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, nil)

		coupon := percentCoupon("SUBONLY", 10)
		coupon.ValidFor = "subscription"
		mockRepo.On("GetByCode", "SUBONLY").Return(coupon, nil)

		result, err := service.Validate(ctx, "SUBONLY", "user-1", "canteen", 1000)

		assert.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, ReasonNotApplicable, result.Reason)
	})

	t.Run("amount below minimum", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, nil)

		coupon := percentCoupon("BIG", 10)
		coupon.MinAmount = 5000
		mockRepo.On("GetByCode", "BIG").Return(coupon, nil)

		result, err := service.Validate(ctx, "BIG", "user-1", "canteen", 1000)

		assert.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, ReasonBelowMinimum, result.Reason)
	})

	t.Run("per-user usage cap reached", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, nil)

		coupon := percentCoupon("ONCE", 10)
		mockRepo.On("GetByCode", "ONCE").Return(coupon, nil)
		mockRepo.On("CountUsagesByUser", coupon.ID, "user-1").Return(int64(1), nil)

		result, err := service.Validate(ctx, "ONCE", "user-1", "canteen", 1000)

		assert.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, ReasonUsageLimit, result.Reason)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, nil)

		_, err := service.Validate(ctx, "SAVE10", "user-1", "canteen", 0)

		assert.Error(t, err)
	})
}

func TestRedeemForOrder(t *testing.T) {
	t.Run("increments used count when usage inserts", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, nil)

		mockRepo.On("RecordUsage", mock.Anything, mock.AnythingOfType("*model.CouponUsage")).Return(true, nil)
		mockRepo.On("IncrementUsedCount", mock.Anything, "coupon-1").Return(nil)

		err := service.RedeemForOrder(nil, "coupon-1", "user-1", "order-1")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("skips increment when usage already recorded", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, nil)

		mockRepo.On("RecordUsage", mock.Anything, mock.AnythingOfType("*model.CouponUsage")).Return(false, nil)

		err := service.RedeemForOrder(nil, "coupon-1", "user-1", "order-1")

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "IncrementUsedCount", mock.Anything, mock.Anything)
	})
}

func TestCreateCoupon(t *testing.T) {
	ctx := context.Background()

	t.Run("stores code uppercase", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, nil)

		mockRepo.On("Create", mock.MatchedBy(func(c *model.Coupon) bool {
			return c.Code == "SAVE10"
		})).Return(nil)

		err := service.CreateCoupon(ctx, &model.Coupon{
			Code:          "save10",
			DiscountType:  model.DiscountTypePercent,
			DiscountValue: 10,
			ValidFor:      "subscription",
		})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects percent above 100", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, nil)

		err := service.CreateCoupon(ctx, &model.Coupon{
			Code:          "TOOMUCH",
			DiscountType:  model.DiscountTypePercent,
			DiscountValue: 150,
			ValidFor:      "subscription",
		})

		assert.Error(t, err)
	})
}
