package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"studylib/internal/domain/coupon/model"
	"studylib/internal/domain/coupon/repository"
	"studylib/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Rejection reasons surfaced to the caller.
const (
	ReasonNotFound         = "not_found"
	ReasonInactive         = "inactive"
	ReasonExpired          = "expired"
	ReasonNotApplicable    = "order_type_not_eligible"
	ReasonUsageLimit       = "usage_limit_reached"
	ReasonBelowMinimum     = "amount_below_minimum"
	couponCacheTTL         = 5 * time.Minute
	couponCacheKeyTemplate = "coupon:code:%s"
)

// ValidationResult is the discount decision for one (code, user, order
// type, amount) tuple.
type ValidationResult struct {
	Valid          bool          `json:"valid"`
	Reason         string        `json:"reason,omitempty"`
	DiscountAmount int64         `json:"discountAmount"`
	FinalAmount    int64         `json:"finalAmount"`
	Coupon         *model.Coupon `json:"-"`
}

// CouponService validates coupons and records redemptions. Validate is
// read-only: usage is written only by the order finalizer, inside its
// transaction, so abandoned checkouts never consume a redemption.
type CouponService interface {
	Validate(ctx context.Context, code, userID, orderType string, amount int64) (*ValidationResult, error)
	RedeemForOrder(tx *gorm.DB, couponID, userID, orderID string) error
	CreateCoupon(ctx context.Context, coupon *model.Coupon) error
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
}

type couponService struct {
	repo repository.CouponRepository
	rdb  *redis.Client
}

// NewCouponService creates the coupon service. rdb may be nil, in which
// case the lookaside cache is skipped.
func NewCouponService(repo repository.CouponRepository, rdb *redis.Client) CouponService {
	return &couponService{repo: repo, rdb: rdb}
}

// NormalizeCode uppercases and trims a wire-format coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *couponService) Validate(ctx context.Context, code, userID, orderType string, amount int64) (*ValidationResult, error) {
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	code = NormalizeCode(code)
	if code == "" {
		return nil, errors.New("coupon code must not be empty")
	}

	coupon, err := s.getByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.reject(ReasonNotFound), nil
		}
		return nil, err
	}

	if !coupon.Active {
		return s.reject(ReasonInactive), nil
	}
	if coupon.Expired(time.Now()) {
		return s.reject(ReasonExpired), nil
	}
	if !coupon.AppliesTo(orderType) {
		return s.reject(ReasonNotApplicable), nil
	}
	if amount < coupon.MinAmount {
		return s.reject(ReasonBelowMinimum), nil
	}

	if coupon.PerUserLimit > 0 {
		used, err := s.repo.CountUsagesByUser(coupon.ID, userID)
		if err != nil {
			return nil, err
		}
		if used >= int64(coupon.PerUserLimit) {
			return s.reject(ReasonUsageLimit), nil
		}
	}

	discount := computeDiscount(coupon, amount)
	return &ValidationResult{
		Valid:          true,
		DiscountAmount: discount,
		FinalAmount:    amount - discount,
		Coupon:         coupon,
	}, nil
}

// computeDiscount returns the discount in paise, never exceeding amount.
// Percentage discounts round half-up to the paisa.
func computeDiscount(coupon *model.Coupon, amount int64) int64 {
	var discount int64
	switch coupon.DiscountType {
	case model.DiscountTypePercent:
		discount = (amount*coupon.DiscountValue + 50) / 100
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			discount = coupon.MaxDiscount
		}
	case model.DiscountTypeFlat:
		discount = coupon.DiscountValue
	}
	if discount > amount {
		discount = amount
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// RedeemForOrder records the usage inside the finalizer's transaction.
// The usage row's uniqueness guards the used_count increment: a retried
// finalize finds the row already present and increments nothing.
func (s *couponService) RedeemForOrder(tx *gorm.DB, couponID, userID, orderID string) error {
	inserted, err := s.repo.RecordUsage(tx, &model.CouponUsage{
		CouponID: couponID,
		UserID:   userID,
		OrderID:  orderID,
	})
	if err != nil {
		return err
	}
	if !inserted {
		return nil
	}
	return s.repo.IncrementUsedCount(tx, couponID)
}

func (s *couponService) CreateCoupon(ctx context.Context, coupon *model.Coupon) error {
	coupon.Code = NormalizeCode(coupon.Code)
	if coupon.Code == "" {
		return errors.New("coupon code must not be empty")
	}
	if coupon.DiscountType == model.DiscountTypePercent && (coupon.DiscountValue <= 0 || coupon.DiscountValue > 100) {
		return errors.New("percent discount must be between 1 and 100")
	}
	if coupon.DiscountType == model.DiscountTypeFlat && coupon.DiscountValue <= 0 {
		return errors.New("flat discount must be positive")
	}

	if err := s.repo.Create(coupon); err != nil {
		return err
	}

	s.invalidate(ctx, coupon.Code)
	return nil
}

func (s *couponService) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	return s.getByCode(ctx, NormalizeCode(code))
}

func (s *couponService) reject(reason string) *ValidationResult {
	metrics.CouponRejections.WithLabelValues(reason).Inc()
	return &ValidationResult{Valid: false, Reason: reason}
}

// getByCode reads through the redis cache. UsedCount in the cached copy
// may lag; per-user limits are always counted from the usages table.
func (s *couponService) getByCode(ctx context.Context, code string) (*model.Coupon, error) {
	key := fmt.Sprintf(couponCacheKeyTemplate, code)

	if s.rdb != nil {
		if data, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var coupon model.Coupon
			if err := json.Unmarshal(data, &coupon); err == nil {
				return &coupon, nil
			}
		}
	}

	coupon, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(coupon); err == nil {
			s.rdb.Set(ctx, key, data, couponCacheTTL)
		}
	}

	return coupon, nil
}

func (s *couponService) invalidate(ctx context.Context, code string) {
	if s.rdb != nil {
		s.rdb.Del(ctx, fmt.Sprintf(couponCacheKeyTemplate, code))
	}
}
