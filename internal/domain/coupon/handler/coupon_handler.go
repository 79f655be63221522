package handler

import (
	"net/http"
	"time"

	"studylib/internal/domain/coupon/model"
	"studylib/internal/domain/coupon/service"
	"studylib/internal/pkg/middleware"
	"studylib/pkg/response"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	service service.CouponService
}

func NewCouponHandler(service service.CouponService) *CouponHandler {
	return &CouponHandler{service: service}
}

type CreateCouponInput struct {
	Code          string     `json:"code" binding:"required"`
	Description   string     `json:"description"`
	DiscountType  string     `json:"discountType" binding:"required,oneof=percent flat"`
	DiscountValue int64      `json:"discountValue" binding:"required,min=1"`
	MaxDiscount   int64      `json:"maxDiscount" binding:"min=0"`
	MinAmount     int64      `json:"minAmount" binding:"min=0"`
	ValidFor      string     `json:"validFor" binding:"required"`
	PerUserLimit  int        `json:"perUserLimit" binding:"min=0"`
	ExpiresAt     *time.Time `json:"expiresAt"`
}

// CreateCoupon creates a coupon (admin).
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var input CreateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	coupon := &model.Coupon{
		Code:          input.Code,
		Description:   input.Description,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		MaxDiscount:   input.MaxDiscount,
		MinAmount:     input.MinAmount,
		ValidFor:      input.ValidFor,
		PerUserLimit:  input.PerUserLimit,
		Active:        true,
		ExpiresAt:     input.ExpiresAt,
	}

	if err := h.service.CreateCoupon(c.Request.Context(), coupon); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	response.Success(c, coupon)
}

// GetCoupon returns a coupon by code (admin).
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	coupon, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, http.StatusNotFound, response.ErrCouponNotFound, "Coupon not found")
		return
	}
	response.Success(c, coupon)
}

type ValidateCouponInput struct {
	Code      string `json:"code" binding:"required"`
	OrderType string `json:"orderType" binding:"required,oneof=subscription canteen"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
}

// ValidateCoupon checks a coupon against an amount before checkout.
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var input ValidateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.Validate(c.Request.Context(), input.Code, middleware.CallerID(c), input.OrderType, input.Amount)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	if !result.Valid {
		// Business rejection, not a transport failure.
		response.Fail(c, response.ErrCouponRejected, result.Reason)
		return
	}

	response.Success(c, result)
}
