package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"studylib/internal/domain/payment/service"
	"studylib/internal/pkg/middleware"
	"studylib/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(s service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

type CreateOrderInput struct {
	Type       string          `json:"type" binding:"required,oneof=subscription canteen"`
	PlanID     string          `json:"planId"`
	Items      json.RawMessage `json:"items"`
	Amount     int64           `json:"amount" binding:"min=0"`
	CouponCode string          `json:"couponCode"`
	Gateway    string          `json:"gateway" binding:"required,oneof=razorpay cashfree"`
}

// CreateOrder creates a payment order and its gateway intent.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, intent, err := h.service.CreateOrder(c.Request.Context(), middleware.CallerID(c), service.CreateOrderInput{
		Type:       input.Type,
		PlanID:     input.PlanID,
		Items:      input.Items,
		Amount:     input.Amount,
		CouponCode: input.CouponCode,
		Gateway:    input.Gateway,
	})
	if err != nil {
		var rejected *service.CouponRejectedError
		switch {
		case errors.As(err, &rejected):
			response.Error(c, http.StatusBadRequest, response.ErrCouponRejected, rejected.Reason)
		case errors.Is(err, service.ErrPlanNotFound):
			response.Error(c, http.StatusBadRequest, response.ErrPlanNotFound, "Plan not found")
		case errors.Is(err, service.ErrUnknownGateway):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Unsupported payment gateway")
		case errors.Is(err, service.ErrGatewayUnavailable):
			// Retryable: nothing was persisted for this attempt.
			response.Error(c, http.StatusBadGateway, response.ErrGatewayUnavailable, "Payment gateway unavailable, please retry")
		default:
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		}
		return
	}

	response.Success(c, gin.H{
		"order": order,
		"intent": gin.H{
			"gateway_order_id": intent.GatewayOrderID,
			"amount":           intent.Amount,
			"currency":         intent.Currency,
			"key_id":           intent.KeyID,
			"extra":            intent.Extra,
		},
	})
}

type VerifyPaymentInput struct {
	OrderID          string `json:"orderId" binding:"required"`
	GatewayOrderID   string `json:"gatewayOrderId"`
	GatewayPaymentID string `json:"gatewayPaymentId" binding:"required"`
	GatewaySignature string `json:"gatewaySignature"`
	ReportedStatus   string `json:"reportedStatus" binding:"required,oneof=success failed"`
}

// VerifyPayment checks a client-reported payment result and finalizes
// the order.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var input VerifyPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.Finalize(c.Request.Context(), input.OrderID, middleware.CallerID(c), service.FinalizeInput{
		GatewayPaymentID: input.GatewayPaymentID,
		GatewaySignature: input.GatewaySignature,
		ReportedStatus:   input.ReportedStatus,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
		case errors.Is(err, service.ErrForbidden):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Order does not belong to caller")
		case errors.Is(err, service.ErrInvalidSignature):
			// No gateway internals in the client-facing message.
			response.Error(c, http.StatusBadRequest, response.ErrSignatureInvalid, "Payment verification failed")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, gin.H{"order": order})
}

// GetOrder returns one of the caller's orders.
func (h *PaymentHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Param("id"), middleware.CallerID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
		case errors.Is(err, service.ErrForbidden):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Order does not belong to caller")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, order)
}
