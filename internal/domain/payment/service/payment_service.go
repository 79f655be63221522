package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	couponService "studylib/internal/domain/coupon/service"
	"studylib/internal/domain/payment/gateway"
	"studylib/internal/domain/payment/model"
	"studylib/internal/domain/payment/repository"
	subscriptionService "studylib/internal/domain/subscription/service"
	"studylib/internal/pkg/worker"
	"studylib/pkg/logger"
	"studylib/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrForbidden          = errors.New("order does not belong to caller")
	ErrInvalidSignature   = errors.New("payment signature verification failed")
	ErrUnknownGateway     = errors.New("unsupported payment gateway")
	ErrPlanNotFound       = errors.New("plan not found")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// CouponRejectedError carries the validator's rejection reason to the
// caller as a user-correctable error.
type CouponRejectedError struct {
	Reason string
}

func (e *CouponRejectedError) Error() string {
	return "coupon rejected: " + e.Reason
}

type CreateOrderInput struct {
	Type       string
	PlanID     string
	Items      json.RawMessage
	Amount     int64
	CouponCode string
	Gateway    string
}

type FinalizeInput struct {
	GatewayPaymentID string
	GatewaySignature string
	ReportedStatus   string
}

// PaymentService owns the order lifecycle: intent creation against a
// registered gateway and the exactly-once finalize transition.
type PaymentService interface {
	CreateOrder(ctx context.Context, userID string, input CreateOrderInput) (*model.Order, *gateway.Intent, error)
	Finalize(ctx context.Context, orderID, callerID string, input FinalizeInput) (*model.Order, error)
	GetOrder(orderID, callerID string) (*model.Order, error)
	RegisterGateway(gw gateway.Gateway)
}

type paymentService struct {
	repo          repository.PaymentRepository
	gateways      map[string]gateway.Gateway
	coupons       couponService.CouponService
	subscriptions subscriptionService.SubscriptionService
	audit         *worker.AuditPool
}

const gatewayCallTimeout = 15 * time.Second

func NewPaymentService(
	repo repository.PaymentRepository,
	coupons couponService.CouponService,
	subscriptions subscriptionService.SubscriptionService,
	audit *worker.AuditPool,
) PaymentService {
	return &paymentService{
		repo:          repo,
		gateways:      make(map[string]gateway.Gateway),
		coupons:       coupons,
		subscriptions: subscriptions,
		audit:         audit,
	}
}

// RegisterGateway registers a provider variant under its name.
func (s *paymentService) RegisterGateway(gw gateway.Gateway) {
	s.gateways[gw.Name()] = gw
}

// CreateOrder validates the coupon, opens a gateway intent for the
// locally computed final amount and persists the pending order row.
// Every call opens a fresh intent; duplicate pending rows are harmless
// because only one row per gateway order id can ever finalize.
func (s *paymentService) CreateOrder(ctx context.Context, userID string, input CreateOrderInput) (*model.Order, *gateway.Intent, error) {
	gw, ok := s.gateways[input.Gateway]
	if !ok {
		return nil, nil, ErrUnknownGateway
	}

	amount := input.Amount
	var planID *string

	switch input.Type {
	case model.OrderTypeSubscription:
		// The plan's stored price is authoritative; the request amount
		// is ignored for plan purchases.
		plan, err := s.subscriptions.GetPlan(input.PlanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrPlanNotFound
			}
			return nil, nil, err
		}
		amount = plan.Price
		planID = &plan.ID
	case model.OrderTypeCanteen:
		if amount <= 0 {
			return nil, nil, errors.New("amount must be positive")
		}
	default:
		return nil, nil, fmt.Errorf("unknown order type %q", input.Type)
	}

	finalAmount := amount
	var discountAmount int64
	var couponID *string

	if input.CouponCode != "" {
		result, err := s.coupons.Validate(ctx, input.CouponCode, userID, input.Type, amount)
		if err != nil {
			return nil, nil, err
		}
		if !result.Valid {
			return nil, nil, &CouponRejectedError{Reason: result.Reason}
		}
		discountAmount = result.DiscountAmount
		finalAmount = result.FinalAmount
		couponID = &result.Coupon.ID
	}

	receipt := fmt.Sprintf("%s%s", time.Now().Format("20060102150405"), uuid.New().String()[:8])

	gwCtx, cancel := context.WithTimeout(ctx, gatewayCallTimeout)
	defer cancel()

	intent, err := gw.CreateIntent(gwCtx, gateway.IntentRequest{
		LocalOrderID: receipt,
		Amount:       finalAmount,
		Currency:     "INR",
		Receipt:      receipt,
		Notes:        map[string]string{"user_id": userID},
	})
	if err != nil {
		metrics.GatewayErrors.WithLabelValues(gw.Name()).Inc()
		// No order row exists at this point, so a timeout can only
		// leave the attempt absent, never paid-looking.
		return nil, nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	order := &model.Order{
		UserID:         userID,
		Type:           input.Type,
		PlanID:         planID,
		Items:          input.Items,
		Amount:         amount,
		DiscountAmount: discountAmount,
		FinalAmount:    finalAmount,
		Currency:       "INR",
		CouponID:       couponID,
		Gateway:        gw.Name(),
		GatewayOrderID: intent.GatewayOrderID,
		Status:         model.OrderStatusPending,
	}
	if err := s.repo.CreateOrder(order); err != nil {
		return nil, nil, err
	}

	metrics.OrdersCreated.WithLabelValues(gw.Name(), input.Type).Inc()

	return order, intent, nil
}

// Finalize applies a client-reported payment result. The signature check
// runs against the stored gateway order id regardless of the reported
// status, and the state transition is a single conditional update, so
// duplicate deliveries and concurrent retries converge on one outcome.
func (s *paymentService) Finalize(ctx context.Context, orderID, callerID string, input FinalizeInput) (*model.Order, error) {
	order, err := s.repo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID != callerID {
		return nil, ErrForbidden
	}

	// Already-terminal orders are returned as-is; this is what makes a
	// retried verify call safe.
	if order.Terminal() {
		metrics.OrdersFinalized.WithLabelValues("conflict").Inc()
		return order, nil
	}

	gw, ok := s.gateways[order.Gateway]
	if !ok {
		return nil, ErrUnknownGateway
	}

	if input.ReportedStatus != "success" {
		return s.finalizeFailed(order, input)
	}

	if !gw.VerifySignature(order.GatewayOrderID, input.GatewayPaymentID, input.GatewaySignature) {
		metrics.SignatureFailures.WithLabelValues(gw.Name()).Inc()
		s.audit.AddTask(worker.AuditTask{
			OrderID: order.ID,
			UserID:  callerID,
			Event:   model.AuditEventSignatureInvalid,
			Detail:  fmt.Sprintf("gateway=%s payment_id=%s", gw.Name(), input.GatewayPaymentID),
		})
		if logger.Log != nil {
			logger.Log.Warn("payment signature verification failed",
				zap.String("order_id", order.ID),
				zap.String("gateway", gw.Name()),
				zap.String("gateway_payment_id", input.GatewayPaymentID),
			)
		}
		// Order stays pending; the caller may retry with a correct
		// signature.
		return nil, ErrInvalidSignature
	}

	return s.finalizePaid(order, input)
}

// finalizePaid marks the order paid and applies the downstream effects
// in one transaction: no partial finalize.
func (s *paymentService) finalizePaid(order *model.Order, input FinalizeInput) (*model.Order, error) {
	var won bool
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		var err error
		won, err = s.repo.MarkPaid(tx, order.ID, input.GatewayPaymentID, input.GatewaySignature, time.Now())
		if err != nil {
			return err
		}
		if !won {
			// Lost the race to a concurrent finalize; nothing else to do.
			return nil
		}

		if order.PlanID != nil {
			if _, err := s.subscriptions.ActivateForOrder(tx, order.UserID, *order.PlanID, order.ID); err != nil {
				return err
			}
		}
		if order.CouponID != nil {
			if err := s.coupons.RedeemForOrder(tx, *order.CouponID, order.UserID, order.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if won {
		metrics.OrdersFinalized.WithLabelValues("paid").Inc()
		s.audit.AddTask(worker.AuditTask{
			OrderID: order.ID,
			UserID:  order.UserID,
			Event:   model.AuditEventOrderPaid,
			Detail:  fmt.Sprintf("gateway=%s payment_id=%s", order.Gateway, input.GatewayPaymentID),
		})
	} else {
		metrics.OrdersFinalized.WithLabelValues("conflict").Inc()
	}

	return s.repo.GetOrderByID(order.ID)
}

func (s *paymentService) finalizeFailed(order *model.Order, input FinalizeInput) (*model.Order, error) {
	var won bool
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		var err error
		won, err = s.repo.MarkFailed(tx, order.ID, input.GatewayPaymentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if won {
		metrics.OrdersFinalized.WithLabelValues("failed").Inc()
		s.audit.AddTask(worker.AuditTask{
			OrderID: order.ID,
			UserID:  order.UserID,
			Event:   model.AuditEventOrderFailed,
			Detail:  fmt.Sprintf("gateway=%s reported=%s", order.Gateway, input.ReportedStatus),
		})
	} else {
		metrics.OrdersFinalized.WithLabelValues("conflict").Inc()
	}

	return s.repo.GetOrderByID(order.ID)
}

// GetOrder returns an order scoped to its owner.
func (s *paymentService) GetOrder(orderID, callerID string) (*model.Order, error) {
	order, err := s.repo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != callerID {
		return nil, ErrForbidden
	}
	return order, nil
}
