package payment

import (
	couponRepo "studylib/internal/domain/coupon/repository"
	couponService "studylib/internal/domain/coupon/service"
	"studylib/internal/domain/payment/gateway"
	"studylib/internal/domain/payment/handler"
	"studylib/internal/domain/payment/repository"
	"studylib/internal/domain/payment/service"
	subscriptionRepo "studylib/internal/domain/subscription/repository"
	subscriptionService "studylib/internal/domain/subscription/service"
	"studylib/internal/pkg/config"
	"studylib/internal/pkg/middleware"
	"studylib/internal/pkg/registry"
	"studylib/internal/pkg/worker"
	"studylib/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PaymentModule wires the order and verification engine.
type PaymentModule struct{}

func init() {
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	// Depends on coupon and subscription, so it initializes last.
	return 40
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	pRepo := repository.NewPaymentRepository(ctx.DB)

	cRepo := couponRepo.NewCouponRepository(ctx.DB)
	cService := couponService.NewCouponService(cRepo, ctx.Redis)

	sRepo := subscriptionRepo.NewSubscriptionRepository(ctx.DB)
	sService := subscriptionService.NewSubscriptionService(sRepo)

	audit := worker.NewAuditPool(pRepo, 2, 256)
	audit.Start()

	pService := service.NewPaymentService(pRepo, cService, sService, audit)

	// Register whichever gateway variants are configured.
	if config.GlobalConfig.Razorpay.KeyID != "" {
		gw, err := gateway.NewRazorpayGateway()
		if err != nil {
			logger.Log.Error("Failed to init Razorpay gateway: " + err.Error())
		} else {
			pService.RegisterGateway(gw)
		}
	}

	if config.GlobalConfig.Cashfree.ClientID != "" {
		gw, err := gateway.NewCashfreeGateway()
		if err != nil {
			logger.Log.Error("Failed to init Cashfree gateway: " + err.Error())
		} else {
			pService.RegisterGateway(gw)
		}
	}

	pHandler := handler.NewPaymentHandler(pService)

	setupRoutes(ctx.Router, pHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PaymentHandler) {
	g := r.Group("/payments")

	auth := g.Group("")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.POST("/orders", h.CreateOrder)
		auth.POST("/verify", h.VerifyPayment)
		auth.GET("/orders/:id", h.GetOrder)
	}
}
