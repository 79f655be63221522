package subscription

import (
	"studylib/internal/domain/subscription/handler"
	"studylib/internal/domain/subscription/repository"
	"studylib/internal/domain/subscription/service"
	"studylib/internal/pkg/middleware"
	"studylib/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// SubscriptionModule provides membership plans and subscriptions.
type SubscriptionModule struct{}

func init() {
	registry.Register(&SubscriptionModule{})
}

func (m *SubscriptionModule) Name() string {
	return "subscription"
}

func (m *SubscriptionModule) Priority() int {
	return 30
}

func (m *SubscriptionModule) Init(ctx *registry.ModuleContext) error {
	sRepo := repository.NewSubscriptionRepository(ctx.DB)
	sService := service.NewSubscriptionService(sRepo)
	sHandler := handler.NewSubscriptionHandler(sService)

	setupRoutes(ctx.Router, sHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.SubscriptionHandler) {
	plans := r.Group("/plans")
	plans.GET("/", h.ListPlans)

	admin := plans.Group("")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/", h.CreatePlan)
	}

	subs := r.Group("/subscriptions")
	subs.Use(middleware.AuthMiddleware())
	{
		subs.GET("/me", h.MySubscription)
	}
}
