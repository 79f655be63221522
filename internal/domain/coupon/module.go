package coupon

import (
	"studylib/internal/domain/coupon/handler"
	"studylib/internal/domain/coupon/repository"
	"studylib/internal/domain/coupon/service"
	"studylib/internal/pkg/middleware"
	"studylib/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CouponModule provides discount validation and admin coupon management.
type CouponModule struct{}

func init() {
	registry.Register(&CouponModule{})
}

func (m *CouponModule) Name() string {
	return "coupon"
}

func (m *CouponModule) Priority() int {
	return 20
}

func (m *CouponModule) Init(ctx *registry.ModuleContext) error {
	cRepo := repository.NewCouponRepository(ctx.DB)
	cService := service.NewCouponService(cRepo, ctx.Redis)
	cHandler := handler.NewCouponHandler(cService)

	setupRoutes(ctx.Router, cHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CouponHandler) {
	g := r.Group("/coupons")

	authorized := g.Group("")
	authorized.Use(middleware.AuthMiddleware())
	{
		authorized.POST("/validate", h.ValidateCoupon)

		admin := authorized.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("/", h.CreateCoupon)
			admin.GET("/:code", h.GetCoupon)
		}
	}
}
