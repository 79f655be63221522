package user

import (
	"studylib/internal/domain/user/handler"
	"studylib/internal/domain/user/repository"
	"studylib/internal/domain/user/service"
	"studylib/internal/pkg/middleware"
	"studylib/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// UserModule provides member accounts and authentication.
type UserModule struct{}

func init() {
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	return 10
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	uRepo := repository.NewUserRepository(ctx.DB)
	uService := service.NewUserService(uRepo)
	uHandler := handler.NewUserHandler(uService)

	setupRoutes(ctx.Router, uHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.UserHandler) {
	g := r.Group("/users")

	g.POST("/register", h.Register)
	g.POST("/login", h.Login)

	auth := g.Group("")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.GET("/me", h.Me)
	}
}
