package handler

import (
	"errors"
	"net/http"

	"studylib/internal/domain/subscription/model"
	"studylib/internal/domain/subscription/service"
	"studylib/internal/pkg/middleware"
	"studylib/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SubscriptionHandler struct {
	service service.SubscriptionService
}

func NewSubscriptionHandler(s service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: s}
}

// ListPlans returns active membership plans.
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.service.ListPlans()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, plans)
}

type CreatePlanInput struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	DurationDays int    `json:"durationDays" binding:"required,min=1"`
	Price        int64  `json:"price" binding:"required,gt=0"`
}

// CreatePlan creates a membership plan (admin).
func (h *SubscriptionHandler) CreatePlan(c *gin.Context) {
	var input CreatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	plan := &model.Plan{
		Name:         input.Name,
		Description:  input.Description,
		DurationDays: input.DurationDays,
		Price:        input.Price,
		Active:       true,
	}
	if err := h.service.CreatePlan(plan); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, plan)
}

// MySubscription returns the caller's current active subscription.
func (h *SubscriptionHandler) MySubscription(c *gin.Context) {
	sub, err := h.service.GetActiveSubscription(middleware.CallerID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Success(c, nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, sub)
}
