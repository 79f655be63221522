package service

import (
	"time"

	"studylib/internal/domain/subscription/model"
	"studylib/internal/domain/subscription/repository"

	"gorm.io/gorm"
)

// SubscriptionService manages plans and activates subscriptions for paid
// orders.
type SubscriptionService interface {
	ListPlans() ([]model.Plan, error)
	GetPlan(id string) (*model.Plan, error)
	CreatePlan(plan *model.Plan) error
	GetActiveSubscription(userID string) (*model.Subscription, error)

	// ActivateForOrder runs inside the order finalizer's transaction.
	// end_date = start_date + plan duration.
	ActivateForOrder(tx *gorm.DB, userID, planID, orderID string) (*model.Subscription, error)
}

type subscriptionService struct {
	repo repository.SubscriptionRepository
}

func NewSubscriptionService(repo repository.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{repo: repo}
}

func (s *subscriptionService) ListPlans() ([]model.Plan, error) {
	return s.repo.ListActivePlans()
}

func (s *subscriptionService) GetPlan(id string) (*model.Plan, error) {
	return s.repo.GetPlanByID(id)
}

func (s *subscriptionService) CreatePlan(plan *model.Plan) error {
	return s.repo.CreatePlan(plan)
}

func (s *subscriptionService) GetActiveSubscription(userID string) (*model.Subscription, error) {
	return s.repo.GetActiveByUser(userID, time.Now())
}

func (s *subscriptionService) ActivateForOrder(tx *gorm.DB, userID, planID, orderID string) (*model.Subscription, error) {
	plan, err := s.repo.GetPlanByID(planID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	sub := &model.Subscription{
		UserID:    userID,
		PlanID:    plan.ID,
		OrderID:   orderID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, plan.DurationDays),
	}
	if err := s.repo.CreateSubscription(tx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}
