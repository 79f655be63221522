package repository

import (
	"time"

	"studylib/internal/domain/subscription/model"

	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	CreatePlan(plan *model.Plan) error
	GetPlanByID(id string) (*model.Plan, error)
	ListActivePlans() ([]model.Plan, error)

	// CreateSubscription inserts inside tx so activation commits or
	// rolls back together with the order's paid transition.
	CreateSubscription(tx *gorm.DB, sub *model.Subscription) error
	GetActiveByUser(userID string, now time.Time) (*model.Subscription, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) CreatePlan(plan *model.Plan) error {
	return r.db.Create(plan).Error
}

func (r *subscriptionRepository) GetPlanByID(id string) (*model.Plan, error) {
	var plan model.Plan
	if err := r.db.Where("id = ?", id).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *subscriptionRepository) ListActivePlans() ([]model.Plan, error) {
	var plans []model.Plan
	err := r.db.Where("active = ?", true).Order("price asc").Find(&plans).Error
	return plans, err
}

func (r *subscriptionRepository) CreateSubscription(tx *gorm.DB, sub *model.Subscription) error {
	return tx.Create(sub).Error
}

func (r *subscriptionRepository) GetActiveByUser(userID string, now time.Time) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("user_id = ? AND start_date <= ? AND end_date > ?", userID, now, now).
		Order("end_date desc").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
