package service

import (
	"testing"
	"time"

	"studylib/internal/domain/subscription/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockSubscriptionRepository is a mock of SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) CreatePlan(plan *model.Plan) error {
	args := m.Called(plan)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) GetPlanByID(id string) (*model.Plan, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plan), args.Error(1)
}

func (m *MockSubscriptionRepository) ListActivePlans() ([]model.Plan, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Plan), args.Error(1)
}

func (m *MockSubscriptionRepository) CreateSubscription(tx *gorm.DB, sub *model.Subscription) error {
	args := m.Called(tx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) GetActiveByUser(userID string, now time.Time) (*model.Subscription, error) {
	args := m.Called(userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func TestActivateForOrder(t *testing.T) {
	t.Run("end date is start date plus plan duration", func(t *testing.T) {
		mockRepo := new(MockSubscriptionRepository)
		service := NewSubscriptionService(mockRepo)

		plan := &model.Plan{Name: "Monthly", DurationDays: 30, Price: 49900, Active: true}
		plan.ID = "plan-1"
		mockRepo.On("GetPlanByID", "plan-1").Return(plan, nil)
		mockRepo.On("CreateSubscription", mock.Anything, mock.AnythingOfType("*model.Subscription")).Return(nil)

		sub, err := service.ActivateForOrder(nil, "user-1", "plan-1", "order-1")

		assert.NoError(t, err)
		assert.Equal(t, "user-1", sub.UserID)
		assert.Equal(t, "plan-1", sub.PlanID)
		assert.Equal(t, "order-1", sub.OrderID)
		assert.Equal(t, sub.StartDate.AddDate(0, 0, 30), sub.EndDate)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown plan", func(t *testing.T) {
		mockRepo := new(MockSubscriptionRepository)
		service := NewSubscriptionService(mockRepo)

		mockRepo.On("GetPlanByID", "nope").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.ActivateForOrder(nil, "user-1", "nope", "order-1")

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
	})
}

func TestListPlans(t *testing.T) {
	mockRepo := new(MockSubscriptionRepository)
	service := NewSubscriptionService(mockRepo)

	plans := []model.Plan{
		{Name: "Monthly", DurationDays: 30, Price: 49900, Active: true},
		{Name: "Yearly", DurationDays: 365, Price: 499900, Active: true},
	}
	mockRepo.On("ListActivePlans").Return(plans, nil)

	got, err := service.ListPlans()

	assert.NoError(t, err)
	assert.Len(t, got, 2)
}
