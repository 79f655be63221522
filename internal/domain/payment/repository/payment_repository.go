package repository

import (
	"time"

	"studylib/internal/domain/payment/model"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	CreateOrder(order *model.Order) error
	GetOrderByID(id string) (*model.Order, error)

	// MarkPaid performs the conditional pending→paid transition inside
	// tx. Returns false when the order was not pending anymore, in which
	// case the caller lost the race and must reload.
	MarkPaid(tx *gorm.DB, orderID, paymentID, signature string, paidAt time.Time) (bool, error)

	// MarkFailed performs the conditional pending→failed transition.
	MarkFailed(tx *gorm.DB, orderID, paymentID string) (bool, error)

	Transaction(fn func(tx *gorm.DB) error) error

	CreateAuditEvent(event *model.PaymentAudit) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreateOrder(order *model.Order) error {
	return r.db.Create(order).Error
}

func (r *paymentRepository) GetOrderByID(id string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkPaid guards on status = pending so at most one caller ever wins
// the transition, no matter how many times the callback is delivered.
func (r *paymentRepository) MarkPaid(tx *gorm.DB, orderID, paymentID, signature string, paidAt time.Time) (bool, error) {
	result := tx.Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":             model.OrderStatusPaid,
			"gateway_payment_id": paymentID,
			"gateway_signature":  signature,
			"paid_at":            paidAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *paymentRepository) MarkFailed(tx *gorm.DB, orderID, paymentID string) (bool, error) {
	result := tx.Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":             model.OrderStatusFailed,
			"gateway_payment_id": paymentID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *paymentRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func (r *paymentRepository) CreateAuditEvent(event *model.PaymentAudit) error {
	return r.db.Create(event).Error
}
