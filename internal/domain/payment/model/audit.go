package model

import (
	baseModel "studylib/pkg/model"
)

// PaymentAudit is one payment lifecycle event, written asynchronously.
// Signature failures land here with enough context to audit a forged
// callback, never including the secret or the expected signature.
type PaymentAudit struct {
	baseModel.BaseModel
	OrderID string `gorm:"type:uuid;index" json:"orderId"`
	UserID  string `gorm:"type:uuid;index" json:"userId"`
	Event   string `gorm:"type:varchar(50);not null" json:"event"`
	Detail  string `gorm:"type:varchar(500)" json:"detail"`
}

const (
	AuditEventSignatureInvalid = "signature_invalid"
	AuditEventOrderPaid        = "order_paid"
	AuditEventOrderFailed      = "order_failed"
)
