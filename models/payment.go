package models

import "time"

type PaymentOrderStatus string
type PaymentMethod string

const (
	PaymentOrderStatusPending PaymentOrderStatus = "PENDING"
	PaymentOrderStatusSuccess PaymentOrderStatus = "SUCCESS"
	PaymentOrderStatusFailed  PaymentOrderStatus = "FAILED"

	PaymentMethodRazorpay PaymentMethod = "RAZORPAY"
	PaymentMethodStripe   PaymentMethod = "STRIPE"
)

// PaymentOrder is the payable unit for one checkout: one provider transaction
// covering every per-seller order created from the cart. Status leaves
// PENDING exactly once; member orders' payment status changes only as a side
// effect of that transition.
type PaymentOrder struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	UserID        uint               `gorm:"index;not null" json:"user_id"`
	User          User               `gorm:"foreignKey:UserID" json:"-"`
	Amount        int64              `gorm:"not null" json:"amount"`
	Status        PaymentOrderStatus `gorm:"type:VARCHAR(20);default:'PENDING'" json:"status"`
	PaymentMethod PaymentMethod      `gorm:"type:VARCHAR(20)" json:"payment_method"`
	PaymentLinkID string             `gorm:"index" json:"payment_link_id"`
	Orders        []Order            `gorm:"many2many:payment_order_orders" json:"orders"`
	CreatedAt     time.Time          `json:"created_at"`
}
