package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	// Order statuses (seller-driven fulfilment flow)
	OrderStatusPending   OrderStatus = "PENDING"   // Order placed, awaiting confirmation
	OrderStatusConfirmed OrderStatus = "CONFIRMED" // Confirmed by seller
	OrderStatusShipped   OrderStatus = "SHIPPED"   // Out for delivery
	OrderStatusDelivered OrderStatus = "DELIVERED" // Customer received the item
	OrderStatusCancelled OrderStatus = "CANCELLED" // Cancelled before shipping

	// Payment statuses
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// orderTransitions is the full set of legal status transitions. DELIVERED and
// CANCELLED are terminal: they have no outgoing edges.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

// CanTransitionTo reports whether next is a legal transition from s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are permitted from s.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// ParseOrderStatus validates an incoming status string.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// PaymentDetails is embedded in Order. Status flips to COMPLETED only as a
// side effect of settling the owning PaymentOrder.
type PaymentDetails struct {
	Status        PaymentStatus `gorm:"type:VARCHAR(20);default:'PENDING'" json:"status"`
	TransactionID string        `json:"transaction_id"`
	LinkID        string        `json:"link_id"`
}

type Order struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UserID            uint           `gorm:"index;not null" json:"user_id"`
	User              User           `gorm:"foreignKey:UserID" json:"-"`
	SellerID          uint           `gorm:"index;not null" json:"seller_id"`
	ShippingAddressID uint           `json:"shipping_address_id"`
	ShippingAddress   Address        `gorm:"foreignKey:ShippingAddressID" json:"shipping_address"`
	Items             []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalMrpPrice     int64          `json:"total_mrp_price"`
	TotalSellingPrice int64          `json:"total_selling_price"`
	TotalItem         int            `json:"total_item"`
	OrderStatus       OrderStatus    `gorm:"type:VARCHAR(20);default:'PENDING'" json:"order_status"`
	PaymentDetails    PaymentDetails `gorm:"embedded;embeddedPrefix:payment_" json:"payment_details"`
	OrderDate         time.Time      `json:"order_date"`
}

// OrderItem is an immutable snapshot of a cart line at order-creation time.
// Later catalog price changes do not affect historical orders.
type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"index" json:"order_id"`
	ProductID    uint    `json:"product_id"`
	Product      Product `gorm:"foreignKey:ProductID" json:"product"`
	Size         string  `json:"size"`
	Quantity     int     `json:"quantity"`
	MrpPrice     int64   `json:"mrp_price"`
	SellingPrice int64   `json:"selling_price"`
}
