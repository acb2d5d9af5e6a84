package models

import "time"

// Transaction is a write-once audit record linking a customer, one settled
// order and its seller. Rows are created during settlement and never updated.
type Transaction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"index;not null" json:"customer_id"`
	Customer   User      `gorm:"foreignKey:CustomerID" json:"-"`
	OrderID    uint      `gorm:"uniqueIndex;not null" json:"order_id"`
	Order      Order     `gorm:"foreignKey:OrderID" json:"-"`
	SellerID   uint      `gorm:"index;not null" json:"seller_id"`
	Date       time.Time `json:"date"`
}
