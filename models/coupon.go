package models

import "time"

type Coupon struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Code              string    `gorm:"uniqueIndex;not null" json:"code"`
	DiscountAmount    int64     `gorm:"not null" json:"discount_amount"`
	MinimumOrderValue int64     `json:"minimum_order_value"`
	Active            bool      `gorm:"default:true" json:"active"`
	CreatedAt         time.Time `json:"created_at"`
}
